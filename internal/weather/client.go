// Package weather fetches forecasts and formats them for display.
package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tilewx/backend/internal/logging"
	"github.com/tilewx/backend/internal/models"
)

// DefaultBaseURL is the Open-Meteo forecast endpoint.
const DefaultBaseURL = "https://api.open-meteo.com/v1/forecast"

// ForecastDays is the number of daily entries requested, today included.
const ForecastDays = 6

const (
	currentFields = "temperature_2m,weathercode,windspeed_10m,apparent_temperature,relativehumidity_2m"
	dailyFields   = "weathercode,temperature_2m_max,temperature_2m_min,precipitation_probability_max"
)

// FetchFailedError is returned when the forecast API answers with a non-success status.
type FetchFailedError struct {
	Status int
}

func (e *FetchFailedError) Error() string {
	return fmt.Sprintf("weather fetch error: %d", e.Status)
}

// HTTPClient is the subset of *http.Client used by Client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client queries the Open-Meteo forecast API.
type Client struct {
	baseURL    string
	httpClient HTTPClient
	log        *logrus.Entry
}

// NewClient creates a forecast client. Empty baseURL and nil httpClient pick defaults.
func NewClient(baseURL string, httpClient HTTPClient, logger *logrus.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		log:        logging.Component(logger, "weather"),
	}
}

type forecastResponse struct {
	Current struct {
		Temperature float64 `json:"temperature_2m"`
		WeatherCode int     `json:"weathercode"`
		WindSpeed   float64 `json:"windspeed_10m"`
		FeelsLike   float64 `json:"apparent_temperature"`
		Humidity    float64 `json:"relativehumidity_2m"`
	} `json:"current"`
	CurrentUnits struct {
		Temperature string `json:"temperature_2m"`
		WindSpeed   string `json:"windspeed_10m"`
	} `json:"current_units"`
	Daily struct {
		Time        []string   `json:"time"`
		WeatherCode []int      `json:"weathercode"`
		TempMax     []float64  `json:"temperature_2m_max"`
		TempMin     []float64  `json:"temperature_2m_min"`
		PrecipProb  []*float64 `json:"precipitation_probability_max"`
	} `json:"daily"`
}

// Fetch returns current conditions and a ForecastDays daily forecast for the
// coordinates. Wind speed is always in mph; temperature follows unit.
func (c *Client) Fetch(ctx context.Context, lat, lon float64, unit Unit) (*models.WeatherData, error) {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("current", currentFields)
	params.Set("daily", dailyFields)
	params.Set("temperature_unit", string(unit))
	params.Set("wind_speed_unit", "mph")
	params.Set("timezone", models.TimezoneAuto)
	params.Set("forecast_days", strconv.Itoa(ForecastDays))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("building forecast request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling forecast API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		c.log.WithFields(logrus.Fields{"lat": lat, "lon": lon, "status": resp.StatusCode}).Warn("forecast fetch failed")
		return nil, &FetchFailedError{Status: resp.StatusCode}
	}

	var data forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decoding forecast response: %w", err)
	}

	return &models.WeatherData{
		Current: models.CurrentConditions{
			Temperature: data.Current.Temperature,
			FeelsLike:   data.Current.FeelsLike,
			Humidity:    data.Current.Humidity,
			WindSpeed:   data.Current.WindSpeed,
			WeatherCode: data.Current.WeatherCode,
		},
		Daily: models.DailyForecast{
			Time:        data.Daily.Time,
			WeatherCode: data.Daily.WeatherCode,
			TempMax:     data.Daily.TempMax,
			TempMin:     data.Daily.TempMin,
			PrecipProb:  data.Daily.PrecipProb,
		},
		Units: models.WeatherUnits{
			Temperature: data.CurrentUnits.Temperature,
			WindSpeed:   data.CurrentUnits.WindSpeed,
		},
	}, nil
}
