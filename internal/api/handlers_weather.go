// handlers_weather.go - Forecast handlers
package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/tilewx/backend/internal/models"
	"github.com/tilewx/backend/internal/weather"
)

// WeatherHandlerImpl implements the WeatherHandler interface
type WeatherHandlerImpl struct {
	forecaster Forecaster
}

// NewWeatherHandler creates a new weather handler
func NewWeatherHandler(forecaster Forecaster) WeatherHandler {
	return &WeatherHandlerImpl{forecaster: forecaster}
}

type currentView struct {
	weather.Info
	Temperature string  `json:"temperature"`
	FeelsLike   string  `json:"feelsLike"`
	Humidity    float64 `json:"humidity"`
	WindSpeed   float64 `json:"windspeed"`
}

type dayView struct {
	weather.Info
	Date       string   `json:"date"`
	High       string   `json:"high"`
	Low        string   `json:"low"`
	PrecipProb *float64 `json:"precipProb"`
}

type weatherResponse struct {
	Unit    weather.Unit        `json:"unit"`
	Current currentView         `json:"current"`
	Daily   []dayView           `json:"daily"`
	Raw     *models.WeatherData `json:"raw"`
}

// HandleWeather returns the forecast for ?lat=&lon= with display strings filled in
func (h *WeatherHandlerImpl) HandleWeather(c echo.Context) error {
	lat, err := strconv.ParseFloat(c.QueryParam("lat"), 64)
	if err != nil || !validCoordinate(lat, 90) {
		return NewValidationError("lat")
	}
	lon, err := strconv.ParseFloat(c.QueryParam("lon"), 64)
	if err != nil || !validCoordinate(lon, 180) {
		return NewValidationError("lon")
	}
	unit, err := weather.ParseUnit(c.QueryParam("unit"))
	if err != nil {
		return NewBadRequestError("invalid unit", err)
	}

	data, err := h.forecaster.Fetch(c.Request().Context(), lat, lon, unit)
	if err != nil {
		var fetchErr *weather.FetchFailedError
		if errors.As(err, &fetchErr) {
			return NewUpstreamError("WEATHER_FETCH_FAILED", "forecast provider returned an error", err)
		}
		return NewUpstreamError("WEATHER_FETCH_FAILED", "forecast provider unavailable", err)
	}

	return c.JSON(http.StatusOK, buildWeatherResponse(data, unit))
}

func buildWeatherResponse(data *models.WeatherData, unit weather.Unit) weatherResponse {
	resp := weatherResponse{
		Unit: unit,
		Current: currentView{
			Info:        weather.Describe(data.Current.WeatherCode),
			Temperature: weather.FormatTemp(&data.Current.Temperature, unit),
			FeelsLike:   weather.FormatTemp(&data.Current.FeelsLike, unit),
			Humidity:    data.Current.Humidity,
			WindSpeed:   data.Current.WindSpeed,
		},
		Daily: make([]dayView, 0, len(data.Daily.Time)),
		Raw:   data,
	}

	d := data.Daily
	for i, date := range d.Time {
		day := dayView{Date: date, High: weather.Placeholder, Low: weather.Placeholder, Info: weather.Describe(-1)}
		if i < len(d.WeatherCode) {
			day.Info = weather.Describe(d.WeatherCode[i])
		}
		if i < len(d.TempMax) {
			day.High = weather.FormatTemp(&d.TempMax[i], unit)
		}
		if i < len(d.TempMin) {
			day.Low = weather.FormatTemp(&d.TempMin[i], unit)
		}
		if i < len(d.PrecipProb) {
			day.PrecipProb = d.PrecipProb[i]
		}
		resp.Daily = append(resp.Daily, day)
	}
	return resp
}
