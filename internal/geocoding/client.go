package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/maypok86/otter/v2"
	"github.com/sirupsen/logrus"
	"github.com/tilewx/backend/internal/logging"
	"github.com/tilewx/backend/internal/models"
)

// DefaultBaseURL is the Open-Meteo geocoding search endpoint.
const DefaultBaseURL = "https://geocoding-api.open-meteo.com/v1/search"

// HTTPClient is the subset of *http.Client used by the lookup.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientOptions configures a Client. Zero values pick sensible defaults.
type ClientOptions struct {
	BaseURL    string
	Language   string
	HTTPClient HTTPClient
	CacheTTL   time.Duration // 0 disables caching
	CacheSize  int
	Logger     *logrus.Logger
}

// Client queries the Open-Meteo geocoding API.
type Client struct {
	baseURL    string
	language   string
	httpClient HTTPClient
	cache      *otter.Cache[string, []models.SearchCandidate]
	log        *logrus.Entry
}

// NewClient creates a geocoding client.
func NewClient(opts ClientOptions) *Client {
	c := &Client{
		baseURL:    opts.BaseURL,
		language:   opts.Language,
		httpClient: opts.HTTPClient,
		log:        logging.Component(opts.Logger, "geocoding"),
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.language == "" {
		c.language = "en"
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if opts.CacheTTL > 0 {
		size := opts.CacheSize
		if size <= 0 {
			size = 10_000
		}
		c.cache = otter.Must(&otter.Options[string, []models.SearchCandidate]{
			MaximumSize:      size,
			ExpiryCalculator: otter.ExpiryWriting[string, []models.SearchCandidate](opts.CacheTTL),
		})
	}
	return c
}

// apiResult mirrors one record of the geocoding response. Optional fields are pointers.
type apiResult struct {
	Name      string  `json:"name"`
	Country   *string `json:"country"`
	Admin1    *string `json:"admin1"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  *string `json:"timezone"`
}

type apiResponse struct {
	Results []apiResult `json:"results"`
}

// Lookup fetches up to count candidates for name, in the order the API ranks them.
func (c *Client) Lookup(ctx context.Context, name string, count int) ([]models.SearchCandidate, error) {
	params := url.Values{}
	params.Set("name", name)
	params.Set("count", strconv.Itoa(count))
	params.Set("language", c.language)
	params.Set("format", "json")
	apiURL := c.baseURL + "?" + params.Encode()

	if c.cache != nil {
		if cached, ok := c.cache.GetIfPresent(apiURL); ok {
			c.log.WithField("name", name).Debug("geocoding cache hit")
			return cloneCandidates(cached), nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("building geocoding request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling geocoding API: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close response body")
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		c.log.WithFields(logrus.Fields{"name": name, "status": resp.StatusCode}).Warn("geocoding lookup failed")
		return nil, &SearchFailedError{Status: resp.StatusCode}
	}

	var data apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("decoding geocoding response: %w", err)
	}

	candidates := make([]models.SearchCandidate, 0, len(data.Results))
	for _, r := range data.Results {
		candidates = append(candidates, models.SearchCandidate{
			Name:      r.Name,
			Country:   stringOr(r.Country, ""),
			Admin1:    stringOr(r.Admin1, ""),
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
			Timezone:  timezoneOrAuto(r.Timezone),
		})
	}

	if c.cache != nil {
		c.cache.Set(apiURL, cloneCandidates(candidates))
	}
	c.log.WithFields(logrus.Fields{"name": name, "count": count, "results": len(candidates)}).Debug("geocoding lookup done")
	return candidates, nil
}

func stringOr(s *string, def string) string {
	if s == nil {
		return def
	}
	return *s
}

func timezoneOrAuto(tz *string) string {
	if tz == nil || *tz == "" {
		return models.TimezoneAuto
	}
	return *tz
}

func cloneCandidates(in []models.SearchCandidate) []models.SearchCandidate {
	out := make([]models.SearchCandidate, len(in))
	copy(out, in)
	return out
}
