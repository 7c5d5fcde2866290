// interfaces.go - Handler and collaborator interfaces for clean separation of concerns
package api

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/tilewx/backend/internal/models"
	"github.com/tilewx/backend/internal/weather"
)

// HealthHandler handles health check operations
type HealthHandler interface {
	HandleHealth(c echo.Context) error
}

// SearchHandler handles location search
type SearchHandler interface {
	HandleSearch(c echo.Context) error
}

// ShareHandler handles share creation and loading
type ShareHandler interface {
	HandleCreateShare(c echo.Context) error
	HandleCreateLegacyLink(c echo.Context) error
	HandleLoadShare(c echo.Context) error
	HandleLoadShareMsgpack(c echo.Context) error
}

// WeatherHandler handles forecast lookups
type WeatherHandler interface {
	HandleWeather(c echo.Context) error
}

// Searcher is implemented by *geocoding.Service
type Searcher interface {
	Search(ctx context.Context, query string) ([]models.SearchCandidate, error)
}

// ShareCodec is implemented by *share.Codec
type ShareCodec interface {
	Encode(ctx context.Context, entries []models.LocationEntry) (string, error)
	Decode(ctx context.Context, token string) []models.LocationEntry
}

// Forecaster is implemented by *weather.Client
type Forecaster interface {
	Fetch(ctx context.Context, lat, lon float64, unit weather.Unit) (*models.WeatherData, error)
}
