// routes.go - Route registration helpers
// This file provides a clean way to register all API routes
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

// Dependencies holds all handler dependencies
type Dependencies struct {
	Search       Searcher
	Codec        ShareCodec
	Forecaster   Forecaster
	PublicURL    string
	ShareBackend string
	Version      string
	Logger       *logrus.Logger
}

// Handlers holds all handler instances
type Handlers struct {
	Health  HealthHandler
	Search  SearchHandler
	Share   ShareHandler
	Weather WeatherHandler
}

// NewHandlers creates all handler instances
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(deps.Version, deps.ShareBackend),
		Search:  NewSearchHandler(deps.Search),
		Share:   NewShareHandler(deps.Codec, deps.PublicURL, deps.Logger),
		Weather: NewWeatherHandler(deps.Forecaster),
	}
}

// RegisterRoutes registers all API routes with the Echo instance
func RegisterRoutes(e *echo.Echo, handlers *Handlers) {
	apiGroup := e.Group("/api")

	// Health check
	apiGroup.GET("/health", handlers.Health.HandleHealth)

	// Location search
	apiGroup.GET("/locations/search", handlers.Search.HandleSearch)

	// Shares
	shareGroup := apiGroup.Group("/shares")
	shareGroup.POST("", handlers.Share.HandleCreateShare)
	shareGroup.POST("/legacy", handlers.Share.HandleCreateLegacyLink)
	shareGroup.GET("", handlers.Share.HandleLoadShare)
	shareGroup.GET("/msgpack", handlers.Share.HandleLoadShareMsgpack)

	// Forecast
	apiGroup.GET("/weather", handlers.Weather.HandleWeather)
}

// MiddlewareConfig carries the server settings the middleware stack needs
type MiddlewareConfig struct {
	RequestLogging    bool
	RequestTimeout    time.Duration
	EnableCompression bool
	BodyLimit         string
	EnableCORS        bool
	AllowOrigins      string
	ShowErrorDetails  bool
}

// SetupMiddleware configures common middleware
func SetupMiddleware(e *echo.Echo, cfg MiddlewareConfig, logger *logrus.Logger) {
	e.HTTPErrorHandler = NewErrorHandler(logger, cfg.ShowErrorDetails)

	e.Use(middleware.RequestID())

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			return !cfg.RequestLogging || c.Request().URL.Path == "/api/health"
		},
	}))

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 1024 * 4,
	}))

	if cfg.RequestTimeout > 0 {
		e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
			Timeout:      cfg.RequestTimeout,
			ErrorMessage: "Request timeout - upstream took too long",
		}))
	}

	if cfg.EnableCompression {
		e.Use(middleware.Gzip())
	}

	if cfg.BodyLimit != "" {
		e.Use(middleware.BodyLimit(cfg.BodyLimit))
	}

	if cfg.EnableCORS {
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: splitOrigins(cfg.AllowOrigins),
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		}))
	}
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}
