package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/tilewx/backend/internal/api"
	"github.com/tilewx/backend/internal/config"
	"github.com/tilewx/backend/internal/geocoding"
	"github.com/tilewx/backend/internal/logging"
	"github.com/tilewx/backend/internal/share"
	"github.com/tilewx/backend/internal/storage"
	"github.com/tilewx/backend/internal/weather"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	configFlag := flag.String("config", "", "configuration file (default: tilewx.yaml next to the executable)")
	flag.Parse()

	configPath := *configFlag
	if configPath == "" {
		// Get the executable's directory for config resolution
		exePath, err := os.Executable()
		if err != nil {
			fmt.Printf("Failed to get executable path: %v\n", err)
			os.Exit(1)
		}
		configPath = filepath.Join(filepath.Dir(exePath), "tilewx.yaml")
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Ensure all data directories exist
	if err := cfg.EnsureDirectories(); err != nil {
		fmt.Printf("Failed to create directories: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	log := logging.Component(logger, "server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize share storage
	shareStore, err := storage.Open(ctx, cfg.StorageOptions(), logger)
	if err != nil {
		log.WithError(err).Fatal("failed to initialize share storage")
	}
	defer func() {
		if err := shareStore.Close(); err != nil {
			log.WithError(err).Warn("failed to close share storage")
		}
	}()

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout()}

	geocoder := geocoding.NewClient(geocoding.ClientOptions{
		BaseURL:    cfg.Upstream.GeocodingURL,
		Language:   cfg.Upstream.Language,
		HTTPClient: httpClient,
		CacheTTL:   cfg.GeocodingCacheTTL(),
		CacheSize:  cfg.Upstream.GeocodingCacheItems,
		Logger:     logger,
	})

	handlers := api.NewHandlers(&api.Dependencies{
		Search:       geocoding.NewService(geocoder, logger),
		Codec:        share.NewCodec(shareStore, logger),
		Forecaster:   weather.NewClient(cfg.Upstream.ForecastURL, httpClient, logger),
		PublicURL:    cfg.Server.PublicURL,
		ShareBackend: cfg.Storage.ShareBackend,
		Version:      Version,
		Logger:       logger,
	})

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	api.SetupMiddleware(e, api.MiddlewareConfig{
		RequestLogging:    cfg.Logging.EnableRequestLogging,
		RequestTimeout:    time.Duration(cfg.Server.RequestTimeoutSeconds) * time.Second,
		EnableCompression: cfg.Server.EnableCompression,
		BodyLimit:         cfg.Server.BodyLimit,
		EnableCORS:        cfg.Server.EnableCORS,
		AllowOrigins:      cfg.Server.AllowOrigins,
		ShowErrorDetails:  cfg.Logging.Level == "debug",
	}, logger)
	api.RegisterRoutes(e, handlers)

	// Configure server with settings from config
	s := &http.Server{
		Addr:         cfg.GetServerAddr(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeoutSeconds) * time.Second,
	}

	fmt.Printf("\n")
	fmt.Printf("╔═══════════════════════════════════════════════════════════╗\n")
	fmt.Printf("║           Weather Tiles Server                            ║\n")
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Version:    %-45s║\n", Version)
	fmt.Printf("║  Build Time: %-45s║\n", BuildTime)
	fmt.Printf("║  Shares:     %-45s║\n", cfg.Storage.ShareBackend)
	fmt.Printf("╠═══════════════════════════════════════════════════════════╣\n")
	fmt.Printf("║  Config:    %-46s║\n", configPath)
	fmt.Printf("║  Listen:    http://%-38s║\n", cfg.GetServerAddr())
	fmt.Printf("║  Data Dir:  %-46s║\n", cfg.GetDataDir())
	fmt.Printf("╚═══════════════════════════════════════════════════════════╝\n")
	fmt.Printf("\n")

	go func() {
		if err := e.StartServer(s); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("graceful shutdown failed")
	}
}
