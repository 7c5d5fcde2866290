// Package config provides YAML-based configuration for the server and CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/tilewx/backend/internal/storage"
	"gopkg.in/yaml.v3"
)

// AppConfig represents the root configuration document
type AppConfig struct {
	// Server configuration
	Server ServerConfig `yaml:"server"`

	// Share storage configuration
	Storage StorageConfig `yaml:"storage"`

	// Upstream API configuration
	Upstream UpstreamConfig `yaml:"upstream"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port                  int    `yaml:"port"`
	BindAddress           string `yaml:"bind_address"`
	PublicURL             string `yaml:"public_url"` // base of generated share links
	EnableCORS            bool   `yaml:"enable_cors"`
	AllowOrigins          string `yaml:"allow_origins"`
	ReadTimeoutSeconds    int    `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds   int    `yaml:"write_timeout_seconds"`
	IdleTimeoutSeconds    int    `yaml:"idle_timeout_seconds"`
	RequestTimeoutSeconds int    `yaml:"request_timeout_seconds"`
	BodyLimit             string `yaml:"body_limit"`
	EnableCompression     bool   `yaml:"enable_compression"`
}

// StorageConfig selects the share backend
type StorageConfig struct {
	DataDirectory  string `yaml:"data_directory"`
	ShareBackend   string `yaml:"share_backend"` // memory, duckdb, sqlite, dynamodb
	DatabaseFile   string `yaml:"database_file"` // defaults to <data_directory>/shares.<backend>
	DynamoTable    string `yaml:"dynamodb_table"`
	DynamoRegion   string `yaml:"dynamodb_region"`
	DynamoEndpoint string `yaml:"dynamodb_endpoint"`
}

// UpstreamConfig points at the geocoding and forecast providers
type UpstreamConfig struct {
	GeocodingURL        string `yaml:"geocoding_url"`
	ForecastURL         string `yaml:"forecast_url"`
	Language            string `yaml:"language"`
	HTTPTimeoutSeconds  int    `yaml:"http_timeout_seconds"`
	GeocodingCacheTTL   int    `yaml:"geocoding_cache_ttl_seconds"` // 0 disables the cache
	GeocodingCacheItems int    `yaml:"geocoding_cache_items"`
}

// LoggingConfig contains logger settings
type LoggingConfig struct {
	Level                string `yaml:"level"`
	Format               string `yaml:"format"` // text or json
	EnableRequestLogging bool   `yaml:"enable_request_logging"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:                  8089,
			BindAddress:           "0.0.0.0",
			PublicURL:             "http://localhost:8089/",
			EnableCORS:            true,
			AllowOrigins:          "*",
			ReadTimeoutSeconds:    30,
			WriteTimeoutSeconds:   30,
			IdleTimeoutSeconds:    120,
			RequestTimeoutSeconds: 15,
			BodyLimit:             "1M",
			EnableCompression:     true,
		},
		Storage: StorageConfig{
			DataDirectory: "./data",
			ShareBackend:  storage.BackendDuckDB,
		},
		Upstream: UpstreamConfig{
			GeocodingURL:        "https://geocoding-api.open-meteo.com/v1/search",
			ForecastURL:         "https://api.open-meteo.com/v1/forecast",
			Language:            "en",
			HTTPTimeoutSeconds:  10,
			GeocodingCacheTTL:   300,
			GeocodingCacheItems: 10_000,
		},
		Logging: LoggingConfig{
			Level:                "info",
			Format:               "text",
			EnableRequestLogging: true,
		},
	}
}

// LoadConfig loads configuration from a YAML file, writing the defaults
// there first if it does not exist yet.
func LoadConfig(configPath string) (*AppConfig, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(configPath)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err := config.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		// unmarshal over the defaults so missing keys keep their default value
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	config.applyEnvironmentOverrides()
	config.resolvePaths(filepath.Dir(configPath))

	return config, nil
}

// Save saves the configuration to a YAML file
func (c *AppConfig) Save(configPath string) error {
	output, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte("# Weather tiles configuration\n# This file is auto-generated on first run\n\n")
	content := append(header, output...)

	if dir := filepath.Dir(configPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(configPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// applyEnvironmentOverrides allows environment variables to override config values
func (c *AppConfig) applyEnvironmentOverrides() {
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	if dataDir := os.Getenv("DATA_DIR"); dataDir != "" {
		c.Storage.DataDirectory = dataDir
	}

	if backend := os.Getenv("SHARE_BACKEND"); backend != "" {
		c.Storage.ShareBackend = backend
	}

	if table := os.Getenv("DYNAMODB_TABLE"); table != "" {
		c.Storage.DynamoTable = table
	}

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}

	if publicURL := os.Getenv("PUBLIC_URL"); publicURL != "" {
		c.Server.PublicURL = publicURL
	}
}

// resolvePaths converts relative paths to absolute based on config file location
func (c *AppConfig) resolvePaths(configDir string) {
	if !filepath.IsAbs(c.Storage.DataDirectory) {
		c.Storage.DataDirectory = filepath.Join(configDir, c.Storage.DataDirectory)
	}
	if c.Storage.DatabaseFile != "" && !filepath.IsAbs(c.Storage.DatabaseFile) {
		c.Storage.DatabaseFile = filepath.Join(configDir, c.Storage.DatabaseFile)
	}
}

// GetDataDir returns the absolute data directory path
func (c *AppConfig) GetDataDir() string {
	return c.Storage.DataDirectory
}

// GetServerAddr returns the server bind address
func (c *AppConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}

// GetDatabaseFile returns the file used by the duckdb and sqlite backends
func (c *AppConfig) GetDatabaseFile() string {
	if c.Storage.DatabaseFile != "" {
		return c.Storage.DatabaseFile
	}
	ext := "db"
	if c.Storage.ShareBackend == storage.BackendDuckDB {
		ext = "duckdb"
	}
	return filepath.Join(c.Storage.DataDirectory, "shares."+ext)
}

// StorageOptions maps the storage section onto storage.Open options
func (c *AppConfig) StorageOptions() storage.Options {
	return storage.Options{
		Backend:        c.Storage.ShareBackend,
		Path:           c.GetDatabaseFile(),
		DynamoTable:    c.Storage.DynamoTable,
		DynamoRegion:   c.Storage.DynamoRegion,
		DynamoEndpoint: c.Storage.DynamoEndpoint,
	}
}

// HTTPTimeout returns the timeout for upstream API calls
func (c *AppConfig) HTTPTimeout() time.Duration {
	return time.Duration(c.Upstream.HTTPTimeoutSeconds) * time.Second
}

// GeocodingCacheTTL returns how long geocoding responses are cached
func (c *AppConfig) GeocodingCacheTTL() time.Duration {
	return time.Duration(c.Upstream.GeocodingCacheTTL) * time.Second
}

// EnsureDirectories creates all necessary directories
func (c *AppConfig) EnsureDirectories() error {
	if err := os.MkdirAll(c.Storage.DataDirectory, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", c.Storage.DataDirectory, err)
	}
	return nil
}
