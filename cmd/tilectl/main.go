// Package main implements tilectl, a terminal client for weather tiles.
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

	"github.com/fatih/color"
	"github.com/tilewx/backend/internal/config"
	"github.com/tilewx/backend/internal/geocoding"
	"github.com/tilewx/backend/internal/logging"
	"github.com/tilewx/backend/internal/share"
	"github.com/tilewx/backend/internal/storage"
	"github.com/tilewx/backend/internal/tiles"
	"github.com/tilewx/backend/internal/weather"
)

var (
	configPath = flag.String("config", defaultConfigPath(), "configuration file (created on first run)")
	tilesPath  = flag.String("tiles", "", "tile list file (default <data dir>/tiles.yaml)")
	verbose    = flag.Bool("verbose", false, "enable debug logging")
	noColor    = flag.Bool("no-color", false, "disable colored output")
)

const usage = `Usage: tilectl [flags] <command> [args]

Commands:
  search <query>          find places, e.g. "Springfield, IL"
  add [-pick n] <query>   add the n-th search result as a tile
  list                    show tiles
  remove <n|id>           remove a tile
  move <from> <to>        reorder tiles
  share                   store the list and print a short link
  link [-legacy]          print a link; -legacy embeds the list in the link
  load <code|link>        replace the list with a shared one
  weather [-unit c|f]     current conditions and forecast for every tile

Flags:
`

func main() {
	os.Exit(runMain())
}

func runMain() int {
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *noColor {
		color.NoColor = true
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		return 1
	}

	level := "warn"
	if *verbose {
		level = "debug"
	}
	logger := logging.New(level, cfg.Logging.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	store, err := storage.Open(ctx, cfg.StorageOptions(), logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open share store: %v\n", err)
		return 1
	}
	defer store.Close()

	if *tilesPath == "" {
		*tilesPath = filepath.Join(cfg.GetDataDir(), "tiles.yaml")
	}

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout()}
	a := &app{
		out:   color.Output,
		store: tiles.NewFileStore(*tilesPath),
		search: geocoding.NewService(geocoding.NewClient(geocoding.ClientOptions{
			BaseURL:    cfg.Upstream.GeocodingURL,
			Language:   cfg.Upstream.Language,
			HTTPClient: httpClient,
			Logger:     logger,
		}), logger),
		codec:      share.NewCodec(store, logger),
		forecaster: weather.NewClient(cfg.Upstream.ForecastURL, httpClient, logger),
		publicURL:  cfg.Server.PublicURL,
	}

	if err := a.run(ctx, flag.Args()); err != nil {
		if errors.Is(err, errUsage) {
			if err != errUsage {
				fmt.Fprintln(os.Stderr, err)
			}
			flag.Usage()
			return 2
		}
		color.New(color.FgRed).Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func defaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "tilectl.yaml"
	}
	return filepath.Join(dir, "tilectl", "config.yaml")
}
