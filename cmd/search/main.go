// Package main provides the search command that fetches, normalizes and prints properties for a city.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"

	"propertyiq/internal/attom"
	"propertyiq/internal/config"
	"propertyiq/internal/formatter"
	"propertyiq/internal/logger"
	"propertyiq/internal/metrics"
	"propertyiq/internal/models"
	"propertyiq/internal/search"
)

func main() {
	// 1. Define Command-Line Flags
	// ---------------------------
	configPath := flag.String("config", "", "Path to YAML config (defaults to built-in tables)")
	city := flag.String("city", "", "City to search (e.g. Austin)")
	state := flag.String("state", "", "Two-letter state code (e.g. TX)")
	limit := flag.Int("limit", 0, "Maximum number of properties (0 uses the configured default)")
	id := flag.String("id", "", "Look up a single property by provider identifier instead of searching")
	fixtures := flag.String("fixtures", "", "Serve partitions from <dir>/<zip>.json instead of the live provider")
	format := flag.String("format", "table", "Output format: table or json")
	metricsAddr := flag.String("metrics", "", "Serve Prometheus metrics on this address while running (overrides metrics.addr)")
	logLevel := flag.String("log-level", "", "Override logging.level (debug, info, warn, error)")

	flag.Parse()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error loading .env: %v\n", err)
		os.Exit(1)
	}

	cfg := config.Default()

	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}

		cfg = loaded
	}

	cfg.ApplyEnv()

	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}

	// Initialize Logger
	log := logger.NewLoggerWithWriter(cfg.Logging.Level, os.Stderr)

	if *city == "" && *id == "" {
		log.Error("Please provide a city with -city or an identifier with -id")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if *format != "table" && *format != "json" {
		log.Error("Unknown output format", "format", *format)
		os.Exit(1)
	}

	// 2. Provider
	// -----------
	fetcher, err := newFetcher(cfg, *fixtures, log)
	if err != nil {
		log.Error("Provider setup failed", "error", err)
		os.Exit(1)
	}

	if *metricsAddr == "" && cfg.Metrics.Enabled {
		*metricsAddr = cfg.Metrics.Addr
	}

	if *metricsAddr != "" {
		go func() {
			if serveErr := metrics.StartMetricsServer(*metricsAddr); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
				log.Error("Metrics server stopped", "error", serveErr)
			}
		}()

		log.Info("Metrics server listening", "addr", *metricsAddr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	svc := search.NewService(cfg, fetcher, log)
	startTime := time.Now()

	// 3. Lookup or Search
	// -------------------
	if *id != "" {
		prop, found := svc.GetPropertyByID(ctx, *id)
		log.Info("Lookup complete", "id", *id, "found", found, "duration", time.Since(startTime))

		if *format == "json" {
			writeJSON(log, prop)

			return
		}

		fmt.Print(formatter.RenderTable([]models.Property{prop}))

		return
	}

	result := svc.Search(ctx, *city, *state, *limit)
	log.Info("Search finished",
		"search_id", result.SearchID,
		"properties", len(result.Batch.Properties),
		"failed_partitions", result.Report.Failed(),
		"duration", time.Since(startTime))

	if *format == "json" {
		writeJSON(log, result.Batch.Properties)

		return
	}

	fmt.Print(formatter.RenderTable(result.Batch.Properties))
}

func newFetcher(cfg *config.Config, fixturesDir string, log *logger.Logger) (search.Fetcher, error) {
	if fixturesDir != "" {
		log.Info("Using recorded fixtures", "dir", fixturesDir)

		return attom.NewFixtureFetcher(fixturesDir), nil
	}

	if err := cfg.RequireAPIKey(); err != nil {
		return nil, err
	}

	client, err := attom.NewClient(cfg.Provider, log)
	if err != nil {
		return nil, err
	}

	return client, nil
}

func writeJSON(log *logger.Logger, v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	if err := enc.Encode(v); err != nil {
		log.Error("Error encoding JSON", "error", err)
		os.Exit(1)
	}
}
