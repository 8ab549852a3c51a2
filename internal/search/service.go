package search

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"propertyiq/internal/accessor"
	"propertyiq/internal/config"
	"propertyiq/internal/logger"
	"propertyiq/internal/metrics"
	"propertyiq/internal/models"
	"propertyiq/internal/normalizer"
)

// Result is the full outcome of one city search.
type Result struct {
	SearchID   string
	Partitions []string
	Report     FetchReport
	Batch      normalizer.Batch
}

// Service is the entry point for callers: city search, single-record normalization and
// lookup by identifier. None of its operations return errors.
type Service struct {
	cfg          *config.Config
	fetcher      Fetcher
	registry     *ZipRegistry
	orchestrator *Orchestrator
	normalizer   *normalizer.Normalizer
	processor    *normalizer.Processor
	logger       *logger.Logger
}

// NewService wires the pipeline over a fetcher and configuration tables.
func NewService(cfg *config.Config, fetcher Fetcher, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}

	registry := NewZipRegistry(cfg.Search.CityZips, cfg.Search.DefaultPartition)
	n := normalizer.New(cfg, log)
	v := normalizer.NewValidator(cfg.Valuation.InsuranceMin, cfg.Valuation.InsuranceMax)

	return &Service{
		cfg:          cfg,
		fetcher:      fetcher,
		registry:     registry,
		orchestrator: NewOrchestrator(fetcher, registry, cfg.Search, fetchTimeout(cfg.Provider.Retry), log),
		normalizer:   n,
		processor:    normalizer.NewProcessor(n, v, log),
		logger:       log,
	}
}

// fetchTimeout bounds one partition fetch including its retries.
func fetchTimeout(rp config.RetryPolicy) time.Duration {
	attempts := rp.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	return rp.GetTimeout() * time.Duration(attempts)
}

// SearchProperties returns up to limit canonical properties for a city. A non-positive
// limit uses the configured default. Failed partitions only shrink the result.
func (s *Service) SearchProperties(ctx context.Context, city, state string, limit int) []models.Property {
	return s.Search(ctx, city, state, limit).Batch.Properties
}

// Search is SearchProperties with the fetch report and per-record results attached.
func (s *Service) Search(ctx context.Context, city, state string, limit int) Result {
	if limit <= 0 {
		limit = s.cfg.Search.DefaultLimit
	}

	searchID := uuid.NewString()
	log := s.logger.With("search_id", searchID, "city", city, "state", state)

	report := s.orchestrator.FetchCity(ctx, city, limit)
	partitions := report.Keys()

	if !s.registry.Known(city) {
		log.Info("city has no partitions, using default", "partitions", partitions, "known_cities", s.registry.Cities())
	}

	records := report.Records()
	if len(records) > limit {
		records = records[:limit]
	}

	batch := s.processor.Process(records, normalizer.Hints{City: displayCity(city), State: state})
	for _, res := range batch.Results {
		metrics.ObserveNormalization(string(res.Status), res.PriceSource)
	}

	log.Info("search complete",
		"partitions", len(partitions),
		"failed_partitions", report.Failed(),
		"records", len(records),
		"properties", len(batch.Properties),
		"dropped", batch.Dropped)

	return Result{
		SearchID:   searchID,
		Partitions: partitions,
		Report:     report,
		Batch:      batch,
	}
}

// Normalize converts one raw record. It never fails.
func (s *Service) Normalize(record models.RawRecord) models.Property {
	res := s.normalizer.Normalize(record)
	metrics.ObserveNormalization(string(res.Status), res.PriceSource)

	return res.Property
}

// GetPropertyByID looks a property up by provider identifier. When nothing matches it
// returns the placeholder record carrying the requested id and false.
func (s *Service) GetPropertyByID(ctx context.Context, id string) (models.Property, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return models.PlaceholderProperty(id), false
	}

	log := s.logger.With("property_id", id)

	if df, ok := s.fetcher.(DetailFetcher); ok {
		record, err := df.FetchByID(ctx, id)

		switch {
		case err != nil:
			log.Warn("detail lookup failed, scanning partitions", "error", err)
		case record != nil:
			if prop := s.Normalize(record); prop.ID != "" {
				return prop, true
			}
		}
	}

	partitions := s.registry.Lookup(s.cfg.Search.LookupCity)
	if n := s.cfg.Search.LookupPartitions; n > 0 && len(partitions) > n {
		partitions = partitions[:n]
	}

	report := s.orchestrator.FetchPartitions(ctx, partitions, s.cfg.Search.LookupPageSize)
	for _, record := range report.Records() {
		if record != nil && accessor.GetString(record, s.cfg.Fields.ID, "") == id {
			return s.Normalize(record), true
		}
	}

	log.Info("property not found, returning placeholder", "partitions", len(partitions))

	return models.PlaceholderProperty(id), false
}

// displayCity title-cases a query city for use as a location default.
func displayCity(city string) string {
	return cases.Title(language.English).String(strings.Join(strings.Fields(city), " "))
}
