package search

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"propertyiq/internal/config"
	"propertyiq/internal/logger"
	"propertyiq/internal/metrics"
	"propertyiq/internal/models"
)

// Fetcher returns up to limit raw records for one partition.
type Fetcher interface {
	Fetch(ctx context.Context, partition string, limit int) ([]models.RawRecord, error)
}

// DetailFetcher is implemented by fetchers that can look a record up by identifier.
// A nil record with a nil error means the provider has no such record.
type DetailFetcher interface {
	FetchByID(ctx context.Context, id string) (models.RawRecord, error)
}

// PartitionOutcome is the result of fetching one partition. Err is set on failure, in
// which case Records is empty.
type PartitionOutcome struct {
	Partition string
	Records   []models.RawRecord
	Err       error
	Elapsed   time.Duration
}

// FetchReport collects every partition outcome of one fan-out, in partition order.
type FetchReport struct {
	Partitions []PartitionOutcome
}

// Records concatenates the records of successful partitions in partition order.
func (r FetchReport) Records() []models.RawRecord {
	total := 0
	for _, p := range r.Partitions {
		total += len(p.Records)
	}

	records := make([]models.RawRecord, 0, total)
	for _, p := range r.Partitions {
		records = append(records, p.Records...)
	}

	return records
}

// Keys lists the queried partitions in fan-out order.
func (r FetchReport) Keys() []string {
	keys := make([]string, len(r.Partitions))
	for i, p := range r.Partitions {
		keys[i] = p.Partition
	}

	return keys
}

// Failed counts partitions whose fetch failed.
func (r FetchReport) Failed() int {
	n := 0

	for _, p := range r.Partitions {
		if p.Err != nil {
			n++
		}
	}

	return n
}

// Orchestrator fans a city query out over its partitions.
type Orchestrator struct {
	fetcher       Fetcher
	registry      *ZipRegistry
	maxPartitions int
	concurrency   int
	timeout       time.Duration
	logger        *logger.Logger
}

// NewOrchestrator creates an orchestrator. A non-positive timeout disables the per-fetch
// deadline.
func NewOrchestrator(fetcher Fetcher, registry *ZipRegistry, cfg config.SearchConfig, timeout time.Duration, log *logger.Logger) *Orchestrator {
	if log == nil {
		log = logger.Discard()
	}

	return &Orchestrator{
		fetcher:       fetcher,
		registry:      registry,
		maxPartitions: cfg.MaxPartitions,
		concurrency:   cfg.Concurrency,
		timeout:       timeout,
		logger:        log,
	}
}

// Partitions returns the partitions queried for a city.
func (o *Orchestrator) Partitions(city string) []string {
	partitions := o.registry.Lookup(city)
	if o.maxPartitions > 0 && len(partitions) > o.maxPartitions {
		partitions = partitions[:o.maxPartitions]
	}

	return partitions
}

// FetchCity queries the city's partitions concurrently, splitting limit evenly across them.
func (o *Orchestrator) FetchCity(ctx context.Context, city string, limit int) FetchReport {
	partitions := o.Partitions(city)

	return o.FetchPartitions(ctx, partitions, PageSize(limit, len(partitions)))
}

// FetchPartitions fetches every partition concurrently and waits for all of them.
// A failed partition never cancels its siblings; its error is kept in the report.
func (o *Orchestrator) FetchPartitions(ctx context.Context, partitions []string, pageSize int) FetchReport {
	outcomes := make([]PartitionOutcome, len(partitions))

	var g errgroup.Group
	if o.concurrency > 0 {
		g.SetLimit(o.concurrency)
	}

	for i, partition := range partitions {
		i, partition := i, partition
		g.Go(func() error {
			outcomes[i] = o.fetchOne(ctx, partition, pageSize)

			return nil
		})
	}

	_ = g.Wait()

	report := FetchReport{Partitions: outcomes}

	if failed := report.Failed(); failed > 0 {
		o.logger.Warn("partition fetches failed",
			"failed", failed, "total", len(partitions))
	}

	return report
}

func (o *Orchestrator) fetchOne(ctx context.Context, partition string, pageSize int) PartitionOutcome {
	fetchCtx := ctx

	if o.timeout > 0 {
		var cancel context.CancelFunc

		fetchCtx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	start := time.Now()
	records, err := o.fetcher.Fetch(fetchCtx, partition, pageSize)
	elapsed := time.Since(start)

	metrics.ObservePartitionFetch(err, elapsed)

	if err != nil {
		o.logger.Warn("partition fetch failed",
			"partition", partition, "error", err, "duration_ms", elapsed.Milliseconds())

		return PartitionOutcome{Partition: partition, Err: err, Elapsed: elapsed}
	}

	o.logger.Info("partition fetched",
		"partition", partition, "records", len(records), "duration_ms", elapsed.Milliseconds())

	return PartitionOutcome{Partition: partition, Records: records, Elapsed: elapsed}
}

// PageSize splits limit across n partitions, rounding up, with a minimum of one.
func PageSize(limit, n int) int {
	if n < 1 {
		n = 1
	}

	size := (limit + n - 1) / n
	if size < 1 {
		return 1
	}

	return size
}
