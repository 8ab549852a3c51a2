package search

import (
	"context"
	"errors"
	"slices"
	"sync/atomic"
	"testing"
	"time"

	"propertyiq/internal/config"
	"propertyiq/internal/models"
)

func testSearchConfig() config.SearchConfig {
	return config.SearchConfig{
		CityZips: map[string][]string{
			"austin": {"78701", "78702", "78703", "78704"},
		},
		DefaultPartition: "78701",
		MaxPartitions:    3,
		Concurrency:      5,
		DefaultLimit:     20,
	}
}

func newTestOrchestrator(f Fetcher, timeout time.Duration) *Orchestrator {
	cfg := testSearchConfig()

	return NewOrchestrator(f, NewZipRegistry(cfg.CityZips, cfg.DefaultPartition), cfg, timeout, nil)
}

func TestPageSize(t *testing.T) {
	tests := []struct {
		limit, n, want int
	}{
		{limit: 20, n: 3, want: 7},
		{limit: 21, n: 3, want: 7},
		{limit: 20, n: 1, want: 20},
		{limit: 20, n: 0, want: 20},
		{limit: 1, n: 3, want: 1},
		{limit: 0, n: 3, want: 1},
	}

	for _, tt := range tests {
		if got := PageSize(tt.limit, tt.n); got != tt.want {
			t.Errorf("PageSize(%d, %d) = %d, want %d", tt.limit, tt.n, got, tt.want)
		}
	}
}

func TestOrchestrator_PartitionsAreCapped(t *testing.T) {
	o := newTestOrchestrator(&MockClient{}, 0)

	got := o.Partitions("Austin")
	if len(got) != 3 || got[0] != "78701" || got[2] != "78703" {
		t.Errorf("Partitions() = %v, want first three austin partitions", got)
	}

	if got := o.Partitions("Nowhere"); len(got) != 1 || got[0] != "78701" {
		t.Errorf("Partitions(unmapped) = %v, want default partition", got)
	}
}

func TestOrchestrator_PartialFailure(t *testing.T) {
	counts := map[string]int{"78701": 4, "78702": 0, "78703": 2}

	mock := &MockClient{
		FetchFunc: func(_ context.Context, partition string, _ int) ([]models.RawRecord, error) {
			if partition == "78702" {
				return nil, ErrPartitionDown
			}

			return records(partition, counts[partition]), nil
		},
	}

	report := newTestOrchestrator(mock, 0).FetchCity(context.Background(), "austin", 20)

	if report.Failed() != 1 {
		t.Errorf("Failed() = %d, want 1", report.Failed())
	}

	if keys := report.Keys(); !slices.Equal(keys, []string{"78701", "78702", "78703"}) {
		t.Errorf("Keys() = %v, want first three austin partitions", keys)
	}

	got := report.Records()
	if len(got) != 6 {
		t.Fatalf("Records() = %d, want 6 (sum of successful partitions)", len(got))
	}

	if got[0]["identifier"].(map[string]any)["attomId"] != "78701-a" ||
		got[4]["identifier"].(map[string]any)["attomId"] != "78703-a" {
		t.Error("records not concatenated in partition order")
	}

	if !errors.Is(report.Partitions[1].Err, ErrPartitionDown) {
		t.Errorf("partition error = %v, want ErrPartitionDown", report.Partitions[1].Err)
	}

	for _, call := range mock.Calls() {
		if call.limit != 7 {
			t.Errorf("partition %s fetched with limit %d, want 7", call.partition, call.limit)
		}
	}
}

func TestOrchestrator_AllPartitionsFail(t *testing.T) {
	mock := &MockClient{
		FetchFunc: func(context.Context, string, int) ([]models.RawRecord, error) {
			return nil, ErrPartitionDown
		},
	}

	report := newTestOrchestrator(mock, 0).FetchCity(context.Background(), "austin", 20)

	if report.Failed() != 3 {
		t.Errorf("Failed() = %d, want 3", report.Failed())
	}

	if got := report.Records(); got == nil || len(got) != 0 {
		t.Errorf("Records() = %v, want empty non-nil list", got)
	}
}

func TestOrchestrator_FetchesConcurrently(t *testing.T) {
	var started atomic.Int32

	allStarted := make(chan struct{})

	mock := &MockClient{
		FetchFunc: func(ctx context.Context, partition string, _ int) ([]models.RawRecord, error) {
			if started.Add(1) == 3 {
				close(allStarted)
			}

			select {
			case <-allStarted:
				return records(partition, 1), nil
			case <-time.After(2 * time.Second):
				return nil, errors.New("fetches ran sequentially")
			}
		},
	}

	report := newTestOrchestrator(mock, 0).FetchCity(context.Background(), "austin", 3)
	if report.Failed() != 0 {
		t.Errorf("Failed() = %d, want 0: %+v", report.Failed(), report.Partitions)
	}
}

func TestOrchestrator_ConcurrencyLimit(t *testing.T) {
	var inFlight, peak atomic.Int32

	mock := &MockClient{
		FetchFunc: func(_ context.Context, partition string, _ int) ([]models.RawRecord, error) {
			n := inFlight.Add(1)
			defer inFlight.Add(-1)

			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}

			time.Sleep(10 * time.Millisecond)

			return records(partition, 1), nil
		},
	}

	cfg := testSearchConfig()
	cfg.Concurrency = 1
	o := NewOrchestrator(mock, NewZipRegistry(cfg.CityZips, cfg.DefaultPartition), cfg, 0, nil)

	report := o.FetchCity(context.Background(), "austin", 3)

	if peak.Load() != 1 {
		t.Errorf("peak in-flight fetches = %d, want 1", peak.Load())
	}

	if len(report.Records()) != 3 {
		t.Errorf("Records() = %d, want 3", len(report.Records()))
	}
}

func TestOrchestrator_TimeoutIsPartitionFailure(t *testing.T) {
	mock := &MockClient{
		FetchFunc: func(ctx context.Context, partition string, _ int) ([]models.RawRecord, error) {
			if partition == "78703" {
				<-ctx.Done()

				return nil, ctx.Err()
			}

			return records(partition, 2), nil
		},
	}

	report := newTestOrchestrator(mock, 50*time.Millisecond).FetchCity(context.Background(), "austin", 20)

	if !errors.Is(report.Partitions[2].Err, context.DeadlineExceeded) {
		t.Errorf("slow partition error = %v, want deadline exceeded", report.Partitions[2].Err)
	}

	if len(report.Records()) != 4 {
		t.Errorf("Records() = %d, want 4", len(report.Records()))
	}
}
