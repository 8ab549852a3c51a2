package search

import (
	"context"
	"errors"
	"sync"

	"propertyiq/internal/models"
)

var ErrPartitionDown = errors.New("partition unavailable")

// MockClient implements Fetcher for testing and records every call.
type MockClient struct {
	FetchFunc func(ctx context.Context, partition string, limit int) ([]models.RawRecord, error)

	mu    sync.Mutex
	calls []fetchCall
}

type fetchCall struct {
	partition string
	limit     int
}

func (m *MockClient) Fetch(ctx context.Context, partition string, limit int) ([]models.RawRecord, error) {
	m.mu.Lock()
	m.calls = append(m.calls, fetchCall{partition: partition, limit: limit})
	m.mu.Unlock()

	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, partition, limit)
	}

	return nil, nil
}

func (m *MockClient) Calls() []fetchCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]fetchCall(nil), m.calls...)
}

// MockDetailClient adds identifier lookups to MockClient.
type MockDetailClient struct {
	MockClient

	FetchByIDFunc func(ctx context.Context, id string) (models.RawRecord, error)
}

func (m *MockDetailClient) FetchByID(ctx context.Context, id string) (models.RawRecord, error) {
	if m.FetchByIDFunc != nil {
		return m.FetchByIDFunc(ctx, id)
	}

	return nil, nil
}

// records builds n minimal provider records for a partition.
func records(partition string, n int) []models.RawRecord {
	out := make([]models.RawRecord, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.RawRecord{
			"identifier": map[string]any{"attomId": partition + "-" + string(rune('a'+i))},
			"address":    map[string]any{"line1": "STREET " + partition, "postal1": partition},
			"building":   map[string]any{"rooms": map[string]any{"beds": 3, "bathstotal": 2}},
		})
	}

	return out
}
