package search

import (
	"context"
	"errors"
	"testing"

	"propertyiq/internal/config"
	"propertyiq/internal/models"
)

func TestService_SearchProperties_AustinEstimate(t *testing.T) {
	mock := &MockClient{
		FetchFunc: func(_ context.Context, partition string, limit int) ([]models.RawRecord, error) {
			return records(partition, limit), nil
		},
	}

	svc := NewService(config.Default(), mock, nil)
	props := svc.SearchProperties(context.Background(), "Austin", "TX", 20)

	if len(props) != 20 {
		t.Fatalf("SearchProperties() = %d properties, want 20", len(props))
	}

	for _, p := range props {
		if p.Price != 259200 {
			t.Errorf("%s: Price = %v, want 259200", p.ID, p.Price)
		}

		if p.City != "Austin" || p.State != "TX" {
			t.Errorf("%s: location = %q, %q", p.ID, p.City, p.State)
		}
	}

	if calls := mock.Calls(); len(calls) != 3 {
		t.Errorf("fetched %d partitions, want 3", len(calls))
	}
}

func TestService_SearchProperties_AuthoritativePrice(t *testing.T) {
	mock := &MockClient{
		FetchFunc: func(_ context.Context, partition string, _ int) ([]models.RawRecord, error) {
			return []models.RawRecord{{
				"address": map[string]any{"line1": "1 CONGRESS AVE"},
				"market":  map[string]any{"mktttlvalue": 350000},
			}}, nil
		},
	}

	props := NewService(config.Default(), mock, nil).SearchProperties(context.Background(), "austin", "tx", 1)

	if len(props) != 1 || props[0].Price != 350000 {
		t.Fatalf("SearchProperties() = %+v, want one property priced 350000", props)
	}
}

func TestService_Search_DropsRecordsWithoutAddress(t *testing.T) {
	mock := &MockClient{
		FetchFunc: func(_ context.Context, partition string, _ int) ([]models.RawRecord, error) {
			if partition != "78701" {
				return nil, ErrPartitionDown
			}

			return []models.RawRecord{
				{"address": map[string]any{"line1": "1 A ST"}},
				{"address": map[string]any{"postal1": "78701"}},
				nil,
				{"address": map[string]any{"line1": "2 B ST"}},
			}, nil
		},
	}

	res := NewService(config.Default(), mock, nil).Search(context.Background(), "Austin", "TX", 10)

	if len(res.Batch.Properties) != 2 || res.Batch.Dropped != 2 {
		t.Errorf("kept %d, dropped %d; want 2 and 2", len(res.Batch.Properties), res.Batch.Dropped)
	}

	if res.Report.Failed() != 2 {
		t.Errorf("failed partitions = %d, want 2", res.Report.Failed())
	}

	if res.SearchID == "" {
		t.Error("SearchID not set")
	}
}

func TestService_Search_DefaultLimitAndPartition(t *testing.T) {
	mock := &MockClient{
		FetchFunc: func(_ context.Context, partition string, limit int) ([]models.RawRecord, error) {
			return records(partition, limit), nil
		},
	}

	res := NewService(config.Default(), mock, nil).Search(context.Background(), "Boise", "ID", 0)

	if len(res.Partitions) != 1 || res.Partitions[0] != "78701" {
		t.Errorf("Partitions = %v, want default partition", res.Partitions)
	}

	if len(res.Batch.Properties) != 20 {
		t.Errorf("properties = %d, want default limit 20", len(res.Batch.Properties))
	}
}

func TestService_SearchProperties_AllPartitionsFail(t *testing.T) {
	mock := &MockClient{
		FetchFunc: func(context.Context, string, int) ([]models.RawRecord, error) {
			return nil, ErrPartitionDown
		},
	}

	props := NewService(config.Default(), mock, nil).SearchProperties(context.Background(), "Dallas", "TX", 20)
	if props == nil || len(props) != 0 {
		t.Errorf("SearchProperties() = %v, want empty non-nil list", props)
	}
}

func TestService_Normalize(t *testing.T) {
	svc := NewService(config.Default(), &MockClient{}, nil)

	p := svc.Normalize(nil)
	if p.PropertyType != models.Unknown || p.Description == "" {
		t.Errorf("Normalize(nil) = %+v, want degraded record", p)
	}
}

func TestService_GetPropertyByID(t *testing.T) {
	scan := func(_ context.Context, partition string, _ int) ([]models.RawRecord, error) {
		return records(partition, 3), nil
	}

	tests := []struct {
		name      string
		fetcher   Fetcher
		id        string
		wantFound bool
		wantAddr  string
	}{
		{
			name:      "found by partition scan",
			fetcher:   &MockClient{FetchFunc: scan},
			id:        "78702-b",
			wantFound: true,
			wantAddr:  "STREET 78702",
		},
		{
			name:      "outside scanned partitions",
			fetcher:   &MockClient{FetchFunc: scan},
			id:        "78703-a",
			wantFound: false,
			wantAddr:  "1234 Sample Street",
		},
		{
			name:     "empty id",
			fetcher:  &MockClient{FetchFunc: scan},
			id:       "  ",
			wantAddr: "1234 Sample Street",
		},
		{
			name: "detail lookup wins",
			fetcher: &MockDetailClient{
				MockClient: MockClient{FetchFunc: scan},
				FetchByIDFunc: func(_ context.Context, id string) (models.RawRecord, error) {
					return models.RawRecord{
						"identifier": map[string]any{"attomId": id},
						"address":    map[string]any{"line1": "DETAIL RECORD"},
					}, nil
				},
			},
			id:        "555",
			wantFound: true,
			wantAddr:  "DETAIL RECORD",
		},
		{
			name: "detail failure falls back to scan",
			fetcher: &MockDetailClient{
				MockClient: MockClient{FetchFunc: scan},
				FetchByIDFunc: func(context.Context, string) (models.RawRecord, error) {
					return nil, errors.New("detail endpoint down")
				},
			},
			id:        "78701-c",
			wantFound: true,
			wantAddr:  "STREET 78701",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(config.Default(), tt.fetcher, nil)

			p, found := svc.GetPropertyByID(context.Background(), tt.id)
			if found != tt.wantFound {
				t.Errorf("found = %v, want %v", found, tt.wantFound)
			}

			if p.Address != tt.wantAddr {
				t.Errorf("Address = %q, want %q", p.Address, tt.wantAddr)
			}
		})
	}
}

func TestService_GetPropertyByID_PlaceholderCarriesID(t *testing.T) {
	mock := &MockClient{
		FetchFunc: func(context.Context, string, int) ([]models.RawRecord, error) {
			return nil, ErrPartitionDown
		},
	}

	p, found := NewService(config.Default(), mock, nil).GetPropertyByID(context.Background(), "missing-42")

	if found {
		t.Error("found = true, want false")
	}

	if p.ID != "missing-42" || p.Price != 450000 || p.Neighborhood != "Central Austin" {
		t.Errorf("placeholder = %+v", p)
	}

	calls := mock.Calls()
	if len(calls) != 2 {
		t.Fatalf("scanned %d partitions, want 2", len(calls))
	}

	for _, c := range calls {
		if c.limit != 50 {
			t.Errorf("lookup page size = %d, want 50", c.limit)
		}
	}
}
