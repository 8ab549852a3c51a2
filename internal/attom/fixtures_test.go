package attom

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFixture(t *testing.T, dir, partition, body string) {
	t.Helper()

	if err := os.WriteFile(filepath.Join(dir, partition+".json"), []byte(body), 0o600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
}

func TestFixtureFetcher_Fetch(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "78701", `{"property": [{"a": 1}, {"a": 2}, {"a": 3}]}`)

	f := NewFixtureFetcher(dir)

	records, err := f.Fetch(context.Background(), "78701", 2)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if len(records) != 2 {
		t.Errorf("Fetch() = %d records, want 2", len(records))
	}

	if _, err := f.Fetch(context.Background(), "99999", 2); !errors.Is(err, ErrFixtureNotFound) {
		t.Errorf("Fetch(missing) error = %v, want ErrFixtureNotFound", err)
	}
}

func TestFixtureFetcher_FetchByID(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "78701", `{"property": [{"identifier": {"attomId": 1}}]}`)
	writeFixture(t, dir, "78702", `{"property": [{"identifier": {"attomId": 2}, "address": {"line1": "X"}}]}`)
	writeFixture(t, dir, "broken", `not json`)

	f := NewFixtureFetcher(dir)

	record, err := f.FetchByID(context.Background(), "2")
	if err != nil {
		t.Fatalf("FetchByID() error = %v", err)
	}

	if record == nil || record["address"].(map[string]any)["line1"] != "X" {
		t.Errorf("FetchByID() = %v", record)
	}

	if record, _ := f.FetchByID(context.Background(), "3"); record != nil {
		t.Errorf("FetchByID(unknown) = %v, want nil", record)
	}
}

func TestFixtureFetcher_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewFixtureFetcher(t.TempDir()).Fetch(ctx, "78701", 1); !errors.Is(err, context.Canceled) {
		t.Errorf("Fetch() error = %v, want context.Canceled", err)
	}
}
