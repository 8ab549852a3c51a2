package attom

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"propertyiq/internal/accessor"
	"propertyiq/internal/models"
)

// ErrFixtureNotFound indicates no recorded response exists for a partition.
var ErrFixtureNotFound = errors.New("fixture not found")

// IDPath is where the provider keeps a record's identifier.
const IDPath = "identifier.attomId"

// FixtureFetcher serves recorded provider responses from <Dir>/<partition>.json.
type FixtureFetcher struct {
	Dir string
}

// NewFixtureFetcher creates a fetcher over a directory of recorded responses.
func NewFixtureFetcher(dir string) *FixtureFetcher {
	return &FixtureFetcher{Dir: dir}
}

// Fetch returns at most limit records recorded for the partition.
func (f *FixtureFetcher) Fetch(ctx context.Context, partition string, limit int) ([]models.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records, err := f.load(partition)
	if err != nil {
		return nil, err
	}

	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	return records, nil
}

// FetchByID scans every recorded partition for a record with the given identifier.
func (f *FixtureFetcher) FetchByID(ctx context.Context, id string) (models.RawRecord, error) {
	matches, err := filepath.Glob(filepath.Join(f.Dir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to list fixtures: %w", err)
	}

	for _, path := range matches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		partition := filepath.Base(path)
		partition = partition[:len(partition)-len(".json")]

		records, err := f.load(partition)
		if err != nil {
			continue
		}

		if record := FindByID(records, id); record != nil {
			return record, nil
		}
	}

	return nil, nil
}

func (f *FixtureFetcher) load(partition string) ([]models.RawRecord, error) {
	path := filepath.Join(f.Dir, filepath.Base(partition)+".json")

	body, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrFixtureNotFound, partition)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to read fixture %s: %w", path, err)
	}

	return DecodeRecords(body)
}

// FindByID returns the first record whose provider identifier equals id.
func FindByID(records []models.RawRecord, id string) models.RawRecord {
	for _, record := range records {
		if record != nil && accessor.GetString(record, IDPath, "") == id {
			return record
		}
	}

	return nil
}
