// Package search resolves city queries into partition fetches and canonical properties.
package search

import (
	"sort"
	"strings"
)

// ZipRegistry maps lower-case city names to ordered postal-code partitions.
// It is immutable after construction.
type ZipRegistry struct {
	zips     map[string][]string
	fallback string
}

// NewZipRegistry copies the given table. Keys are matched case-insensitively.
func NewZipRegistry(cityZips map[string][]string, fallback string) *ZipRegistry {
	zips := make(map[string][]string, len(cityZips))
	for city, codes := range cityZips {
		zips[normalizeCity(city)] = append([]string(nil), codes...)
	}

	return &ZipRegistry{zips: zips, fallback: fallback}
}

// Lookup returns the partitions for a city, or the single fallback partition when the
// city is unmapped.
func (r *ZipRegistry) Lookup(city string) []string {
	codes, ok := r.zips[normalizeCity(city)]
	if !ok || len(codes) == 0 {
		return []string{r.fallback}
	}

	return append([]string(nil), codes...)
}

// Known reports whether the city has its own partitions.
func (r *ZipRegistry) Known(city string) bool {
	_, ok := r.zips[normalizeCity(city)]

	return ok
}

// Cities returns the mapped city names in sorted order.
func (r *ZipRegistry) Cities() []string {
	cities := make([]string, 0, len(r.zips))
	for city := range r.zips {
		cities = append(cities, city)
	}

	sort.Strings(cities)

	return cities
}

func normalizeCity(city string) string {
	return strings.ToLower(strings.Join(strings.Fields(city), " "))
}
