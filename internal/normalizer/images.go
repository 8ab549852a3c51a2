package normalizer

import (
	"math"

	"propertyiq/internal/models"
)

const (
	stockImageBase = "https://images.unsplash.com/photo"
	stockImageOpts = "?w=800&h=600&fit=crop&auto=format&q=80"

	luxuryThreshold = 500000
)

func stock(id string) string {
	return stockImageBase + "-" + id + stockImageOpts
}

// ImageCatalog maps property type and price bracket to stock photo sets.
type ImageCatalog struct {
	byType   map[models.PropertyType][]string
	luxury   []string
	standard []string
}

// DefaultImageCatalog returns the built-in stock photo sets.
func DefaultImageCatalog() *ImageCatalog {
	return &ImageCatalog{
		byType: map[models.PropertyType][]string{
			models.Condo: {
				stock("1560448204-603c3d5dd8fd"),
				stock("1586023492-413d21e96b22"),
				stock("1505873242-726de7f43e5d"),
				stock("1556909114-f6e7ad7d3136"),
			},
			models.Townhouse: {
				stock("1570129477-8639e6e85b14"),
				stock("1588580005-f4ac57aa0b96"),
				stock("1505691723-85a4ee2a9b5a"),
				stock("1556909049-5b38b4c37bb5"),
			},
		},
		luxury: []string{
			stock("1564013799-7e9b35b4847d"),
			stock("1512917774-9fcf808cf876"),
			stock("1556909114-f6e7ad7d3136"),
			stock("1505691938-2da3831ba2e5"),
			stock("1484154218-0bf12d188ca6"),
		},
		standard: []string{
			stock("1580587771525-78b9dba3b914"),
			stock("1586023492-413d21e96b22"),
			stock("1556909114-f6e7ad7d3136"),
			stock("1505691938-2da3831ba2e5"),
		},
	}
}

// Select returns the photo set for a type and price. Any gap in the catalog or an
// unusable price yields the single fallback image.
func (c *ImageCatalog) Select(t models.PropertyType, price float64) []string {
	if c == nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return []string{models.FallbackImage}
	}

	set, ok := c.byType[t]
	if !ok {
		set = c.standard
		if price > luxuryThreshold {
			set = c.luxury
		}
	}

	if len(set) == 0 {
		return []string{models.FallbackImage}
	}

	return append([]string(nil), set...)
}
