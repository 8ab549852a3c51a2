package normalizer

import (
	"strings"

	"propertyiq/internal/accessor"
	"propertyiq/internal/config"
	"propertyiq/internal/models"
)

// Feature tags.
const (
	FeatureBrick     = "Brick Exterior"
	FeatureStone     = "Stone Exterior"
	FeatureVinyl     = "Vinyl Siding"
	FeatureFireplace = "Fireplace"
	FeatureBaths     = "Multiple Bathrooms"
	FallbackFeature  = "Property Features Available"

	maxFeatures = 5
)

// DefaultFeatures is emitted when no structural signal is present.
var DefaultFeatures = []string{"Updated Interior", "Modern Amenities"}

var wallMaterials = []struct {
	keyword string
	tag     string
}{
	{keyword: "brick", tag: FeatureBrick},
	{keyword: "stone", tag: FeatureStone},
	{keyword: "vinyl", tag: FeatureVinyl},
}

// FeatureExtractor derives presentation tags from the building sub-record.
type FeatureExtractor struct {
	fields config.FieldPaths
}

// NewFeatureExtractor creates a feature extractor reading the given field paths.
func NewFeatureExtractor(fields config.FieldPaths) *FeatureExtractor {
	return &FeatureExtractor{fields: fields}
}

// Extract returns at most five tags. A malformed building sub-record yields the single
// fallback tag; an absent one yields the defaults.
func (e *FeatureExtractor) Extract(record models.RawRecord) []string {
	raw := accessor.GetPath(record, e.fields.Building, nil)
	if raw == nil {
		return cloneTags(DefaultFeatures)
	}

	building, ok := raw.(map[string]any)
	if !ok {
		return []string{FallbackFeature}
	}

	var features []string

	if wall := accessor.GetPath(building, e.fields.WallType, nil); wall != nil {
		text, ok := wall.(string)
		if !ok {
			return []string{FallbackFeature}
		}

		text = strings.ToLower(text)
		for _, m := range wallMaterials {
			if strings.Contains(text, m.keyword) {
				features = append(features, m.tag)
				break
			}
		}
	}

	if accessor.GetPath(building, e.fields.Fireplace, nil) != nil {
		features = append(features, FeatureFireplace)
	}

	if baths := accessor.GetPath(building, e.fields.FullBaths, nil); baths != nil {
		n := accessor.ToFloat(baths, -1)
		if n < 0 {
			return []string{FallbackFeature}
		}

		if n > 2 {
			features = append(features, FeatureBaths)
		}
	}

	if len(features) == 0 {
		return cloneTags(DefaultFeatures)
	}

	if len(features) > maxFeatures {
		features = features[:maxFeatures]
	}

	return features
}

func cloneTags(tags []string) []string {
	out := make([]string, len(tags))
	copy(out, tags)

	return out
}
