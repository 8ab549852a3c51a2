package normalizer

import (
	"strings"

	"propertyiq/internal/models"
)

type typePattern struct {
	pattern  string
	category models.PropertyType
}

// typePatterns is scanned in order and the first substring match wins, so narrower
// patterns must precede broader ones ("condominium" before "family").
var typePatterns = []typePattern{
	{pattern: "condominium", category: models.Condo},
	{pattern: "condo", category: models.Condo},
	{pattern: "townhouse", category: models.Townhouse},
	{pattern: "townhome", category: models.Townhouse},
	{pattern: "town house", category: models.Townhouse},
	{pattern: "duplex", category: models.MultiFamily},
	{pattern: "triplex", category: models.MultiFamily},
	{pattern: "fourplex", category: models.MultiFamily},
	{pattern: "quadruplex", category: models.MultiFamily},
	{pattern: "multi-family", category: models.MultiFamily},
	{pattern: "multi family", category: models.MultiFamily},
	{pattern: "multifamily", category: models.MultiFamily},
	{pattern: "apartment", category: models.Apartment},
	{pattern: "manufactured", category: models.Manufactured},
	{pattern: "mobile", category: models.Manufactured},
	{pattern: "sfr", category: models.SingleFamily},
	{pattern: "single family", category: models.SingleFamily},
	{pattern: "single_family", category: models.SingleFamily},
	{pattern: "detached", category: models.SingleFamily},
	{pattern: "family", category: models.SingleFamily},
}

// ClassifyPropertyType maps free-text provider type strings onto a canonical category.
// Unmatched and empty input is single_family.
func ClassifyPropertyType(raw string) models.PropertyType {
	text := strings.ToLower(strings.TrimSpace(raw))
	if text == "" {
		return models.SingleFamily
	}

	for _, tp := range typePatterns {
		if strings.Contains(text, tp.pattern) {
			return tp.category
		}
	}

	return models.SingleFamily
}
