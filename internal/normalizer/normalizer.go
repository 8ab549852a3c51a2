// Package normalizer converts provider property records into canonical properties.
//
// Normalization is total: every input, however incomplete, yields a well-formed
// models.Property. The accompanying Result says how much of it was defaulted.
package normalizer

import (
	"strings"

	"propertyiq/internal/accessor"
	"propertyiq/internal/config"
	"propertyiq/internal/logger"
	"propertyiq/internal/models"
)

// Status describes how completely a record was resolved from source data.
type Status string

// Normalization statuses.
const (
	StatusComplete Status = "complete"
	StatusPartial  Status = "partial"
	StatusDegraded Status = "degraded"
)

// Result is the outcome of normalizing one record.
type Result struct {
	Status      Status
	PriceSource string
	Defaulted   []string
	Property    models.Property
}

// Hints are best-effort defaults for location fields missing from a record,
// typically the city and state of the search that produced it.
type Hints struct {
	City  string
	State string
}

// Normalizer orchestrates extraction, classification, valuation and presentation.
type Normalizer struct {
	fields    config.FieldPaths
	resolver  *PriceResolver
	estimator *Estimator
	features  *FeatureExtractor
	aux       *Auxiliary
	images    *ImageCatalog
	logger    *logger.Logger
}

// New creates a normalizer from configuration tables.
func New(cfg *config.Config, log *logger.Logger) *Normalizer {
	if log == nil {
		log = logger.Discard()
	}

	return &Normalizer{
		fields:    cfg.Fields,
		resolver:  NewPriceResolver(cfg.Valuation.PriceSources),
		estimator: NewEstimator(cfg.Valuation),
		features:  NewFeatureExtractor(cfg.Fields),
		aux:       NewAuxiliary(cfg.Valuation, cfg.Fields),
		images:    DefaultImageCatalog(),
		logger:    log,
	}
}

// Normalize converts one record without location hints.
func (n *Normalizer) Normalize(record models.RawRecord) Result {
	return n.NormalizeWithHints(record, Hints{})
}

// NormalizeWithHints converts one record. It never fails: a nil record produces the
// degraded placeholder, missing fields produce defaults.
func (n *Normalizer) NormalizeWithHints(record models.RawRecord, hints Hints) Result {
	if record == nil {
		n.logger.Warn("record is not a property object, returning degraded record")

		return Result{
			Status:    StatusDegraded,
			Defaulted: []string{"*"},
			Property:  models.DegradedProperty(),
		}
	}

	var defaulted []string

	text := func(field, path, def string) string {
		v := accessor.GetString(record, path, "")
		if v == "" {
			defaulted = append(defaulted, field)

			return def
		}

		return v
	}

	id := text("id", n.fields.ID, "")

	line1 := text("address", n.fields.Line1, "")
	address := line1

	if line2 := accessor.GetString(record, n.fields.Line2, ""); line2 != "" && line1 != "" {
		address = line1 + ", " + line2
	}

	city := text("city", n.fields.City, orNA(hints.City))
	state := text("state", n.fields.State, orNA(strings.ToUpper(hints.State)))
	zip := text("zip_code", n.fields.ZipCode, models.NotAvailable)

	specs := n.extractSpecs(record, &defaulted)

	rawType := strings.TrimSpace(accessor.GetString(record, n.fields.PropertyType, "") + " " +
		accessor.GetString(record, n.fields.PropClass, ""))
	propertyType := ClassifyPropertyType(rawType)

	price, source, ok := n.resolver.Resolve(record)
	if !ok {
		est := n.estimator.Estimate(EstimateInput{Type: propertyType, City: city, State: state, Specs: specs})
		price, source = est.Value, PriceSourceEstimated
		defaulted = append(defaulted, "price")

		n.logger.Debug("estimated price",
			"id", id, "value", est.Value, "base", est.BaseValue, "unit_price", est.UnitPrice,
			"multiplier", est.Multiplier, "synthesized_sqft", est.Synthesized)
	}

	lat := accessor.GetFloat(record, n.fields.Latitude, 0)
	lon := accessor.GetFloat(record, n.fields.Longitude, 0)

	if lat == 0 || lon == 0 {
		defaulted = append(defaulted, "coordinates")
	}

	features := n.features.Extract(record)

	prop := models.Property{
		ID:                id,
		Address:           address,
		City:              city,
		State:             state,
		ZipCode:           zip,
		Price:             price,
		EstimatedValue:    price,
		Bedrooms:          specs.Bedrooms,
		Bathrooms:         specs.Bathrooms,
		SquareFeet:        specs.SquareFeet,
		YearBuilt:         specs.YearBuilt,
		LotSize:           specs.LotSize,
		PropertyType:      propertyType,
		Latitude:          models.Coordinate(lat),
		Longitude:         models.Coordinate(lon),
		PropertyStatus:    PropertyStatus(record),
		DaysOnMarket:      models.DefaultDaysOnMarket,
		PropertyTaxRate:   n.aux.TaxRate(record, price),
		Description:       Describe(specs.Bedrooms, specs.Bathrooms, specs.SquareFeet, specs.YearBuilt, propertyType, features),
		Features:          features,
		Images:            n.images.Select(propertyType, price),
		Neighborhood:      city,
		InsuranceEstimate: n.aux.Insurance(price, state),
	}

	status := StatusComplete
	if len(defaulted) > 0 {
		status = StatusPartial
	}

	n.logger.Debug("normalized record",
		"id", prop.ID, "address", prop.Address, "price", prop.Price, "price_source", source,
		"type", prop.PropertyType, "status", status)

	return Result{
		Status:      status,
		PriceSource: source,
		Defaulted:   defaulted,
		Property:    prop,
	}
}

// extractSpecs reads structural attributes; negative values are treated as unknown.
func (n *Normalizer) extractSpecs(record models.RawRecord, defaulted *[]string) Specs {
	nonNegInt := func(field, path string) int {
		v := accessor.GetInt(record, path, 0)
		if v <= 0 {
			*defaulted = append(*defaulted, field)

			return 0
		}

		return v
	}

	specs := Specs{
		Bedrooms:   nonNegInt("bedrooms", n.fields.Bedrooms),
		SquareFeet: nonNegInt("square_feet", n.fields.SquareFeet),
		YearBuilt:  nonNegInt("year_built", n.fields.YearBuilt),
		LotSize:    nonNegInt("lot_size", n.fields.LotSize),
	}

	specs.Bathrooms = accessor.GetFloat(record, n.fields.Bathrooms, 0)
	if specs.Bathrooms <= 0 {
		specs.Bathrooms = 0
		*defaulted = append(*defaulted, "bathrooms")
	}

	return specs
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return models.NotAvailable
	}

	return strings.TrimSpace(s)
}
