package normalizer

import (
	"math"
	"strings"

	"propertyiq/internal/accessor"
	"propertyiq/internal/config"
	"propertyiq/internal/models"
)

// PriceSourceEstimated marks a price produced by the Estimator rather than read from the record.
const PriceSourceEstimated = "estimated"

// Square footage synthesized per room when the record has none.
const (
	sqftPerBedroom  = 400
	sqftPerBathroom = 150
)

// PriceResolver picks the first strictly positive value among ordered price sources.
type PriceResolver struct {
	sources []string
}

// NewPriceResolver creates a resolver over dotted record paths, highest priority first.
func NewPriceResolver(sources []string) *PriceResolver {
	return &PriceResolver{sources: append([]string(nil), sources...)}
}

// Sources returns the configured source order.
func (r *PriceResolver) Sources() []string {
	return append([]string(nil), r.sources...)
}

// Resolve returns the winning price and its source path, or false when every source is
// absent or non-positive.
func (r *PriceResolver) Resolve(record models.RawRecord) (float64, string, bool) {
	for _, path := range r.sources {
		price := accessor.GetFloat(record, path, 0)
		if price > 0 {
			return price, path, true
		}
	}

	return 0, "", false
}

// Specs are the structural attributes extracted from a record. Zero means unknown.
type Specs struct {
	Bathrooms  float64
	Bedrooms   int
	SquareFeet int
	YearBuilt  int
	LotSize    int
}

// EstimateInput is everything the valuation heuristic looks at.
type EstimateInput struct {
	Type  models.PropertyType
	City  string
	State string
	Specs
}

// Estimate is the outcome of one valuation, with its intermediate terms.
type Estimate struct {
	Value               float64
	BaseValue           float64
	UnitPrice           float64
	Multiplier          float64
	EffectiveSquareFeet float64
	Synthesized         bool
	Fallback            bool
}

// Estimator is the heuristic valuation model used when the record carries no price.
// It is deterministic and reads only its injected tables.
type Estimator struct {
	cfg config.ValuationConfig
}

// NewEstimator creates an estimator over the given valuation tables.
func NewEstimator(cfg config.ValuationConfig) *Estimator {
	return &Estimator{cfg: cfg}
}

// UnitPrice returns the base price per square foot for a state and property type.
func (e *Estimator) UnitPrice(state string, t models.PropertyType) float64 {
	table, ok := e.cfg.StateUnitPrices[strings.ToUpper(strings.TrimSpace(state))]
	if !ok {
		table = e.cfg.DefaultUnitPrices
	}

	if price, ok := table[string(t)]; ok && price > 0 {
		return price
	}

	return e.cfg.DefaultUnitPrice
}

// Multiplier compounds the age, size, room and city adjustments. The size bracket reads the
// recorded square footage, so a record without one takes the small-home discount even when
// its base value was computed from synthesized footage.
func (e *Estimator) Multiplier(in EstimateInput) float64 {
	m := 1.0

	if in.YearBuilt > 0 {
		age := e.cfg.ReferenceYear - in.YearBuilt

		switch {
		case age < 5:
			m *= 1.15
		case age < 15:
			m *= 1.05
		case age > 50:
			m *= 0.85
		}
	}

	switch {
	case in.SquareFeet > 3000:
		m *= 1.20
	case in.SquareFeet < 1000:
		m *= 0.80
	}

	if in.Bedrooms >= 4 {
		m *= 1.10
	}

	if in.Bathrooms >= 3 {
		m *= 1.05
	}

	if cityMult, ok := e.cfg.CityMultipliers[strings.ToLower(strings.TrimSpace(in.City))]; ok {
		m *= cityMult
	}

	return m
}

// Estimate values a property from its structural attributes, clamped to the configured bounds.
func (e *Estimator) Estimate(in EstimateInput) Estimate {
	est := Estimate{UnitPrice: e.UnitPrice(in.State, in.Type)}

	switch {
	case in.SquareFeet > 0:
		est.EffectiveSquareFeet = float64(in.SquareFeet)
		est.BaseValue = est.EffectiveSquareFeet * est.UnitPrice
	case in.Bedrooms > 0:
		est.EffectiveSquareFeet = float64(in.Bedrooms*sqftPerBedroom) + in.Bathrooms*sqftPerBathroom
		est.BaseValue = est.EffectiveSquareFeet * est.UnitPrice
		est.Synthesized = true
	default:
		est.BaseValue = e.cfg.FallbackBaseValue
	}

	est.Multiplier = e.Multiplier(in)

	value := math.Round(est.BaseValue * est.Multiplier)
	if math.IsNaN(value) || math.IsInf(value, 0) {
		est.Value = e.cfg.FallbackPrice
		est.Fallback = true

		return est
	}

	est.Value = math.Max(e.cfg.MinPrice, math.Min(value, e.cfg.MaxPrice))

	return est
}
