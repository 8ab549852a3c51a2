package normalizer

import (
	"math"
	"strings"

	"propertyiq/internal/accessor"
	"propertyiq/internal/config"
	"propertyiq/internal/models"
)

// Auxiliary holds the small price- and state-keyed heuristics.
type Auxiliary struct {
	cfg    config.ValuationConfig
	fields config.FieldPaths
}

// NewAuxiliary creates the auxiliary estimators over injected tables.
func NewAuxiliary(cfg config.ValuationConfig, fields config.FieldPaths) *Auxiliary {
	return &Auxiliary{cfg: cfg, fields: fields}
}

// Insurance estimates the annual premium from price and state, within the configured bounds.
func (a *Auxiliary) Insurance(price float64, state string) float64 {
	if !(price > 0) || math.IsInf(price, 0) {
		return a.cfg.InsuranceDefault
	}

	rate, ok := a.cfg.InsuranceRates[strings.ToUpper(strings.TrimSpace(state))]
	if !ok {
		rate = a.cfg.DefaultInsuranceRate
	}

	return math.Max(a.cfg.InsuranceMin, math.Min(price*rate, a.cfg.InsuranceMax))
}

// TaxRate derives the effective annual tax rate, or the default when tax or price is missing.
func (a *Auxiliary) TaxRate(record models.RawRecord, price float64) float64 {
	if price <= 0 {
		return a.cfg.DefaultTaxRate
	}

	tax := accessor.GetFloat(record, a.fields.AnnualTax, 0)
	if tax <= 0 {
		return a.cfg.DefaultTaxRate
	}

	return tax / price
}

// PropertyStatus always reports active; the provider has no reliable status signal.
func PropertyStatus(models.RawRecord) string {
	return models.StatusActive
}
