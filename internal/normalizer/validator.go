package normalizer

import (
	"errors"
	"fmt"
	"strings"

	"propertyiq/internal/models"
)

// Validation errors.
var (
	ErrMissingAddress      = errors.New("property has no street address")
	ErrNegativePrice       = errors.New("property price is negative")
	ErrPriceMismatch       = errors.New("price and estimated value differ")
	ErrInvalidType         = errors.New("property type is not a canonical category")
	ErrNoImages            = errors.New("property has no images")
	ErrTooManyFeatures     = errors.New("property has more than five features")
	ErrEmptyDescription    = errors.New("property description is empty")
	ErrInsuranceOutOfRange = errors.New("insurance estimate outside configured bounds")
)

// Validator is the output gate for canonical records.
type Validator struct {
	insuranceMin float64
	insuranceMax float64
}

// NewValidator creates a validator enforcing the given insurance bounds.
func NewValidator(insuranceMin, insuranceMax float64) *Validator {
	return &Validator{insuranceMin: insuranceMin, insuranceMax: insuranceMax}
}

// Validate checks a canonical record. Only a missing address is expected in practice;
// the remaining checks guard invariants the normalizer establishes by construction.
func (v *Validator) Validate(p *models.Property) error {
	if strings.TrimSpace(p.Address) == "" {
		return ErrMissingAddress
	}

	if p.Price < 0 {
		return fmt.Errorf("%w: %v", ErrNegativePrice, p.Price)
	}

	if p.Price != p.EstimatedValue {
		return ErrPriceMismatch
	}

	if !p.PropertyType.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidType, p.PropertyType)
	}

	if len(p.Images) == 0 {
		return ErrNoImages
	}

	if len(p.Features) > maxFeatures {
		return fmt.Errorf("%w: %d", ErrTooManyFeatures, len(p.Features))
	}

	if p.Description == "" {
		return ErrEmptyDescription
	}

	if p.InsuranceEstimate < v.insuranceMin || p.InsuranceEstimate > v.insuranceMax {
		return fmt.Errorf("%w: %v", ErrInsuranceOutOfRange, p.InsuranceEstimate)
	}

	return nil
}
