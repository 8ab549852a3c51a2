package normalizer

import (
	"errors"
	"testing"

	"propertyiq/internal/models"
)

func validProperty() models.Property {
	return models.PlaceholderProperty("p-1")
}

func TestValidator_Validate(t *testing.T) {
	v := NewValidator(1200, 15000)

	tests := []struct {
		name    string
		mutate  func(p *models.Property)
		wantErr error
	}{
		{
			name:   "valid property",
			mutate: func(*models.Property) {},
		},
		{
			name:    "missing address",
			mutate:  func(p *models.Property) { p.Address = "" },
			wantErr: ErrMissingAddress,
		},
		{
			name:    "whitespace address",
			mutate:  func(p *models.Property) { p.Address = "   " },
			wantErr: ErrMissingAddress,
		},
		{
			name:    "negative price",
			mutate:  func(p *models.Property) { p.Price, p.EstimatedValue = -1, -1 },
			wantErr: ErrNegativePrice,
		},
		{
			name:    "price mismatch",
			mutate:  func(p *models.Property) { p.EstimatedValue = p.Price + 1 },
			wantErr: ErrPriceMismatch,
		},
		{
			name:    "invalid type",
			mutate:  func(p *models.Property) { p.PropertyType = "castle" },
			wantErr: ErrInvalidType,
		},
		{
			name:    "no images",
			mutate:  func(p *models.Property) { p.Images = nil },
			wantErr: ErrNoImages,
		},
		{
			name:    "too many features",
			mutate:  func(p *models.Property) { p.Features = append(p.Features, "Pool") },
			wantErr: ErrTooManyFeatures,
		},
		{
			name:    "empty description",
			mutate:  func(p *models.Property) { p.Description = "" },
			wantErr: ErrEmptyDescription,
		},
		{
			name:    "insurance below minimum",
			mutate:  func(p *models.Property) { p.InsuranceEstimate = 100 },
			wantErr: ErrInsuranceOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProperty()
			tt.mutate(&p)

			err := v.Validate(&p)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}

				return
			}

			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidator_DegradedPropertyFailsOnlyOnAddress(t *testing.T) {
	v := NewValidator(1200, 15000)
	p := models.DegradedProperty()

	if err := v.Validate(&p); !errors.Is(err, ErrMissingAddress) {
		t.Errorf("Validate(degraded) = %v, want ErrMissingAddress", err)
	}

	p.Address = "somewhere"
	if err := v.Validate(&p); err != nil {
		t.Errorf("degraded property with address should pass, got %v", err)
	}
}
