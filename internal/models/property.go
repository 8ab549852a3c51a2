// Package models defines the raw provider record and the canonical property record.
package models

// RawRecord is one property object as decoded from the provider's JSON body.
// No invariants hold on its shape.
type RawRecord = map[string]any

// PropertyType is the canonical property category.
type PropertyType string

// Canonical property categories.
const (
	SingleFamily PropertyType = "single_family"
	Condo        PropertyType = "condo"
	Townhouse    PropertyType = "townhouse"
	MultiFamily  PropertyType = "multi_family"
	Apartment    PropertyType = "apartment"
	Manufactured PropertyType = "manufactured"
	Unknown      PropertyType = "unknown"
)

// PropertyTypes lists every canonical category.
var PropertyTypes = []PropertyType{
	SingleFamily, Condo, Townhouse, MultiFamily, Apartment, Manufactured, Unknown,
}

// Valid reports whether t is one of the canonical categories.
func (t PropertyType) Valid() bool {
	for _, pt := range PropertyTypes {
		if pt == t {
			return true
		}
	}

	return false
}

// StatusActive is the only listing status the provider lets us derive.
const StatusActive = "active"

// Canonical record defaults.
const (
	NotAvailable         = "N/A"
	DefaultDaysOnMarket  = 30
	DefaultTaxRate       = 0.015
	DefaultInsurance     = 2400.0
	UnavailableNarrative = "Property details available upon request."
)

// Property is the canonical record handed to clients. Every field is populated;
// Latitude and Longitude are nil when the provider reported no coordinate.
type Property struct {
	Latitude          *float64     `json:"latitude"`
	Longitude         *float64     `json:"longitude"`
	SchoolRating      *float64     `json:"school_rating"`
	ID                string       `json:"id"`
	Address           string       `json:"address"`
	City              string       `json:"city"`
	State             string       `json:"state"`
	ZipCode           string       `json:"zip_code"`
	PropertyType      PropertyType `json:"property_type"`
	PropertyStatus    string       `json:"property_status"`
	Description       string       `json:"description"`
	Neighborhood      string       `json:"neighborhood"`
	Features          []string     `json:"features"`
	Images            []string     `json:"images"`
	Price             float64      `json:"price"`
	EstimatedValue    float64      `json:"estimated_value"`
	Bathrooms         float64      `json:"bathrooms"`
	HOAFee            float64      `json:"hoa_fee"`
	PropertyTaxRate   float64      `json:"property_tax_rate"`
	InsuranceEstimate float64      `json:"insurance_estimate"`
	Bedrooms          int          `json:"bedrooms"`
	SquareFeet        int          `json:"square_feet"`
	LotSize           int          `json:"lot_size"`
	YearBuilt         int          `json:"year_built"`
	DaysOnMarket      int          `json:"days_on_market"`
}

// Coordinate converts the provider convention (0 means no coordinate) into a pointer.
func Coordinate(v float64) *float64 {
	if v == 0 {
		return nil
	}

	return &v
}
