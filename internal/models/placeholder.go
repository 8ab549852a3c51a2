package models

// FallbackImage is the stock photo used when no image set can be selected.
const FallbackImage = "https://images.unsplash.com/photo-1580587771525-78b9dba3b914?w=800&h=600&fit=crop&auto=format&q=80"

// DegradedProperty is the record returned for input that is not a property object at all.
// Address stays empty so the search validity gate drops it.
func DegradedProperty() Property {
	return Property{
		City:              NotAvailable,
		State:             NotAvailable,
		ZipCode:           NotAvailable,
		PropertyType:      Unknown,
		PropertyStatus:    StatusActive,
		Description:       UnavailableNarrative,
		Neighborhood:      NotAvailable,
		Features:          []string{},
		Images:            []string{FallbackImage},
		PropertyTaxRate:   DefaultTaxRate,
		InsuranceEstimate: DefaultInsurance,
		DaysOnMarket:      DefaultDaysOnMarket,
	}
}

// PlaceholderProperty is the fixed record served when an id lookup finds nothing.
func PlaceholderProperty(id string) Property {
	return Property{
		ID:             id,
		Address:        "1234 Sample Street",
		City:           "Austin",
		State:          "TX",
		ZipCode:        "78701",
		Price:          450000,
		EstimatedValue: 450000,
		Images: []string{
			"https://images.unsplash.com/photo-1570129477-d4d2e7e6de2d?w=800&q=80",
			"https://images.unsplash.com/photo-1586023492-413d21e96b22?w=800&q=80",
		},
		Bedrooms:     3,
		Bathrooms:    2.5,
		SquareFeet:   2100,
		YearBuilt:    2008,
		LotSize:      7500,
		PropertyType: SingleFamily,
		Description: "This single family features 3 bedrooms and 2.5 bathrooms with 2,100 square feet of living space. " +
			"Built in 2008, this well-maintained property offers contemporary living. " +
			"Notable features include: Updated Interior, Modern Amenities, Hardwood Floors.",
		Features:          []string{"Updated Interior", "Modern Amenities", "Hardwood Floors", "Two-Car Garage", "Fenced Yard"},
		Latitude:          Coordinate(30.2672),
		Longitude:         Coordinate(-97.7431),
		Neighborhood:      "Central Austin",
		DaysOnMarket:      DefaultDaysOnMarket,
		PropertyStatus:    StatusActive,
		PropertyTaxRate:   0.018,
		InsuranceEstimate: 3600,
	}
}
