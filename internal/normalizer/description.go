package normalizer

import (
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"propertyiq/internal/models"
)

// GenericDescription is used when no clause can be built.
const GenericDescription = "This property offers comfortable living in a desirable location."

const maxDescribedFeatures = 3

// printer groups thousands ("2,100") in generated prose.
var printer = message.NewPrinter(language.English)

// Describe composes a short listing narrative from normalized attributes.
func Describe(bedrooms int, bathrooms float64, squareFeet, yearBuilt int, t models.PropertyType, features []string) string {
	var clauses []string

	if bedrooms > 0 && bathrooms > 0 {
		clauses = append(clauses, printer.Sprintf("This %s features %d bedrooms and %s bathrooms",
			typeLabel(t), bedrooms, strconv.FormatFloat(bathrooms, 'f', -1, 64)))
	}

	if squareFeet > 0 {
		clauses = append(clauses, printer.Sprintf("With %d square feet of living space", squareFeet))
	}

	if yearBuilt > 0 {
		switch {
		case yearBuilt >= 2010:
			clauses = append(clauses, "Built in "+strconv.Itoa(yearBuilt)+", this modern home offers contemporary living")
		case yearBuilt >= 1990:
			clauses = append(clauses, "Built in "+strconv.Itoa(yearBuilt)+", this well-maintained property")
		default:
			clauses = append(clauses, "This classic home from "+strconv.Itoa(yearBuilt)+" offers timeless character")
		}
	}

	if len(features) > 0 {
		shown := features
		if len(shown) > maxDescribedFeatures {
			shown = shown[:maxDescribedFeatures]
		}

		clauses = append(clauses, "Notable features include: "+strings.Join(shown, ", "))
	}

	if len(clauses) == 0 {
		return GenericDescription
	}

	return strings.Join(clauses, ". ") + "."
}

func typeLabel(t models.PropertyType) string {
	if t == "" {
		t = models.SingleFamily
	}

	return strings.ReplaceAll(string(t), "_", " ")
}
