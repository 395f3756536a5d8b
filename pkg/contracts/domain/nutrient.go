package domain

import (
	"fmt"
)

// Nutrient is the single-letter code of the limiting nutrient in a
// chemostat culture.
type Nutrient string

const (
	NutrientGlucose   Nutrient = "G"
	NutrientAmmonium  Nutrient = "N"
	NutrientPhosphate Nutrient = "P"
	NutrientSulfate   Nutrient = "S"
	NutrientLeucine   Nutrient = "L"
	NutrientUracil    Nutrient = "U"
)

// nutrientNames maps each code to its full name.
var nutrientNames = map[Nutrient]string{
	NutrientGlucose:   "Glucose",
	NutrientAmmonium:  "Ammonium",
	NutrientPhosphate: "Phosphate",
	NutrientSulfate:   "Sulfate",
	NutrientLeucine:   "Leucine",
	NutrientUracil:    "Uracil",
}

// Nutrients returns all six nutrient codes in canonical order.
func Nutrients() []Nutrient {
	return []Nutrient{
		NutrientGlucose,
		NutrientAmmonium,
		NutrientPhosphate,
		NutrientSulfate,
		NutrientLeucine,
		NutrientUracil,
	}
}

// ParseNutrient converts a single-letter code into a Nutrient.
func ParseNutrient(code string) (Nutrient, error) {
	n := Nutrient(code)
	if _, ok := nutrientNames[n]; !ok {
		return "", fmt.Errorf("unknown nutrient code %q", code)
	}
	return n, nil
}

// IsValid reports whether the nutrient is one of the six known codes.
func (n Nutrient) IsValid() bool {
	_, ok := nutrientNames[n]
	return ok
}

// FullName returns the human-readable nutrient name, or the raw code when
// the code is unknown.
func (n Nutrient) FullName() string {
	if name, ok := nutrientNames[n]; ok {
		return name
	}
	return string(n)
}

// String implements fmt.Stringer.
func (n Nutrient) String() string {
	return string(n)
}
