package domain

import (
	"fmt"
	"strconv"
)

// SampleCondition identifies one chemostat culture: the limiting nutrient
// and the dilution (growth) rate. In the wide source table each condition
// is a column whose header concatenates the two, e.g. "G0.05" or "U0.3".
type SampleCondition struct {
	Nutrient   Nutrient `json:"nutrient" validate:"required"`
	GrowthRate float64  `json:"growth_rate" validate:"gt=0"`
}

// ParseSampleLabel splits a wide-table column header into its nutrient code
// (first character) and growth rate (remainder, a decimal fraction).
func ParseSampleLabel(label string) (SampleCondition, error) {
	if len(label) < 2 {
		return SampleCondition{}, fmt.Errorf("sample label %q too short", label)
	}

	nutrient, err := ParseNutrient(label[:1])
	if err != nil {
		return SampleCondition{}, fmt.Errorf("sample label %q: %w", label, err)
	}

	rate, err := strconv.ParseFloat(label[1:], 64)
	if err != nil {
		return SampleCondition{}, fmt.Errorf("sample label %q: invalid growth rate: %w", label, err)
	}
	if rate <= 0 {
		return SampleCondition{}, fmt.Errorf("sample label %q: growth rate must be positive", label)
	}

	return SampleCondition{Nutrient: nutrient, GrowthRate: rate}, nil
}

// IsSampleLabel reports whether a column header has the nutrient+rate shape.
// Used during header mapping to tell sample columns apart from identifier
// columns.
func IsSampleLabel(label string) bool {
	_, err := ParseSampleLabel(label)
	return err == nil
}

// Label reformats the condition as the original column header. The growth
// rate is printed with minimal digits so ParseSampleLabel round-trips:
// Label(ParseSampleLabel("G0.05")) == "G0.05".
func (c SampleCondition) Label() string {
	return string(c.Nutrient) + strconv.FormatFloat(c.GrowthRate, 'f', -1, 64)
}

// String implements fmt.Stringer.
func (c SampleCondition) String() string {
	return fmt.Sprintf("%s limitation at rate %.2f", c.Nutrient.FullName(), c.GrowthRate)
}
