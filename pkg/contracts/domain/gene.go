package domain

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// GeneAnnotation holds the cleaned annotation fields for one gene. In the
// source table these arrive packed into a single composite NAME column.
// The common gene name may be absent; the systematic (ORF) identifier is
// always present and unique per gene.
type GeneAnnotation struct {
	Name           string `json:"name,omitempty"`
	Process        string `json:"biological_process"`
	Function       string `json:"molecular_function"`
	SystematicName string `json:"systematic_name" validate:"required"`
}

// DisplayName returns the common gene name when known, otherwise the
// systematic identifier.
func (g GeneAnnotation) DisplayName() string {
	if g.Name != "" {
		return g.Name
	}
	return g.SystematicName
}

// Matches reports whether the annotation answers to the given name,
// comparing case-insensitively against both the common and systematic
// names.
func (g GeneAnnotation) Matches(name string) bool {
	return strings.EqualFold(g.Name, name) || strings.EqualFold(g.SystematicName, name)
}

// Measurement is one tidy observation: a gene, a sample condition, and the
// log2 expression ratio measured under it. Records are immutable once the
// tidy dataset is built.
type Measurement struct {
	Gene       GeneAnnotation `json:"gene"`
	Nutrient   Nutrient       `json:"nutrient" validate:"required"`
	GrowthRate float64        `json:"growth_rate" validate:"gt=0"`
	Expression float64        `json:"expression"`
}

// Condition returns the sample condition of the measurement.
func (m Measurement) Condition() SampleCondition {
	return SampleCondition{Nutrient: m.Nutrient, GrowthRate: m.GrowthRate}
}

var validate = validator.New()

// Validate checks the measurement against its struct tags and the nutrient
// code set.
func (m Measurement) Validate() error {
	if err := validate.Struct(m); err != nil {
		return err
	}
	if _, err := ParseNutrient(string(m.Nutrient)); err != nil {
		return err
	}
	return nil
}
