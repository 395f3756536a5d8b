package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMeasurements() []Measurement {
	leu1 := GeneAnnotation{
		Name:           "LEU1",
		Process:        "leucine biosynthesis",
		Function:       "3-isopropylmalate dehydratase",
		SystematicName: "YGL009C",
	}
	unnamed := GeneAnnotation{
		Process:        "biological process unknown",
		Function:       "molecular function unknown",
		SystematicName: "YNL095C",
	}

	return []Measurement{
		{Gene: leu1, Nutrient: NutrientGlucose, GrowthRate: 0.05, Expression: -1.12},
		{Gene: leu1, Nutrient: NutrientGlucose, GrowthRate: 0.3, Expression: -2.96},
		{Gene: leu1, Nutrient: NutrientLeucine, GrowthRate: 0.05, Expression: 3.28},
		{Gene: unnamed, Nutrient: NutrientGlucose, GrowthRate: 0.05, Expression: 0.21},
	}
}

func TestNewTidyDataset(t *testing.T) {
	ds, err := NewTidyDataset(testMeasurements())
	require.NoError(t, err)

	assert.Equal(t, 4, ds.Len())

	stats := ds.Stats()
	assert.Equal(t, 4, stats.Measurements)
	assert.Equal(t, 2, stats.Genes)
	assert.Equal(t, 2, stats.Processes)
	assert.Equal(t, 2, stats.Nutrients)
}

func TestNewTidyDatasetRejectsMissingSystematicName(t *testing.T) {
	_, err := NewTidyDataset([]Measurement{
		{Gene: GeneAnnotation{Name: "LEU1"}, Nutrient: NutrientGlucose, GrowthRate: 0.05},
	})
	assert.Error(t, err)
}

func TestNewTidyDatasetRejectsUnknownNutrient(t *testing.T) {
	_, err := NewTidyDataset([]Measurement{
		{Gene: GeneAnnotation{SystematicName: "YGL009C"}, Nutrient: Nutrient("X"), GrowthRate: 0.05},
	})
	assert.Error(t, err)
}

func TestTidyDatasetByGene(t *testing.T) {
	ds, err := NewTidyDataset(testMeasurements())
	require.NoError(t, err)

	byName := ds.ByGene("LEU1")
	assert.Len(t, byName, 3)

	// Lookup is case-insensitive on the common name.
	assert.Len(t, ds.ByGene("leu1"), 3)

	// Unnamed genes are reachable through the systematic name.
	bySystematic := ds.ByGene("YNL095C")
	require.Len(t, bySystematic, 1)
	assert.Equal(t, "YNL095C", bySystematic[0].Gene.SystematicName)

	assert.Nil(t, ds.ByGene("ADH1"))
}

func TestTidyDatasetByProcess(t *testing.T) {
	ds, err := NewTidyDataset(testMeasurements())
	require.NoError(t, err)

	ms := ds.ByProcess("leucine biosynthesis")
	assert.Len(t, ms, 3)
	for _, m := range ms {
		assert.Equal(t, "LEU1", m.Gene.Name)
	}

	assert.Empty(t, ds.ByProcess("sulfur metabolism"))
}

func TestTidyDatasetByNutrient(t *testing.T) {
	ds, err := NewTidyDataset(testMeasurements())
	require.NoError(t, err)

	assert.Len(t, ds.ByNutrient(NutrientGlucose), 3)
	assert.Len(t, ds.ByNutrient(NutrientLeucine), 1)
	assert.Empty(t, ds.ByNutrient(NutrientUracil))
}

func TestTidyDatasetAccessorsReturnCopies(t *testing.T) {
	ds, err := NewTidyDataset(testMeasurements())
	require.NoError(t, err)

	ms := ds.Measurements()
	ms[0].Expression = 99.0

	again := ds.Measurements()
	assert.InDelta(t, -1.12, again[0].Expression, 1e-12)
}

func TestTidyDatasetGenesAndProcesses(t *testing.T) {
	ds, err := NewTidyDataset(testMeasurements())
	require.NoError(t, err)

	genes := ds.Genes()
	require.Len(t, genes, 2)
	assert.Equal(t, "YGL009C", genes[0].SystematicName)
	assert.Equal(t, "YNL095C", genes[1].SystematicName)

	assert.Equal(t, []string{"biological process unknown", "leucine biosynthesis"}, ds.Processes())
}

func TestGeneAnnotationDisplayName(t *testing.T) {
	named := GeneAnnotation{Name: "LEU1", SystematicName: "YGL009C"}
	assert.Equal(t, "LEU1", named.DisplayName())

	unnamed := GeneAnnotation{SystematicName: "YNL095C"}
	assert.Equal(t, "YNL095C", unnamed.DisplayName())

	assert.True(t, named.Matches("leu1"))
	assert.True(t, named.Matches("YGL009C"))
	assert.False(t, named.Matches("ADH1"))
}

func TestMeasurementValidate(t *testing.T) {
	m := Measurement{
		Gene:       GeneAnnotation{SystematicName: "YGL009C"},
		Nutrient:   NutrientGlucose,
		GrowthRate: 0.05,
		Expression: -1.12,
	}
	assert.NoError(t, m.Validate())

	m.GrowthRate = 0
	assert.Error(t, m.Validate())
}
