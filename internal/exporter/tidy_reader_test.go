package exporter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genex/pkg/contracts/domain"
)

func TestReadTidyCSVRoundTrip(t *testing.T) {
	paths := testPaths(t)
	ds := fixtureDataset(t)

	require.NoError(t, NewTidyExporter(paths, nil).ExportCombined(ds))

	loaded, err := ReadTidyCSV(paths.TidyCSV)
	require.NoError(t, err)

	assert.Equal(t, ds.Stats(), loaded.Stats())
	assert.Equal(t, ds.Measurements(), loaded.Measurements())

	leu1 := loaded.ByGene("LEU1")
	require.Len(t, leu1, 4)
	assert.Equal(t, "YGL009C", leu1[0].Gene.SystematicName)
	assert.Equal(t, domain.NutrientGlucose, leu1[0].Nutrient)
	assert.Equal(t, 0.05, leu1[0].GrowthRate)
	assert.Equal(t, -1.12, leu1[0].Expression)
}

func TestReadTidyCSVMissingFile(t *testing.T) {
	_, err := ReadTidyCSV(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestReadTidyCSVMissingColumn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("Name,Nutrient\nLEU1,G\n"), 0644))

	_, err := ReadTidyCSV(path)
	assert.Error(t, err)
}

func TestReadTidyCSVBadNutrient(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	content := "Name,BiologicalProcess,MolecularFunction,SystematicName,Nutrient,GrowthRate,Expression\n" +
		"LEU1,,,YGL009C,X,0.05,-1.12\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	_, err := ReadTidyCSV(path)
	assert.Error(t, err)
}
