package exporter

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"genex/internal/dataprocessing"
	"genex/pkg/contracts/domain"
)

func fixtureDataset(t *testing.T) *domain.TidyDataset {
	t.Helper()

	leu1 := domain.GeneAnnotation{
		Name:           "LEU1",
		Process:        "leucine biosynthesis",
		Function:       "3-isopropylmalate dehydratase",
		SystematicName: "YGL009C",
	}
	unnamed := domain.GeneAnnotation{
		Process:        "biological process unknown",
		Function:       "molecular function unknown",
		SystematicName: "YNL095C",
	}

	ds, err := domain.NewTidyDataset([]domain.Measurement{
		{Gene: leu1, Nutrient: domain.NutrientGlucose, GrowthRate: 0.05, Expression: -1.12},
		{Gene: leu1, Nutrient: domain.NutrientGlucose, GrowthRate: 0.3, Expression: -2.96},
		{Gene: leu1, Nutrient: domain.NutrientLeucine, GrowthRate: 0.05, Expression: 3.28},
		{Gene: leu1, Nutrient: domain.NutrientLeucine, GrowthRate: 0.3, Expression: 0.96},
		{Gene: unnamed, Nutrient: domain.NutrientGlucose, GrowthRate: 0.05, Expression: 0.21},
		{Gene: unnamed, Nutrient: domain.NutrientGlucose, GrowthRate: 0.3, Expression: 0.09},
	})
	require.NoError(t, err)
	return ds
}

func TestExportCombined(t *testing.T) {
	paths := testPaths(t)
	ds := fixtureDataset(t)

	require.NoError(t, NewTidyExporter(paths, nil).ExportCombined(ds))

	rows := readCSV(t, paths.TidyCSV)
	require.Len(t, rows, 7, "header plus six measurements")
	assert.Equal(t, tidyHeaders, rows[0])

	first := rows[1]
	assert.Equal(t, "LEU1", first[0])
	assert.Equal(t, "YGL009C", first[3])
	assert.Equal(t, "G", first[4])
	assert.Equal(t, "0.05", first[5])
	assert.Equal(t, "-1.12", first[6])

	// Nutrient code + growth rate recombine into the original header.
	for _, row := range rows[1:] {
		label := row[4] + row[5]
		assert.True(t, domain.IsSampleLabel(label), "label %s", label)
	}
}

func TestExportPerNutrient(t *testing.T) {
	paths := testPaths(t)
	ds := fixtureDataset(t)

	require.NoError(t, NewTidyExporter(paths, nil).ExportPerNutrient(ds))

	glucose := readCSV(t, paths.GetReportPath("nutrient_g.csv"))
	assert.Len(t, glucose, 5, "header plus four glucose measurements")

	leucine := readCSV(t, paths.GetReportPath("nutrient_l.csv"))
	assert.Len(t, leucine, 3)

	// No uracil measurements, no uracil file.
	_, err := os.Stat(paths.GetReportPath("nutrient_u.csv"))
	assert.True(t, os.IsNotExist(err))
}

func TestExportPerGene(t *testing.T) {
	paths := testPaths(t)
	ds := fixtureDataset(t)

	require.NoError(t, NewTidyExporter(paths, nil).ExportPerGene(ds))

	leu1 := readCSV(t, paths.GetReportPath("gene_YGL009C.csv"))
	assert.Len(t, leu1, 5)

	unnamed := readCSV(t, paths.GetReportPath("gene_YNL095C.csv"))
	assert.Len(t, unnamed, 3)
}

func TestSummaryExport(t *testing.T) {
	paths := testPaths(t)
	ds := fixtureDataset(t)

	summarizer := dataprocessing.NewSummarizer(nil, dataprocessing.SummarizerConfig{})
	summaries, err := summarizer.GenerateFromDataset(context.Background(), ds)
	require.NoError(t, err)
	require.NotEmpty(t, summaries)

	require.NoError(t, NewSummaryExporter(paths, nil).Export(summaries))

	rows := readCSV(t, paths.GeneSummaryCSV)
	require.Len(t, rows, len(summaries)+1)
	assert.Equal(t, summaryHeaders, rows[0])
	assert.Equal(t, "YGL009C", rows[1][0])
}

func TestWorkbookExport(t *testing.T) {
	paths := testPaths(t)
	ds := fixtureDataset(t)

	summarizer := dataprocessing.NewSummarizer(nil, dataprocessing.SummarizerConfig{})
	summaries, err := summarizer.GenerateFromDataset(context.Background(), ds)
	require.NoError(t, err)

	require.NoError(t, NewWorkbookExporter(paths, nil).Export(ds, summaries))

	f, err := excelize.OpenFile(paths.WorkbookXLSX)
	require.NoError(t, err)
	defer f.Close()

	tidyRows, err := f.GetRows("Tidy")
	require.NoError(t, err)
	assert.Len(t, tidyRows, 7)

	summaryRows, err := f.GetRows("Summary")
	require.NoError(t, err)
	assert.Len(t, summaryRows, len(summaries)+1)
}
