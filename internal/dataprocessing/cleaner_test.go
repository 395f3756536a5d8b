package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genex/internal/config"
)

func defaultPipelineConfig() config.PipelineConfig {
	return config.PipelineConfig{
		AnnotationSeparator: "||",
		AnnotationFields:    5,
	}
}

func TestCleanSplitsAndTrims(t *testing.T) {
	table, err := ParseFile(writeFixtureTSV(t, fixtureTSV))
	require.NoError(t, err)

	cleaner := NewCleaner(defaultPipelineConfig(), nil)
	annotated, stats, err := cleaner.Clean(table)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.RowsIn)
	assert.Equal(t, 3, stats.RowsOut)
	assert.Equal(t, 0, stats.MalformedRows)

	first := annotated.Rows[0].Gene
	assert.Equal(t, "SFB2", first.Name)
	assert.Equal(t, "ER to Golgi transport", first.Process)
	assert.Equal(t, "molecular function unknown", first.Function)
	assert.Equal(t, "YNL049C", first.SystematicName)

	// Empty gene name survives as empty string, not as padding.
	second := annotated.Rows[1].Gene
	assert.Equal(t, "", second.Name)
	assert.Equal(t, "YNL095C", second.SystematicName)

	// Per-sample cells come through aligned with the sample columns.
	assert.Equal(t, []string{"-0.24", "-0.13", "-0.02", "0.15"}, annotated.Rows[0].Cells)
	assert.Equal(t, []string{"0.28", "0.13", "-0.4", ""}, annotated.Rows[1].Cells)
}

func TestCleanNoWhitespaceRemains(t *testing.T) {
	table, err := ParseFile(writeFixtureTSV(t, fixtureTSV))
	require.NoError(t, err)

	cleaner := NewCleaner(defaultPipelineConfig(), nil)
	annotated, _, err := cleaner.Clean(table)
	require.NoError(t, err)

	for _, row := range annotated.Rows {
		for _, field := range []string{row.Gene.Name, row.Gene.Process, row.Gene.Function, row.Gene.SystematicName} {
			assert.Equal(t, field, trimSpaceCheck(field))
		}
	}
}

func trimSpaceCheck(s string) string {
	// mirrors the invariant: no leading/trailing whitespace after cleaning
	for len(s) > 0 && (s[0] == ' ' || s[0] == '\t') {
		s = s[1:]
	}
	for len(s) > 0 && (s[len(s)-1] == ' ' || s[len(s)-1] == '\t') {
		s = s[:len(s)-1]
	}
	return s
}

func TestCleanLenientSkipsMalformedRows(t *testing.T) {
	content := "GID\tYORF\tNAME\tGWEIGHT\tG0.05\n" +
		"GENE1\tA\tSFB2 || bp || mf || YNL049C || 1\t1\t-0.24\n" +
		"GENE2\tB\tbroken name without separators\t1\t0.5\n" +
		"GENE3\tC\tX || bp || mf ||  || 3\t1\t0.1\n"
	table, err := ParseFile(writeFixtureTSV(t, content))
	require.NoError(t, err)

	cleaner := NewCleaner(defaultPipelineConfig(), nil)
	annotated, stats, err := cleaner.Clean(table)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.RowsIn)
	assert.Equal(t, 1, stats.RowsOut, "wrong field count and empty systematic name are both malformed")
	assert.Equal(t, 2, stats.MalformedRows)
	assert.Equal(t, "YNL049C", annotated.Rows[0].Gene.SystematicName)
}

func TestCleanStrictFailsOnMalformedRow(t *testing.T) {
	content := "GID\tYORF\tNAME\tGWEIGHT\tG0.05\n" +
		"GENE1\tA\tbroken name\t1\t-0.24\n"
	table, err := ParseFile(writeFixtureTSV(t, content))
	require.NoError(t, err)

	cfg := defaultPipelineConfig()
	cfg.Strict = true
	cleaner := NewCleaner(cfg, nil)

	_, _, err = cleaner.Clean(table)
	assert.Error(t, err)
}
