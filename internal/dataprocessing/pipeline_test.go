package dataprocessing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genex/internal/config"
	"genex/pkg/contracts/domain"
)

func TestPipelineRun(t *testing.T) {
	path := writeFixtureTSV(t, fixtureTSV)

	pipeline := NewPipeline(defaultPipelineConfig(), nil)
	ds, stats, err := pipeline.Run(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, path, stats.SourceFile)
	assert.Equal(t, 3, stats.Clean.RowsOut)
	assert.Equal(t, 10, stats.Melt.Measurements)
	assert.Equal(t, 2, stats.Melt.BlankCells)

	assert.Equal(t, 10, ds.Len())
	assert.Equal(t, 3, ds.Stats().Genes)

	sfb2 := ds.ByGene("SFB2")
	require.Len(t, sfb2, 4)
	assert.Equal(t, "ER to Golgi transport", sfb2[0].Gene.Process)

	// The unnamed gene is reachable by systematic name only.
	assert.Len(t, ds.ByGene("YNL095C"), 3)

	assert.Len(t, ds.ByNutrient(domain.NutrientGlucose), 6)
}

func TestPipelineRunStrictMalformed(t *testing.T) {
	content := "GID\tYORF\tNAME\tGWEIGHT\tG0.05\n" +
		"GENE1\tA\tnot a composite name\t1\t0.5\n"
	path := writeFixtureTSV(t, content)

	cfg := config.PipelineConfig{
		AnnotationSeparator: "||",
		AnnotationFields:    5,
		Strict:              true,
	}
	_, _, err := NewPipeline(cfg, nil).Run(context.Background(), path)
	assert.Error(t, err)
}

func TestPipelineRunMissingFile(t *testing.T) {
	_, _, err := NewPipeline(defaultPipelineConfig(), nil).Run(context.Background(), "does-not-exist.pcl")
	assert.Error(t, err)
}
