package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genex/internal/dataprocessing"
	"genex/internal/errors"
	"genex/pkg/contracts/domain"
)

type fakeRenderer struct {
	genePath      string
	processPaths  []string
	histogramPath string
	err           error
}

func (f *fakeRenderer) GeneProfile(_ context.Context, _ *domain.TidyDataset, _ string) (string, error) {
	return f.genePath, f.err
}

func (f *fakeRenderer) ProcessProfiles(_ context.Context, _ *domain.TidyDataset, _ string) ([]string, error) {
	return f.processPaths, f.err
}

func (f *fakeRenderer) ExpressionHistogram(_ context.Context, _ *domain.TidyDataset) (string, error) {
	return f.histogramPath, f.err
}

func fixtureDataset(t *testing.T) *domain.TidyDataset {
	t.Helper()

	leu1 := domain.GeneAnnotation{
		Name:           "LEU1",
		Process:        "leucine biosynthesis",
		SystematicName: "YGL009C",
	}
	unnamed := domain.GeneAnnotation{SystematicName: "YNL095C"}

	var ms []domain.Measurement
	for _, rate := range []float64{0.05, 0.1, 0.15, 0.3} {
		ms = append(ms, domain.Measurement{
			Gene: leu1, Nutrient: domain.NutrientGlucose, GrowthRate: rate, Expression: -rate,
		})
	}
	for _, rate := range []float64{0.05, 0.3} {
		ms = append(ms, domain.Measurement{
			Gene: unnamed, Nutrient: domain.NutrientLeucine, GrowthRate: rate, Expression: rate,
		})
	}

	ds, err := domain.NewTidyDataset(ms)
	require.NoError(t, err)
	return ds
}

func fixtureSummaries(t *testing.T, ds *domain.TidyDataset) []dataprocessing.GeneNutrientSummary {
	t.Helper()
	summarizer := dataprocessing.NewSummarizer(nil, dataprocessing.SummarizerConfig{})
	summaries, err := summarizer.GenerateFromDataset(context.Background(), ds)
	require.NoError(t, err)
	return summaries
}

func loadedHandler(t *testing.T) *Handler {
	t.Helper()
	ds := fixtureDataset(t)
	h := NewHandler(&fakeRenderer{genePath: "/tmp/plots/gene_leu1.png"}, t.TempDir(), nil)
	h.SetDataset(ds, fixtureSummaries(t, ds))
	return h
}

func doRequest(t *testing.T, h *Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	h.Routes().ServeHTTP(rec, req)
	return rec
}

func TestGetHealth(t *testing.T) {
	rec := doRequest(t, loadedHandler(t), http.MethodGet, "/api/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, true, body["dataset_loaded"])
}

func TestGetHealthWithoutDataset(t *testing.T) {
	h := NewHandler(&fakeRenderer{}, t.TempDir(), nil)
	rec := doRequest(t, h, http.MethodGet, "/api/health")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["dataset_loaded"])
}

func TestGetDatasetStats(t *testing.T) {
	rec := doRequest(t, loadedHandler(t), http.MethodGet, "/api/dataset/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	var stats domain.DatasetStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 6, stats.Measurements)
	assert.Equal(t, 2, stats.Genes)
	assert.Equal(t, 2, stats.Nutrients)
}

func TestGetDatasetStatsBeforeLoad(t *testing.T) {
	h := NewHandler(&fakeRenderer{}, t.TempDir(), nil)
	rec := doRequest(t, h, http.MethodGet, "/api/dataset/stats")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestGetGenes(t *testing.T) {
	rec := doRequest(t, loadedHandler(t), http.MethodGet, "/api/genes")
	require.Equal(t, http.StatusOK, rec.Code)

	var genes []domain.GeneAnnotation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &genes))
	require.Len(t, genes, 2)
	assert.Equal(t, "YGL009C", genes[0].SystematicName)
	assert.Equal(t, "YNL095C", genes[1].SystematicName)
}

func TestGetGenesFilteredByProcess(t *testing.T) {
	rec := doRequest(t, loadedHandler(t), http.MethodGet, "/api/genes?process=leucine+biosynthesis")
	require.Equal(t, http.StatusOK, rec.Code)

	var genes []domain.GeneAnnotation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &genes))
	require.Len(t, genes, 1)
	assert.Equal(t, "LEU1", genes[0].Name)
}

func TestGetGenesUnknownProcess(t *testing.T) {
	rec := doRequest(t, loadedHandler(t), http.MethodGet, "/api/genes?process=nonexistent")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetGeneMeasurements(t *testing.T) {
	rec := doRequest(t, loadedHandler(t), http.MethodGet, "/api/genes/leu1")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Gene         domain.GeneAnnotation `json:"gene"`
		Measurements []domain.Measurement  `json:"measurements"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "LEU1", body.Gene.Name)
	assert.Len(t, body.Measurements, 4)
}

func TestGetGeneMeasurementsNotFound(t *testing.T) {
	rec := doRequest(t, loadedHandler(t), http.MethodGet, "/api/genes/ADH1")
	require.Equal(t, http.StatusNotFound, rec.Code)

	var apiErr errors.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &apiErr))
	assert.Equal(t, "NOT_FOUND", apiErr.ErrorCode)
}

func TestGetNutrientMeasurements(t *testing.T) {
	rec := doRequest(t, loadedHandler(t), http.MethodGet, "/api/nutrients/G")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		FullName     string               `json:"full_name"`
		Measurements []domain.Measurement `json:"measurements"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Glucose", body.FullName)
	assert.Len(t, body.Measurements, 4)
}

func TestGetNutrientMeasurementsBadCode(t *testing.T) {
	rec := doRequest(t, loadedHandler(t), http.MethodGet, "/api/nutrients/X")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSummaries(t *testing.T) {
	rec := doRequest(t, loadedHandler(t), http.MethodGet, "/api/summaries")
	require.Equal(t, http.StatusOK, rec.Code)

	var summaries []dataprocessing.GeneNutrientSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summaries))
	assert.Len(t, summaries, 2)
}

func TestGetSummariesFilteredByGene(t *testing.T) {
	rec := doRequest(t, loadedHandler(t), http.MethodGet, "/api/summaries?gene=YGL009C")
	require.Equal(t, http.StatusOK, rec.Code)

	var summaries []dataprocessing.GeneNutrientSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, "LEU1", summaries[0].GeneName)
}

func TestRenderGenePlot(t *testing.T) {
	rec := doRequest(t, loadedHandler(t), http.MethodGet, "/api/plots/gene/LEU1")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "/plots/gene_leu1.png", body["plot"])
}

func TestRenderGenePlotError(t *testing.T) {
	ds := fixtureDataset(t)
	h := NewHandler(&fakeRenderer{err: errors.NewNotFoundError("gene ADH1")}, t.TempDir(), nil)
	h.SetDataset(ds, nil)

	rec := doRequest(t, h, http.MethodGet, "/api/plots/gene/ADH1")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRenderProcessPlots(t *testing.T) {
	ds := fixtureDataset(t)
	h := NewHandler(&fakeRenderer{
		processPaths: []string{"/tmp/plots/process_a.png", "/tmp/plots/process_b.png"},
	}, t.TempDir(), nil)
	h.SetDataset(ds, nil)

	rec := doRequest(t, h, http.MethodGet, "/api/plots/process/leucine+biosynthesis")
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string][]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"/plots/process_a.png", "/plots/process_b.png"}, body["plots"])
}
