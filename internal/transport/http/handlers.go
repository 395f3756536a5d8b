package http

import (
	"context"
	"log/slog"
	"net/http"
	"path/filepath"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"genex/internal/dataprocessing"
	apierrors "genex/internal/errors"
	"genex/pkg/contracts/domain"
)

// PlotRenderer is the slice of the plotting renderer the viewer needs.
type PlotRenderer interface {
	GeneProfile(ctx context.Context, ds *domain.TidyDataset, geneName string) (string, error)
	ProcessProfiles(ctx context.Context, ds *domain.TidyDataset, process string) ([]string, error)
	ExpressionHistogram(ctx context.Context, ds *domain.TidyDataset) (string, error)
}

// Handler serves the tidy dataset over HTTP. The dataset is loaded once
// at startup and swapped atomically on reload.
type Handler struct {
	mu        sync.RWMutex
	dataset   *domain.TidyDataset
	summaries []dataprocessing.GeneNutrientSummary

	renderer PlotRenderer
	plotsDir string
	logger   *slog.Logger
}

// NewHandler creates the viewer handler. The dataset may be nil until
// SetDataset runs; requests then answer 503.
func NewHandler(renderer PlotRenderer, plotsDir string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		renderer: renderer,
		plotsDir: plotsDir,
		logger:   logger.With(slog.String("component", "viewer_handler")),
	}
}

// SetDataset installs the dataset and its summaries.
func (h *Handler) SetDataset(ds *domain.TidyDataset, summaries []dataprocessing.GeneNutrientSummary) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.dataset = ds
	h.summaries = summaries
}

func (h *Handler) snapshot() (*domain.TidyDataset, []dataprocessing.GeneNutrientSummary) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.dataset, h.summaries
}

// Routes returns the viewer routes.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		r.Get("/health", h.GetHealth)
		r.Get("/dataset/stats", h.GetDatasetStats)
		r.Get("/genes", h.GetGenes)
		r.Get("/genes/{name}", h.GetGeneMeasurements)
		r.Get("/nutrients/{code}", h.GetNutrientMeasurements)
		r.Get("/summaries", h.GetSummaries)
		r.Get("/plots/gene/{name}", h.RenderGenePlot)
		r.Get("/plots/process/{process}", h.RenderProcessPlots)
		r.Get("/plots/histogram", h.RenderHistogram)
	})

	// Rendered PNGs are plain static files.
	r.Handle("/plots/*", http.StripPrefix("/plots/", http.FileServer(http.Dir(h.plotsDir))))

	return r
}

// GetHealth handles GET /api/health.
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	ds, _ := h.snapshot()
	render.JSON(w, r, map[string]interface{}{
		"status":         "healthy",
		"dataset_loaded": ds != nil,
	})
}

// GetDatasetStats handles GET /api/dataset/stats.
func (h *Handler) GetDatasetStats(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.requireDataset(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, ds.Stats())
}

// GetGenes handles GET /api/genes. An optional process query parameter
// filters to genes annotated with that biological process.
func (h *Handler) GetGenes(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.requireDataset(w, r)
	if !ok {
		return
	}

	if process := r.URL.Query().Get("process"); process != "" {
		ms := ds.ByProcess(process)
		if len(ms) == 0 {
			h.renderError(w, r, apierrors.NotFoundError("biological process"))
			return
		}

		seen := make(map[string]bool)
		genes := make([]domain.GeneAnnotation, 0)
		for _, m := range ms {
			if !seen[m.Gene.SystematicName] {
				seen[m.Gene.SystematicName] = true
				genes = append(genes, m.Gene)
			}
		}
		render.JSON(w, r, genes)
		return
	}

	render.JSON(w, r, ds.Genes())
}

// GetGeneMeasurements handles GET /api/genes/{name}. The name matches
// the common gene name case-insensitively, falling back to the
// systematic name.
func (h *Handler) GetGeneMeasurements(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.requireDataset(w, r)
	if !ok {
		return
	}

	name := chi.URLParam(r, "name")
	ms := ds.ByGene(name)
	if len(ms) == 0 {
		h.renderError(w, r, apierrors.NotFoundError("gene"))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"gene":         ms[0].Gene,
		"measurements": ms,
	})
}

// GetNutrientMeasurements handles GET /api/nutrients/{code}.
func (h *Handler) GetNutrientMeasurements(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.requireDataset(w, r)
	if !ok {
		return
	}

	nutrient, err := domain.ParseNutrient(chi.URLParam(r, "code"))
	if err != nil {
		h.renderError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}

	ms := ds.ByNutrient(nutrient)
	render.JSON(w, r, map[string]interface{}{
		"nutrient":     nutrient,
		"full_name":    nutrient.FullName(),
		"measurements": ms,
	})
}

// GetSummaries handles GET /api/summaries. An optional gene query
// parameter filters to one gene's rows.
func (h *Handler) GetSummaries(w http.ResponseWriter, r *http.Request) {
	_, summaries := h.snapshot()
	if summaries == nil {
		h.renderError(w, r, apierrors.ErrDatasetNotLoaded)
		return
	}

	if gene := r.URL.Query().Get("gene"); gene != "" {
		filtered := make([]dataprocessing.GeneNutrientSummary, 0)
		for _, s := range summaries {
			if s.SystematicName == gene || s.GeneName == gene {
				filtered = append(filtered, s)
			}
		}
		if len(filtered) == 0 {
			h.renderError(w, r, apierrors.NotFoundError("gene"))
			return
		}
		render.JSON(w, r, filtered)
		return
	}

	render.JSON(w, r, summaries)
}

// RenderGenePlot handles GET /api/plots/gene/{name}: renders the gene
// profile on demand and answers with the URL of the PNG.
func (h *Handler) RenderGenePlot(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.requireDataset(w, r)
	if !ok {
		return
	}

	path, err := h.renderer.GeneProfile(r.Context(), ds, chi.URLParam(r, "name"))
	if err != nil {
		h.renderError(w, r, apierrors.ToAPIError(err))
		return
	}

	render.JSON(w, r, map[string]string{"plot": h.plotURL(path)})
}

// RenderProcessPlots handles GET /api/plots/process/{process}.
func (h *Handler) RenderProcessPlots(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.requireDataset(w, r)
	if !ok {
		return
	}

	paths, err := h.renderer.ProcessProfiles(r.Context(), ds, chi.URLParam(r, "process"))
	if err != nil {
		h.renderError(w, r, apierrors.ToAPIError(err))
		return
	}

	urls := make([]string, len(paths))
	for i, p := range paths {
		urls[i] = h.plotURL(p)
	}
	render.JSON(w, r, map[string][]string{"plots": urls})
}

// RenderHistogram handles GET /api/plots/histogram.
func (h *Handler) RenderHistogram(w http.ResponseWriter, r *http.Request) {
	ds, ok := h.requireDataset(w, r)
	if !ok {
		return
	}

	path, err := h.renderer.ExpressionHistogram(r.Context(), ds)
	if err != nil {
		h.renderError(w, r, apierrors.ToAPIError(err))
		return
	}

	render.JSON(w, r, map[string]string{"plot": h.plotURL(path)})
}

func (h *Handler) requireDataset(w http.ResponseWriter, r *http.Request) (*domain.TidyDataset, bool) {
	ds, _ := h.snapshot()
	if ds == nil {
		h.renderError(w, r, apierrors.ErrDatasetNotLoaded)
		return nil, false
	}
	return ds, true
}

func (h *Handler) renderError(w http.ResponseWriter, r *http.Request, apiErr *apierrors.APIError) {
	render.Status(r, apiErr.StatusCode)
	render.JSON(w, r, apiErr)
}

func (h *Handler) plotURL(path string) string {
	return "/plots/" + filepath.Base(path)
}
