package plotting

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"genex/internal/config"
	"genex/internal/errors"
	"genex/internal/infrastructure"
	"genex/pkg/contracts/domain"
)

const (
	plotWidth  = 8 * vg.Inch
	plotHeight = 6 * vg.Inch
)

// Renderer draws the exploratory plots of the walkthrough as PNG files
// in the plots directory.
type Renderer struct {
	paths   *config.Paths
	logger  *slog.Logger
	metrics *infrastructure.PipelineMetrics
}

// NewRenderer creates a plot renderer.
func NewRenderer(paths *config.Paths, logger *slog.Logger, metrics *infrastructure.PipelineMetrics) *Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Renderer{paths: paths, logger: logger, metrics: metrics}
}

// GeneProfile plots expression against growth rate for one gene, one
// line+points series per limiting nutrient. Returns the saved PNG path.
func (r *Renderer) GeneProfile(ctx context.Context, ds *domain.TidyDataset, geneName string) (string, error) {
	ms := ds.ByGene(geneName)
	if len(ms) == 0 {
		return "", errors.NewNotFoundError(fmt.Sprintf("gene %s", geneName))
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s expression across the growth-rate gradient", strings.ToUpper(geneName))
	p.X.Label.Text = "Growth rate (dilutions/hour)"
	p.Y.Label.Text = "Expression (log2 ratio)"
	p.Add(plotter.NewGrid())
	p.Legend.Top = true

	if err := addNutrientSeries(p, ms, false); err != nil {
		return "", err
	}

	filename := fmt.Sprintf("gene_%s.png", sanitizeName(geneName))
	return r.save(ctx, p, filename)
}

// ProcessProfiles renders one gene-profile plot per gene annotated with
// the given biological process, each with a least-squares trend line.
// Plots render in parallel; the returned paths are sorted.
func (r *Renderer) ProcessProfiles(ctx context.Context, ds *domain.TidyDataset, process string) ([]string, error) {
	ms := ds.ByProcess(process)
	if len(ms) == 0 {
		return nil, errors.NewNotFoundError(fmt.Sprintf("biological process %q", process))
	}

	genes := make(map[string]bool)
	for _, m := range ms {
		genes[m.Gene.SystematicName] = true
	}

	g, gctx := errgroup.WithContext(ctx)
	paths := make([]string, 0, len(genes))
	results := make(chan string, len(genes))

	for gene := range genes {
		g.Go(func() error {
			path, err := r.geneProfileWithTrend(gctx, ds, gene, process)
			if err != nil {
				return err
			}
			results <- path
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	close(results)

	for path := range results {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	r.logger.InfoContext(ctx, "rendered process profiles",
		slog.String("process", process),
		slog.Int("plot_count", len(paths)))

	return paths, nil
}

func (r *Renderer) geneProfileWithTrend(ctx context.Context, ds *domain.TidyDataset, systematicName, process string) (string, error) {
	ms := ds.ByGene(systematicName)
	if len(ms) == 0 {
		return "", errors.NewNotFoundError(fmt.Sprintf("gene %s", systematicName))
	}

	display := ms[0].Gene.DisplayName()
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s (%s)", display, process)
	p.X.Label.Text = "Growth rate (dilutions/hour)"
	p.Y.Label.Text = "Expression (log2 ratio)"
	p.Add(plotter.NewGrid())
	p.Legend.Top = true

	if err := addNutrientSeries(p, ms, true); err != nil {
		return "", err
	}

	filename := fmt.Sprintf("process_%s_%s.png", sanitizeName(process), sanitizeName(systematicName))
	return r.save(ctx, p, filename)
}

// ExpressionHistogram plots the distribution of expression values across
// the whole tidy dataset.
func (r *Renderer) ExpressionHistogram(ctx context.Context, ds *domain.TidyDataset) (string, error) {
	ms := ds.Measurements()
	if len(ms) == 0 {
		return "", errors.NewValidationError("dataset has no measurements")
	}

	values := make(plotter.Values, len(ms))
	for i, m := range ms {
		values[i] = m.Expression
	}

	p := plot.New()
	p.Title.Text = "Distribution of expression values"
	p.X.Label.Text = "Expression (log2 ratio)"
	p.Y.Label.Text = "Count"

	hist, err := plotter.NewHist(values, 40)
	if err != nil {
		return "", errors.NewPlottingError("failed to build histogram", err)
	}
	p.Add(hist)

	return r.save(ctx, p, "expression_histogram.png")
}

// addNutrientSeries adds one line+points series per nutrient, sorted by
// growth rate, optionally with a least-squares trend line over all
// points.
func addNutrientSeries(p *plot.Plot, ms []domain.Measurement, trend bool) error {
	byNutrient := make(map[domain.Nutrient][]domain.Measurement)
	for _, m := range ms {
		byNutrient[m.Nutrient] = append(byNutrient[m.Nutrient], m)
	}

	for _, nutrient := range domain.Nutrients() {
		group := byNutrient[nutrient]
		if len(group) == 0 {
			continue
		}
		sort.Slice(group, func(i, j int) bool {
			return group[i].GrowthRate < group[j].GrowthRate
		})

		points := make(plotter.XYs, len(group))
		for i, m := range group {
			points[i].X = m.GrowthRate
			points[i].Y = m.Expression
		}

		line, scatter, err := plotter.NewLinePoints(points)
		if err != nil {
			return errors.NewPlottingError("failed to build series", err)
		}
		line.Color = NutrientColor(nutrient)
		line.Width = vg.Points(1.5)
		scatter.GlyphStyle.Color = NutrientColor(nutrient)
		scatter.GlyphStyle.Radius = vg.Points(2.5)

		p.Add(line, scatter)
		p.Legend.Add(nutrient.FullName(), line, scatter)
	}

	if trend {
		slope, intercept := fitLine(ms)
		fn := plotter.NewFunction(func(x float64) float64 { return slope*x + intercept })
		fn.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
		p.Add(fn)
	}

	return nil
}

// fitLine computes the least-squares fit of expression against growth
// rate over all measurements.
func fitLine(ms []domain.Measurement) (slope, intercept float64) {
	n := float64(len(ms))
	var sumX, sumY, sumXY, sumXX float64
	for _, m := range ms {
		sumX += m.GrowthRate
		sumY += m.Expression
		sumXY += m.GrowthRate * m.Expression
		sumXX += m.GrowthRate * m.GrowthRate
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, sumY / n
	}
	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept
}

func (r *Renderer) save(ctx context.Context, p *plot.Plot, filename string) (string, error) {
	path := r.paths.GetPlotPath(filename)
	if err := p.Save(plotWidth, plotHeight, path); err != nil {
		return "", errors.NewPlottingError(fmt.Sprintf("failed to save %s", filename), err)
	}

	if r.metrics != nil {
		r.metrics.PlotsRendered.Add(ctx, 1)
	}
	r.logger.DebugContext(ctx, "saved plot", slog.String("path", path))

	return path, nil
}

// sanitizeName makes a string safe for use inside a filename.
func sanitizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, s)
}
