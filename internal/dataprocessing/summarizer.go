package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"

	"genex/pkg/contracts/domain"
)

// GeneNutrientSummary is the per-gene per-nutrient statistics row: how a
// gene's expression behaves across the growth-rate gradient under one
// limiting nutrient.
type GeneNutrientSummary struct {
	SystematicName string          `json:"systematic_name"`
	GeneName       string          `json:"gene_name,omitempty"`
	Process        string          `json:"biological_process,omitempty"`
	Nutrient       domain.Nutrient `json:"nutrient"`
	Observations   int             `json:"observations"`
	MeanExpression float64         `json:"mean_expression"`
	MinExpression  float64         `json:"min_expression"`
	MaxExpression  float64         `json:"max_expression"`
	// Slope and Intercept are the least-squares fit of expression against
	// growth rate. A strongly negative slope means the gene is repressed as
	// the culture grows faster.
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
}

// SummarizerConfig holds configuration options for the Summarizer.
type SummarizerConfig struct {
	// MinObservations is the smallest group size still summarized. Groups
	// below it are dropped. The slope needs at least two points.
	MinObservations int
}

// Summarizer generates gene × nutrient summaries from the tidy dataset.
type Summarizer struct {
	logger          *slog.Logger
	minObservations int
}

// NewSummarizer creates a summarizer with the given configuration.
func NewSummarizer(logger *slog.Logger, cfg SummarizerConfig) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.MinObservations < 2 {
		cfg.MinObservations = 2
	}
	return &Summarizer{
		logger:          logger,
		minObservations: cfg.MinObservations,
	}
}

// GenerateFromDataset computes one summary per gene × nutrient group,
// sorted by systematic name then nutrient code.
func (s *Summarizer) GenerateFromDataset(ctx context.Context, ds *domain.TidyDataset) ([]GeneNutrientSummary, error) {
	s.logger.InfoContext(ctx, "generating gene summaries",
		slog.Int("measurement_count", ds.Len()))

	type groupKey struct {
		systematic string
		nutrient   domain.Nutrient
	}

	groups := make(map[groupKey][]domain.Measurement)
	for _, m := range ds.Measurements() {
		key := groupKey{systematic: m.Gene.SystematicName, nutrient: m.Nutrient}
		groups[key] = append(groups[key], m)
	}

	summaries := make([]GeneNutrientSummary, 0, len(groups))
	for key, ms := range groups {
		if len(ms) < s.minObservations {
			continue
		}

		summary, err := s.summarizeGroup(ms)
		if err != nil {
			return nil, fmt.Errorf("summarize %s under %s: %w", key.systematic, key.nutrient, err)
		}
		summaries = append(summaries, summary)
	}

	sort.Slice(summaries, func(i, j int) bool {
		if summaries[i].SystematicName != summaries[j].SystematicName {
			return summaries[i].SystematicName < summaries[j].SystematicName
		}
		return summaries[i].Nutrient < summaries[j].Nutrient
	})

	s.logger.InfoContext(ctx, "generated gene summaries",
		slog.Int("summary_count", len(summaries)))

	return summaries, nil
}

func (s *Summarizer) summarizeGroup(ms []domain.Measurement) (GeneNutrientSummary, error) {
	first := ms[0]
	summary := GeneNutrientSummary{
		SystematicName: first.Gene.SystematicName,
		GeneName:       first.Gene.Name,
		Process:        first.Gene.Process,
		Nutrient:       first.Nutrient,
		Observations:   len(ms),
		MinExpression:  math.Inf(1),
		MaxExpression:  math.Inf(-1),
	}

	var sum float64
	for _, m := range ms {
		sum += m.Expression
		summary.MinExpression = math.Min(summary.MinExpression, m.Expression)
		summary.MaxExpression = math.Max(summary.MaxExpression, m.Expression)
	}
	summary.MeanExpression = sum / float64(len(ms))

	slope, intercept, err := leastSquares(ms)
	if err != nil {
		return GeneNutrientSummary{}, err
	}
	summary.Slope = slope
	summary.Intercept = intercept

	return summary, nil
}

// leastSquares fits expression = slope·rate + intercept over the group.
func leastSquares(ms []domain.Measurement) (slope, intercept float64, err error) {
	n := float64(len(ms))
	if n < 2 {
		return 0, 0, fmt.Errorf("need at least 2 observations, got %d", len(ms))
	}

	var sumX, sumY, sumXY, sumXX float64
	for _, m := range ms {
		sumX += m.GrowthRate
		sumY += m.Expression
		sumXY += m.GrowthRate * m.Expression
		sumXX += m.GrowthRate * m.GrowthRate
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		// All observations share one growth rate; the fit is a flat line
		// through the mean.
		return 0, sumY / n, nil
	}

	slope = (n*sumXY - sumX*sumY) / denom
	intercept = (sumY - slope*sumX) / n
	return slope, intercept, nil
}
