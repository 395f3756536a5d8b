package dataprocessing

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"genex/internal/config"
	"genex/internal/infrastructure"
	"genex/pkg/contracts/domain"
)

// RunStats aggregates the statistics of one pipeline run.
type RunStats struct {
	SourceFile string     `json:"source_file"`
	Clean      CleanStats `json:"clean"`
	Melt       MeltStats  `json:"melt"`
}

// Pipeline runs the fixed sequence parse → clean → melt and indexes the
// result. It owns no state between runs.
type Pipeline struct {
	cleaner *Cleaner
	melter  *Melter
	logger  *slog.Logger
	tracer  trace.Tracer
	metrics *infrastructure.PipelineMetrics
}

// PipelineOption customizes a Pipeline.
type PipelineOption func(*Pipeline)

// WithTracer attaches an OpenTelemetry tracer to the pipeline.
func WithTracer(tracer trace.Tracer) PipelineOption {
	return func(p *Pipeline) {
		if tracer != nil {
			p.tracer = tracer
		}
	}
}

// WithMetrics attaches pipeline metrics instruments.
func WithMetrics(metrics *infrastructure.PipelineMetrics) PipelineOption {
	return func(p *Pipeline) {
		p.metrics = metrics
	}
}

// NewPipeline builds the pipeline from configuration.
func NewPipeline(cfg config.PipelineConfig, logger *slog.Logger, opts ...PipelineOption) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}

	p := &Pipeline{
		cleaner: NewCleaner(cfg, logger),
		melter:  NewMelter(cfg.Strict, logger),
		logger:  logger,
		tracer:  noop.NewTracerProvider().Tracer("dataprocessing"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes the pipeline against one source file and returns the
// immutable tidy dataset.
func (p *Pipeline) Run(ctx context.Context, path string) (*domain.TidyDataset, RunStats, error) {
	ctx, span := p.tracer.Start(ctx, "pipeline.run",
		trace.WithAttributes(attribute.String("source_file", path)))
	defer span.End()

	stats := RunStats{SourceFile: path}

	table, err := p.parse(ctx, path)
	if err != nil {
		return nil, stats, err
	}

	annotated, cleanStats, err := p.clean(ctx, table)
	stats.Clean = cleanStats
	if err != nil {
		return nil, stats, err
	}

	measurements, meltStats, err := p.melt(ctx, annotated)
	stats.Melt = meltStats
	if err != nil {
		return nil, stats, err
	}

	ds, err := domain.NewTidyDataset(measurements)
	if err != nil {
		return nil, stats, err
	}

	p.logger.InfoContext(ctx, "pipeline run complete",
		slog.String("source_file", path),
		slog.Int("measurements", ds.Len()),
		slog.Int("genes", ds.Stats().Genes))

	return ds, stats, nil
}

func (p *Pipeline) parse(ctx context.Context, path string) (*WideTable, error) {
	ctx, span := p.tracer.Start(ctx, "pipeline.parse")
	defer span.End()

	table, err := ParseFile(path)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	if p.metrics != nil {
		p.metrics.RowsParsed.Add(ctx, int64(len(table.Rows)))
	}
	return table, nil
}

func (p *Pipeline) clean(ctx context.Context, table *WideTable) (*AnnotatedTable, CleanStats, error) {
	ctx, span := p.tracer.Start(ctx, "pipeline.clean")
	defer span.End()

	annotated, stats, err := p.cleaner.Clean(table)
	if err != nil {
		span.RecordError(err)
		return nil, stats, err
	}

	if p.metrics != nil {
		p.metrics.RowsSkipped.Add(ctx, int64(stats.MalformedRows))
	}
	return annotated, stats, nil
}

func (p *Pipeline) melt(ctx context.Context, annotated *AnnotatedTable) ([]domain.Measurement, MeltStats, error) {
	ctx, span := p.tracer.Start(ctx, "pipeline.melt")
	defer span.End()

	measurements, stats, err := p.melter.Melt(annotated)
	if err != nil {
		span.RecordError(err)
		return nil, stats, err
	}

	if p.metrics != nil {
		p.metrics.CellsMelted.Add(ctx, int64(stats.Measurements))
		p.metrics.BlankCells.Add(ctx, int64(stats.BlankCells))
	}
	return measurements, stats, nil
}
