// Command web serves the tidy dataset over HTTP: JSON endpoints for
// genes, nutrients, and summaries, on-demand plot rendering, and a
// Prometheus metrics endpoint.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"genex/internal/config"
	"genex/internal/dataprocessing"
	"genex/internal/exporter"
	"genex/internal/files"
	"genex/internal/infrastructure"
	"genex/internal/plotting"
	transport "genex/internal/transport/http"
	"genex/pkg/contracts/domain"
)

func main() {
	source := flag.String("source", "", "wide source table to run the pipeline on at startup; defaults to the newest file in the data directory")
	fromTidy := flag.String("from-tidy", "", "skip the pipeline and load this tidy CSV instead")
	flag.Parse()

	if err := run(*source, *fromTidy); err != nil {
		slog.Error("viewer failed", "error", err)
		os.Exit(1)
	}
}

func run(source, fromTidy string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer infrastructure.CloseLogFile()

	paths, err := config.GetPaths(cfg.Paths)
	if err != nil {
		return fmt.Errorf("resolve paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return fmt.Errorf("ensure directories: %w", err)
	}

	providers, err := infrastructure.InitializeOTel(nil, logger)
	if err != nil {
		return fmt.Errorf("initialize observability: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer providers.Shutdown(context.Background())

	var metrics *infrastructure.PipelineMetrics
	if providers.Meter != nil {
		metrics, err = infrastructure.CreatePipelineMetrics(providers.Meter)
		if err != nil {
			return fmt.Errorf("create metrics: %w", err)
		}
	}

	ds, err := loadDataset(ctx, cfg, paths, logger, metrics, source, fromTidy, providers)
	if err != nil {
		return err
	}

	summarizer := dataprocessing.NewSummarizer(logger, dataprocessing.SummarizerConfig{})
	summaries, err := summarizer.GenerateFromDataset(ctx, ds)
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}

	renderer := plotting.NewRenderer(paths, logger, metrics)
	handler := transport.NewHandler(renderer, paths.PlotsDir, logger)
	handler.SetDataset(ds, summaries)

	server := transport.NewServer(*cfg, handler, logger, metrics, providers.PrometheusHTTP)
	return server.Start(ctx)
}

func loadDataset(
	ctx context.Context,
	cfg *config.Config,
	paths *config.Paths,
	logger *slog.Logger,
	metrics *infrastructure.PipelineMetrics,
	source, fromTidy string,
	providers *infrastructure.OTelProviders,
) (*domain.TidyDataset, error) {
	if fromTidy != "" {
		ds, err := exporter.ReadTidyCSV(fromTidy)
		if err != nil {
			return nil, fmt.Errorf("load tidy CSV: %w", err)
		}
		logger.Info("loaded tidy dataset from CSV",
			slog.String("path", fromTidy),
			slog.Int("measurements", ds.Len()))
		return ds, nil
	}

	if source == "" {
		newest, err := files.NewDiscovery(paths.BaseDir).Newest(paths.DataDir)
		if err != nil {
			return nil, fmt.Errorf("discover source table: %w", err)
		}
		source = newest.Path
	}

	opts := []dataprocessing.PipelineOption{dataprocessing.WithMetrics(metrics)}
	if providers.Tracer != nil {
		opts = append(opts, dataprocessing.WithTracer(providers.Tracer))
	}
	pipeline := dataprocessing.NewPipeline(cfg.Pipeline, logger, opts...)

	ds, stats, err := pipeline.Run(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	logger.Info("pipeline run complete at startup",
		slog.String("source_file", stats.SourceFile),
		slog.Int("measurements", stats.Melt.Measurements))
	return ds, nil
}
