// Command tidy runs the full reshaping pipeline: it parses a wide-format
// expression table, cleans the composite annotation column, pivots the
// sample columns into long form, and writes the tidy CSV reports.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"genex/internal/config"
	"genex/internal/dataprocessing"
	"genex/internal/exporter"
	"genex/internal/files"
	"genex/internal/infrastructure"
)

func main() {
	input := flag.String("in", "", "source expression table (.pcl/.tsv/.txt/.xlsx); defaults to the newest file in the data directory")
	strict := flag.Bool("strict", false, "fail on malformed rows instead of skipping them")
	perGene := flag.Bool("per-gene", false, "also write one CSV per gene")
	workbook := flag.Bool("workbook", true, "also write the Excel workbook")
	flag.Parse()

	if err := run(*input, *strict, *perGene, *workbook); err != nil {
		slog.Error("tidy run failed", "error", err)
		os.Exit(1)
	}
}

func run(input string, strict, perGene, workbook bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if strict {
		cfg.Pipeline.Strict = true
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
	ctx := context.Background()
	defer providers.Shutdown(ctx)

	var metrics *infrastructure.PipelineMetrics
	if providers.Meter != nil {
		metrics, err = infrastructure.CreatePipelineMetrics(providers.Meter)
		if err != nil {
			return fmt.Errorf("create metrics: %w", err)
		}
	}

	if input == "" {
		newest, err := files.NewDiscovery(paths.BaseDir).Newest(paths.DataDir)
		if err != nil {
			return fmt.Errorf("discover source table: %w", err)
		}
		input = newest.Path
		logger.Info("using newest source table", slog.String("path", input))
	}

	opts := []dataprocessing.PipelineOption{dataprocessing.WithMetrics(metrics)}
	if providers.Tracer != nil {
		opts = append(opts, dataprocessing.WithTracer(providers.Tracer))
	}
	pipeline := dataprocessing.NewPipeline(cfg.Pipeline, logger, opts...)

	ds, stats, err := pipeline.Run(ctx, input)
	if err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}

	logger.Info("reshaped wide table into tidy form",
		slog.Int("rows_in", stats.Clean.RowsIn),
		slog.Int("rows_cleaned", stats.Clean.RowsOut),
		slog.Int("malformed_rows", stats.Clean.MalformedRows),
		slog.Int("measurements", stats.Melt.Measurements),
		slog.Int("blank_cells", stats.Melt.BlankCells))

	tidyExporter := exporter.NewTidyExporter(paths, logger)
	if err := tidyExporter.ExportCombined(ds); err != nil {
		return err
	}
	if err := tidyExporter.ExportPerNutrient(ds); err != nil {
		return err
	}
	if perGene {
		if err := tidyExporter.ExportPerGene(ds); err != nil {
			return err
		}
	}

	summarizer := dataprocessing.NewSummarizer(logger, dataprocessing.SummarizerConfig{})
	summaries, err := summarizer.GenerateFromDataset(ctx, ds)
	if err != nil {
		return fmt.Errorf("summarize: %w", err)
	}
	if err := exporter.NewSummaryExporter(paths, logger).Export(summaries); err != nil {
		return err
	}

	if workbook {
		if err := exporter.NewWorkbookExporter(paths, logger).Export(ds, summaries); err != nil {
			return err
		}
	}

	logger.Info("tidy run complete",
		slog.String("tidy_csv", paths.TidyCSV),
		slog.String("summary_csv", paths.GeneSummaryCSV))
	return nil
}
