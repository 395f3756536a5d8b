// Command plotgen renders the exploratory plots from a previously
// exported tidy CSV: per-gene expression profiles, per-process profile
// grids with trend lines, and the expression histogram.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"genex/internal/config"
	"genex/internal/exporter"
	"genex/internal/infrastructure"
	"genex/internal/plotting"
)

func main() {
	input := flag.String("in", "", "tidy CSV to plot from; defaults to the combined tidy CSV in the reports directory")
	gene := flag.String("gene", "", "render the expression profile of one gene (common or systematic name)")
	process := flag.String("process", "", "render profiles for every gene in a biological process")
	histogram := flag.Bool("histogram", false, "render the expression value histogram")
	flag.Parse()

	if *gene == "" && *process == "" && !*histogram {
		fmt.Fprintln(os.Stderr, "nothing to render: pass -gene, -process, or -histogram")
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*input, *gene, *process, *histogram); err != nil {
		slog.Error("plot generation failed", "error", err)
		os.Exit(1)
	}
}

func run(input, gene, process string, histogram bool) error {
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

	if input == "" {
		input = paths.TidyCSV
	}

	ds, err := exporter.ReadTidyCSV(input)
	if err != nil {
		return fmt.Errorf("load tidy CSV: %w", err)
	}
	logger.Info("loaded tidy dataset",
		slog.String("path", input),
		slog.Int("measurements", ds.Len()),
		slog.Int("genes", ds.Stats().Genes))

	ctx := context.Background()
	renderer := plotting.NewRenderer(paths, logger, nil)

	if gene != "" {
		path, err := renderer.GeneProfile(ctx, ds, gene)
		if err != nil {
			return err
		}
		logger.Info("rendered gene profile", slog.String("path", path))
	}

	if process != "" {
		plotPaths, err := renderer.ProcessProfiles(ctx, ds, process)
		if err != nil {
			return err
		}
		logger.Info("rendered process profiles",
			slog.String("process", process),
			slog.Int("plot_count", len(plotPaths)))
	}

	if histogram {
		path, err := renderer.ExpressionHistogram(ctx, ds)
		if err != nil {
			return err
		}
		logger.Info("rendered expression histogram", slog.String("path", path))
	}

	return nil
}
