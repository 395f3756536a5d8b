package exporter

import (
	"fmt"
	"log/slog"
	"strconv"

	"genex/internal/config"
	"genex/internal/dataprocessing"
)

// summaryHeaders is the column layout of the gene summary CSV.
var summaryHeaders = []string{
	"SystematicName", "GeneName", "BiologicalProcess", "Nutrient",
	"Observations", "MeanExpression", "MinExpression", "MaxExpression",
	"Slope", "Intercept",
}

// SummaryExporter writes the gene × nutrient statistics table.
type SummaryExporter struct {
	writer *CSVWriter
	paths  *config.Paths
	logger *slog.Logger
}

// NewSummaryExporter creates a summary exporter.
func NewSummaryExporter(paths *config.Paths, logger *slog.Logger) *SummaryExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SummaryExporter{
		writer: NewCSVWriter(paths),
		paths:  paths,
		logger: logger,
	}
}

// Export writes the summaries to the well-known gene summary CSV path.
func (e *SummaryExporter) Export(summaries []dataprocessing.GeneNutrientSummary) error {
	records := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		records = append(records, []string{
			s.SystematicName,
			s.GeneName,
			s.Process,
			string(s.Nutrient),
			strconv.Itoa(s.Observations),
			formatStat(s.MeanExpression),
			formatStat(s.MinExpression),
			formatStat(s.MaxExpression),
			formatStat(s.Slope),
			formatStat(s.Intercept),
		})
	}

	if err := e.writer.WriteSimpleCSV(e.paths.GeneSummaryCSV, summaryHeaders, records); err != nil {
		return fmt.Errorf("failed to write gene summary CSV: %w", err)
	}
	e.logger.Info("saved gene summary CSV",
		slog.String("path", e.paths.GeneSummaryCSV),
		slog.Int("summary_count", len(summaries)))
	return nil
}

func formatStat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
