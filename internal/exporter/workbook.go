package exporter

import (
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"genex/internal/config"
	"genex/internal/dataprocessing"
	"genex/pkg/contracts/domain"
)

// WorkbookExporter bundles the tidy table and the gene summaries into a
// single Excel workbook for people who live in spreadsheets.
type WorkbookExporter struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewWorkbookExporter creates a workbook exporter.
func NewWorkbookExporter(paths *config.Paths, logger *slog.Logger) *WorkbookExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookExporter{paths: paths, logger: logger}
}

// Export writes the workbook to the well-known xlsx path with a "Tidy"
// sheet and a "Summary" sheet.
func (e *WorkbookExporter) Export(ds *domain.TidyDataset, summaries []dataprocessing.GeneNutrientSummary) error {
	f := excelize.NewFile()
	defer f.Close()

	const tidySheet = "Tidy"
	const summarySheet = "Summary"

	// The default sheet becomes the tidy sheet.
	if err := f.SetSheetName(f.GetSheetName(0), tidySheet); err != nil {
		return fmt.Errorf("failed to name tidy sheet: %w", err)
	}

	if err := writeRow(f, tidySheet, 1, toInterfaces(tidyHeaders)); err != nil {
		return err
	}
	for i, m := range ds.Measurements() {
		row := []interface{}{
			m.Gene.Name,
			m.Gene.Process,
			m.Gene.Function,
			m.Gene.SystematicName,
			string(m.Nutrient),
			m.GrowthRate,
			m.Expression,
		}
		if err := writeRow(f, tidySheet, i+2, row); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	if err := writeRow(f, summarySheet, 1, toInterfaces(summaryHeaders)); err != nil {
		return err
	}
	for i, s := range summaries {
		row := []interface{}{
			s.SystematicName,
			s.GeneName,
			s.Process,
			string(s.Nutrient),
			s.Observations,
			s.MeanExpression,
			s.MinExpression,
			s.MaxExpression,
			s.Slope,
			s.Intercept,
		}
		if err := writeRow(f, summarySheet, i+2, row); err != nil {
			return err
		}
	}

	if err := f.SaveAs(e.paths.WorkbookXLSX); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	e.logger.Info("saved expression workbook",
		slog.String("path", e.paths.WorkbookXLSX),
		slog.Int("measurements", ds.Len()),
		slog.Int("summaries", len(summaries)))
	return nil
}

func writeRow(f *excelize.File, sheet string, rowNum int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return fmt.Errorf("failed to compute cell name: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d of %s: %w", rowNum, sheet, err)
	}
	return nil
}

func toInterfaces(ss []string) []interface{} {
	out := make([]interface{}, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
