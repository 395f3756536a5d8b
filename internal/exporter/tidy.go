package exporter

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"genex/internal/config"
	"genex/pkg/contracts/domain"
)

// tidyHeaders is the column layout of every tidy CSV this package writes.
var tidyHeaders = []string{
	"Name", "BiologicalProcess", "MolecularFunction", "SystematicName",
	"Nutrient", "GrowthRate", "Expression",
}

// TidyExporter writes the tidy dataset out as CSV report files.
type TidyExporter struct {
	writer *CSVWriter
	paths  *config.Paths
	logger *slog.Logger
}

// NewTidyExporter creates a tidy dataset exporter.
func NewTidyExporter(paths *config.Paths, logger *slog.Logger) *TidyExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &TidyExporter{
		writer: NewCSVWriter(paths),
		paths:  paths,
		logger: logger,
	}
}

// ExportCombined writes the full tidy table to the well-known combined
// CSV path.
func (e *TidyExporter) ExportCombined(ds *domain.TidyDataset) error {
	if err := e.writer.WriteSimpleCSV(e.paths.TidyCSV, tidyHeaders, tidyRecords(ds.Measurements())); err != nil {
		return fmt.Errorf("failed to write combined tidy CSV: %w", err)
	}
	e.logger.Info("saved combined tidy CSV",
		slog.String("path", e.paths.TidyCSV),
		slog.Int("measurements", ds.Len()))
	return nil
}

// ExportPerNutrient writes one CSV per limiting nutrient, named
// nutrient_<code>.csv.
func (e *TidyExporter) ExportPerNutrient(ds *domain.TidyDataset) error {
	for _, nutrient := range domain.Nutrients() {
		ms := ds.ByNutrient(nutrient)
		if len(ms) == 0 {
			continue
		}

		filename := fmt.Sprintf("nutrient_%s.csv", strings.ToLower(string(nutrient)))
		if err := e.writer.WriteSimpleCSV(filename, tidyHeaders, tidyRecords(ms)); err != nil {
			return fmt.Errorf("failed to write %s: %w", filename, err)
		}
		e.logger.Debug("saved per-nutrient CSV",
			slog.String("nutrient", nutrient.FullName()),
			slog.Int("measurements", len(ms)))
	}
	return nil
}

// ExportPerGene writes one CSV per gene, named by the systematic
// identifier (the one field guaranteed present and unique).
func (e *TidyExporter) ExportPerGene(ds *domain.TidyDataset) error {
	for _, gene := range ds.Genes() {
		ms := ds.ByGene(gene.SystematicName)
		filename := fmt.Sprintf("gene_%s.csv", gene.SystematicName)
		if err := e.writer.WriteSimpleCSV(filename, tidyHeaders, tidyRecords(ms)); err != nil {
			return fmt.Errorf("failed to write %s: %w", filename, err)
		}
	}
	e.logger.Info("saved per-gene CSVs", slog.Int("gene_count", ds.Stats().Genes))
	return nil
}

// tidyRecords converts measurements to CSV rows. The growth rate keeps
// its minimal decimal form so Nutrient+GrowthRate recombine into the
// original sample header.
func tidyRecords(ms []domain.Measurement) [][]string {
	records := make([][]string, 0, len(ms))
	for _, m := range ms {
		records = append(records, []string{
			m.Gene.Name,
			m.Gene.Process,
			m.Gene.Function,
			m.Gene.SystematicName,
			string(m.Nutrient),
			strconv.FormatFloat(m.GrowthRate, 'f', -1, 64),
			strconv.FormatFloat(m.Expression, 'f', -1, 64),
		})
	}
	return records
}
