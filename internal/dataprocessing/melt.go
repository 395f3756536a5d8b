package dataprocessing

import (
	"fmt"
	"log/slog"
	"strconv"

	"genex/internal/errors"
	"genex/pkg/contracts/domain"
)

// MeltStats reports what the wide-to-long pivot did. The row-count
// property of the pivot is:
//
//	Measurements + BlankCells + BadCells == RowsIn × SampleColumns
type MeltStats struct {
	RowsIn        int `json:"rows_in"`
	SampleColumns int `json:"sample_columns"`
	Measurements  int `json:"measurements"`
	BlankCells    int `json:"blank_cells"`
	BadCells      int `json:"bad_cells"`
}

// Melter pivots the annotated wide table into tidy measurements.
type Melter struct {
	strict bool
	logger *slog.Logger
}

// NewMelter builds a melter. In strict mode an unparseable expression
// value fails the run; otherwise it is counted and skipped.
func NewMelter(strict bool, logger *slog.Logger) *Melter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Melter{strict: strict, logger: logger}
}

// Melt produces one measurement per gene × sample column. Blank cells are
// skipped and counted: the source table simply has no observation there.
func (m *Melter) Melt(table *AnnotatedTable) ([]domain.Measurement, MeltStats, error) {
	stats := MeltStats{
		RowsIn:        len(table.Rows),
		SampleColumns: len(table.SampleColumns),
	}

	measurements := make([]domain.Measurement, 0, len(table.Rows)*len(table.SampleColumns))

	for i, row := range table.Rows {
		for j, col := range table.SampleColumns {
			cell := row.Cells[j]
			if cell == "" {
				stats.BlankCells++
				continue
			}

			expression, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				if m.strict {
					return nil, stats, errors.NewParsingError(
						fmt.Sprintf("row %d, column %s: invalid expression value %q", i+1, col.Label, cell), err)
				}
				stats.BadCells++
				m.logger.Warn("skipping unparseable expression cell",
					slog.Int("row", i+1),
					slog.String("column", col.Label),
					slog.String("value", cell))
				continue
			}

			measurements = append(measurements, domain.Measurement{
				Gene:       row.Gene,
				Nutrient:   col.Condition.Nutrient,
				GrowthRate: col.Condition.GrowthRate,
				Expression: expression,
			})
		}
	}

	stats.Measurements = len(measurements)
	m.logger.Info("melted wide table into tidy form",
		slog.Int("rows_in", stats.RowsIn),
		slog.Int("sample_columns", stats.SampleColumns),
		slog.Int("measurements", stats.Measurements),
		slog.Int("blank_cells", stats.BlankCells),
		slog.Int("bad_cells", stats.BadCells))

	return measurements, stats, nil
}
