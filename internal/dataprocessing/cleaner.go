package dataprocessing

import (
	"fmt"
	"log/slog"
	"strings"

	"genex/internal/config"
	"genex/internal/errors"
	"genex/pkg/contracts/domain"
)

// AnnotatedRow is one gene after cleaning: the parsed annotation plus the
// raw per-sample cells, aligned with the table's SampleColumns. The
// identifier columns the tidy form has no use for (GID, YORF, GWEIGHT,
// probe number) are gone at this point.
type AnnotatedRow struct {
	Gene  domain.GeneAnnotation
	Cells []string
}

// AnnotatedTable is the cleaned table, ready to melt.
type AnnotatedTable struct {
	SampleColumns []SampleColumn
	Rows          []AnnotatedRow
}

// CleanStats reports what the cleaning pass did.
type CleanStats struct {
	RowsIn        int `json:"rows_in"`
	RowsOut       int `json:"rows_out"`
	MalformedRows int `json:"malformed_rows"`
}

// Cleaner splits the composite NAME column into typed annotation fields
// and prunes everything the tidy form drops.
type Cleaner struct {
	separator string
	fields    int
	strict    bool
	logger    *slog.Logger
}

// NewCleaner builds a cleaner from pipeline configuration.
func NewCleaner(cfg config.PipelineConfig, logger *slog.Logger) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	sep := cfg.AnnotationSeparator
	if sep == "" {
		sep = "||"
	}
	fields := cfg.AnnotationFields
	if fields <= 0 {
		fields = 5
	}
	return &Cleaner{
		separator: sep,
		fields:    fields,
		strict:    cfg.Strict,
		logger:    logger,
	}
}

// Clean transforms a parsed wide table into an annotated table. Malformed
// rows (wrong field count after the NAME split, or a missing systematic
// name) are skipped and counted in lenient mode and fail the run in
// strict mode.
func (c *Cleaner) Clean(table *WideTable) (*AnnotatedTable, CleanStats, error) {
	stats := CleanStats{RowsIn: len(table.Rows)}
	nameCol := table.NameColumn()

	out := &AnnotatedTable{
		SampleColumns: table.SampleColumns,
		Rows:          make([]AnnotatedRow, 0, len(table.Rows)),
	}

	for i, row := range table.Rows {
		gene, err := c.parseAnnotation(CellValue(row, nameCol))
		if err != nil {
			if c.strict {
				return nil, stats, errors.NewCleaningError(
					fmt.Sprintf("row %d: malformed NAME column", i+1), err)
			}
			stats.MalformedRows++
			c.logger.Warn("skipping malformed row",
				slog.Int("row", i+1),
				slog.String("reason", err.Error()))
			continue
		}

		cells := make([]string, len(table.SampleColumns))
		for j, col := range table.SampleColumns {
			cells[j] = CellValue(row, col.Index)
		}

		out.Rows = append(out.Rows, AnnotatedRow{Gene: gene, Cells: cells})
	}

	stats.RowsOut = len(out.Rows)
	c.logger.Info("cleaned annotation column",
		slog.Int("rows_in", stats.RowsIn),
		slog.Int("rows_out", stats.RowsOut),
		slog.Int("malformed_rows", stats.MalformedRows))

	return out, stats, nil
}

// parseAnnotation splits the composite NAME value. The expected layout is
// five "||"-delimited fields, each padded with whitespace:
//
//	gene name || biological process || molecular function || systematic name || probe number
//
// The gene name may be empty; the systematic name may not. The probe
// number is dropped.
func (c *Cleaner) parseAnnotation(name string) (domain.GeneAnnotation, error) {
	parts := strings.Split(name, c.separator)
	if len(parts) != c.fields {
		return domain.GeneAnnotation{}, fmt.Errorf(
			"expected %d fields separated by %q, got %d", c.fields, c.separator, len(parts))
	}

	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	gene := domain.GeneAnnotation{
		Name:           parts[0],
		Process:        parts[1],
		Function:       parts[2],
		SystematicName: parts[3],
	}
	if gene.SystematicName == "" {
		return domain.GeneAnnotation{}, fmt.Errorf("systematic name is empty")
	}

	return gene, nil
}
