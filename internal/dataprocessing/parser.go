package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"genex/internal/errors"
	"genex/pkg/contracts/domain"
)

// Identifier column names of the wide table. Only NAME survives into the
// tidy form; the rest are dropped during cleaning.
const (
	ColumnGID     = "GID"
	ColumnYORF    = "YORF"
	ColumnName    = "NAME"
	ColumnGWeight = "GWEIGHT"
)

// SampleColumn is one per-condition value column of the wide table.
type SampleColumn struct {
	Index     int
	Label     string
	Condition domain.SampleCondition
}

// WideTable is the parsed source table before cleaning: the raw rows plus
// a map of where everything lives.
type WideTable struct {
	SourceFile    string
	Identifiers   map[string]int // column name -> index
	SampleColumns []SampleColumn
	Rows          [][]string
	SkippedRows   int // preamble/weight rows dropped during parsing
}

// NameColumn returns the index of the composite NAME column.
func (t *WideTable) NameColumn() int {
	return t.Identifiers[ColumnName]
}

// ParseFile reads a wide-format expression table. Tab-delimited text
// (.pcl/.tsv/.txt) and Excel (.xlsx) renditions are supported; the format
// is chosen by extension.
func ParseFile(path string) (*WideTable, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return parseExcel(path)
	default:
		return parseDelimited(path)
	}
}

func parseDelimited(path string) (*WideTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, errors.NewParsingError("failed to open source table", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = '\t'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.NewParsingError("failed to read source table", err)
	}

	return buildWideTable(path, rows)
}

func parseExcel(path string) (*WideTable, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.NewParsingError("failed to open workbook", err)
	}
	defer f.Close()

	// Use the first sheet that contains a recognizable header row.
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) == 0 {
			continue
		}
		if headerRowIndex(rows) >= 0 {
			slog.Debug("found expression data sheet", slog.String("sheet", sheet))
			return buildWideTable(path, rows)
		}
	}

	return nil, errors.NewParsingError("no sheet with an expression header row", nil).
		WithContext("file", path)
}

// buildWideTable locates the header row and maps the columns.
func buildWideTable(path string, rows [][]string) (*WideTable, error) {
	headerIdx := headerRowIndex(rows)
	if headerIdx < 0 {
		return nil, errors.NewParsingError("could not find header row", nil).
			WithContext("file", path)
	}
	header := rows[headerIdx]

	table := &WideTable{
		SourceFile:  path,
		Identifiers: make(map[string]int),
	}

	for i, col := range header {
		col = strings.TrimSpace(col)
		switch {
		case col == ColumnGID, col == ColumnYORF, col == ColumnName, col == ColumnGWeight:
			table.Identifiers[col] = i
		case domain.IsSampleLabel(col):
			cond, _ := domain.ParseSampleLabel(col)
			table.SampleColumns = append(table.SampleColumns, SampleColumn{
				Index:     i,
				Label:     col,
				Condition: cond,
			})
		default:
			slog.Debug("ignoring unrecognized column", slog.String("column", col))
		}
	}

	if _, ok := table.Identifiers[ColumnName]; !ok {
		return nil, errors.NewParsingError(fmt.Sprintf("required column %s missing", ColumnName), nil).
			WithContext("file", path)
	}
	if len(table.SampleColumns) == 0 {
		return nil, errors.NewParsingError("no sample columns found", nil).
			WithContext("file", path)
	}

	nameCol := table.Identifiers[ColumnName]
	for _, row := range rows[headerIdx+1:] {
		if isNonDataRow(row, nameCol) {
			table.SkippedRows++
			continue
		}
		table.Rows = append(table.Rows, row)
	}

	slog.Info("parsed wide table",
		slog.String("file", path),
		slog.Int("data_rows", len(table.Rows)),
		slog.Int("sample_columns", len(table.SampleColumns)),
		slog.Int("skipped_rows", table.SkippedRows))

	return table, nil
}

// headerRowIndex finds the row that carries the NAME column together with
// at least one nutrient+rate sample header. Returns -1 when absent.
func headerRowIndex(rows [][]string) int {
	for i, row := range rows {
		hasName := false
		hasSample := false
		for _, col := range row {
			col = strings.TrimSpace(col)
			if col == ColumnName {
				hasName = true
			} else if domain.IsSampleLabel(col) {
				hasSample = true
			}
		}
		if hasName && hasSample {
			return i
		}
	}
	return -1
}

// isNonDataRow recognizes rows that belong to the file format rather than
// the data: fully empty rows and the PCL EWEIGHT weight row.
func isNonDataRow(row []string, nameCol int) bool {
	empty := true
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			empty = false
			break
		}
	}
	if empty {
		return true
	}

	if strings.TrimSpace(row[0]) == "EWEIGHT" {
		return true
	}
	// Some exports put EWEIGHT under NAME instead of the first column.
	if nameCol < len(row) && strings.TrimSpace(row[nameCol]) == "EWEIGHT" {
		return true
	}

	return false
}

// CellValue returns the trimmed cell at the given column, or "" when the
// row is ragged and does not reach it.
func CellValue(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}
