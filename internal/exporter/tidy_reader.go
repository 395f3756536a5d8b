package exporter

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"genex/internal/errors"
	"genex/pkg/contracts/domain"
)

// ReadTidyCSV loads a previously exported tidy CSV back into a dataset.
// The viewer and the plot tool use this to pick up a pipeline run's
// output without re-parsing the wide source table.
func ReadTidyCSV(path string) (*domain.TidyDataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewStorageError(fmt.Sprintf("failed to open tidy CSV %s", path), err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.NewParsingError(fmt.Sprintf("failed to read tidy CSV %s", path), err)
	}
	if len(records) == 0 {
		return nil, errors.NewParsingError(fmt.Sprintf("tidy CSV %s is empty", path), nil)
	}

	header := records[0]
	if len(header) > 0 {
		// The writer prefixes the file with a UTF-8 BOM for Excel.
		header[0] = strings.TrimPrefix(header[0], "\uFEFF")
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[name] = i
	}
	for _, required := range tidyHeaders {
		if _, ok := col[required]; !ok {
			return nil, errors.NewParsingError(fmt.Sprintf("tidy CSV %s is missing column %s", path, required), nil)
		}
	}

	measurements := make([]domain.Measurement, 0, len(records)-1)
	for i, record := range records[1:] {
		m, err := tidyMeasurement(record, col)
		if err != nil {
			return nil, errors.NewParsingError(fmt.Sprintf("tidy CSV %s row %d", path, i+2), err)
		}
		measurements = append(measurements, m)
	}

	return domain.NewTidyDataset(measurements)
}

func tidyMeasurement(record []string, col map[string]int) (domain.Measurement, error) {
	field := func(name string) string {
		idx := col[name]
		if idx >= len(record) {
			return ""
		}
		return record[idx]
	}

	nutrient, err := domain.ParseNutrient(field("Nutrient"))
	if err != nil {
		return domain.Measurement{}, err
	}

	growthRate, err := strconv.ParseFloat(field("GrowthRate"), 64)
	if err != nil {
		return domain.Measurement{}, fmt.Errorf("bad growth rate %q: %w", field("GrowthRate"), err)
	}

	expression, err := strconv.ParseFloat(field("Expression"), 64)
	if err != nil {
		return domain.Measurement{}, fmt.Errorf("bad expression %q: %w", field("Expression"), err)
	}

	return domain.Measurement{
		Gene: domain.GeneAnnotation{
			Name:           field("Name"),
			Process:        field("BiologicalProcess"),
			Function:       field("MolecularFunction"),
			SystematicName: field("SystematicName"),
		},
		Nutrient:   nutrient,
		GrowthRate: growthRate,
		Expression: expression,
	}, nil
}
