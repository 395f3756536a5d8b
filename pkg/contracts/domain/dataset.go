package domain

import (
	"fmt"
	"sort"
	"strings"
)

// TidyDataset is the immutable long-form expression table. It is built
// once from measurements and indexed for the lookups the exporters,
// plotters, and HTTP handlers need. Mutating methods do not exist;
// accessors return copies.
type TidyDataset struct {
	measurements []Measurement

	bySystematic map[string][]int
	byCommonName map[string][]int
	byProcess    map[string][]int
	byNutrient   map[Nutrient][]int
}

// DatasetStats summarizes the tidy dataset.
type DatasetStats struct {
	Measurements int `json:"measurements"`
	Genes        int `json:"genes"`
	Processes    int `json:"processes"`
	Nutrients    int `json:"nutrients"`
}

// NewTidyDataset indexes the given measurements. Measurements with an
// empty systematic name or an unknown nutrient are rejected.
func NewTidyDataset(measurements []Measurement) (*TidyDataset, error) {
	ds := &TidyDataset{
		measurements: make([]Measurement, len(measurements)),
		bySystematic: make(map[string][]int),
		byCommonName: make(map[string][]int),
		byProcess:    make(map[string][]int),
		byNutrient:   make(map[Nutrient][]int),
	}
	copy(ds.measurements, measurements)

	for i, m := range ds.measurements {
		if m.Gene.SystematicName == "" {
			return nil, fmt.Errorf("measurement %d: missing systematic name", i)
		}
		if !m.Nutrient.IsValid() {
			return nil, fmt.Errorf("measurement %d: unknown nutrient %q", i, m.Nutrient)
		}

		ds.bySystematic[m.Gene.SystematicName] = append(ds.bySystematic[m.Gene.SystematicName], i)
		if m.Gene.Name != "" {
			key := strings.ToUpper(m.Gene.Name)
			ds.byCommonName[key] = append(ds.byCommonName[key], i)
		}
		if m.Gene.Process != "" {
			ds.byProcess[m.Gene.Process] = append(ds.byProcess[m.Gene.Process], i)
		}
		ds.byNutrient[m.Nutrient] = append(ds.byNutrient[m.Nutrient], i)
	}

	return ds, nil
}

// Len returns the number of measurements.
func (ds *TidyDataset) Len() int {
	return len(ds.measurements)
}

// Measurements returns a copy of all measurements.
func (ds *TidyDataset) Measurements() []Measurement {
	out := make([]Measurement, len(ds.measurements))
	copy(out, ds.measurements)
	return out
}

// Stats returns summary counts for the dataset.
func (ds *TidyDataset) Stats() DatasetStats {
	return DatasetStats{
		Measurements: len(ds.measurements),
		Genes:        len(ds.bySystematic),
		Processes:    len(ds.byProcess),
		Nutrients:    len(ds.byNutrient),
	}
}

// ByGene returns all measurements for a gene, matching the common name
// (case-insensitive) first and falling back to the systematic name.
func (ds *TidyDataset) ByGene(name string) []Measurement {
	if idx, ok := ds.byCommonName[strings.ToUpper(name)]; ok {
		return ds.collect(idx)
	}
	if idx, ok := ds.bySystematic[name]; ok {
		return ds.collect(idx)
	}
	return nil
}

// ByProcess returns all measurements for genes annotated with the given
// biological process.
func (ds *TidyDataset) ByProcess(process string) []Measurement {
	return ds.collect(ds.byProcess[process])
}

// ByNutrient returns all measurements taken under the given limiting
// nutrient.
func (ds *TidyDataset) ByNutrient(n Nutrient) []Measurement {
	return ds.collect(ds.byNutrient[n])
}

// Genes returns one annotation per distinct gene, sorted by systematic
// name.
func (ds *TidyDataset) Genes() []GeneAnnotation {
	names := make([]string, 0, len(ds.bySystematic))
	for name := range ds.bySystematic {
		names = append(names, name)
	}
	sort.Strings(names)

	genes := make([]GeneAnnotation, 0, len(names))
	for _, name := range names {
		genes = append(genes, ds.measurements[ds.bySystematic[name][0]].Gene)
	}
	return genes
}

// Processes returns the distinct biological processes, sorted.
func (ds *TidyDataset) Processes() []string {
	out := make([]string, 0, len(ds.byProcess))
	for p := range ds.byProcess {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

func (ds *TidyDataset) collect(idx []int) []Measurement {
	if len(idx) == 0 {
		return nil
	}
	out := make([]Measurement, 0, len(idx))
	for _, i := range idx {
		out = append(out, ds.measurements[i])
	}
	return out
}
