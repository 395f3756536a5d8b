// Package dataprocessing turns the wide, muddled gene-expression table
// into the tidy long format.
//
// # Architecture
//
// The package is organized as a fixed pipeline of bulk table operations:
//
//  1. Parser: reads the tab-delimited (or Excel) source table and maps its
//     columns: identifier columns by name, sample columns by their
//     nutrient+rate header shape.
//  2. Cleaner: splits the composite NAME column on the literal "||"
//     delimiter into the annotation fields, trims every field, and drops
//     the columns the tidy form has no use for.
//  3. Melter: pivots the per-sample columns into one measurement row per
//     gene × condition, splitting each sample header into a typed
//     nutrient code and growth rate.
//  4. Summarizer: derives per-gene per-nutrient statistics, including the
//     least-squares slope of expression against growth rate.
//
// # Data Flow
//
//	Source file -> Parser -> WideTable -> Cleaner -> AnnotatedTable ->
//	Melter -> Measurements -> TidyDataset -> Summarizer -> Summaries
//
// Pipeline ties the stages together and records metrics and spans around
// each one.
//
// # Error Handling
//
// In the default lenient mode malformed rows are skipped and counted in
// the run statistics; strict mode turns the first malformed row into an
// error. Errors carry the offending row number.
package dataprocessing
