// Package exporter writes the tidy expression dataset and its summaries
// out as CSV and Excel files.
//
// CSVWriter is the core CSV writer: headers, append mode, streaming, and
// a UTF-8 BOM so the files open cleanly in Excel.
//
// TidyExporter writes the combined tidy CSV plus the per-nutrient and
// per-gene report files. SummaryExporter writes the gene × nutrient
// statistics table. WorkbookExporter bundles the tidy table and the
// summaries into one .xlsx workbook.
package exporter
