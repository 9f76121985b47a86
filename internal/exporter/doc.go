// Package exporter writes an analysis report out in every supported form.
//
// CSVWriter: CSV files under the output directory, with an optional UTF-8
// BOM for Excel and a streaming writer for whole dataframes.
//
// Workbook: a single bat_analysis.xlsx with one sheet per table and a Plots
// sheet embedding the rendered box plots (excelize).
//
// JSON: report.json holding the full domain.Report.
//
// Console: the human-readable run transcript, section headers and the
// verdict coloured with fatih/color.
//
// Example usage:
//
//	w := exporter.NewCSVWriter("reports", logger)
//	path, err := w.WriteFrame(config.CleanedCSVFile, cleaned)
//
//	console := exporter.NewConsole(os.Stdout)
//	console.Report(report)
package exporter
