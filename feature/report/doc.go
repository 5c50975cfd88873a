// Package report renders a Markdown report and a bar chart from the files of a
// finished reconciliation run.
//
// It reads summary.json and exceptions.csv from the output directory and writes
// report.md next to them. When the run has exceptions, exceptions_by_type.png is
// rendered with go-chart and linked from the report.
package report
