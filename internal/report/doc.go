// Package report renders comparison rows: the CSV report, the run summary
// (mean, spread, extremes, outliers) and optional score charts.
package report
