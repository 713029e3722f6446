// Package exporter writes analysis results to their delivery formats.
//
// This package contains three main components:
//
// JSONExporter: Serializes a full analysis report to indented JSON.
// Undefined correlation coefficients serialize as null.
//
// ExcelExporter: Writes the validated working set and a per-site summary
// to an .xlsx workbook for hand-off to study coordinators.
//
// TextReport: Renders the fixed-layout plain text summary printed by the
// console analyzer.
package exporter
