package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"trialpulse/pkg/contracts/domain"
)

// Table is a decoded tabular upload: one header row plus data rows, every
// cell still text. It is the common shape produced by the CSV and XLSX
// readers and consumed by ParseRecords.
type Table struct {
	Header []string
	Rows   [][]string
}

// ReadCSV decodes a CSV stream into a Table. Short rows are padded so every
// row has one cell per header column.
func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return &Table{}, nil
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(h)
	}
	return &Table{Header: header, Rows: padRows(records[1:], len(header))}, nil
}

// ReadXLSX decodes the first sheet of an Excel workbook into a Table.
func ReadXLSX(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &Table{}, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return &Table{}, nil
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = strings.TrimSpace(h)
	}
	return &Table{Header: header, Rows: padRows(rows[1:], len(header))}, nil
}

// padRows extends every row to width cells so positional lookups are safe.
func padRows(rows [][]string, width int) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		if len(row) >= width {
			out[i] = row
			continue
		}
		padded := make([]string, width)
		copy(padded, row)
		out[i] = padded
	}
	return out
}

// ParseRecords coerces a Table into typed CandidateRecords. It fails fast
// with a SchemaError naming every absent required column; per-value coercion
// never fails the run. Dates must match domain.DateFormat exactly and ages
// must be numeric, otherwise the record carries an unparseable marker plus
// the original text for the Validator to surface. Boolean columns always
// resolve: case-insensitive "true" or "1" means true, anything else false.
func ParseRecords(table *Table) ([]domain.CandidateRecord, error) {
	columns := make(map[string]int, len(table.Header))
	for i, name := range table.Header {
		columns[name] = i
	}

	var missing []string
	for _, name := range domain.RequiredFields() {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &domain.SchemaError{Missing: missing}
	}

	records := make([]domain.CandidateRecord, 0, len(table.Rows))
	for i, row := range table.Rows {
		cell := func(name string) string {
			return strings.TrimSpace(row[columns[name]])
		}

		rec := domain.CandidateRecord{
			PatientID:      cell(domain.FieldPatientID),
			TrialSite:      cell(domain.FieldTrialSite),
			RawDate:        cell(domain.FieldEnrollmentDate),
			RawAge:         cell(domain.FieldAge),
			AdverseEvent:   parseBool(cell(domain.FieldAdverseEvent)),
			CompletedTrial: parseBool(cell(domain.FieldCompletedTrial)),
			SourceIndex:    i,
		}

		if date, err := time.Parse(domain.DateFormat, rec.RawDate); err == nil {
			rec.EnrollmentDate = date
			rec.DateParsed = true
		}
		if age, err := strconv.ParseFloat(rec.RawAge, 64); err == nil {
			rec.Age = age
			rec.AgeParsed = true
		}

		records = append(records, rec)
	}
	return records, nil
}

// ParseRawRecords is the RawRecord-shaped variant of ParseRecords for callers
// that already hold name-keyed rows rather than a positional table.
func ParseRawRecords(rows []domain.RawRecord, schema []string) ([]domain.CandidateRecord, error) {
	table := &Table{Header: schema, Rows: make([][]string, len(rows))}
	for i, row := range rows {
		cells := make([]string, len(schema))
		for j, name := range schema {
			cells[j] = row[name]
		}
		table.Rows[i] = cells
	}
	return ParseRecords(table)
}

// parseBool implements the fixed boolean derivation rule: case-insensitive
// membership in {"true", "1"}. There is no unparseable state for booleans.
func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "1":
		return true
	default:
		return false
	}
}
