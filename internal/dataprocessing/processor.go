package dataprocessing

import (
	"fmt"

	"trialpulse/pkg/contracts/domain"
)

// Result is the outcome of a successful LoadAndValidate run: the working set
// plus the audit trail of excluded records and aggregate warnings.
type Result struct {
	WorkingSet domain.WorkingSet
	Invalid    []domain.InvalidRecord
	Warnings   []string
}

// LoadAndValidate composes Parser, Validator and Partitioner over one decoded
// table. The two fatal outcomes keep their typed errors (SchemaError when a
// required column is absent, EmptyWorkingSetError when every row fails
// validation); everything else degrades to a smaller working set plus
// ordered warning strings.
func LoadAndValidate(table *Table) (*Result, error) {
	records, err := ParseRecords(table)
	if err != nil {
		return nil, err
	}

	verdicts := ValidateAll(records)
	working, invalid, err := Partition(records, verdicts)
	if err != nil {
		return nil, err
	}

	var warnings []string
	if len(invalid) > 0 {
		warnings = append(warnings,
			fmt.Sprintf("Total: %d invalid record(s) excluded from analysis", len(invalid)))
	}

	return &Result{
		WorkingSet: working,
		Invalid:    invalid,
		Warnings:   warnings,
	}, nil
}

// LoadAndValidateRaw is the RawRecord-shaped variant of LoadAndValidate.
func LoadAndValidateRaw(rows []domain.RawRecord, schema []string) (*Result, error) {
	records, err := ParseRawRecords(rows, schema)
	if err != nil {
		return nil, err
	}

	verdicts := ValidateAll(records)
	working, invalid, err := Partition(records, verdicts)
	if err != nil {
		return nil, err
	}

	var warnings []string
	if len(invalid) > 0 {
		warnings = append(warnings,
			fmt.Sprintf("Total: %d invalid record(s) excluded from analysis", len(invalid)))
	}

	return &Result{
		WorkingSet: working,
		Invalid:    invalid,
		Warnings:   warnings,
	}, nil
}
