// Package dataprocessing turns raw tabular clinical-trial uploads into a
// validated working set ready for analysis.
//
// # Architecture
//
// The package is organized into three components, applied in order:
//
//  1. Parser: coerces text rows into typed CandidateRecords
//  2. Validator: attaches a verdict (valid / invalid with reasons) per record
//  3. Partitioner: splits records into the working set and the invalid set
//
// # Data Flow
//
//	CSV/XLSX upload → Parser → CandidateRecords → Validator → Verdicts → Partitioner → (WorkingSet, InvalidSet)
//
// LoadAndValidate composes all three steps and is the usual entry point.
//
// # Error Handling
//
// Only two conditions are fatal: a missing required column (SchemaError) and
// a working set left empty after validation (EmptyWorkingSetError). Every
// per-value coercion failure degrades to a sentinel marker consumed by the
// Validator, and every per-record invalidity is collected, never raised.
// The pipeline therefore always distinguishes "the table was unusable" from
// "analysis succeeded on a subset, N records excluded for named reasons".
//
// # Purity
//
// Nothing in this package performs I/O, logs, or keeps state between calls;
// diagnostics are part of the return values. Concurrent analyses are safe as
// long as each uses its own inputs.
package dataprocessing
