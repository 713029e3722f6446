package domain

import (
	"fmt"
	"strings"
	"time"
)

// DateFormat is the only calendar layout accepted for enrollment dates.
const DateFormat = "2006-01-02"

// Required column names for every uploaded trial table.
const (
	FieldPatientID      = "patient_id"
	FieldTrialSite      = "trial_site"
	FieldEnrollmentDate = "enrollment_date"
	FieldAge            = "age"
	FieldAdverseEvent   = "adverse_event"
	FieldCompletedTrial = "completed_trial"
)

// Age bounds are fixed domain constants, inclusive on both ends.
const (
	MinAge = 0
	MaxAge = 150
)

// RequiredFields returns the required column names in canonical order.
func RequiredFields() []string {
	return []string{
		FieldPatientID,
		FieldTrialSite,
		FieldEnrollmentDate,
		FieldAge,
		FieldAdverseEvent,
		FieldCompletedTrial,
	}
}

// RawRecord is a single input row exactly as read from the table,
// column name to text value. Its lifecycle ends once parsed.
type RawRecord map[string]string

// CandidateRecord is the typed form of one RawRecord. Coercion failures are
// carried as sentinel flags plus the original text so validation reasons can
// echo the source value; they are never surfaced as errors by the parser.
type CandidateRecord struct {
	PatientID      string    `json:"patient_id"`
	TrialSite      string    `json:"trial_site"`
	EnrollmentDate time.Time `json:"-"`
	DateParsed     bool      `json:"-"`
	RawDate        string    `json:"-"`
	Age            float64   `json:"-"`
	AgeParsed      bool      `json:"-"`
	RawAge         string    `json:"-"`
	AdverseEvent   bool      `json:"adverse_event"`
	CompletedTrial bool      `json:"completed_trial"`

	// SourceIndex is the zero-based row position in the uploaded table.
	SourceIndex int `json:"-"`
}

// HasPatientID reports whether the record carries a non-blank patient ID.
func (r CandidateRecord) HasPatientID() bool {
	return strings.TrimSpace(r.PatientID) != ""
}

// HasTrialSite reports whether the record carries a non-blank site label.
func (r CandidateRecord) HasTrialSite() bool {
	return strings.TrimSpace(r.TrialSite) != ""
}

// Detail converts the record into its reporting shape. Unparseable or absent
// values become nil so they serialize as JSON null.
func (r CandidateRecord) Detail(reasons []string) InvalidRecordDetail {
	d := InvalidRecordDetail{
		Row:              r.SourceIndex,
		AdverseEvent:     r.AdverseEvent,
		CompletedTrial:   r.CompletedTrial,
		ValidationErrors: reasons,
	}
	if r.HasPatientID() {
		id := r.PatientID
		d.PatientID = &id
	}
	if r.HasTrialSite() {
		site := r.TrialSite
		d.TrialSite = &site
	}
	if r.DateParsed {
		date := r.EnrollmentDate.Format(DateFormat)
		d.EnrollmentDate = &date
	}
	if r.AgeParsed {
		age := r.Age
		d.Age = &age
	}
	return d
}

// Verdict is the validity outcome for a single CandidateRecord. Reasons are
// ordered by the fixed predicate sequence and never empty when Valid is false.
type Verdict struct {
	Valid   bool     `json:"valid"`
	Reasons []string `json:"reasons,omitempty"`
}

// InvalidRecord pairs a rejected record with its validation reasons.
type InvalidRecord struct {
	Record  CandidateRecord `json:"record"`
	Reasons []string        `json:"reasons"`
}

// WorkingSet is the ordered collection of validated, analysis-eligible
// records. Position in the slice is the dense post-partition index.
type WorkingSet []CandidateRecord

// SchemaError reports required columns absent from the input header.
// It is fatal to the run; no partial analysis is attempted.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing columns: [%s]", strings.Join(e.Missing, ", "))
}

// EmptyWorkingSetError reports that validation rejected every input record.
// The invalid set remains available for diagnostics.
type EmptyWorkingSetError struct {
	InvalidRecords int
}

func (e *EmptyWorkingSetError) Error() string {
	return "no valid records found after validation"
}
