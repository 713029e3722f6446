package domain

import (
	"encoding/json"
	"math"
	"time"
)

// Grade is the categorical letter derived from a site's completion rate.
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
)

// Description returns the long form used in ranked reports.
func (g Grade) Description() string {
	switch g {
	case GradeA:
		return "A (Excellent)"
	case GradeB:
		return "B (Good)"
	case GradeC:
		return "C (Fair)"
	default:
		return "D (Poor)"
	}
}

// StatisticsReport holds the scalar and grouped summary metrics computed over
// a working set. Percentages and ages are rounded to 2 decimal places.
type StatisticsReport struct {
	TotalPatients                       int            `json:"total_patients"`
	PatientsPerSite                     map[string]int `json:"patients_per_site"`
	AverageAge                          float64        `json:"average_age"`
	CompletionRatePercent               float64        `json:"completion_rate_percent"`
	AdverseEventRatePercent             float64        `json:"adverse_event_rate_percent"`
	CompletionRateWithAdversePercent    float64        `json:"completion_rate_with_adverse_percent"`
	CompletionRateWithoutAdversePercent float64        `json:"completion_rate_without_adverse_percent"`
	DataQuality                         DataQuality    `json:"data_quality"`
}

// DataQuality summarizes the partition outcome. InvalidRecordDetails is always
// the full list; capping for display is a reporting-layer concern.
type DataQuality struct {
	ValidRecords         int                   `json:"valid_records"`
	InvalidRecords       int                   `json:"invalid_records"`
	InvalidRecordDetails []InvalidRecordDetail `json:"invalid_record_details"`
}

// InvalidRecordDetail is the reporting shape of a rejected record. Absent or
// unparseable values serialize as null.
type InvalidRecordDetail struct {
	Row              int      `json:"row"`
	PatientID        *string  `json:"patient_id"`
	TrialSite        *string  `json:"trial_site"`
	EnrollmentDate   *string  `json:"enrollment_date"`
	Age              *float64 `json:"age"`
	AdverseEvent     bool     `json:"adverse_event"`
	CompletedTrial   bool     `json:"completed_trial"`
	ValidationErrors []string `json:"validation_errors"`
}

// SitePerformance holds per-site aggregates plus the derived grade.
type SitePerformance struct {
	Site                  string  `json:"site"`
	Patients              int     `json:"patients"`
	Completed             int     `json:"completed"`
	CompletionMean        float64 `json:"completion_mean"`
	CompletionRatePercent float64 `json:"completion_rate_percent"`
	AdverseEvents         int     `json:"adverse_events"`
	AverageAge            float64 `json:"average_age"`
	Grade                 Grade   `json:"grade"`
}

// AgeGroup holds completion aggregates for one age bucket.
type AgeGroup struct {
	Label          string  `json:"label"`
	Patients       int     `json:"patients"`
	Completed      int     `json:"completed"`
	CompletionMean float64 `json:"completion_mean"`
}

// Coefficient is a Pearson correlation value. An undefined correlation
// (zero-variance input) is carried as NaN and marshals to JSON null so
// callers can treat it as "no correlation data" rather than zero.
type Coefficient float64

// Defined reports whether the coefficient carries a usable value.
func (c Coefficient) Defined() bool {
	return !math.IsNaN(float64(c))
}

// MarshalJSON renders undefined coefficients as null.
func (c Coefficient) MarshalJSON() ([]byte, error) {
	if !c.Defined() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(c))
}

// UnmarshalJSON restores null back into the NaN sentinel.
func (c *Coefficient) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*c = Coefficient(math.NaN())
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*c = Coefficient(v)
	return nil
}

// CorrelationMatrix is the pairwise Pearson matrix over the analyzable
// numeric fields, keyed symmetrically by field name.
type CorrelationMatrix struct {
	Fields []string                          `json:"fields"`
	Values map[string]map[string]Coefficient `json:"values"`
}

// At returns the coefficient for a field pair, NaN when either key is absent.
func (m CorrelationMatrix) At(row, col string) Coefficient {
	if inner, ok := m.Values[row]; ok {
		if v, ok := inner[col]; ok {
			return v
		}
	}
	return Coefficient(math.NaN())
}

// CrossAnalysisReport bundles the grouped and correlation views.
type CrossAnalysisReport struct {
	SitePerformance []SitePerformance `json:"site_performance"`
	AgeGroups       []AgeGroup        `json:"age_group_analysis"`
	Correlations    CorrelationMatrix `json:"correlations"`
}

// AnalysisReport is the complete result of one analysis run.
type AnalysisReport struct {
	RunID         string              `json:"run_id"`
	GeneratedAt   time.Time           `json:"generated_at"`
	Statistics    StatisticsReport    `json:"statistics"`
	CrossAnalysis CrossAnalysisReport `json:"cross_analysis"`
	Warnings      []string            `json:"warnings,omitempty"`
}
