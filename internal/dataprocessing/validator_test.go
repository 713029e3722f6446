package dataprocessing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trialpulse/pkg/contracts/domain"
)

// validRecord returns a record passing every predicate; tests break single
// fields to trigger specific reasons.
func validRecord() domain.CandidateRecord {
	return domain.CandidateRecord{
		PatientID:  "P001",
		TrialSite:  "SiteA",
		DateParsed: true,
		Age:        45,
		AgeParsed:  true,
		RawAge:     "45",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*domain.CandidateRecord)
		wantReasons []string
	}{
		{
			name:        "fully valid",
			mutate:      func(r *domain.CandidateRecord) {},
			wantReasons: nil,
		},
		{
			name: "unparseable date",
			mutate: func(r *domain.CandidateRecord) {
				r.DateParsed = false
			},
			wantReasons: []string{"Invalid enrollment date"},
		},
		{
			name: "unparseable age echoes raw text",
			mutate: func(r *domain.CandidateRecord) {
				r.AgeParsed = false
				r.RawAge = "abc"
			},
			wantReasons: []string{"Invalid age: abc"},
		},
		{
			name: "negative age",
			mutate: func(r *domain.CandidateRecord) {
				r.Age = -1
				r.RawAge = "-1"
			},
			wantReasons: []string{"Invalid age: -1"},
		},
		{
			name: "age above upper bound",
			mutate: func(r *domain.CandidateRecord) {
				r.Age = 151
				r.RawAge = "151"
			},
			wantReasons: []string{"Invalid age: 151"},
		},
		{
			name: "age 0 is inclusive lower bound",
			mutate: func(r *domain.CandidateRecord) {
				r.Age = 0
				r.RawAge = "0"
			},
			wantReasons: nil,
		},
		{
			name: "age 150 is inclusive upper bound",
			mutate: func(r *domain.CandidateRecord) {
				r.Age = 150
				r.RawAge = "150"
			},
			wantReasons: nil,
		},
		{
			name: "missing patient ID",
			mutate: func(r *domain.CandidateRecord) {
				r.PatientID = ""
			},
			wantReasons: []string{"Missing patient ID"},
		},
		{
			name: "missing trial site",
			mutate: func(r *domain.CandidateRecord) {
				r.TrialSite = "   "
			},
			wantReasons: []string{"Missing trial site"},
		},
		{
			name: "every predicate fails in fixed order",
			mutate: func(r *domain.CandidateRecord) {
				r.DateParsed = false
				r.AgeParsed = false
				r.RawAge = "200"
				r.PatientID = ""
				r.TrialSite = ""
			},
			wantReasons: []string{
				"Invalid enrollment date",
				"Invalid age: 200",
				"Missing patient ID",
				"Missing trial site",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := validRecord()
			tt.mutate(&rec)

			verdict := Validate(rec)

			if len(tt.wantReasons) == 0 {
				assert.True(t, verdict.Valid)
				assert.Empty(t, verdict.Reasons)
				return
			}
			assert.False(t, verdict.Valid)
			assert.Equal(t, tt.wantReasons, verdict.Reasons)
		})
	}
}

func TestValidateAll(t *testing.T) {
	bad := validRecord()
	bad.AgeParsed = false
	bad.RawAge = "n/a"

	verdicts := ValidateAll([]domain.CandidateRecord{validRecord(), bad})
	require.Len(t, verdicts, 2)
	assert.True(t, verdicts[0].Valid)
	assert.False(t, verdicts[1].Valid)
	assert.Equal(t, []string{"Invalid age: n/a"}, verdicts[1].Reasons)
}
