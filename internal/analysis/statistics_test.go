package analysis

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trialpulse/pkg/contracts/domain"
)

func record(site string, age float64, adverse, completed bool) domain.CandidateRecord {
	return domain.CandidateRecord{
		PatientID:      "P",
		TrialSite:      site,
		DateParsed:     true,
		Age:            age,
		AgeParsed:      true,
		RawAge:         fmt.Sprintf("%g", age),
		AdverseEvent:   adverse,
		CompletedTrial: completed,
	}
}

func TestComputeStatistics(t *testing.T) {
	// Three valid rows, ages 20/40/60, one adverse non-completer.
	ws := domain.WorkingSet{
		record("SiteA", 20, true, false),
		record("SiteA", 40, false, true),
		record("SiteB", 60, false, true),
	}

	report := ComputeStatistics(ws, nil)

	assert.Equal(t, 3, report.TotalPatients)
	assert.Equal(t, map[string]int{"SiteA": 2, "SiteB": 1}, report.PatientsPerSite)
	assert.InDelta(t, 40.0, report.AverageAge, 1e-9)
	assert.InDelta(t, 66.67, report.CompletionRatePercent, 1e-9)
	assert.InDelta(t, 33.33, report.AdverseEventRatePercent, 1e-9)
	assert.InDelta(t, 0.0, report.CompletionRateWithAdversePercent, 1e-9)
	assert.InDelta(t, 100.0, report.CompletionRateWithoutAdversePercent, 1e-9)
	assert.Equal(t, 3, report.DataQuality.ValidRecords)
	assert.Equal(t, 0, report.DataQuality.InvalidRecords)
}

func TestComputeStatistics_Idempotent(t *testing.T) {
	ws := domain.WorkingSet{
		record("SiteA", 31, true, true),
		record("SiteB", 55, false, false),
		record("SiteB", 72, true, false),
	}

	first := ComputeStatistics(ws, nil)
	second := ComputeStatistics(ws, nil)
	assert.Equal(t, first, second, "no hidden mutation between runs")
}

func TestComputeStatistics_EmptyStratumReportsZero(t *testing.T) {
	// Nobody had an adverse event; the with-adverse stratum is empty.
	ws := domain.WorkingSet{
		record("SiteA", 30, false, true),
		record("SiteA", 50, false, false),
	}

	report := ComputeStatistics(ws, nil)
	assert.Zero(t, report.CompletionRateWithAdversePercent)
	assert.InDelta(t, 50.0, report.CompletionRateWithoutAdversePercent, 1e-9)
}

func TestComputeStatistics_StratifiedSumLaw(t *testing.T) {
	ws := domain.WorkingSet{
		record("SiteA", 25, true, true),
		record("SiteA", 35, true, false),
		record("SiteB", 45, false, true),
		record("SiteB", 55, false, true),
		record("SiteC", 65, false, false),
	}

	report := ComputeStatistics(ws, nil)

	// Stratified rates, weighted by stratum size, reconstruct the overall
	// completion rate within rounding tolerance.
	withAdverse, withoutAdverse := 2.0, 3.0
	reconstructed := (report.CompletionRateWithAdversePercent*withAdverse +
		report.CompletionRateWithoutAdversePercent*withoutAdverse) / (withAdverse + withoutAdverse)
	assert.InDelta(t, report.CompletionRatePercent, reconstructed, 0.01)
}

func TestComputeStatistics_DataQualityDetails(t *testing.T) {
	bad := record("", 200, false, true)
	bad.RawAge = "200"
	bad.SourceIndex = 4
	invalid := []domain.InvalidRecord{
		{Record: bad, Reasons: []string{"Invalid age: 200", "Missing trial site"}},
	}

	ws := domain.WorkingSet{record("SiteA", 40, false, true)}
	report := ComputeStatistics(ws, invalid)

	assert.Equal(t, 1, report.DataQuality.ValidRecords)
	assert.Equal(t, 1, report.DataQuality.InvalidRecords)
	require.Len(t, report.DataQuality.InvalidRecordDetails, 1)

	detail := report.DataQuality.InvalidRecordDetails[0]
	assert.Equal(t, 4, detail.Row)
	assert.Nil(t, detail.TrialSite)
	require.NotNil(t, detail.Age)
	assert.Equal(t, 200.0, *detail.Age)
	assert.Equal(t, []string{"Invalid age: 200", "Missing trial site"}, detail.ValidationErrors)
}

func TestRound2(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{66.666666, 66.67},
		{33.333333, 33.33},
		{1.239, 1.24},
		{-66.666666, -66.67},
		{100, 100},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Round2(tt.in), 1e-9, "Round2(%v)", tt.in)
	}
}
