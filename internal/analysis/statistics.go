package analysis

import (
	"math"

	"trialpulse/pkg/contracts/domain"
)

// Round2 rounds to 2 decimal places, half away from zero.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Round3 rounds to 3 decimal places, half away from zero. NaN stays NaN.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

// ComputeStatistics computes the summary metrics of §"Statistics Engine" over
// the working set. The partitioner guarantees a non-empty working set; a nil
// or empty one yields a zero report carrying only the data-quality section.
// The invalid set feeds the data-quality section and is returned in full;
// capping the detail list is left to reporting consumers.
func ComputeStatistics(ws domain.WorkingSet, invalid []domain.InvalidRecord) domain.StatisticsReport {
	report := domain.StatisticsReport{
		TotalPatients:   len(ws),
		PatientsPerSite: make(map[string]int),
		DataQuality:     dataQuality(len(ws), invalid),
	}
	if len(ws) == 0 {
		return report
	}

	n := float64(len(ws))
	var ageSum float64
	var completed, adverse int
	var completedWithAdverse, completedWithoutAdverse int

	for _, rec := range ws {
		report.PatientsPerSite[rec.TrialSite]++
		ageSum += rec.Age
		if rec.CompletedTrial {
			completed++
		}
		if rec.AdverseEvent {
			adverse++
			if rec.CompletedTrial {
				completedWithAdverse++
			}
		} else if rec.CompletedTrial {
			completedWithoutAdverse++
		}
	}

	report.AverageAge = Round2(ageSum / n)
	report.CompletionRatePercent = Round2(float64(completed) / n * 100)
	report.AdverseEventRatePercent = Round2(float64(adverse) / n * 100)

	// Stratified completion rates. An empty stratum reports 0 rather than an
	// undefined value so the output schema stays total.
	withAdverse := adverse
	withoutAdverse := len(ws) - adverse
	if withAdverse > 0 {
		report.CompletionRateWithAdversePercent =
			Round2(float64(completedWithAdverse) / float64(withAdverse) * 100)
	}
	if withoutAdverse > 0 {
		report.CompletionRateWithoutAdversePercent =
			Round2(float64(completedWithoutAdverse) / float64(withoutAdverse) * 100)
	}

	return report
}

func dataQuality(valid int, invalid []domain.InvalidRecord) domain.DataQuality {
	details := make([]domain.InvalidRecordDetail, 0, len(invalid))
	for _, rec := range invalid {
		details = append(details, rec.Record.Detail(rec.Reasons))
	}
	return domain.DataQuality{
		ValidRecords:         valid,
		InvalidRecords:       len(invalid),
		InvalidRecordDetails: details,
	}
}
