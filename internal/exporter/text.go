package exporter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"trialpulse/pkg/contracts/domain"
)

const reportRule = "======================================================================"

// maxInvalidDetails caps how many invalid records the text report lists.
const maxInvalidDetails = 5

// TextReport renders a statistics report as the fixed-layout plain text
// summary printed by the console analyzer.
func TextReport(stats *domain.StatisticsReport) string {
	if stats == nil || stats.TotalPatients == 0 {
		return "No valid data to report."
	}

	var b strings.Builder
	line := func(format string, args ...interface{}) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}

	line(reportRule)
	line("CLINICAL TRIAL DATA SUMMARY REPORT")
	line(reportRule)
	line("")

	line("ENROLLMENT SUMMARY")
	line("  Total Patients Enrolled: %d", stats.TotalPatients)
	line("")

	line("PATIENTS PER TRIAL SITE")
	sites := make([]string, 0, len(stats.PatientsPerSite))
	for site := range stats.PatientsPerSite {
		sites = append(sites, site)
	}
	sort.Strings(sites)
	for _, site := range sites {
		line("  %s: %d", site, stats.PatientsPerSite[site])
	}
	line("")

	line("DEMOGRAPHICS")
	line("  Average Age: %s years", formatNumber(stats.AverageAge))
	line("")

	line("TRIAL OUTCOMES")
	line("  Completion Rate: %s%%", formatNumber(stats.CompletionRatePercent))
	line("  Adverse Event Rate: %s%%", formatNumber(stats.AdverseEventRatePercent))
	line("")

	line("OUTCOME COMPARISON")
	line("  Completion Rate (with adverse events): %s%%", formatNumber(stats.CompletionRateWithAdversePercent))
	line("  Completion Rate (without adverse events): %s%%", formatNumber(stats.CompletionRateWithoutAdversePercent))
	line("")

	line("DATA QUALITY")
	line("  Valid Records: %d", stats.DataQuality.ValidRecords)
	line("  Invalid Records: %d", stats.DataQuality.InvalidRecords)

	details := stats.DataQuality.InvalidRecordDetails
	if len(details) > 0 {
		line("")
		line("INVALID RECORDS DETAILS")
		shown := details
		if len(shown) > maxInvalidDetails {
			shown = shown[:maxInvalidDetails]
		}
		for i, invalid := range shown {
			patientID := "UNKNOWN"
			if invalid.PatientID != nil && *invalid.PatientID != "" {
				patientID = *invalid.PatientID
			}
			line("  %d. Patient ID: %s", i+1, patientID)
			line("     Errors: %s", strings.Join(invalid.ValidationErrors, ", "))
		}
		if remaining := len(details) - maxInvalidDetails; remaining > 0 {
			line("  ... and %d more (see data_validation.log)", remaining)
		}
	}

	line(reportRule)
	return strings.TrimSuffix(b.String(), "\n")
}

// formatNumber prints a rounded value without spurious trailing zeros but
// always with a decimal point, so 50 renders as "50.0" and 66.67 as
// "66.67".
func formatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
