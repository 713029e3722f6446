package exporter

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"trialpulse/pkg/contracts/domain"
)

func TestExcelExporter_Export(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports", "trial_data.xlsx")

	ws := domain.WorkingSet{
		{
			PatientID:      "P001",
			TrialSite:      "SiteA",
			EnrollmentDate: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
			Age:            34,
			AdverseEvent:   false,
			CompletedTrial: true,
		},
		{
			PatientID:      "P002",
			TrialSite:      "SiteB",
			EnrollmentDate: time.Date(2024, 2, 20, 0, 0, 0, 0, time.UTC),
			Age:            52,
			AdverseEvent:   true,
			CompletedTrial: false,
		},
	}
	sites := []domain.SitePerformance{
		{Site: "SiteA", Patients: 1, Completed: 1, CompletionRatePercent: 100, Grade: domain.GradeA},
		{Site: "SiteB", Patients: 1, Completed: 0, CompletionRatePercent: 0, Grade: domain.GradeD},
	}

	require.NoError(t, NewExcelExporter().Export(path, ws, sites))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(patientsSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "patient_id", rows[0][0])
	assert.Equal(t, "P001", rows[1][0])
	assert.Equal(t, "2024-01-10", rows[1][2])

	siteRows, err := f.GetRows(sitesSheet)
	require.NoError(t, err)
	require.Len(t, siteRows, 3)
	assert.Equal(t, "SiteA", siteRows[1][0])
	assert.Equal(t, "A (Excellent)", siteRows[1][6])
}
