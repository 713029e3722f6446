package exporter

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"trialpulse/pkg/contracts/domain"
)

const (
	patientsSheet = "Patients"
	sitesSheet    = "Site Summary"
)

// ExcelExporter writes the working set and site summary to an .xlsx
// workbook.
type ExcelExporter struct{}

// NewExcelExporter creates a new Excel exporter.
func NewExcelExporter() *ExcelExporter {
	return &ExcelExporter{}
}

// Export writes the workbook to filePath.
func (e *ExcelExporter) Export(filePath string, ws domain.WorkingSet, sites []domain.SitePerformance) error {
	if dir := filepath.Dir(filePath); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", patientsSheet)
	if err := e.writePatients(f, ws); err != nil {
		return err
	}

	if _, err := f.NewSheet(sitesSheet); err != nil {
		return fmt.Errorf("failed to create site sheet: %w", err)
	}
	if err := e.writeSites(f, sites); err != nil {
		return err
	}

	if err := f.SaveAs(filePath); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func (e *ExcelExporter) writePatients(f *excelize.File, ws domain.WorkingSet) error {
	headers := []interface{}{
		domain.FieldPatientID, domain.FieldTrialSite, domain.FieldEnrollmentDate,
		domain.FieldAge, domain.FieldAdverseEvent, domain.FieldCompletedTrial,
	}
	if err := f.SetSheetRow(patientsSheet, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for i, rec := range ws {
		row := []interface{}{
			rec.PatientID,
			rec.TrialSite,
			rec.EnrollmentDate.Format(domain.DateFormat),
			rec.Age,
			rec.AdverseEvent,
			rec.CompletedTrial,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(patientsSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write patient row %d: %w", i+1, err)
		}
	}
	return nil
}

func (e *ExcelExporter) writeSites(f *excelize.File, sites []domain.SitePerformance) error {
	headers := []interface{}{
		"trial_site", "patients", "completed", "completion_rate_percent",
		"adverse_events", "average_age", "grade",
	}
	if err := f.SetSheetRow(sitesSheet, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for i, site := range sites {
		row := []interface{}{
			site.Site,
			site.Patients,
			site.Completed,
			site.CompletionRatePercent,
			site.AdverseEvents,
			site.AverageAge,
			site.Grade.Description(),
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sitesSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write site row %d: %w", i+1, err)
		}
	}
	return nil
}
