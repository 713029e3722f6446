package http

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"

	"trialpulse/internal/services"
	"trialpulse/internal/store"
	"trialpulse/pkg/contracts/domain"
)

// SnapshotQueries is the slice of the SQLite store the dashboard reads.
type SnapshotQueries interface {
	SiteOutcomes(ctx context.Context) ([]store.SiteOutcome, error)
	EnrollmentSummaries(ctx context.Context) ([]store.EnrollmentSummary, error)
	HighRiskPatients(ctx context.Context) ([]store.HighRiskPatient, error)
	SiteGrades(ctx context.Context) ([]store.SiteGrade, error)
	Overall(ctx context.Context) (store.OverallSummary, error)
}

// DashboardHandler renders the HTML summary page.
type DashboardHandler struct {
	service *services.AnalysisService
	queries SnapshotQueries
	logger  *slog.Logger
	tmpl    *template.Template
}

// NewDashboardHandler creates a dashboard handler. queries may be nil when
// no snapshot store is configured; the SQL sections are then omitted.
func NewDashboardHandler(service *services.AnalysisService, queries SnapshotQueries, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		service: service,
		queries: queries,
		logger:  logger.With(slog.String("handler", "dashboard")),
		tmpl:    template.Must(template.New("dashboard").Parse(dashboardTemplate)),
	}
}

type dashboardData struct {
	Report      *domain.AnalysisReport
	Outcomes    []store.SiteOutcome
	Enrollment  []store.EnrollmentSummary
	HighRisk    []store.HighRiskPatient
	Grades      []store.SiteGrade
	Overall     store.OverallSummary
	HasSnapshot bool
}

// Dashboard handles GET /.
func (h *DashboardHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	data := dashboardData{Report: h.service.LatestReport()}

	if h.queries != nil && data.Report != nil {
		var err error
		if data.Outcomes, err = h.queries.SiteOutcomes(ctx); err == nil {
			data.HasSnapshot = true
		} else {
			h.logger.WarnContext(ctx, "snapshot query failed", slog.String("error", err.Error()))
		}
		data.Enrollment, _ = h.queries.EnrollmentSummaries(ctx)
		data.HighRisk, _ = h.queries.HighRiskPatients(ctx)
		data.Grades, _ = h.queries.SiteGrades(ctx)
		data.Overall, _ = h.queries.Overall(ctx)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tmpl.Execute(w, data); err != nil {
		h.logger.ErrorContext(ctx, "dashboard render failed", slog.String("error", err.Error()))
	}
}

const dashboardTemplate = `<!DOCTYPE html>
<html>
<head>
    <title>TrialPulse - Clinical Trial Data Analyzer</title>
    <style>
        body { font-family: Arial, sans-serif; margin: 40px; color: #212529; }
        table { border-collapse: collapse; margin: 10px 0 25px; }
        th, td { border: 1px solid #dee2e6; padding: 6px 12px; text-align: left; }
        th { background-color: #f1f3f5; }
        .status { padding: 10px; margin: 10px 0; border-radius: 4px; }
        .info { background-color: #d1ecf1; color: #0c5460; }
        .warning { background-color: #fff3cd; color: #856404; }
    </style>
</head>
<body>
    <h1>Clinical Trial Data Analyzer</h1>
{{if not .Report}}
    <div class="status info">No analysis has run yet. Upload a dataset via <code>POST /api/analyze</code>.</div>
{{else}}
    <div class="status info">
        <strong>Run:</strong> {{.Report.RunID}}
        <br><strong>Generated:</strong> {{.Report.GeneratedAt.Format "2006-01-02 15:04:05"}}
    </div>

    <h2>Summary Statistics</h2>
    <table>
        <tr><th>Total Patients</th><td>{{.Report.Statistics.TotalPatients}}</td></tr>
        <tr><th>Average Age</th><td>{{.Report.Statistics.AverageAge}}</td></tr>
        <tr><th>Completion Rate</th><td>{{.Report.Statistics.CompletionRatePercent}}%</td></tr>
        <tr><th>Adverse Event Rate</th><td>{{.Report.Statistics.AdverseEventRatePercent}}%</td></tr>
        <tr><th>Completion Rate (with adverse events)</th><td>{{.Report.Statistics.CompletionRateWithAdversePercent}}%</td></tr>
        <tr><th>Completion Rate (without adverse events)</th><td>{{.Report.Statistics.CompletionRateWithoutAdversePercent}}%</td></tr>
        <tr><th>Valid Records</th><td>{{.Report.Statistics.DataQuality.ValidRecords}}</td></tr>
        <tr><th>Invalid Records</th><td>{{.Report.Statistics.DataQuality.InvalidRecords}}</td></tr>
    </table>

    <h2>Site Performance</h2>
    <table>
        <tr><th>Site</th><th>Patients</th><th>Completed</th><th>Completion %</th><th>Adverse Events</th><th>Average Age</th><th>Grade</th></tr>
        {{range .Report.CrossAnalysis.SitePerformance}}
        <tr><td>{{.Site}}</td><td>{{.Patients}}</td><td>{{.Completed}}</td><td>{{.CompletionRatePercent}}</td><td>{{.AdverseEvents}}</td><td>{{.AverageAge}}</td><td>{{.Grade.Description}}</td></tr>
        {{end}}
    </table>

    <h2>Age Group Analysis</h2>
    <table>
        <tr><th>Age Group</th><th>Patients</th><th>Completed</th></tr>
        {{range .Report.CrossAnalysis.AgeGroups}}
        <tr><td>{{.Label}}</td><td>{{.Patients}}</td><td>{{.Completed}}</td></tr>
        {{end}}
    </table>

    {{range .Report.Warnings}}
    <div class="status warning">{{.}}</div>
    {{end}}

    {{if .HasSnapshot}}
    <h2>Site Outcome Breakdown</h2>
    <table>
        <tr><th>Site</th><th>Total</th><th>Completed</th><th>Incomplete</th><th>With Adverse</th><th>Without Adverse</th></tr>
        {{range .Outcomes}}
        <tr><td>{{.Site}}</td><td>{{.TotalPatients}}</td><td>{{.Completed}}</td><td>{{.Incomplete}}</td><td>{{.WithAdverse}}</td><td>{{.WithoutAdverse}}</td></tr>
        {{end}}
    </table>

    <h2>Enrollment by Site</h2>
    <table>
        <tr><th>Site</th><th>Enrolled</th><th>First Enrollment</th><th>Last Enrollment</th></tr>
        {{range .Enrollment}}
        <tr><td>{{.Site}}</td><td>{{.TotalEnrolled}}</td><td>{{.FirstEnrollment}}</td><td>{{.LastEnrollment}}</td></tr>
        {{end}}
    </table>

    <h2>High-Risk Patients</h2>
    <p>Patients with an adverse event who did not complete the trial: {{len .HighRisk}}</p>
    {{if .HighRisk}}
    <table>
        <tr><th>Patient</th><th>Site</th><th>Age</th></tr>
        {{range .HighRisk}}
        <tr><td>{{.PatientID}}</td><td>{{.Site}}</td><td>{{.Age}}</td></tr>
        {{end}}
    </table>
    {{end}}

    <h2>Site Grades</h2>
    <table>
        <tr><th>Site</th><th>Total</th><th>Completed</th><th>Completion %</th><th>Grade</th></tr>
        {{range .Grades}}
        <tr><td>{{.Site}}</td><td>{{.Total}}</td><td>{{.Completed}}</td><td>{{.CompletionPct}}</td><td>{{.Grade}}</td></tr>
        {{end}}
    </table>

    <h2>Overall</h2>
    <table>
        <tr><th>Total Patients</th><td>{{.Overall.TotalPatients}}</td></tr>
        <tr><th>Average Age</th><td>{{.Overall.AverageAge}}</td></tr>
        <tr><th>Age Range</th><td>{{.Overall.YoungestAge}} - {{.Overall.OldestAge}}</td></tr>
        <tr><th>Overall Completion Rate</th><td>{{.Overall.CompletionRate}}%</td></tr>
        <tr><th>Overall Adverse Event Rate</th><td>{{.Overall.AdverseRate}}%</td></tr>
    </table>
    {{end}}
{{end}}
</body>
</html>
`
