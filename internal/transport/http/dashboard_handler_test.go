package http

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trialpulse/internal/infrastructure"
	"trialpulse/internal/services"
)

func TestDashboard_NoRunYet(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	metrics := infrastructure.NewMetrics(prometheus.NewRegistry())
	svc := services.NewAnalysisService(logger, nil, metrics)
	h := NewDashboardHandler(svc, nil, logger)

	rec := httptest.NewRecorder()
	h.Dashboard(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "No analysis has run yet")
}

func TestDashboard_RendersReport(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	metrics := infrastructure.NewMetrics(prometheus.NewRegistry())
	svc := services.NewAnalysisService(logger, nil, metrics)

	analyze := NewAnalyzeHandler(svc, logger, 1<<20)
	rec := httptest.NewRecorder()
	analyze.Analyze(rec, multipartUpload(t, "trial.csv", validCSV, ""))
	require.Equal(t, http.StatusOK, rec.Code)

	h := NewDashboardHandler(svc, nil, logger)
	rec = httptest.NewRecorder()
	h.Dashboard(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	body := rec.Body.String()
	assert.Contains(t, body, "Summary Statistics")
	assert.Contains(t, body, "SiteA")
	assert.Contains(t, body, "Age Group Analysis")
	// No snapshot store wired, SQL sections stay hidden.
	assert.NotContains(t, body, "Site Outcome Breakdown")
}

func TestHealthCheck(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	h := NewHealthHandler(services.NewHealthService("v1.0.0", nil), logger)

	rec := httptest.NewRecorder()
	h.HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)
}
