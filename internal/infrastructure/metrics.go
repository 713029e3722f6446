package infrastructure

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for the analysis pipeline and
// the HTTP surface. Register once per process.
type Metrics struct {
	AnalysesTotal    *prometheus.CounterVec
	AnalysisDuration prometheus.Histogram
	RecordsProcessed *prometheus.CounterVec
	HTTPRequests     *prometheus.CounterVec
}

// NewMetrics creates and registers the application metrics on the given
// registerer. Pass prometheus.DefaultRegisterer in production.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		AnalysesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "trialpulse_analyses_total",
			Help: "Total number of analysis runs by outcome.",
		}, []string{"status"}),
		AnalysisDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "trialpulse_analysis_duration_seconds",
			Help:    "Analysis run duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		RecordsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "trialpulse_records_processed_total",
			Help: "Total records seen by the validator, split valid/invalid.",
		}, []string{"verdict"}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "trialpulse_http_requests_total",
			Help: "Total HTTP requests by route and status class.",
		}, []string{"route", "status"}),
	}
}

// ObserveRun records one analysis run outcome.
func (m *Metrics) ObserveRun(status string, seconds float64, valid, invalid int) {
	if m == nil {
		return
	}
	m.AnalysesTotal.WithLabelValues(status).Inc()
	m.AnalysisDuration.Observe(seconds)
	m.RecordsProcessed.WithLabelValues("valid").Add(float64(valid))
	m.RecordsProcessed.WithLabelValues("invalid").Add(float64(invalid))
}
