// Package api contains API contract definitions for TrialPulse.
// Version v1 represents the current stable API version.
package api

// Analysis API Requests

// AnalyzeOptionsRequest carries the optional run parameters accepted in
// the "options" multipart field of POST /api/analyze. Edges and labels
// are validated together by the analysis service: len(labels) must equal
// len(edges)-1 and edges must be strictly increasing.
type AnalyzeOptionsRequest struct {
	AgeEdges  []float64 `json:"age_edges,omitempty" validate:"omitempty,min=2"`
	AgeLabels []string  `json:"age_labels,omitempty" validate:"omitempty,min=1"`
}

// Health API Requests

// HealthCheckRequest represents a health check request
type HealthCheckRequest struct {
	Verbose bool `json:"verbose" query:"verbose"`
}
