package services

import (
	"context"
	"time"
)

// HealthStatus is the response shape for the health endpoint.
type HealthStatus struct {
	Status    string    `json:"status"`
	Version   string    `json:"version"`
	Uptime    string    `json:"uptime"`
	Timestamp time.Time `json:"timestamp"`
}

// Pinger is anything that can report backend liveness, typically the
// SQLite store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthService reports process health.
type HealthService struct {
	version string
	started time.Time
	pinger  Pinger
}

// NewHealthService creates a health service. pinger may be nil for
// deployments without a database.
func NewHealthService(version string, pinger Pinger) *HealthService {
	return &HealthService{
		version: version,
		started: time.Now(),
		pinger:  pinger,
	}
}

// Check returns the current health status. A failing backend ping degrades
// the status rather than erroring, so the endpoint always answers.
func (s *HealthService) Check(ctx context.Context) HealthStatus {
	status := "healthy"
	if s.pinger != nil {
		if err := s.pinger.Ping(ctx); err != nil {
			status = "degraded"
		}
	}
	return HealthStatus{
		Status:    status,
		Version:   s.version,
		Uptime:    time.Since(s.started).Round(time.Second).String(),
		Timestamp: time.Now().UTC(),
	}
}
