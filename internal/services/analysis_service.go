package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"trialpulse/internal/analysis"
	"trialpulse/internal/dataprocessing"
	"trialpulse/internal/infrastructure"
	"trialpulse/pkg/contracts/domain"
)

// RunResult bundles the report for one analysis run with the working set
// it was computed from, so sinks can persist both.
type RunResult struct {
	Report     *domain.AnalysisReport
	WorkingSet domain.WorkingSet
	Invalid    []domain.InvalidRecord
}

// Sink receives a completed run for persistence. Sinks run concurrently
// after the report is assembled; a sink failure fails the run.
type Sink interface {
	Name() string
	Persist(ctx context.Context, run *RunResult) error
}

// Snapshotter is the slice of the SQLite store the snapshot sink needs.
type Snapshotter interface {
	ReplaceWorkingSet(ctx context.Context, ws domain.WorkingSet) error
}

// NewSnapshotSink adapts a Snapshotter into a Sink.
func NewSnapshotSink(s Snapshotter) Sink {
	return &snapshotSink{s: s}
}

type snapshotSink struct {
	s Snapshotter
}

func (s *snapshotSink) Name() string { return "sqlite-snapshot" }

func (s *snapshotSink) Persist(ctx context.Context, run *RunResult) error {
	return s.s.ReplaceWorkingSet(ctx, run.WorkingSet)
}

// AnalyzeOptions are the caller-tunable knobs for one run. Zero value means
// defaults: the standard age buckets.
type AnalyzeOptions struct {
	AgeEdges  []float64 `json:"age_edges" validate:"omitempty,min=2"`
	AgeLabels []string  `json:"age_labels" validate:"omitempty,min=1"`
}

// AnalysisService runs the validate-partition-analyze pipeline and fans the
// result out to the registered sinks.
type AnalysisService struct {
	sinks    []Sink
	logger   *slog.Logger
	tracer   trace.Tracer
	metrics  *infrastructure.Metrics
	validate *validator.Validate

	mu     sync.RWMutex
	latest *domain.AnalysisReport
}

// NewAnalysisService creates an analysis service. Sinks may be empty;
// metrics may be nil.
func NewAnalysisService(logger *slog.Logger, tracer trace.Tracer, metrics *infrastructure.Metrics, sinks ...Sink) *AnalysisService {
	return &AnalysisService{
		sinks:    sinks,
		logger:   logger,
		tracer:   tracer,
		metrics:  metrics,
		validate: validator.New(),
	}
}

// Analyze runs the full pipeline over a decoded table. SchemaError and
// EmptyWorkingSetError pass through untouched for the transport layer to
// map onto statuses.
func (s *AnalysisService) Analyze(ctx context.Context, table *dataprocessing.Table, opts AnalyzeOptions) (*RunResult, error) {
	runID := uuid.New().String()
	start := time.Now()

	if s.tracer != nil {
		var span trace.Span
		ctx, span = s.tracer.Start(ctx, "analysis.run")
		defer span.End()
	}
	infrastructure.SetSpanAttributes(ctx, map[string]interface{}{
		"run.id":   runID,
		"run.rows": len(table.Rows),
	})

	s.logger.InfoContext(ctx, "analysis run started",
		slog.String("run_id", runID),
		slog.Int("rows", len(table.Rows)))

	buckets, err := s.buckets(opts)
	if err != nil {
		s.fail(ctx, err, start, nil)
		return nil, err
	}

	result, err := dataprocessing.LoadAndValidate(table)
	if err != nil {
		s.fail(ctx, err, start, nil)
		return nil, err
	}

	for _, w := range result.Warnings {
		s.logger.WarnContext(ctx, "validation warning",
			slog.String("run_id", runID),
			slog.String("warning", w))
	}

	stats := analysis.ComputeStatistics(result.WorkingSet, result.Invalid)
	cross, err := analysis.ComputeCrossAnalysis(result.WorkingSet, buckets)
	if err != nil {
		s.fail(ctx, err, start, result)
		return nil, fmt.Errorf("cross analysis: %w", err)
	}

	run := &RunResult{
		Report: &domain.AnalysisReport{
			RunID:         runID,
			GeneratedAt:   time.Now().UTC(),
			Statistics:    stats,
			CrossAnalysis: cross,
			Warnings:      result.Warnings,
		},
		WorkingSet: result.WorkingSet,
		Invalid:    result.Invalid,
	}

	if err := s.persist(ctx, run); err != nil {
		s.fail(ctx, err, start, result)
		return nil, err
	}

	s.mu.Lock()
	s.latest = run.Report
	s.mu.Unlock()

	s.metrics.ObserveRun("success", time.Since(start).Seconds(),
		len(result.WorkingSet), len(result.Invalid))

	s.logger.InfoContext(ctx, "analysis run completed",
		slog.String("run_id", runID),
		slog.Int("valid_records", len(result.WorkingSet)),
		slog.Int("invalid_records", len(result.Invalid)),
		slog.Duration("duration", time.Since(start)))

	return run, nil
}

// LatestReport returns the most recently completed report, nil before the
// first successful run.
func (s *AnalysisService) LatestReport() *domain.AnalysisReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// buckets resolves options into a validated age bucket configuration.
func (s *AnalysisService) buckets(opts AnalyzeOptions) (analysis.AgeBucketConfig, error) {
	if err := s.validate.Struct(opts); err != nil {
		return analysis.AgeBucketConfig{}, fmt.Errorf("invalid options: %w", err)
	}
	if len(opts.AgeEdges) == 0 && len(opts.AgeLabels) == 0 {
		return analysis.DefaultAgeBuckets(), nil
	}
	cfg := analysis.AgeBucketConfig{Edges: opts.AgeEdges, Labels: opts.AgeLabels}
	if err := cfg.Validate(); err != nil {
		return analysis.AgeBucketConfig{}, fmt.Errorf("invalid age buckets: %w", err)
	}
	return cfg, nil
}

// persist fans the run out to every sink concurrently.
func (s *AnalysisService) persist(ctx context.Context, run *RunResult) error {
	if len(s.sinks) == 0 {
		return nil
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, sink := range s.sinks {
		g.Go(func() error {
			if err := sink.Persist(ctx, run); err != nil {
				return fmt.Errorf("sink %s: %w", sink.Name(), err)
			}
			return nil
		})
	}
	return g.Wait()
}

func (s *AnalysisService) fail(ctx context.Context, err error, start time.Time, result *dataprocessing.Result) {
	valid, invalid := 0, 0
	if result != nil {
		valid, invalid = len(result.WorkingSet), len(result.Invalid)
	}
	s.metrics.ObserveRun("failed", time.Since(start).Seconds(), valid, invalid)
	infrastructure.RecordError(ctx, err)
	s.logger.ErrorContext(ctx, "analysis run failed", slog.Any("error", err))
}
