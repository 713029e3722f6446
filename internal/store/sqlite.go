// Package store persists validated trial records in a SQLite snapshot and
// serves the analytical queries the dashboard and console report expose.
//
// Each analysis run replaces the patients table wholesale. The snapshot is
// a queryable copy of the working set, not a system of record, so there is
// no migration story beyond the initial schema.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"trialpulse/pkg/contracts/domain"
)

// Store manages the SQLite snapshot of validated records.
type Store struct {
	db *sql.DB

	// go-sqlite3 allows one writer at a time; serialize snapshot swaps.
	mu sync.Mutex
}

// NewStore opens or creates the snapshot database at path and creates the
// schema if it does not exist.
func NewStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping reports database liveness for health checks.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS patients (
			patient_id TEXT NOT NULL,
			trial_site TEXT NOT NULL,
			enrollment_date TEXT NOT NULL,
			age REAL NOT NULL,
			adverse_event INTEGER NOT NULL,
			completed_trial INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_patients_site ON patients(trial_site)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// ReplaceWorkingSet swaps the patients snapshot for the given working set
// in a single transaction.
func (s *Store) ReplaceWorkingSet(ctx context.Context, ws domain.WorkingSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM patients`); err != nil {
		return fmt.Errorf("clearing snapshot: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO patients (patient_id, trial_site, enrollment_date, age, adverse_event, completed_trial)
		 VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range ws {
		_, err := stmt.ExecContext(ctx,
			rec.PatientID,
			rec.TrialSite,
			rec.EnrollmentDate.Format(domain.DateFormat),
			rec.Age,
			boolToInt(rec.AdverseEvent),
			boolToInt(rec.CompletedTrial),
		)
		if err != nil {
			return fmt.Errorf("inserting patient %s: %w", rec.PatientID, err)
		}
	}

	return tx.Commit()
}

// SiteOutcome is a per-site breakdown of trial outcomes.
type SiteOutcome struct {
	Site           string `json:"trial_site"`
	TotalPatients  int    `json:"total_patients"`
	Completed      int    `json:"completed"`
	Incomplete     int    `json:"incomplete"`
	WithAdverse    int    `json:"with_adverse"`
	WithoutAdverse int    `json:"without_adverse"`
}

// SiteOutcomes returns outcome counts per site, ordered by site label.
func (s *Store) SiteOutcomes(ctx context.Context) ([]SiteOutcome, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			trial_site,
			COUNT(*) as total_patients,
			SUM(CASE WHEN completed_trial = 1 THEN 1 ELSE 0 END) as completed,
			SUM(CASE WHEN completed_trial = 0 THEN 1 ELSE 0 END) as incomplete,
			SUM(CASE WHEN adverse_event = 1 THEN 1 ELSE 0 END) as with_adverse,
			SUM(CASE WHEN adverse_event = 0 THEN 1 ELSE 0 END) as without_adverse
		FROM patients
		GROUP BY trial_site
		ORDER BY trial_site`)
	if err != nil {
		return nil, fmt.Errorf("querying site outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []SiteOutcome
	for rows.Next() {
		var o SiteOutcome
		if err := rows.Scan(&o.Site, &o.TotalPatients, &o.Completed, &o.Incomplete, &o.WithAdverse, &o.WithoutAdverse); err != nil {
			return nil, fmt.Errorf("scanning site outcome: %w", err)
		}
		outcomes = append(outcomes, o)
	}
	return outcomes, rows.Err()
}

// EnrollmentSummary is a per-site enrollment window.
type EnrollmentSummary struct {
	Site            string `json:"trial_site"`
	TotalEnrolled   int    `json:"total_enrolled"`
	FirstEnrollment string `json:"first_enrollment"`
	LastEnrollment  string `json:"last_enrollment"`
}

// EnrollmentSummaries returns per-site enrollment counts and date windows,
// busiest site first.
func (s *Store) EnrollmentSummaries(ctx context.Context) ([]EnrollmentSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			trial_site,
			COUNT(*) as total_enrolled,
			MIN(enrollment_date) as first_enrollment,
			MAX(enrollment_date) as last_enrollment
		FROM patients
		GROUP BY trial_site
		ORDER BY total_enrolled DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying enrollment summaries: %w", err)
	}
	defer rows.Close()

	var summaries []EnrollmentSummary
	for rows.Next() {
		var e EnrollmentSummary
		if err := rows.Scan(&e.Site, &e.TotalEnrolled, &e.FirstEnrollment, &e.LastEnrollment); err != nil {
			return nil, fmt.Errorf("scanning enrollment summary: %w", err)
		}
		summaries = append(summaries, e)
	}
	return summaries, rows.Err()
}

// HighRiskPatient is a patient with an adverse event who did not complete
// the trial.
type HighRiskPatient struct {
	PatientID string  `json:"patient_id"`
	Site      string  `json:"trial_site"`
	Age       float64 `json:"age"`
}

// HighRiskPatients returns patients who both experienced an adverse event
// and did not complete the trial, oldest first.
func (s *Store) HighRiskPatients(ctx context.Context) ([]HighRiskPatient, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT patient_id, trial_site, age
		FROM patients
		WHERE adverse_event = 1 AND completed_trial = 0
		ORDER BY age DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying high-risk patients: %w", err)
	}
	defer rows.Close()

	var patients []HighRiskPatient
	for rows.Next() {
		var p HighRiskPatient
		if err := rows.Scan(&p.PatientID, &p.Site, &p.Age); err != nil {
			return nil, fmt.Errorf("scanning high-risk patient: %w", err)
		}
		patients = append(patients, p)
	}
	return patients, rows.Err()
}

// SiteGrade is a graded per-site completion ranking.
type SiteGrade struct {
	Site          string  `json:"trial_site"`
	Total         int     `json:"total"`
	Completed     int     `json:"completed"`
	CompletionPct float64 `json:"completion_pct"`
	Grade         string  `json:"grade"`
}

// SiteGrades grades each site on completion percentage, best first. The
// thresholds match the in-memory grading in the analysis package.
func (s *Store) SiteGrades(ctx context.Context) ([]SiteGrade, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			trial_site,
			COUNT(*) as total,
			SUM(completed_trial) as completed,
			ROUND(100.0 * SUM(completed_trial) / COUNT(*), 2) as completion_pct,
			CASE
				WHEN ROUND(100.0 * SUM(completed_trial) / COUNT(*), 2) >= 90 THEN 'A (Excellent)'
				WHEN ROUND(100.0 * SUM(completed_trial) / COUNT(*), 2) >= 70 THEN 'B (Good)'
				WHEN ROUND(100.0 * SUM(completed_trial) / COUNT(*), 2) >= 50 THEN 'C (Fair)'
				ELSE 'D (Poor)'
			END as grade
		FROM patients
		GROUP BY trial_site
		ORDER BY completion_pct DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying site grades: %w", err)
	}
	defer rows.Close()

	var grades []SiteGrade
	for rows.Next() {
		var g SiteGrade
		if err := rows.Scan(&g.Site, &g.Total, &g.Completed, &g.CompletionPct, &g.Grade); err != nil {
			return nil, fmt.Errorf("scanning site grade: %w", err)
		}
		grades = append(grades, g)
	}
	return grades, rows.Err()
}

// OverallSummary aggregates the entire snapshot.
type OverallSummary struct {
	TotalPatients  int     `json:"total_patients"`
	AverageAge     float64 `json:"avg_age"`
	YoungestAge    float64 `json:"youngest"`
	OldestAge      float64 `json:"oldest"`
	CompletionRate float64 `json:"overall_completion_rate"`
	AdverseRate    float64 `json:"overall_adverse_rate"`
}

// Overall returns dataset-wide aggregates. An empty snapshot yields a zero
// summary rather than an error.
func (s *Store) Overall(ctx context.Context) (OverallSummary, error) {
	var o OverallSummary
	var avgAge, youngest, oldest, completion, adverse sql.NullFloat64

	err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*) as total_patients,
			ROUND(AVG(age), 2) as avg_age,
			MIN(age) as youngest,
			MAX(age) as oldest,
			ROUND(100.0 * SUM(completed_trial) / COUNT(*), 2) as overall_completion_rate,
			ROUND(100.0 * SUM(adverse_event) / COUNT(*), 2) as overall_adverse_rate
		FROM patients`).
		Scan(&o.TotalPatients, &avgAge, &youngest, &oldest, &completion, &adverse)
	if err != nil {
		return OverallSummary{}, fmt.Errorf("querying overall summary: %w", err)
	}

	o.AverageAge = avgAge.Float64
	o.YoungestAge = youngest.Float64
	o.OldestAge = oldest.Float64
	o.CompletionRate = completion.Float64
	o.AdverseRate = adverse.Float64
	return o, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
