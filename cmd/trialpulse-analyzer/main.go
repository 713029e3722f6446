// Command trialpulse-analyzer runs the analysis pipeline over a local
// CSV or XLSX file, prints the summary report, and writes the JSON,
// Excel and SQLite artifacts.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"trialpulse/internal/config"
	"trialpulse/internal/dataprocessing"
	"trialpulse/internal/exporter"
	"trialpulse/internal/infrastructure"
	"trialpulse/internal/services"
	"trialpulse/internal/store"
)

func main() {
	var (
		inputPath = flag.String("input", "", "path to the trial data file (.csv or .xlsx)")
		outDir    = flag.String("out", "reports", "directory for generated artifacts")
		dbPath    = flag.String("db", "", "SQLite snapshot path (default <out>/trial_data.db)")
		logLevel  = flag.String("log-level", "info", "log level: debug, info, warn, error")
	)
	flag.Parse()

	if *inputPath == "" {
		fmt.Fprintln(os.Stderr, "usage: trialpulse-analyzer -input <file.csv|file.xlsx> [-out dir] [-db path]")
		os.Exit(2)
	}
	if *dbPath == "" {
		*dbPath = filepath.Join(*outDir, "trial_data.db")
	}

	logger, closeLog, err := infrastructure.NewLogger(config.LoggingConfig{
		Level:  *logLevel,
		Format: "json",
		Output: "stdout",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	if err := run(context.Background(), logger, *inputPath, *outDir, *dbPath); err != nil {
		logger.Error("analysis failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, inputPath, outDir, dbPath string) error {
	table, err := readTable(inputPath)
	if err != nil {
		return err
	}

	st, err := store.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("opening snapshot store: %w", err)
	}
	defer st.Close()

	metrics := infrastructure.NewMetrics(prometheus.NewRegistry())
	svc := services.NewAnalysisService(logger, nil, metrics, services.NewSnapshotSink(st))

	run, err := svc.Analyze(ctx, table, services.AnalyzeOptions{})
	if err != nil {
		return err
	}

	fmt.Println(exporter.TextReport(&run.Report.Statistics))
	fmt.Println()

	jsonPath := filepath.Join(outDir, "trial_results.json")
	xlsxPath := filepath.Join(outDir, "trial_data.xlsx")

	var g errgroup.Group
	g.Go(func() error {
		return exporter.NewJSONExporter().Export(jsonPath, run.Report)
	})
	g.Go(func() error {
		return exporter.NewExcelExporter().Export(xlsxPath, run.WorkingSet, run.Report.CrossAnalysis.SitePerformance)
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("writing artifacts: %w", err)
	}

	logger.Info("artifacts written",
		slog.String("json", jsonPath),
		slog.String("xlsx", xlsxPath),
		slog.String("db", dbPath))

	return printSQLAnalytics(ctx, st)
}

func readTable(path string) (*dataprocessing.Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening input: %w", err)
	}
	defer file.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return dataprocessing.ReadCSV(file)
	case ".xlsx":
		return dataprocessing.ReadXLSX(file)
	default:
		return nil, fmt.Errorf("unsupported input format %q, want .csv or .xlsx", filepath.Ext(path))
	}
}

// printSQLAnalytics runs the snapshot queries and prints them in report
// form.
func printSQLAnalytics(ctx context.Context, st *store.Store) error {
	fmt.Println("SQL ANALYTICS")
	fmt.Println()

	outcomes, err := st.SiteOutcomes(ctx)
	if err != nil {
		return err
	}
	fmt.Println("Site Outcome Breakdown")
	for _, o := range outcomes {
		fmt.Printf("  %s: %d patients, %d completed, %d incomplete, %d with adverse events\n",
			o.Site, o.TotalPatients, o.Completed, o.Incomplete, o.WithAdverse)
	}
	fmt.Println()

	enrollment, err := st.EnrollmentSummaries(ctx)
	if err != nil {
		return err
	}
	fmt.Println("Enrollment by Site")
	for _, e := range enrollment {
		fmt.Printf("  %s: %d enrolled (%s to %s)\n",
			e.Site, e.TotalEnrolled, e.FirstEnrollment, e.LastEnrollment)
	}
	fmt.Println()

	highRisk, err := st.HighRiskPatients(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("High-Risk Patients (adverse event, did not complete): %d\n", len(highRisk))
	for _, p := range highRisk {
		fmt.Printf("  %s at %s, age %g\n", p.PatientID, p.Site, p.Age)
	}
	fmt.Println()

	grades, err := st.SiteGrades(ctx)
	if err != nil {
		return err
	}
	fmt.Println("Site Performance Grades")
	for _, g := range grades {
		fmt.Printf("  %s: %d/%d completed (%.2f%%) grade %s\n",
			g.Site, g.Completed, g.Total, g.CompletionPct, g.Grade)
	}
	fmt.Println()

	overall, err := st.Overall(ctx)
	if err != nil {
		return err
	}
	fmt.Println("Overall")
	fmt.Printf("  Total Patients: %d\n", overall.TotalPatients)
	fmt.Printf("  Average Age: %.2f\n", overall.AverageAge)
	fmt.Printf("  Age Range: %g - %g\n", overall.YoungestAge, overall.OldestAge)
	fmt.Printf("  Overall Completion Rate: %.2f%%\n", overall.CompletionRate)
	fmt.Printf("  Overall Adverse Event Rate: %.2f%%\n", overall.AdverseRate)
	return nil
}
