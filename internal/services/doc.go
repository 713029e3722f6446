// Package services implements the business logic layer between the HTTP
// handlers and the analysis engine.
//
// # Architecture
//
// Services follow these architectural principles:
//
//	1. Interface-driven design for testability
//	2. Context propagation for cancellation and tracing
//	3. Dependency injection for loose coupling
//	4. Domain-focused methods that encapsulate business rules
//
// # Available Services
//
//	- AnalysisService: Runs the validate-partition-analyze pipeline over an
//	  uploaded table, assembles the analysis report, and fans results out to
//	  the SQLite snapshot and file exporters.
//	- HealthService: Provides system health checks for the HTTP surface.
//
// # Error Handling
//
// Services return the pipeline's typed errors unchanged (SchemaError,
// EmptyWorkingSetError) so handlers can map them to precise HTTP statuses.
package services
