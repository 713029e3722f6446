// Package http implements the HTTP request handlers for the trialpulse web
// service. It is a thin layer between transport and business logic: handlers
// parse requests, delegate to services, and format responses.
//
// # Architecture Principles
//
//	1. Thin handlers - minimal logic, delegate to services
//	2. HTTP-only concerns - request parsing, response formatting
//	3. Error transformation - convert pipeline errors to HTTP responses
//	4. No business logic - all logic belongs in the service layer
//
// # Request Flow
//
//	HTTP Request → Chi Router → Middleware → Handler → Service → Pipeline
//	                                              ↓
//	HTTP Response ← Handler ← Service Response ←─┘
//
// # Error Mapping
//
// The pipeline's typed errors map onto statuses:
//
//	SchemaError          → 400 with the missing column list
//	EmptyWorkingSetError → 422 with the invalid record count
//	anything else        → 500
package http
