// Package app wires configuration, logging, tracing, the snapshot store,
// services and the chi router into a runnable web application, and owns
// the server lifecycle including graceful shutdown.
package app
