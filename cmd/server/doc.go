// Package main is the entry point for the storefront telemetry server.
//
// This application runs a demo storefront whose real purpose is the
// telemetry engine underneath it: every workflow emits spans, feeds the
// metrics collector, and appends to the tracked session.
//
// The server provides:
//   - REST API for the storefront flows (login, browse, cart, checkout)
//   - Session history and analytics endpoints
//   - Prometheus exposition, a JSON snapshot, and an HTML dashboard
//   - WebSocket streaming of finished spans
//   - Scheduled analytics report lines in the log
//
// Configuration:
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//   - Defaults for development
//
// Usage:
//
//	# Default configuration
//	./server
//
//	# Override the listen port
//	./server -port 9000
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
