// Package http provides the HTTP API surface.
//
// Handlers are grouped by concern:
//
//   - Service: root banner and health
//   - Sessions: session history, the active session, and analytics
//   - Shop: the storefront endpoints that drive the instrumented workflows
//   - Metrics: JSON snapshot and the HTML dashboard
//
// Route registration lives in infrastructure/server, which owns the Gin
// engine and middleware chain.
package http
