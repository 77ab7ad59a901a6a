// Package server is the composition root.
//
// NewServer wires every component from configuration: logger, metrics
// collector, span stream hub, tracer, session tracker, catalog, workflow
// flows, scheduled reporting, and the Gin router with its middleware
// chain. Nothing here holds global state; all dependencies are built
// once and handed to their consumers.
package server
