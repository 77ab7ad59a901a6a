/*
Package tracing provides hierarchical trace spans for business operations.

# Overview

This package implements lightweight tracing for the storefront's workflows.
It follows OpenTelemetry concepts but with a minimal implementation tailored
to the system's needs: spans are exported to pluggable sinks (structured log,
live stream) rather than a remote collector.

# Features

- Span creation with parent-child relationships via context
- Attribute-based parent correlation (parent.operation)
- Typed attributes, timestamped events, and ok/error status
- Exactly-once export on End; repeated End calls are no-ops
- Fire-and-forget export through a buffered collector goroutine
- HTTP middleware for automatic request instrumentation

# Usage

	// Create tracer
	tracer := tracing.New("storefront", logger)
	defer tracer.Close()

	// HTTP middleware
	router.Use(tracing.HTTPMiddleware(tracer))

	// Manual span creation
	span, ctx := tracer.StartSpan(ctx, "checkout",
		attr.String("user.id", userID),
	)
	defer span.End()

	span.SetAttributes(attr.Int("cart.size", 3))
	span.AddEvent("payment_attempted")
	if err != nil {
		span.RecordError(err)
	}

# Export

Finished spans flow through a buffered channel to a single collector
goroutine. Submission never blocks the instrumented operation; when the
buffer is full the span is dropped with a warning. Close drains the buffer
so shutdown does not lose spans already ended.

# Performance

The tracing system is designed for minimal overhead:
- Buffered span collection (1000 spans by default)
- Async span processing
- Structured logging integration
*/
package tracing
