/*
Package monitoring provides metrics collection and derived analytics.

# Overview

This package implements the storefront's metrics collector: named counters,
named gauges, and response time samples, aggregated into derived analytics
(conversion rate, cart abandonment rate, latency mean and p95). Values are
mirrored into a private Prometheus registry for the /metrics endpoint.

# Features

- Named counters and gauges with lazy creation
- Response time samples with mean and p95 aggregation
- Conversion and cart abandonment rates derived from counters
- Consistent snapshots under concurrent writers
- Prometheus exposition via a private registry
- HTTP middleware and a Timer helper for instrumentation

# Usage

	// Create metrics collector
	collector := monitoring.NewCollector()

	// Add middleware to Gin router
	router.Use(monitoring.Middleware(collector))

	// Record custom metrics
	collector.IncrementCounter(monitoring.CounterProductsViewed)
	collector.SetGauge(monitoring.GaugeCartSize, 3)

	// Time an operation
	timer := monitoring.NewTimer(collector)
	defer timer.Stop()

	// Read a consistent view
	snap := collector.Snapshot()

# Metrics Endpoint

Expose metrics via the collector's registry-scoped handler:

	router.GET("/metrics", gin.WrapH(collector.Handler()))
*/
package monitoring
