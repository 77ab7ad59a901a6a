package monitoring

import (
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gonum.org/v1/gonum/stat"
)

// Well-known metric names used by the storefront workflows. Derived rates
// are computed from these counters.
const (
	CounterProductsViewed    = "products_viewed"
	CounterOrdersCompleted   = "orders_completed"
	CounterCartUpdated       = "cart_updated"
	CounterCheckoutInitiated = "checkout_initiated"
	CounterHTTPRequests      = "http_requests"
	CounterActionsTracked    = "actions_tracked"
	CounterSessionsStarted   = "sessions_started"
	CounterSessionsCompleted = "sessions_completed"
	CounterLoginsSucceeded   = "logins_succeeded"
	CounterLoginsFailed      = "logins_failed"
	CounterPaymentsSucceeded = "payments_succeeded"
	CounterPaymentsFailed    = "payments_failed"

	GaugeActiveSessions = "active_sessions"
	GaugeCartSize       = "cart_size"
)

// Collector aggregates named counters, gauges, and response time samples.
//
// All methods are safe for concurrent use. Values are mirrored into a
// private Prometheus registry for the /metrics endpoint; derived analytics
// are computed from the internal state so snapshots stay consistent.
type Collector struct {
	mu        sync.RWMutex
	counters  map[string]int64
	gauges    map[string]float64
	samples   []float64 // response times, milliseconds
	startTime time.Time

	registry     *prometheus.Registry
	counterVec   *prometheus.CounterVec
	gaugeVec     *prometheus.GaugeVec
	responseTime prometheus.Histogram
}

// NewCollector creates an empty metrics collector.
func NewCollector() *Collector {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	c := &Collector{
		counters:  make(map[string]int64),
		gauges:    make(map[string]float64),
		startTime: time.Now(),
		registry:  registry,

		counterVec: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_events_total",
				Help: "Named event counters",
			},
			[]string{"name"},
		),
		gaugeVec: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "storefront_gauge",
				Help: "Named gauge values",
			},
			[]string{"name"},
		),
		responseTime: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "storefront_response_time_ms",
				Help:    "Operation response time in milliseconds",
				Buckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500},
			},
		),
	}

	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "storefront_uptime_seconds",
			Help: "Process uptime in seconds",
		},
		func() float64 { return time.Since(c.startTime).Seconds() },
	)

	return c
}

// IncrementCounter adds one to the named counter, creating it at zero on
// first use.
func (c *Collector) IncrementCounter(name string) {
	c.mu.Lock()
	c.counters[name]++
	c.mu.Unlock()

	c.counterVec.WithLabelValues(name).Inc()
}

// SetGauge overwrites the named gauge.
func (c *Collector) SetGauge(name string, value float64) {
	c.mu.Lock()
	c.gauges[name] = value
	c.mu.Unlock()

	c.gaugeVec.WithLabelValues(name).Set(value)
}

// RecordResponseTime appends a latency sample in milliseconds.
// Negative samples indicate a caller bug and are rejected.
func (c *Collector) RecordResponseTime(ms float64) error {
	if ms < 0 {
		return fmt.Errorf("response time must be non-negative, got %v", ms)
	}

	c.mu.Lock()
	c.samples = append(c.samples, ms)
	c.mu.Unlock()

	c.responseTime.Observe(ms)
	return nil
}

// Counter reads the named counter. Unknown names read as zero.
func (c *Collector) Counter(name string) int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.counters[name]
}

// Gauge reads the named gauge. Unknown names read as zero.
func (c *Collector) Gauge(name string) float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.gauges[name]
}

// ConversionRate returns orders completed per products viewed, as a
// percentage. Zero when nothing has been viewed.
func (c *Collector) ConversionRate() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conversionRateLocked()
}

func (c *Collector) conversionRateLocked() float64 {
	viewed := c.counters[CounterProductsViewed]
	if viewed == 0 {
		return 0.0
	}
	return float64(c.counters[CounterOrdersCompleted]) / float64(viewed) * 100
}

// CartAbandonmentRate returns the share of cart activity that never reached
// checkout, as a percentage. Zero when the cart was never touched.
//
// The rate is the literal formula (cart_updated - checkout_initiated) /
// cart_updated * 100 and is intentionally not clamped: repeated checkout
// attempts can push it negative, which is itself a signal worth seeing.
func (c *Collector) CartAbandonmentRate() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cartAbandonmentRateLocked()
}

func (c *Collector) cartAbandonmentRateLocked() float64 {
	updated := c.counters[CounterCartUpdated]
	if updated == 0 {
		return 0.0
	}
	return float64(updated-c.counters[CounterCheckoutInitiated]) / float64(updated) * 100
}

// AverageResponseTime returns the mean latency sample in milliseconds.
// Zero when no samples have been recorded.
func (c *Collector) AverageResponseTime() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.averageResponseTimeLocked()
}

func (c *Collector) averageResponseTimeLocked() float64 {
	if len(c.samples) == 0 {
		return 0.0
	}
	return stat.Mean(c.samples, nil)
}

// ResponseTimeP95 returns the 95th percentile latency sample in
// milliseconds. Zero when no samples have been recorded.
func (c *Collector) ResponseTimeP95() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.responseTimeP95Locked()
}

func (c *Collector) responseTimeP95Locked() float64 {
	if len(c.samples) == 0 {
		return 0.0
	}
	sorted := make([]float64, len(c.samples))
	copy(sorted, c.samples)
	sort.Float64s(sorted)
	return stat.Quantile(0.95, stat.Empirical, sorted, nil)
}

// Snapshot holds a consistent view of all metrics and derived analytics.
type Snapshot struct {
	Timestamp           time.Time          `json:"timestamp"`
	Counters            map[string]int64   `json:"counters"`
	Gauges              map[string]float64 `json:"gauges"`
	ConversionRate      float64            `json:"conversion_rate"`
	CartAbandonmentRate float64            `json:"cart_abandonment_rate"`
	AvgResponseTimeMs   float64            `json:"avg_response_time_ms"`
	P95ResponseTimeMs   float64            `json:"p95_response_time_ms"`
	SampleCount         int                `json:"sample_count"`
	UptimeSeconds       float64            `json:"uptime_seconds"`
}

// Snapshot captures all counters, gauges, and derived rates under one lock
// acquisition, so the result is internally consistent even under
// concurrent writers.
func (c *Collector) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	counters := make(map[string]int64, len(c.counters))
	for k, v := range c.counters {
		counters[k] = v
	}
	gauges := make(map[string]float64, len(c.gauges))
	for k, v := range c.gauges {
		gauges[k] = v
	}

	return Snapshot{
		Timestamp:           time.Now(),
		Counters:            counters,
		Gauges:              gauges,
		ConversionRate:      c.conversionRateLocked(),
		CartAbandonmentRate: c.cartAbandonmentRateLocked(),
		AvgResponseTimeMs:   c.averageResponseTimeLocked(),
		P95ResponseTimeMs:   c.responseTimeP95Locked(),
		SampleCount:         len(c.samples),
		UptimeSeconds:       time.Since(c.startTime).Seconds(),
	}
}

// UptimeSeconds returns how long the collector has been alive.
func (c *Collector) UptimeSeconds() float64 {
	return time.Since(c.startTime).Seconds()
}

// Handler returns the Prometheus exposition handler for this collector's
// registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
