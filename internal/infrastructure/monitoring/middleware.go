package monitoring

import (
	"time"

	"github.com/gin-gonic/gin"
)

// Middleware creates Gin middleware that records request latency and
// throughput into the collector.
func Middleware(collector *Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		collector.IncrementCounter(CounterHTTPRequests)
		elapsed := float64(time.Since(start).Microseconds()) / 1000.0
		_ = collector.RecordResponseTime(elapsed)
	}
}

// Timer measures the duration of one operation.
type Timer struct {
	start     time.Time
	collector *Collector
}

// NewTimer starts a timer against the collector.
func NewTimer(collector *Collector) *Timer {
	return &Timer{
		start:     time.Now(),
		collector: collector,
	}
}

// Stop records the elapsed time as a response time sample and returns it.
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	_ = t.collector.RecordResponseTime(float64(elapsed.Microseconds()) / 1000.0)
	return elapsed
}
