package reporting

import (
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Ibrahim-Lokman/otel-poc/internal/domain/session"
	"github.com/Ibrahim-Lokman/otel-poc/internal/infrastructure/logging"
	"github.com/Ibrahim-Lokman/otel-poc/internal/infrastructure/monitoring"
)

// DefaultSchedule emits one report per minute.
const DefaultSchedule = "@every 1m"

// Sessions supplies the session side of the report.
type Sessions interface {
	Analytics() session.Analytics
}

// Metrics supplies the metrics side of the report.
type Metrics interface {
	Snapshot() monitoring.Snapshot
}

// Reporter logs a periodic analytics summary on a cron schedule.
type Reporter struct {
	cron     *cron.Cron
	sessions Sessions
	metrics  Metrics
	logger   *logging.Logger
}

// New creates a reporter. The schedule accepts cron expressions and
// @every descriptors, e.g. "0 * * * *" or "@every 1m".
func New(schedule string, sessions Sessions, metrics Metrics, logger *logging.Logger) (*Reporter, error) {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	r := &Reporter{
		sessions: sessions,
		metrics:  metrics,
		logger:   logger.Named("reporting"),
	}

	r.cron = cron.New(cron.WithChain(
		cron.Recover(cronLogger{r.logger.Sugar()}),
	))
	if _, err := r.cron.AddFunc(schedule, r.report); err != nil {
		return nil, fmt.Errorf("invalid report schedule %q: %w", schedule, err)
	}

	return r, nil
}

// Start begins emitting reports on the schedule.
func (r *Reporter) Start() {
	r.cron.Start()
}

// Stop halts the schedule and waits for an in-flight report to finish.
func (r *Reporter) Stop() {
	<-r.cron.Stop().Done()
}

// report logs one aggregate line over current sessions and metrics.
func (r *Reporter) report() {
	sessions := r.sessions.Analytics()
	metrics := r.metrics.Snapshot()

	r.logger.Info("analytics report",
		zap.Int("total_sessions", sessions.TotalSessions),
		zap.Int("active_sessions", sessions.ActiveSessions),
		zap.Int("completed_sessions", sessions.CompletedSessions),
		zap.Float64("avg_session_duration_seconds", sessions.AvgSessionDurationSeconds),
		zap.String("top_actions", formatTopActions(sessions.MostCommonActions)),
		zap.Int64("products_viewed", metrics.Counters[monitoring.CounterProductsViewed]),
		zap.Int64("orders_completed", metrics.Counters[monitoring.CounterOrdersCompleted]),
		zap.Float64("conversion_rate", metrics.ConversionRate),
		zap.Float64("cart_abandonment_rate", metrics.CartAbandonmentRate),
		zap.Float64("avg_response_time_ms", metrics.AvgResponseTimeMs),
	)
}

// formatTopActions renders action counts as comma separated name:count
// pairs, most frequent first.
func formatTopActions(actions []session.ActionCount) string {
	if len(actions) == 0 {
		return "none"
	}

	parts := make([]string, 0, len(actions))
	for _, a := range actions {
		parts = append(parts, fmt.Sprintf("%s:%d", a.Name, a.Count))
	}
	return strings.Join(parts, ",")
}

// cronLogger adapts zap to the cron runner's logger interface, so panics
// recovered inside a report land in the service log.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Infow(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
