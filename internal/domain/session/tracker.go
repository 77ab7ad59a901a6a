package session

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Ibrahim-Lokman/otel-poc/internal/infrastructure/logging"
	"github.com/Ibrahim-Lokman/otel-poc/internal/infrastructure/monitoring"
	"github.com/Ibrahim-Lokman/otel-poc/internal/infrastructure/tracing"
	"github.com/Ibrahim-Lokman/otel-poc/internal/shared/attr"
	"github.com/Ibrahim-Lokman/otel-poc/internal/shared/id"
)

// DefaultInactivityTimeout ends sessions after five quiet minutes.
const DefaultInactivityTimeout = 5 * time.Minute

// Tracer emits spans for tracked actions.
type Tracer interface {
	StartSpan(ctx context.Context, operation string, attrs ...attr.KeyValue) (*tracing.Span, context.Context)
}

// Metrics records session counters and gauges.
type Metrics interface {
	IncrementCounter(name string)
	SetGauge(name string, value float64)
}

// Tracker owns session state. At most one session is active at a time;
// all state transitions happen under a single mutex, including the
// inactivity timer callback.
type Tracker struct {
	mu       sync.Mutex
	current  *Session
	sessions []*Session
	timer    *time.Timer
	timerGen uint64

	timeout time.Duration
	tracer  Tracer
	metrics Metrics
	logger  *logging.Logger
	idgen   *id.Generator
}

// New creates a session tracker. A non-positive timeout falls back to
// DefaultInactivityTimeout.
func New(timeout time.Duration, tracer Tracer, logger *logging.Logger) *Tracker {
	if timeout <= 0 {
		timeout = DefaultInactivityTimeout
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Tracker{
		timeout: timeout,
		tracer:  tracer,
		logger:  logger.Named("session"),
		idgen:   id.Default(),
	}
}

// WithMetrics attaches a metrics collector for session counters.
func (t *Tracker) WithMetrics(m Metrics) *Tracker {
	t.metrics = m
	return t
}

// WithIDGenerator overrides the session id source.
func (t *Tracker) WithIDGenerator(g *id.Generator) *Tracker {
	if g != nil {
		t.idgen = g
	}
	return t
}

// StartSession opens a new session for the given user. Any previously
// active session is finalized first with reason "superseded". Returns a
// snapshot of the new session.
func (t *Tracker) StartSession(ctx context.Context, userID, userName string) *Session {
	t.mu.Lock()

	if t.current != nil && t.current.Active {
		t.endLocked(EndReasonSuperseded)
	}

	now := time.Now()
	sess := &Session{
		ID:        id.SessionID(t.idgen.GenerateWithPrefix(id.SessionPrefix)),
		UserID:    userID,
		UserName:  userName,
		StartedAt: now,
		Active:    true,
		Actions: []Action{{
			Name:      ActionSessionStarted,
			Timestamp: now,
			UserID:    userID,
			UserName:  userName,
		}},
	}
	t.current = sess
	t.sessions = append(t.sessions, sess)
	t.armTimerLocked()

	snapshot := sess.clone()
	t.mu.Unlock()

	if t.metrics != nil {
		t.metrics.IncrementCounter(monitoring.CounterSessionsStarted)
		t.metrics.SetGauge(monitoring.GaugeActiveSessions, 1)
	}
	t.logger.Info("session started",
		zap.String("session_id", snapshot.ID.String()),
		zap.String("user_id", userID),
		zap.String("user_name", userName))

	return snapshot
}

// TrackAction records an action against the active session, slides the
// inactivity window, and emits a user_action span. When no session is
// active the action is dropped silently.
func (t *Tracker) TrackAction(ctx context.Context, name string, metadata ...attr.KeyValue) {
	t.mu.Lock()
	if t.current == nil || !t.current.Active {
		t.mu.Unlock()
		t.logger.Debug("action dropped, no active session", zap.String("action", name))
		return
	}

	sess := t.current
	action := Action{
		Name:      name,
		Timestamp: time.Now(),
		UserID:    sess.UserID,
		UserName:  sess.UserName,
		Metadata:  metadata,
	}
	sess.Actions = append(sess.Actions, action)
	t.armTimerLocked()

	sessionID := sess.ID.String()
	userID := sess.UserID
	userName := sess.UserName
	t.mu.Unlock()

	if t.metrics != nil {
		t.metrics.IncrementCounter(monitoring.CounterActionsTracked)
	}

	// Span emission stays outside the mutex so export cannot stall
	// state transitions.
	if t.tracer != nil {
		attrs := make([]attr.KeyValue, 0, 4+len(metadata))
		attrs = append(attrs,
			attr.String("action.name", name),
			attr.String("session.id", sessionID),
			attr.String("user.id", userID),
			attr.String("user.name", userName))
		attrs = append(attrs, metadata...)
		span, _ := t.tracer.StartSpan(ctx, "user_action", attrs...)
		span.End()
	}
}

// EndCurrentSession finalizes the active session with reason "manual".
// No-op when no session is active.
func (t *Tracker) EndCurrentSession(ctx context.Context) {
	t.mu.Lock()
	if t.current == nil || !t.current.Active {
		t.mu.Unlock()
		return
	}
	t.endLocked(EndReasonManual)
	t.mu.Unlock()
}

// Current returns a snapshot of the active session, or nil when idle.
func (t *Tracker) Current() *Session {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil || !t.current.Active {
		return nil
	}
	return t.current.clone()
}

// Sessions returns snapshots of every session started so far, oldest
// first.
func (t *Tracker) Sessions() []*Session {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]*Session, len(t.sessions))
	for i, s := range t.sessions {
		out[i] = s.clone()
	}
	return out
}

// Close finalizes any active session and stops the inactivity timer.
func (t *Tracker) Close() {
	t.mu.Lock()
	if t.current != nil && t.current.Active {
		t.endLocked(EndReasonShutdown)
	} else {
		t.cancelTimerLocked()
	}
	t.mu.Unlock()
}

// endLocked finalizes the current session. Caller holds t.mu and has
// verified an active session exists.
func (t *Tracker) endLocked(reason string) {
	sess := t.current
	now := time.Now()
	sess.EndedAt = &now
	sess.Active = false
	sess.Actions = append(sess.Actions, Action{
		Name:      ActionSessionEnded,
		Timestamp: now,
		UserID:    sess.UserID,
		UserName:  sess.UserName,
		Metadata:  []attr.KeyValue{attr.String("reason", reason)},
	})
	t.cancelTimerLocked()

	if t.metrics != nil {
		t.metrics.IncrementCounter(monitoring.CounterSessionsCompleted)
		t.metrics.SetGauge(monitoring.GaugeActiveSessions, 0)
	}
	t.logger.Info("session ended",
		zap.String("session_id", sess.ID.String()),
		zap.String("user_id", sess.UserID),
		zap.String("reason", reason),
		zap.Duration("duration", now.Sub(sess.StartedAt)),
		zap.Int("actions", len(sess.Actions)))
}

// armTimerLocked (re)starts the inactivity countdown. Bumping the
// generation invalidates callbacks from earlier timers that may already
// be waiting on the mutex.
func (t *Tracker) armTimerLocked() {
	t.timerGen++
	gen := t.timerGen
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(t.timeout, func() {
		t.expire(gen)
	})
}

// cancelTimerLocked stops the countdown and invalidates pending fires.
func (t *Tracker) cancelTimerLocked() {
	t.timerGen++
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

// expire runs in the timer goroutine. It takes the same mutex as every
// other transition, so a fire can never interleave with StartSession or
// TrackAction; a stale generation means activity won the race.
func (t *Tracker) expire(gen uint64) {
	t.mu.Lock()
	if gen != t.timerGen || t.current == nil || !t.current.Active {
		t.mu.Unlock()
		return
	}
	t.logger.Info("session timed out",
		zap.String("session_id", t.current.ID.String()),
		zap.Duration("timeout", t.timeout))
	t.endLocked(EndReasonTimeout)
	t.mu.Unlock()
}
