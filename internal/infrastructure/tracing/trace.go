package tracing

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Ibrahim-Lokman/otel-poc/internal/shared/attr"
	"github.com/Ibrahim-Lokman/otel-poc/internal/shared/id"
)

// Status indicates how the operation behind a span concluded.
type Status string

const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

// Event is a timestamped occurrence recorded within a span.
type Event struct {
	Name       string
	Timestamp  time.Time
	Attributes []attr.KeyValue
}

// Span represents a single operation in a trace.
//
// A span is owned by one logical operation at a time and is not safe for
// concurrent mutation. After End it is frozen: all mutators become no-ops
// so the export pipeline reads a stable value.
type Span struct {
	TraceID       id.TraceID
	SpanID        id.SpanID
	ParentID      id.SpanID
	Name          string
	Service       string
	StartTime     time.Time
	EndTime       time.Time
	Duration      time.Duration
	Attributes    []attr.KeyValue
	Events        []Event
	Status        Status
	StatusMessage string

	tracer *Tracer
	ended  bool
}

// Tracer creates spans and hands finished spans to an exporter through a
// buffered pipeline. Submission never blocks the calling operation.
type Tracer struct {
	service  string
	logger   *zap.Logger
	exporter Exporter
	spans    chan *Span
	quit     chan struct{}
	done     chan struct{}
}

// Option configures a Tracer.
type Option func(*options)

type options struct {
	exporter   Exporter
	bufferSize int
}

// WithExporter sets the span sink. Defaults to a LogExporter on the
// tracer's logger.
func WithExporter(e Exporter) Option {
	return func(o *options) { o.exporter = e }
}

// WithBufferSize sets the span channel capacity.
func WithBufferSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.bufferSize = n
		}
	}
}

// New creates a tracer and starts its collector goroutine.
func New(service string, logger *zap.Logger, opts ...Option) *Tracer {
	o := options{bufferSize: 1000}
	for _, opt := range opts {
		opt(&o)
	}
	if o.exporter == nil {
		o.exporter = NewLogExporter(logger)
	}

	t := &Tracer{
		service:  service,
		logger:   logger,
		exporter: o.exporter,
		spans:    make(chan *Span, o.bufferSize),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	go t.collectSpans()

	return t
}

// StartSpan creates a new span.
//
// The trace ID is inherited from ctx or freshly generated. When ctx carries
// an open parent span, the child records the parent's span ID and a
// parent.operation attribute naming it. The returned context carries the new
// span as the parent for nested operations.
func (t *Tracer) StartSpan(ctx context.Context, name string, attrs ...attr.KeyValue) (*Span, context.Context) {
	parent, hasParent := spanFromContext(ctx)

	traceID := parent.traceID
	if traceID == "" {
		traceID = id.NewTraceID()
	}

	span := &Span{
		TraceID:   traceID,
		SpanID:    id.NewSpanID(),
		Name:      name,
		Service:   t.service,
		StartTime: time.Now(),
		Status:    StatusOK,
		tracer:    t,
	}

	if hasParent {
		span.ParentID = parent.spanID
		span.Attributes = attr.Merge(span.Attributes, attr.String("parent.operation", parent.operation))
	}
	span.Attributes = attr.Merge(span.Attributes, attrs...)

	newCtx := context.WithValue(ctx, spanCtxKey, spanContext{
		traceID:   traceID,
		spanID:    span.SpanID,
		operation: name,
	})

	return span, newCtx
}

// SetAttributes merges attributes into the span. Later writes to the same
// key win; first-insertion order is preserved.
func (s *Span) SetAttributes(attrs ...attr.KeyValue) {
	if s.ended {
		return
	}
	s.Attributes = attr.Merge(s.Attributes, attrs...)
}

// AddEvent records a timestamped event on the span.
func (s *Span) AddEvent(name string, attrs ...attr.KeyValue) {
	if s.ended {
		return
	}
	s.Events = append(s.Events, Event{
		Name:       name,
		Timestamp:  time.Now(),
		Attributes: attrs,
	})
}

// RecordError marks the span as failed and keeps the error message.
// A nil error is ignored.
func (s *Span) RecordError(err error) {
	if s.ended || err == nil {
		return
	}
	s.Status = StatusError
	s.StatusMessage = err.Error()
}

// SetStatus sets the span status and message explicitly.
func (s *Span) SetStatus(status Status, msg string) {
	if s.ended {
		return
	}
	s.Status = status
	s.StatusMessage = msg
}

// End completes the span and submits it for export exactly once.
// Calling End again is a no-op.
func (s *Span) End() {
	if s.ended {
		return
	}
	s.EndTime = time.Now()
	s.Duration = s.EndTime.Sub(s.StartTime)
	s.ended = true

	if s.tracer != nil {
		s.tracer.submit(s)
	}
}

// Ended reports whether End has been called.
func (s *Span) Ended() bool {
	return s.ended
}

// submit sends a finished span to the collector without blocking.
// Spans are dropped with a warning when the buffer is full.
func (t *Tracer) submit(span *Span) {
	select {
	case <-t.quit:
		return
	default:
	}

	select {
	case t.spans <- span:
	default:
		t.logger.Warn("span buffer full, dropping span",
			zap.String("trace_id", span.TraceID.String()),
			zap.String("span_id", span.SpanID.String()),
			zap.String("operation", span.Name),
		)
	}
}

// collectSpans processes completed spans until Close.
func (t *Tracer) collectSpans() {
	defer close(t.done)
	for {
		select {
		case span := <-t.spans:
			t.exporter.Export(span)
		case <-t.quit:
			// Drain whatever is buffered before stopping
			for {
				select {
				case span := <-t.spans:
					t.exporter.Export(span)
				default:
					return
				}
			}
		}
	}
}

// Close flushes buffered spans and stops the collector. Spans ended after
// Close are dropped.
func (t *Tracer) Close() {
	select {
	case <-t.quit:
		return
	default:
	}
	close(t.quit)
	<-t.done
}

// Context keys for trace propagation
type contextKey string

const spanCtxKey contextKey = "span_context"

// spanContext is the lightweight parent reference carried in context.
type spanContext struct {
	traceID   id.TraceID
	spanID    id.SpanID
	operation string
}

func spanFromContext(ctx context.Context) (spanContext, bool) {
	sc, ok := ctx.Value(spanCtxKey).(spanContext)
	return sc, ok
}

// GetTraceID retrieves the trace ID from context.
func GetTraceID(ctx context.Context) id.TraceID {
	sc, _ := spanFromContext(ctx)
	return sc.traceID
}

// GetSpanID retrieves the current span ID from context.
func GetSpanID(ctx context.Context) id.SpanID {
	sc, _ := spanFromContext(ctx)
	return sc.spanID
}

// FormatTrace returns a formatted trace string for logging.
func FormatTrace(traceID id.TraceID, spanID id.SpanID) string {
	return fmt.Sprintf("[trace:%s span:%s]", traceID, spanID)
}
