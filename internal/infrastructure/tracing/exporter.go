package tracing

import (
	"sync"

	"go.uber.org/zap"
)

// Exporter receives finished spans from the tracer's collector goroutine.
//
// Export must not fail into the caller: implementations handle their own
// errors and must not block for long, or the span buffer will fill and
// spans will be dropped.
type Exporter interface {
	Export(span *Span)
}

// LogExporter writes spans to the structured log, one record per span.
type LogExporter struct {
	logger *zap.Logger
}

// NewLogExporter creates a console-style span sink on the given logger.
func NewLogExporter(logger *zap.Logger) *LogExporter {
	return &LogExporter{logger: logger}
}

// Export logs the span with its identifiers, timing, and attributes.
func (e *LogExporter) Export(span *Span) {
	fields := []zap.Field{
		zap.String("trace_id", span.TraceID.String()),
		zap.String("span_id", span.SpanID.String()),
		zap.String("operation", span.Name),
		zap.String("service", span.Service),
		zap.Duration("duration", span.Duration),
	}

	if span.ParentID != "" {
		fields = append(fields, zap.String("parent_id", span.ParentID.String()))
	}

	for _, kv := range span.Attributes {
		fields = append(fields, zap.Any("attr."+kv.Key, kv.Value.Any()))
	}

	if len(span.Events) > 0 {
		fields = append(fields, zap.Int("events", len(span.Events)))
	}

	if span.Status == StatusError {
		if span.StatusMessage != "" {
			fields = append(fields, zap.String("status_message", span.StatusMessage))
		}
		e.logger.Error("span completed with error", fields...)
		return
	}

	e.logger.Info("span completed", fields...)
}

// MultiExporter fans a span out to several sinks in order.
type MultiExporter struct {
	exporters []Exporter
}

// NewMultiExporter combines exporters into one. Nil entries are skipped.
func NewMultiExporter(exporters ...Exporter) *MultiExporter {
	m := &MultiExporter{}
	for _, e := range exporters {
		if e != nil {
			m.exporters = append(m.exporters, e)
		}
	}
	return m
}

// Export forwards the span to every sink.
func (m *MultiExporter) Export(span *Span) {
	for _, e := range m.exporters {
		e.Export(span)
	}
}

// MemoryExporter retains spans in memory for inspection, used in tests.
type MemoryExporter struct {
	mu    sync.Mutex
	spans []*Span
}

// NewMemoryExporter creates an in-memory span sink.
func NewMemoryExporter() *MemoryExporter {
	return &MemoryExporter{}
}

// Export appends the span.
func (m *MemoryExporter) Export(span *Span) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.spans = append(m.spans, span)
}

// Spans returns a copy of everything exported so far.
func (m *MemoryExporter) Spans() []*Span {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Span, len(m.spans))
	copy(out, m.spans)
	return out
}

// Len returns the number of exported spans.
func (m *MemoryExporter) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.spans)
}

// Reset clears retained spans.
func (m *MemoryExporter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.spans = nil
}
