package ws

import (
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"

	"github.com/Ibrahim-Lokman/otel-poc/internal/infrastructure/logging"
	"github.com/Ibrahim-Lokman/otel-poc/internal/infrastructure/tracing"
	"github.com/Ibrahim-Lokman/otel-poc/internal/shared/attr"
)

const (
	// clientQueueSize bounds how far a client may fall behind before it
	// is disconnected.
	clientQueueSize = 64
	writeWait       = 10 * time.Second
)

// SpanFrame is the JSON shape pushed to stream clients for every
// exported span. Uses sonic for marshaling since one frame is built per
// span.
type SpanFrame struct {
	Type          string                 `json:"type"`
	TraceID       string                 `json:"trace_id"`
	SpanID        string                 `json:"span_id"`
	ParentID      string                 `json:"parent_id,omitempty"`
	Operation     string                 `json:"operation"`
	Service       string                 `json:"service"`
	StartTime     time.Time              `json:"start_time"`
	DurationMS    float64                `json:"duration_ms"`
	Status        string                 `json:"status"`
	StatusMessage string                 `json:"status_message,omitempty"`
	Attributes    map[string]interface{} `json:"attributes,omitempty"`
	Events        []string               `json:"events,omitempty"`
}

// Hub fans exported spans out to connected stream clients. It implements
// tracing.Exporter so it sits behind a MultiExporter next to the log
// sink. A client that cannot keep up is dropped; export never blocks.
type Hub struct {
	logger *logging.Logger

	mu      sync.Mutex
	clients map[*client]struct{}
	closed  bool
}

// NewHub creates an empty hub.
func NewHub(logger *logging.Logger) *Hub {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Hub{
		logger:  logger.Named("ws"),
		clients: make(map[*client]struct{}),
	}
}

// Export implements tracing.Exporter. It marshals the span once and
// enqueues the frame on every client.
func (h *Hub) Export(span *tracing.Span) {
	data, err := sonic.Marshal(newSpanFrame(span))
	if err != nil {
		h.logger.Warn("span frame marshal failed", zap.Error(err))
		return
	}
	h.broadcast(data)
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client. Further connections are rejected.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for c := range h.clients {
		c.closeOnce()
		delete(h.clients, c)
	}
}

func (h *Hub) broadcast(data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			// Client fell behind; disconnect it rather than block
			h.logger.Warn("dropping slow stream client")
			c.closeOnce()
			delete(h.clients, c)
		}
	}
}

func (h *Hub) add(c *client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	return true
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; ok {
		c.closeOnce()
		delete(h.clients, c)
	}
}

func newSpanFrame(span *tracing.Span) SpanFrame {
	frame := SpanFrame{
		Type:          "span",
		TraceID:       span.TraceID.String(),
		SpanID:        span.SpanID.String(),
		ParentID:      span.ParentID.String(),
		Operation:     span.Name,
		Service:       span.Service,
		StartTime:     span.StartTime,
		DurationMS:    float64(span.Duration.Microseconds()) / 1000.0,
		Status:        string(span.Status),
		StatusMessage: span.StatusMessage,
		Attributes:    attr.Map(span.Attributes),
	}
	for _, e := range span.Events {
		frame.Events = append(frame.Events, e.Name)
	}
	return frame
}
