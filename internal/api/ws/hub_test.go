package ws

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ibrahim-Lokman/otel-poc/internal/infrastructure/tracing"
	"github.com/Ibrahim-Lokman/otel-poc/internal/shared/attr"
	"github.com/Ibrahim-Lokman/otel-poc/internal/shared/id"
)

func sampleSpan() *tracing.Span {
	return &tracing.Span{
		TraceID:   id.TraceID("trace_01ABC"),
		SpanID:    id.SpanID("span_01DEF"),
		Name:      "checkout",
		Service:   "storefront",
		StartTime: time.Now(),
		Duration:  1500 * time.Microsecond,
		Status:    tracing.StatusOK,
		Attributes: []attr.KeyValue{
			attr.String("user.id", "user_1"),
			attr.Int("cart.size", 2),
		},
		Events: []tracing.Event{{Name: "cart_validated", Timestamp: time.Now()}},
	}
}

func dialTestHub(t *testing.T, hub *Hub) (*websocket.Conn, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.GET("/stream", hub.HandleConnection)
	srv := httptest.NewServer(router)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/stream"
	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	return conn, func() {
		conn.Close()
		srv.Close()
	}
}

func readFrame(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var frame map[string]interface{}
	require.NoError(t, sonic.Unmarshal(data, &frame))
	return frame
}

func TestHubStreamsSpanFrames(t *testing.T) {
	hub := NewHub(nil)
	defer hub.Close()

	conn, cleanup := dialTestHub(t, hub)
	defer cleanup()

	welcome := readFrame(t, conn)
	assert.Equal(t, "system", welcome["type"])
	assert.Equal(t, 1, hub.ClientCount())

	hub.Export(sampleSpan())

	frame := readFrame(t, conn)
	assert.Equal(t, "span", frame["type"])
	assert.Equal(t, "trace_01ABC", frame["trace_id"])
	assert.Equal(t, "span_01DEF", frame["span_id"])
	assert.Equal(t, "checkout", frame["operation"])
	assert.Equal(t, "storefront", frame["service"])
	assert.Equal(t, "ok", frame["status"])
	assert.InDelta(t, 1.5, frame["duration_ms"], 1e-9)

	attrs, ok := frame["attributes"].(map[string]interface{})
	require.True(t, ok, "expected attributes object")
	assert.Equal(t, "user_1", attrs["user.id"])
	assert.EqualValues(t, 2, attrs["cart.size"])

	events, ok := frame["events"].([]interface{})
	require.True(t, ok, "expected events list")
	assert.Contains(t, events, "cart_validated")

	// Root spans omit parent_id
	_, hasParent := frame["parent_id"]
	assert.False(t, hasParent)
}

func TestHubStreamsParentID(t *testing.T) {
	hub := NewHub(nil)
	defer hub.Close()

	conn, cleanup := dialTestHub(t, hub)
	defer cleanup()
	readFrame(t, conn) // welcome

	span := sampleSpan()
	span.ParentID = id.SpanID("span_PARENT")
	hub.Export(span)

	frame := readFrame(t, conn)
	assert.Equal(t, "span_PARENT", frame["parent_id"])
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := NewHub(nil)
	defer hub.Close()

	// A client with a tiny queue and no reader simulates a stalled
	// consumer.
	stalled := &client{send: make(chan []byte, 1)}
	require.True(t, hub.add(stalled))
	require.Equal(t, 1, hub.ClientCount())

	hub.Export(sampleSpan()) // fills the queue
	hub.Export(sampleSpan()) // overflows it; client is dropped

	assert.Equal(t, 0, hub.ClientCount())

	// The queue was closed exactly once; further exports are harmless
	hub.Export(sampleSpan())
}

func TestHubCloseDisconnectsClients(t *testing.T) {
	hub := NewHub(nil)

	conn, cleanup := dialTestHub(t, hub)
	defer cleanup()
	readFrame(t, conn) // welcome

	hub.Close()
	assert.Equal(t, 0, hub.ClientCount())

	// The connection is torn down; reads fail once the close frame lands
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	// New connections are rejected after Close
	rejected := &client{send: make(chan []byte, 1)}
	assert.False(t, hub.add(rejected))
}

func TestHubExportWithNoClients(t *testing.T) {
	hub := NewHub(nil)
	defer hub.Close()

	// Must not block or panic
	hub.Export(sampleSpan())
	assert.Equal(t, 0, hub.ClientCount())
}
