package server

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ibrahim-Lokman/otel-poc/internal/infrastructure/config"
)

// quietConfig builds a config suitable for tests: no log output below
// error, no simulated latency, no failures, no background reporting.
func quietConfig() *config.Config {
	cfg := config.Default()
	cfg.Logging.Level = "error"
	cfg.Reporting.Enabled = false
	cfg.RateLimit.Enabled = false
	cfg.Simulation.MinLatencyMs = 0
	cfg.Simulation.MaxLatencyMs = 0
	cfg.Simulation.FailureRate = 0
	cfg.Session.InactivityTimeout = time.Minute
	return cfg
}

func newTestServer(t *testing.T) *Server {
	t.Helper()

	srv, err := NewServer(quietConfig())
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close() })
	return srv
}

func (s *Server) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *Server) postJSON(path string, payload interface{}) *httptest.ResponseRecorder {
	var req *http.Request
	if payload != nil {
		data, _ := sonic.Marshal(payload)
		req = httptest.NewRequest("POST", path, bytes.NewReader(data))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest("POST", path, nil)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestServerWiring(t *testing.T) {
	srv := newTestServer(t)

	w := srv.get("/")
	assert.Equal(t, http.StatusOK, w.Code)

	w = srv.get("/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)

	// Trace headers come from the tracing middleware
	assert.NotEmpty(t, w.Header().Get("X-Trace-ID"))
	assert.NotEmpty(t, w.Header().Get("X-Span-ID"))
}

func TestServerFullFunnel(t *testing.T) {
	srv := newTestServer(t)

	w := srv.postJSON("/shop/login", map[string]string{"username": "Iris", "password": "pw"})
	require.Equal(t, http.StatusOK, w.Code)

	w = srv.postJSON("/shop/products/prod_mouse/view", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = srv.postJSON("/shop/cart/add", map[string]interface{}{"product_id": "prod_mouse", "quantity": 1})
	require.Equal(t, http.StatusOK, w.Code)

	w = srv.postJSON("/shop/checkout", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = srv.postJSON("/shop/checkout/pay", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"order_id":"order_`)

	// The funnel shows up in the metrics document
	w = srv.get("/metrics/json")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, sonic.Unmarshal(w.Body.Bytes(), &body))
	summary := body["summary"].(map[string]interface{})
	assert.Equal(t, float64(100), summary["conversion_rate"])

	// And in the Prometheus exposition
	w = srv.get("/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "storefront_events_total")
}

func TestServerSessionEndpoints(t *testing.T) {
	srv := newTestServer(t)

	w := srv.get("/sessions/current")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = srv.postJSON("/shop/login", map[string]string{"username": "Hugo", "password": "pw"})
	require.Equal(t, http.StatusOK, w.Code)

	w = srv.get("/sessions/current")
	assert.Equal(t, http.StatusOK, w.Code)

	w = srv.get("/sessions/analytics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"analytics"`)
}

func TestServerClose(t *testing.T) {
	srv, err := NewServer(quietConfig())
	require.NoError(t, err)

	require.NoError(t, srv.Close())
	require.NoError(t, srv.Close())
}

func TestServerWithReportingEnabled(t *testing.T) {
	cfg := quietConfig()
	cfg.Reporting.Enabled = true
	cfg.Reporting.Schedule = "@every 1h"

	srv, err := NewServer(cfg)
	require.NoError(t, err)
	require.NotNil(t, srv.reporter)
	require.NoError(t, srv.Close())
}

func TestServerRejectsBadReportSchedule(t *testing.T) {
	cfg := quietConfig()
	cfg.Reporting.Enabled = true
	cfg.Reporting.Schedule = "every minute or so"

	_, err := NewServer(cfg)
	require.Error(t, err)
}
