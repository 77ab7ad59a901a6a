package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Ibrahim-Lokman/otel-poc/internal/api/ws"
	"github.com/Ibrahim-Lokman/otel-poc/internal/domain/session"
	"github.com/Ibrahim-Lokman/otel-poc/internal/infrastructure/logging"
	"github.com/Ibrahim-Lokman/otel-poc/internal/infrastructure/monitoring"
	"github.com/Ibrahim-Lokman/otel-poc/internal/workflow"
)

const (
	serviceName    = "storefront-telemetry"
	serviceVersion = "0.2.0"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	tracker   *session.Tracker
	flows     *workflow.Flows
	catalog   *workflow.Catalog
	collector *monitoring.Collector
	hub       *ws.Hub
	logger    *logging.Logger
}

// NewHandlers creates a new handler set
func NewHandlers(
	tracker *session.Tracker,
	flows *workflow.Flows,
	catalog *workflow.Catalog,
	collector *monitoring.Collector,
	hub *ws.Hub,
	logger *logging.Logger,
) *Handlers {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Handlers{
		tracker:   tracker,
		flows:     flows,
		catalog:   catalog,
		collector: collector,
		hub:       hub,
		logger:    logger.Named("http"),
	}
}

// Root handles health check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": serviceName,
		"version": serviceVersion,
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	analytics := h.tracker.Analytics()

	c.JSON(http.StatusOK, gin.H{
		"status":         "healthy",
		"uptime_seconds": h.collector.UptimeSeconds(),
		"sessions": gin.H{
			"active": analytics.ActiveSessions,
			"total":  analytics.TotalSessions,
		},
		"payment_gateway": gin.H{
			"breaker": h.flows.Breaker().State().String(),
		},
		"stream_clients": h.hub.ClientCount(),
		"catalog_size":   h.catalog.Len(),
	})
}

// sessionView is the wire shape for one session, with display strings
// precomputed for the dashboard.
type sessionView struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	UserName    string     `json:"user_name"`
	StartedAt   time.Time  `json:"started_at"`
	EndedAt     *time.Time `json:"ended_at,omitempty"`
	Active      bool       `json:"active"`
	Duration    string     `json:"duration"`
	ActionCount int        `json:"action_count"`
	Flow        string     `json:"flow"`
}

func newSessionView(s *session.Session) sessionView {
	end := time.Now()
	if s.EndedAt != nil {
		end = *s.EndedAt
	}

	return sessionView{
		ID:          string(s.ID),
		UserID:      s.UserID,
		UserName:    s.UserName,
		StartedAt:   s.StartedAt,
		EndedAt:     s.EndedAt,
		Active:      s.Active,
		Duration:    session.FormatDuration(s.StartedAt, end),
		ActionCount: len(s.Actions),
		Flow:        session.Flow(s.Actions),
	}
}

// ListSessions returns the full session history, newest last.
func (h *Handlers) ListSessions(c *gin.Context) {
	sessions := h.tracker.Sessions()

	views := make([]sessionView, 0, len(sessions))
	for _, s := range sessions {
		views = append(views, newSessionView(s))
	}

	c.JSON(http.StatusOK, gin.H{
		"sessions": views,
		"count":    len(views),
	})
}

// CurrentSession returns the active session with full action detail.
func (h *Handlers) CurrentSession(c *gin.Context) {
	s := h.tracker.Current()
	if s == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no active session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session": newSessionView(s),
		"actions": s.Actions,
	})
}

// SessionAnalytics returns aggregate session statistics plus per-session
// display summaries.
func (h *Handlers) SessionAnalytics(c *gin.Context) {
	analytics := h.tracker.Analytics()
	sessions := h.tracker.Sessions()

	views := make([]sessionView, 0, len(sessions))
	for _, s := range sessions {
		views = append(views, newSessionView(s))
	}

	c.JSON(http.StatusOK, gin.H{
		"analytics": analytics,
		"sessions":  views,
	})
}
