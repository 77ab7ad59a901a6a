package session

import (
	"time"

	"github.com/Ibrahim-Lokman/otel-poc/internal/shared/attr"
	"github.com/Ibrahim-Lokman/otel-poc/internal/shared/id"
)

// Lifecycle actions recorded by the tracker itself. All other action
// names come from callers.
const (
	ActionSessionStarted = "session_started"
	ActionSessionEnded   = "session_ended"
)

// Reasons attached to the terminal session_ended action.
const (
	EndReasonManual     = "manual"
	EndReasonTimeout    = "timeout"
	EndReasonSuperseded = "superseded"
	EndReasonShutdown   = "shutdown"
)

// Action is a single recorded user action within a session.
type Action struct {
	Name      string          `json:"name"`
	Timestamp time.Time       `json:"timestamp"`
	UserID    string          `json:"user_id"`
	UserName  string          `json:"user_name"`
	Metadata  []attr.KeyValue `json:"metadata,omitempty"`
}

// Session is a window of user activity bounded by start and end events.
type Session struct {
	ID        id.SessionID `json:"id"`
	UserID    string       `json:"user_id"`
	UserName  string       `json:"user_name"`
	StartedAt time.Time    `json:"started_at"`
	EndedAt   *time.Time   `json:"ended_at,omitempty"`
	Actions   []Action     `json:"actions"`
	Active    bool         `json:"active"`
}

// Duration returns how long the session has been (or was) open.
func (s *Session) Duration() time.Duration {
	if s.EndedAt != nil {
		return s.EndedAt.Sub(s.StartedAt)
	}
	return time.Since(s.StartedAt)
}

// ActionNames returns the action names in recorded order.
func (s *Session) ActionNames() []string {
	names := make([]string, len(s.Actions))
	for i, a := range s.Actions {
		names[i] = a.Name
	}
	return names
}

// clone returns a deep copy safe to hand to callers.
func (s *Session) clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Actions = make([]Action, len(s.Actions))
	copy(c.Actions, s.Actions)
	if s.EndedAt != nil {
		ended := *s.EndedAt
		c.EndedAt = &ended
	}
	return &c
}
