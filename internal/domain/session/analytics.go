package session

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"
)

// topActions caps the most-common-actions list.
const topActions = 5

// ActionCount pairs an action name with how often it was recorded.
type ActionCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Analytics aggregates session history for the debug surface and the
// periodic report.
type Analytics struct {
	TotalSessions             int           `json:"total_sessions"`
	ActiveSessions            int           `json:"active_sessions"`
	CompletedSessions         int           `json:"completed_sessions"`
	AvgSessionDurationSeconds float64       `json:"avg_session_duration_seconds"`
	MostCommonActions         []ActionCount `json:"most_common_actions"`
}

// Analytics computes aggregates over every session started so far. The
// average duration covers ended sessions only; ties in action frequency
// rank by first appearance.
func (t *Tracker) Analytics() Analytics {
	t.mu.Lock()
	defer t.mu.Unlock()

	a := Analytics{TotalSessions: len(t.sessions)}
	if t.current != nil && t.current.Active {
		a.ActiveSessions = 1
	}

	var durations []float64
	counts := make(map[string]int)
	var order []string

	for _, sess := range t.sessions {
		if sess.EndedAt != nil {
			a.CompletedSessions++
			durations = append(durations, sess.EndedAt.Sub(sess.StartedAt).Seconds())
		}
		for _, action := range sess.Actions {
			if counts[action.Name] == 0 {
				order = append(order, action.Name)
			}
			counts[action.Name]++
		}
	}

	if len(durations) > 0 {
		a.AvgSessionDurationSeconds = stat.Mean(durations, nil)
	}

	ranked := make([]ActionCount, len(order))
	for i, name := range order {
		ranked[i] = ActionCount{Name: name, Count: counts[name]}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if len(ranked) > topActions {
		ranked = ranked[:topActions]
	}
	a.MostCommonActions = ranked

	return a
}

// FormatDuration renders the span between two instants using the two
// coarsest applicable units, e.g. "1h 4m", "3m 12s", "45s".
func FormatDuration(start, end time.Time) string {
	d := end.Sub(start)
	if d < 0 {
		d = 0
	}
	d = d.Truncate(time.Second)

	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)

	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// Flow renders an action sequence as a readable trail, e.g.
// "session_started -> product_viewed -> cart_updated".
func Flow(actions []Action) string {
	if len(actions) == 0 {
		return ""
	}
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = a.Name
	}
	return strings.Join(names, " -> ")
}
