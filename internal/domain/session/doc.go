// Package session tracks user sessions and the actions performed in them.
//
// A Tracker holds at most one active session at a time. Starting a new
// session finalizes the previous one, and a sliding inactivity window
// ends sessions that go quiet. Every tracked action re-arms the window
// and emits a telemetry span.
//
// Components:
//   - Tracker: Session lifecycle and action recording
//   - Session/Action: Immutable snapshots returned to callers
//   - Analytics: Aggregate counts, durations, and top actions
//   - FormatDuration/FormatFlow: Display helpers for reports
//
// Lifecycle:
//  1. StartSession opens a session and records session_started
//  2. TrackAction appends actions while the session is active
//  3. The session ends on timeout, on a manual end, or when a new
//     session supersedes it; session_ended records the reason
//
// Example Usage:
//
//	tracker := session.New(5*time.Minute, tracer, logger).WithMetrics(collector)
//	tracker.StartSession(ctx, "user_123", "Alice")
//	tracker.TrackAction(ctx, "product_viewed", attr.String("product.id", "p1"))
//	tracker.EndCurrentSession(ctx)
package session
