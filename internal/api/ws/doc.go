// Package ws streams exported spans to websocket clients.
//
// The Hub implements tracing.Exporter, so it plugs into the tracer next
// to the log sink via a MultiExporter. Every ended span becomes one JSON
// frame, marshaled once and fanned out to all connected clients. Clients
// that cannot keep up are dropped; span export never blocks on a socket.
//
// Frame types:
//   - system: connection lifecycle messages
//   - span: one completed span (trace/span ids, operation, duration,
//     status, attributes, event names)
package ws
