// Package id provides centralized ID generation for the telemetry engine.
//
// This package offers type-safe ULID generation with:
//   - Lexicographic sortability: Enables time-ordered session and span queries
//   - Prefixed types: Type-specific prefixes for debugging (sess_*, trace_*, span_*)
//   - Type safety: Separate types prevent ID misuse
//   - Performance: Mutex-guarded entropy, ~2μs per ULID
//
// Design Principles:
//   - ULIDs only: Single ID format across the system
//   - K-sortable: Timeline queries without timestamps
//   - Debuggable: Prefixes make logs readable
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// ============================================================================
// Type-Safe ID Wrappers
// ============================================================================

// SessionID identifies a user session
type SessionID string

// TraceID identifies a trace, grouping related spans
type TraceID string

// SpanID identifies a single span within a trace
type SpanID string

// RequestID identifies an API request
type RequestID string

// OrderID identifies a completed checkout order
type OrderID string

// ============================================================================
// ID Prefixes (for debugging and type identification)
// ============================================================================

const (
	SessionPrefix = "sess"
	TracePrefix   = "trace"
	SpanPrefix    = "span"
	RequestPrefix = "req"
	OrderPrefix   = "order"
)

// ============================================================================
// ULID Generator
// ============================================================================

// Generator generates ULIDs with optional prefixes
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex // Protects entropy reader
}

var (
	// Default generator with cryptographically secure entropy
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the singleton generator instance
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a new ULID generator
func NewGenerator() *Generator {
	return &Generator{
		entropy: rand.Reader,
	}
}

// NewGeneratorWithEntropy creates a generator with custom entropy source
// Useful for testing with deterministic entropy
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{
		entropy: entropy,
	}
}

// Generate creates a new ULID
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateString creates a new ULID as a string
func (g *Generator) GenerateString() string {
	return g.Generate().String()
}

// GenerateWithPrefix creates a prefixed ULID string
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.GenerateString())
}

// ============================================================================
// Typed ID Generators
// ============================================================================

// NewSessionID generates a new session ID
func NewSessionID() SessionID {
	return SessionID(Default().GenerateWithPrefix(SessionPrefix))
}

// NewTraceID generates a new trace ID
func NewTraceID() TraceID {
	return TraceID(Default().GenerateWithPrefix(TracePrefix))
}

// NewSpanID generates a new span ID
func NewSpanID() SpanID {
	return SpanID(Default().GenerateWithPrefix(SpanPrefix))
}

// NewRequestID generates a new request ID
func NewRequestID() RequestID {
	return RequestID(Default().GenerateWithPrefix(RequestPrefix))
}

// NewOrderID generates a new order ID
func NewOrderID() OrderID {
	return OrderID(Default().GenerateWithPrefix(OrderPrefix))
}

// ============================================================================
// Type Conversion and Validation
// ============================================================================

// String methods for ID types
func (id SessionID) String() string { return string(id) }
func (id TraceID) String() string   { return string(id) }
func (id SpanID) String() string    { return string(id) }
func (id RequestID) String() string { return string(id) }
func (id OrderID) String() string   { return string(id) }

// Strip removes a type prefix from an ID, returning the bare ULID part.
// IDs without a prefix pass through unchanged.
func Strip(id string) string {
	if i := strings.IndexByte(id, '_'); i >= 0 {
		return id[i+1:]
	}
	return id
}

// IsValid checks if an ID string is a valid ULID, with or without prefix
func IsValid(id string) bool {
	_, err := ulid.Parse(Strip(id))
	return err == nil
}

// Parse parses a ULID string, accepting prefixed IDs
func Parse(id string) (ulid.ULID, error) {
	return ulid.Parse(Strip(id))
}

// Timestamp extracts the timestamp from a ULID
func Timestamp(id string) (time.Time, error) {
	parsed, err := Parse(id)
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}

// ============================================================================
// Batch Generation (for performance)
// ============================================================================

// GenerateBatch generates multiple ULIDs in a single operation
// More efficient than calling Generate() in a loop
func (g *Generator) GenerateBatch(count int) []ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	ids := make([]ulid.ULID, count)
	now := ulid.Timestamp(time.Now())

	for i := 0; i < count; i++ {
		ids[i] = ulid.MustNew(now, g.entropy)
	}

	return ids
}
