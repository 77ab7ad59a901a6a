package workflow

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Simulator produces the fake latency and failure behavior of the demo's
// "external" systems. Nothing in the flows performs real I/O; this is the
// only source of delay and nondeterminism, and it is seedable so tests
// stay deterministic.
type Simulator struct {
	mu          sync.Mutex
	rng         *rand.Rand
	minLatency  time.Duration
	maxLatency  time.Duration
	failureRate float64
}

// NewSimulator creates a simulator with latency uniformly distributed in
// [minLatency, maxLatency] and the given failure probability. Out-of-range
// inputs are clamped.
func NewSimulator(minLatency, maxLatency time.Duration, failureRate float64, seed uint64) *Simulator {
	if minLatency < 0 {
		minLatency = 0
	}
	if maxLatency < minLatency {
		maxLatency = minLatency
	}
	if failureRate < 0 {
		failureRate = 0
	}
	if failureRate > 1 {
		failureRate = 1
	}
	return &Simulator{
		rng:         rand.New(rand.NewPCG(seed, seed)),
		minLatency:  minLatency,
		maxLatency:  maxLatency,
		failureRate: failureRate,
	}
}

// Latency draws a random duration from the configured band.
func (s *Simulator) Latency() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	span := s.maxLatency - s.minLatency
	if span <= 0 {
		return s.minLatency
	}
	return s.minLatency + time.Duration(s.rng.Int64N(int64(span)+1))
}

// Fails reports whether the next simulated call should fail.
func (s *Simulator) Fails() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failureRate <= 0 {
		return false
	}
	if s.failureRate >= 1 {
		return true
	}
	return s.rng.Float64() < s.failureRate
}

// Sleep blocks for one simulated latency period.
func (s *Simulator) Sleep() {
	if d := s.Latency(); d > 0 {
		time.Sleep(d)
	}
}
