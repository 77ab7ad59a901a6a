package resilience

import (
	"errors"
	"sync"
	"time"
)

var (
	// ErrOpen rejects calls while the breaker is open.
	ErrOpen = errors.New("circuit breaker is open")
	// ErrTooManyProbes rejects calls beyond the half-open allowance.
	ErrTooManyProbes = errors.New("too many probe requests")
)

// State represents the circuit breaker state
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Settings configures the circuit breaker behavior
type Settings struct {
	// MaxFailures is the consecutive-failure count that trips the breaker
	MaxFailures uint32
	// Timeout is how long the breaker stays open before probing again
	Timeout time.Duration
	// HalfOpenProbes is how many concurrent probes half-open admits and
	// how many consecutive successes close the breaker
	HalfOpenProbes uint32
	// OnStateChange is called whenever the state changes
	OnStateChange func(name string, from State, to State)
}

// Counts holds the statistics for the current generation
type Counts struct {
	Requests             uint32
	TotalSuccesses       uint32
	TotalFailures        uint32
	ConsecutiveSuccesses uint32
	ConsecutiveFailures  uint32
}

// Breaker fails fast once a call site keeps failing, then probes for
// recovery after a cooldown. Every state change starts a new generation;
// results from calls admitted under an older generation are discarded.
type Breaker struct {
	name     string
	settings Settings

	mu         sync.Mutex
	state      State
	generation uint64
	counts     Counts
	openedAt   time.Time
}

// New creates a circuit breaker with the given settings
func New(name string, settings Settings) *Breaker {
	if settings.MaxFailures == 0 {
		settings.MaxFailures = 5
	}
	if settings.Timeout == 0 {
		settings.Timeout = 30 * time.Second
	}
	if settings.HalfOpenProbes == 0 {
		settings.HalfOpenProbes = 1
	}

	return &Breaker{
		name:     name,
		settings: settings,
		state:    StateClosed,
	}
}

// Name returns the name of the circuit breaker
func (b *Breaker) Name() string {
	return b.name
}

// State returns the current state of the circuit breaker
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.currentState(time.Now())
}

// Counts returns a copy of the current generation's counts
func (b *Breaker) Counts() Counts {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.counts
}

// Execute runs fn if the circuit breaker admits the call. The error from
// fn is returned unchanged; admission failures return ErrOpen or
// ErrTooManyProbes instead.
func (b *Breaker) Execute(fn func() error) error {
	generation, err := b.beforeCall()
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			b.afterCall(generation, false)
			panic(r)
		}
	}()

	err = fn()
	b.afterCall(generation, err == nil)
	return err
}

func (b *Breaker) beforeCall() (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	state := b.currentState(time.Now())

	if state == StateOpen {
		return b.generation, ErrOpen
	}
	if state == StateHalfOpen && b.counts.Requests >= b.settings.HalfOpenProbes {
		return b.generation, ErrTooManyProbes
	}

	b.counts.Requests++
	return b.generation, nil
}

func (b *Breaker) afterCall(before uint64, success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := time.Now()
	state := b.currentState(now)

	// The breaker moved on while this call was in flight
	if before != b.generation {
		return
	}

	if success {
		b.onSuccess(state, now)
	} else {
		b.onFailure(state, now)
	}
}

func (b *Breaker) onSuccess(state State, now time.Time) {
	b.counts.TotalSuccesses++
	b.counts.ConsecutiveSuccesses++
	b.counts.ConsecutiveFailures = 0

	if state == StateHalfOpen && b.counts.ConsecutiveSuccesses >= b.settings.HalfOpenProbes {
		b.setState(StateClosed, now)
	}
}

func (b *Breaker) onFailure(state State, now time.Time) {
	switch state {
	case StateClosed:
		b.counts.TotalFailures++
		b.counts.ConsecutiveFailures++
		b.counts.ConsecutiveSuccesses = 0
		if b.counts.ConsecutiveFailures >= b.settings.MaxFailures {
			b.setState(StateOpen, now)
		}
	case StateHalfOpen:
		// A failed probe reopens immediately
		b.setState(StateOpen, now)
	}
}

// currentState applies the open->half-open cooldown transition. Caller
// holds b.mu.
func (b *Breaker) currentState(now time.Time) State {
	if b.state == StateOpen && now.Sub(b.openedAt) >= b.settings.Timeout {
		b.setState(StateHalfOpen, now)
	}
	return b.state
}

// setState transitions the breaker and starts a new generation. Caller
// holds b.mu.
func (b *Breaker) setState(state State, now time.Time) {
	if b.state == state {
		return
	}

	prev := b.state
	b.state = state
	b.generation++
	b.counts = Counts{}

	if state == StateOpen {
		b.openedAt = now
	}

	if b.settings.OnStateChange != nil {
		b.settings.OnStateChange(b.name, prev, state)
	}
}
