/*
Package resilience provides circuit breaker implementation for graceful degradation.

# Overview

This package implements the circuit breaker pattern so that a dependency
which keeps failing (here: the simulated payment gateway) is failed fast
instead of being hammered on every request.

# Features

- Three-state circuit breaker (Closed, Open, Half-Open)
- Consecutive-failure threshold and open-state cooldown
- Generation counter discards results from stale in-flight calls
- State change callbacks for logging
- Thread-safe operations

# Usage

	breaker := resilience.New("payment-gateway", resilience.Settings{
		MaxFailures:    5,
		Timeout:        30 * time.Second,
		HalfOpenProbes: 1,
		OnStateChange: func(name string, from, to resilience.State) {
			logger.Warn("breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})

	err := breaker.Execute(func() error {
		return gateway.Charge(ctx, amount)
	})

# States

- Closed: Normal operation, calls pass through
- Open: Calls fail immediately with ErrOpen
- Half-Open: A limited number of probes test for recovery

# Pattern

The circuit breaker transitions between states based on call outcomes:

	Closed --[failures]-> Open --[timeout]-> Half-Open --[successes]-> Closed
	                                           |
	                                    [failure]
	                                           |
	                                           v
	                                         Open
*/
package resilience
