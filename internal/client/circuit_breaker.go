package client

import (
	"sync"
	"time"
)

// CircuitBreaker guards one upstream service. When a service keeps failing
// past the threshold the executor stops burning retry budgets against it
// until the reset window elapses.
type CircuitBreaker struct {
	mu sync.RWMutex

	failureThreshold int
	resetTimeout     time.Duration
	halfOpenMax      int

	failures      int
	lastFailure   time.Time
	state         CBState
	halfOpenCount int
}

// CBState represents the state of the circuit breaker.
type CBState int

const (
	CBClosed   CBState = iota // normal operation
	CBOpen                    // rejecting requests
	CBHalfOpen                // testing if the service recovered
)

// NewCircuitBreaker creates a breaker with defaults wide enough that a single
// exhausted retry loop never trips it.
func NewCircuitBreaker() *CircuitBreaker {
	return NewCircuitBreakerWithConfig(5, 30*time.Second, 2)
}

// NewCircuitBreakerWithConfig creates a breaker with custom configuration.
func NewCircuitBreakerWithConfig(failureThreshold int, resetTimeout time.Duration, halfOpenMax int) *CircuitBreaker {
	if failureThreshold < 1 {
		failureThreshold = 5
	}
	if resetTimeout < time.Second {
		resetTimeout = 30 * time.Second
	}
	if halfOpenMax < 1 {
		halfOpenMax = 2
	}
	return &CircuitBreaker{
		failureThreshold: failureThreshold,
		resetTimeout:     resetTimeout,
		halfOpenMax:      halfOpenMax,
		state:            CBClosed,
	}
}

// Allow returns true if the request should be allowed to proceed.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case CBClosed:
		return true

	case CBOpen:
		if time.Since(cb.lastFailure) > cb.resetTimeout {
			// the transition request itself consumes one half-open slot
			cb.state = CBHalfOpen
			cb.halfOpenCount = 1
			return true
		}
		return false

	case CBHalfOpen:
		if cb.halfOpenCount < cb.halfOpenMax {
			cb.halfOpenCount++
			return true
		}
		return false
	}

	return false
}

// RecordSuccess records a successful call.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures = 0
	if cb.state == CBHalfOpen {
		cb.state = CBClosed
	}
}

// RecordFailure records a call whose retries were exhausted.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failures++
	cb.lastFailure = time.Now()

	if cb.failures >= cb.failureThreshold {
		cb.state = CBOpen
	}

	if cb.state == CBHalfOpen {
		cb.state = CBOpen
		cb.halfOpenCount = 0
	}
}

// State returns the current state of the circuit breaker.
func (cb *CircuitBreaker) State() CBState {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.state
}

// StateString returns the current state as a string for logging.
func (cb *CircuitBreaker) StateString() string {
	switch cb.State() {
	case CBClosed:
		return "closed"
	case CBOpen:
		return "open"
	case CBHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}
