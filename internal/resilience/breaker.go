// Package resilience provides reliability patterns for collaborator calls.
package resilience

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrCircuitOpen is returned when the circuit breaker is open and rejecting calls.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// Status is the observable circuit state.
type Status string

const (
	StatusClosed   Status = "closed"
	StatusOpen     Status = "open"
	StatusHalfOpen Status = "half_open"
)

// Breaker protects a single collaborator with a circuit breaker. Consecutive
// failures trip the circuit; after the cooldown one probe call is let through
// and its outcome decides whether the circuit closes again.
type Breaker struct {
	name        string
	maxFailures int
	cooldown    time.Duration

	mu       sync.Mutex
	status   Status
	failures int
	openedAt time.Time
	now      func() time.Time
}

// NewBreaker creates a named circuit breaker that opens after maxFailures
// consecutive failures and stays open for cooldown before probing.
func NewBreaker(name string, maxFailures int, cooldown time.Duration) *Breaker {
	return &Breaker{
		name:        name,
		maxFailures: maxFailures,
		cooldown:    cooldown,
		status:      StatusClosed,
		now:         time.Now,
	}
}

// Name returns the collaborator name this breaker guards.
func (b *Breaker) Name() string { return b.name }

// Status returns the current circuit state.
func (b *Breaker) Status() Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.statusLocked()
}

// Execute runs fn unless the circuit is open. An open circuit returns
// ErrCircuitOpen wrapped with the breaker name without invoking fn.
func (b *Breaker) Execute(fn func() error) error {
	b.mu.Lock()
	if b.statusLocked() == StatusOpen {
		b.mu.Unlock()
		return fmt.Errorf("%s: %w", b.name, ErrCircuitOpen)
	}
	probing := b.status == StatusHalfOpen
	b.mu.Unlock()

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()
	if err != nil {
		b.failures++
		if probing || b.failures >= b.maxFailures {
			b.status = StatusOpen
			b.openedAt = b.now()
		}
		return err
	}
	b.failures = 0
	b.status = StatusClosed
	return nil
}

// statusLocked folds the cooldown expiry into the reported state. Must be
// called with b.mu held.
func (b *Breaker) statusLocked() Status {
	if b.status == StatusOpen && b.now().Sub(b.openedAt) >= b.cooldown {
		b.status = StatusHalfOpen
	}
	return b.status
}
