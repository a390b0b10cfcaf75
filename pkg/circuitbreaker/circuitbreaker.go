// Package circuitbreaker skips an optional dependency after it keeps failing.
//
// A guarded call is never repeated. While the circuit is open the call is simply
// not made and ErrOpen is returned, so callers can fall back to their primary path.
package circuitbreaker

import (
	"errors"
	"sync"
	"time"
)

type State string

const (
	StateClosed   State = "closed"
	StateOpen     State = "open"
	StateHalfOpen State = "half_open"
)

var ErrOpen = errors.New("circuit breaker is open")

// Settings tunes a Breaker. Zero values fall back to the defaults below.
type Settings struct {
	// MaxFailures is the number of consecutive failures that opens the circuit.
	MaxFailures int
	// Cooldown is how long the circuit stays open before a probe is allowed.
	Cooldown time.Duration
	// ProbeSuccesses closes a half-open circuit.
	ProbeSuccesses int
	// OnTransition runs after the internal lock is released.
	OnTransition func(from, to State)
}

const (
	defaultMaxFailures    = 5
	defaultCooldown       = 30 * time.Second
	defaultProbeSuccesses = 1
)

type Breaker struct {
	settings Settings
	clock    func() time.Time

	mu       sync.Mutex
	state    State
	streak   int // consecutive failures while closed, successes while half-open
	reopenAt time.Time
}

func New(settings Settings) *Breaker {
	if settings.MaxFailures <= 0 {
		settings.MaxFailures = defaultMaxFailures
	}
	if settings.Cooldown <= 0 {
		settings.Cooldown = defaultCooldown
	}
	if settings.ProbeSuccesses <= 0 {
		settings.ProbeSuccesses = defaultProbeSuccesses
	}
	return &Breaker{settings: settings, clock: time.Now, state: StateClosed}
}

// Do runs fn unless the circuit is open. fn runs without the lock held.
func (b *Breaker) Do(fn func() error) error {
	if !b.Allow() {
		return ErrOpen
	}
	err := fn()
	b.Record(err)
	return err
}

// Allow reports whether a call may proceed, moving an expired open circuit to half-open.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	from := b.state
	if b.state == StateOpen && !b.clock().Before(b.reopenAt) {
		b.moveTo(StateHalfOpen)
	}
	to := b.state
	b.mu.Unlock()

	b.announce(from, to)
	return to != StateOpen
}

// Record feeds the outcome of an allowed call back into the breaker.
func (b *Breaker) Record(err error) {
	b.mu.Lock()
	from := b.state
	switch {
	case err == nil && b.state == StateHalfOpen:
		b.streak++
		if b.streak >= b.settings.ProbeSuccesses {
			b.moveTo(StateClosed)
		}
	case err == nil:
		b.streak = 0
	case b.state == StateHalfOpen:
		b.trip()
	default:
		b.streak++
		if b.streak >= b.settings.MaxFailures {
			b.trip()
		}
	}
	to := b.state
	b.mu.Unlock()

	b.announce(from, to)
}

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Reset closes the circuit and forgets past failures.
func (b *Breaker) Reset() {
	b.mu.Lock()
	from := b.state
	b.moveTo(StateClosed)
	b.mu.Unlock()

	b.announce(from, StateClosed)
}

func (b *Breaker) trip() {
	b.moveTo(StateOpen)
	b.reopenAt = b.clock().Add(b.settings.Cooldown)
}

// moveTo must be called with mu held.
func (b *Breaker) moveTo(s State) {
	b.state = s
	b.streak = 0
}

func (b *Breaker) announce(from, to State) {
	if from == to || b.settings.OnTransition == nil {
		return
	}
	b.settings.OnTransition(from, to)
}
