// Package resilience guards calls to remote recommendation providers with
// retries, a circuit breaker and a per-call deadline.
package resilience

import (
	"sync"
	"time"

	"github.com/rotisserie/eris"
)

// ErrCircuitOpen is returned without calling the provider while the breaker
// is open.
var ErrCircuitOpen = eris.New("resilience: circuit open")

// State is the breaker state.
type State int

const (
	Closed State = iota
	Open
	HalfOpen
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	}
	return "unknown"
}

// BreakerConfig configures a Breaker.
type BreakerConfig struct {
	// Threshold is the number of consecutive failures that opens the breaker.
	Threshold int
	// Cooldown is how long the breaker stays open before admitting a probe.
	Cooldown time.Duration
	// Trips decides whether an error counts as a failure. Nil counts every
	// non-nil error.
	Trips func(error) bool
	// OnChange is called with the breaker lock held; it must not call back
	// into the breaker.
	OnChange func(from, to State)
}

// Breaker is a consecutive-failure circuit breaker for one provider.
type Breaker struct {
	cfg BreakerConfig
	now func() time.Time

	mu       sync.Mutex
	state    State
	failures int
	openedAt time.Time
	probing  bool
}

// NewBreaker returns a closed breaker. Non-positive settings fall back to
// 5 failures and a 30 second cooldown.
func NewBreaker(cfg BreakerConfig) *Breaker {
	if cfg.Threshold <= 0 {
		cfg.Threshold = 5
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 30 * time.Second
	}
	return &Breaker{cfg: cfg, now: time.Now}
}

// State reports the current state. An open breaker whose cooldown has elapsed
// reports HalfOpen.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == Open && b.cooled() {
		return HalfOpen
	}
	return b.state
}

// Failures returns the current consecutive failure count.
func (b *Breaker) Failures() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failures
}

func (b *Breaker) cooled() bool {
	return b.now().Sub(b.openedAt) >= b.cfg.Cooldown
}

// allow admits a call or returns ErrCircuitOpen. Only one probe is admitted
// while half-open.
func (b *Breaker) allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case Open:
		if !b.cooled() {
			return ErrCircuitOpen
		}
		b.set(HalfOpen)
		b.probing = true
		return nil
	case HalfOpen:
		if b.probing {
			return ErrCircuitOpen
		}
		b.probing = true
	}
	return nil
}

func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	trips := b.cfg.Trips
	if trips == nil {
		trips = func(e error) bool { return e != nil }
	}

	if err != nil && !trips(err) {
		// Neutral outcome: a half-open breaker admits the next probe.
		b.probing = false
		return
	}

	if err == nil {
		b.failures = 0
		b.probing = false
		if b.state != Closed {
			b.set(Closed)
		}
		return
	}

	b.failures++
	b.probing = false
	switch b.state {
	case HalfOpen:
		b.openedAt = b.now()
		b.set(Open)
	case Closed:
		if b.failures >= b.cfg.Threshold {
			b.openedAt = b.now()
			b.set(Open)
		}
	}
}

func (b *Breaker) set(to State) {
	from := b.state
	b.state = to
	if from != to && b.cfg.OnChange != nil {
		b.cfg.OnChange(from, to)
	}
}

// Do runs fn if the breaker admits it and records the outcome.
func (b *Breaker) Do(fn func() error) error {
	if err := b.allow(); err != nil {
		return err
	}
	err := fn()
	b.record(err)
	return err
}
