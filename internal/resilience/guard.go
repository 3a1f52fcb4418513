package resilience

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// Guard wraps calls to one remote provider: each call gets a deadline, each
// attempt passes through the breaker, and transient failures are retried.
type Guard struct {
	name    string
	backoff Backoff
	breaker *Breaker
	timeout time.Duration
}

// NewGuard builds a guard for the named provider. A non-positive timeout
// disables the per-call deadline.
func NewGuard(name string, b Backoff, bc BreakerConfig, timeout time.Duration) *Guard {
	log := zap.L().With(zap.String("provider", name))
	if b.OnRetry == nil {
		b.OnRetry = func(attempt int, err error) {
			log.Warn("resilience: retrying provider call", zap.Int("attempt", attempt), zap.Error(err))
		}
	}
	if bc.OnChange == nil {
		bc.OnChange = func(from, to State) {
			log.Warn("resilience: circuit state changed",
				zap.Stringer("from", from), zap.Stringer("to", to))
		}
	}
	if bc.Trips == nil {
		bc.Trips = tripsOn
	}
	return &Guard{name: name, backoff: b, breaker: NewBreaker(bc), timeout: timeout}
}

// FromSettings builds a guard from flat configuration values; zero values
// take the package defaults.
func FromSettings(name string, maxAttempts, initialBackoffMs, failureThreshold, resetTimeoutSecs, timeoutSecs int) *Guard {
	b := DefaultBackoff()
	if maxAttempts > 0 {
		b.Attempts = maxAttempts
	}
	if initialBackoffMs > 0 {
		b.Initial = time.Duration(initialBackoffMs) * time.Millisecond
	}
	bc := BreakerConfig{
		Threshold: failureThreshold,
		Cooldown:  time.Duration(resetTimeoutSecs) * time.Second,
	}
	return NewGuard(name, b, bc, time.Duration(timeoutSecs)*time.Second)
}

// tripsOn counts provider-side failures only; a caller cancelling its own
// request says nothing about provider health.
func tripsOn(err error) bool {
	return err != nil && !errors.Is(err, context.Canceled)
}

// Name returns the provider name.
func (g *Guard) Name() string { return g.name }

// Breaker exposes the underlying breaker for health reporting.
func (g *Guard) Breaker() *Breaker { return g.breaker }

// Call runs fn under the guard. ErrCircuitOpen is returned as soon as the
// breaker rejects an attempt.
func Call[T any](ctx context.Context, g *Guard, fn func(context.Context) (T, error)) (T, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	b := g.backoff
	retryable := b.Retryable
	if retryable == nil {
		retryable = IsTransient
	}
	b.Retryable = func(err error) bool {
		return !errors.Is(err, ErrCircuitOpen) && retryable(err)
	}

	return Retry(ctx, b, func(ctx context.Context) (T, error) {
		var v T
		err := g.breaker.Do(func() error {
			var err error
			v, err = fn(ctx)
			return err
		})
		return v, err
	})
}
