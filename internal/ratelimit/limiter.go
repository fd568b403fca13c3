package ratelimit

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// DefaultMinDelay is the spacing between backend calls when none is configured.
const DefaultMinDelay = time.Second

// Limiter spaces acquisitions at least minDelay apart across the whole process.
// Waiters are granted in arrival order; a cancelled waiter returns its slot.
type Limiter struct {
	lim      *rate.Limiter
	minDelay time.Duration
}

// New creates a Limiter. A minDelay of zero or less disables throttling.
func New(minDelay time.Duration) *Limiter {
	if minDelay <= 0 {
		return &Limiter{lim: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Limiter{
		lim:      rate.NewLimiter(rate.Every(minDelay), 1),
		minDelay: minDelay,
	}
}

// Acquire blocks until the caller may invoke the backend or ctx is done. A
// wait that cannot finish before the ctx deadline fails at once with
// context.DeadlineExceeded.
func (l *Limiter) Acquire(ctx context.Context) error {
	if err := l.lim.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", context.DeadlineExceeded, err)
	}
	return nil
}

// MinDelay returns the configured spacing.
func (l *Limiter) MinDelay() time.Duration {
	return l.minDelay
}
