// Package ratelimit gates calls to external services.
package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Limiter blocks until the caller may issue the next request.
type Limiter interface {
	Acquire(ctx context.Context) error
}

// Interval lets one acquisition through per interval. A single instance is
// shared by every client that talks to the same upstream.
type Interval struct {
	lim *rate.Limiter
}

// NewInterval creates an Interval limiter. A non-positive interval disables limiting.
func NewInterval(interval time.Duration) *Interval {
	if interval <= 0 {
		return &Interval{lim: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Interval{lim: rate.NewLimiter(rate.Every(interval), 1)}
}

// Acquire waits until the interval since the previous acquisition has
// elapsed, or until ctx is done.
func (l *Interval) Acquire(ctx context.Context) error {
	return l.lim.Wait(ctx)
}

// Noop never blocks.
type Noop struct{}

func (Noop) Acquire(ctx context.Context) error { return ctx.Err() }
