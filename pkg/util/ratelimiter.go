package util

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimiter is a token bucket limiter for outbound call pacing.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter allows tokensPerSecond sustained acquisitions with the
// given burst capacity.
func NewRateLimiter(tokensPerSecond float64, burst int) *RateLimiter {
	return &RateLimiter{limiter: rate.NewLimiter(rate.Limit(tokensPerSecond), burst)}
}

// Acquire blocks until n tokens are available or the context is cancelled.
// Requesting more tokens than the burst capacity fails immediately.
func (rl *RateLimiter) Acquire(ctx context.Context, n int) error {
	return rl.limiter.WaitN(ctx, n)
}

// Allow reports whether one token is immediately available, consuming it
// when so.
func (rl *RateLimiter) Allow() bool {
	return rl.limiter.Allow()
}
