// Package retry provides a single backoff policy applied to outbound calls
// against the authority. Call sites share one policy instead of re-implementing
// retry loops.
package retry

import (
	"context"
	"math/rand"
	"time"
)

// Default policy configuration
const (
	defaultMaxAttempts     = 3
	defaultInitialDelay    = 1 * time.Second
	defaultMaxDelay        = 10 * time.Second
	defaultDelayMultiplier = 2.0
)

// RetryableChecker determines if an error should trigger another attempt.
type RetryableChecker func(err error) bool

// Policy describes a bounded exponential backoff schedule. MaxAttempts is the
// total number of attempts, including the first one.
type Policy struct {
	MaxAttempts     int
	InitialDelay    time.Duration
	MaxDelay        time.Duration
	DelayMultiplier float64
	Jitter          float64 // fraction of the delay added as random jitter, 0..1
}

// normalized returns a copy of the policy with invalid fields replaced by
// defaults.
func (p Policy) normalized() Policy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = defaultMaxAttempts
	}
	if p.InitialDelay <= 0 {
		p.InitialDelay = defaultInitialDelay
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = defaultMaxDelay
	}
	if p.DelayMultiplier <= 1.0 {
		p.DelayMultiplier = defaultDelayMultiplier
	}
	if p.Jitter < 0 || p.Jitter > 1 {
		p.Jitter = 0
	}
	return p
}

// Do runs fn up to MaxAttempts times, sleeping with exponential backoff
// between attempts. retryable decides whether an error is worth another
// attempt; non-retryable errors return immediately. Returns the number of
// attempts performed and the last error (nil on success).
func (p Policy) Do(
	ctx context.Context,
	retryable RetryableChecker,
	fn func(ctx context.Context, attempt int) error,
) (int, error) {
	p = p.normalized()
	if retryable == nil {
		retryable = func(error) bool { return false }
	}

	var lastErr error
	delay := p.InitialDelay

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return attempt - 1, ctx.Err()
			case <-time.After(p.withJitter(delay)):
				delay = time.Duration(float64(delay) * p.DelayMultiplier)
				if delay > p.MaxDelay {
					delay = p.MaxDelay
				}
			}
		}

		lastErr = fn(ctx, attempt)
		if lastErr == nil {
			return attempt, nil
		}
		if !retryable(lastErr) {
			return attempt, lastErr
		}
	}

	return p.MaxAttempts, lastErr
}

func (p Policy) withJitter(delay time.Duration) time.Duration {
	if p.Jitter == 0 {
		return delay
	}
	return delay + time.Duration(rand.Float64()*p.Jitter*float64(delay))
}
