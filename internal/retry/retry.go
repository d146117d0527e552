package retry

import (
	"context"
	"time"
)

// Sleeper abstracts waiting so retry timing is testable with a fake clock.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// RealSleeper blocks on a timer, interruptible by the context.
type RealSleeper struct{}

var _ Sleeper = RealSleeper{}

// Sleep waits for d or until ctx is cancelled.
func (RealSleeper) Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Policy is a bounded retry budget with a backoff schedule. Attempts are
// numbered from 1; MaxAttempts includes the first try.
type Policy struct {
	MaxAttempts int
	Backoff     func(attempt int) time.Duration
}

// FixedBackoff waits the same duration between every attempt.
func FixedBackoff(d time.Duration) func(int) time.Duration {
	return func(int) time.Duration { return d }
}

// LinearBackoff waits attempt*step between attempts.
func LinearBackoff(step time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration { return time.Duration(attempt) * step }
}

// Exhausted reports whether the budget allows no further attempt.
func (p Policy) Exhausted(attempt int) bool {
	return attempt >= p.MaxAttempts
}

// Wait sleeps for the schedule's delay after the given failed attempt.
// Override, when positive, replaces the scheduled delay; callers use it
// for condition-specific cooldowns (cold model, rate limit).
func (p Policy) Wait(ctx context.Context, s Sleeper, attempt int, override time.Duration) error {
	delay := override
	if delay <= 0 && p.Backoff != nil {
		delay = p.Backoff(attempt)
	}
	return s.Sleep(ctx, delay)
}
