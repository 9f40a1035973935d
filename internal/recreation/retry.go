package recreation

import (
	"context"
	"time"
)

// Policy bounds how often a generator call is attempted.
type Policy struct {
	// MaxRetries is the number of retries after the first attempt.
	// Zero disables retrying.
	MaxRetries int
	// Backoff returns the pause before the given retry (1-based).
	// Nil means retry immediately.
	Backoff func(retry int) time.Duration
}

// DefaultPolicy makes up to three attempts with no pause between them.
func DefaultPolicy() Policy {
	return Policy{MaxRetries: 2}
}

// NewPolicy builds a policy from configuration. A base of zero retries
// immediately. When max exceeds base the pause doubles from base up to max,
// otherwise every retry waits base.
func NewPolicy(maxRetries int, base, max time.Duration) Policy {
	p := Policy{MaxRetries: maxRetries}
	switch {
	case base <= 0:
	case max > base:
		p.Backoff = ExponentialBackoff(base, max)
	default:
		p.Backoff = ConstantBackoff(base)
	}
	return p
}

// ConstantBackoff pauses for d before every retry.
func ConstantBackoff(d time.Duration) func(int) time.Duration {
	return func(int) time.Duration { return d }
}

// ExponentialBackoff doubles base on every retry, capped at max.
func ExponentialBackoff(base, max time.Duration) func(int) time.Duration {
	return func(retry int) time.Duration {
		d := base
		for i := 1; i < retry; i++ {
			if d >= max {
				break
			}
			d *= 2
		}
		return min(d, max)
	}
}

// Attempts returns the total attempt budget.
func (p Policy) Attempts() int {
	if p.MaxRetries < 0 {
		return 1
	}
	return p.MaxRetries + 1
}

// wait blocks for the backoff before the given retry, returning early with
// ctx's error if it is cancelled.
func (p Policy) wait(ctx context.Context, retry int) error {
	if p.Backoff == nil {
		return ctx.Err()
	}
	d := p.Backoff(retry)
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
