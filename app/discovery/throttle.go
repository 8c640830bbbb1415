package discovery

import (
	"context"
	"sync"
	"time"
)

// throttle enforces a fixed minimum spacing between successive calls to one
// provider. The spacing is a hard external constraint of the scrape API, not
// an optimization; concurrent topic sweeps share a single throttle per
// provider so the limit holds process-wide.
type throttle struct {
	spacing  time.Duration
	mu       sync.Mutex
	lastCall time.Time
}

func newThrottle(spacing time.Duration) *throttle {
	return &throttle{spacing: spacing}
}

// wait blocks until the spacing since the previous call has elapsed or the
// context is cancelled. The next slot is claimed before sleeping, so
// concurrent callers queue up rather than stampede.
func (t *throttle) wait(ctx context.Context) error {
	if t.spacing <= 0 {
		return nil
	}

	t.mu.Lock()
	now := time.Now()
	next := t.lastCall.Add(t.spacing)
	if next.Before(now) {
		next = now
	}
	t.lastCall = next
	t.mu.Unlock()

	delay := time.Until(next)
	if delay <= 0 {
		return nil
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
