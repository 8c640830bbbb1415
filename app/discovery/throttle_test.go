package discovery

import (
	"context"
	"testing"
	"time"
)

func TestThrottleEnforcesSpacing(t *testing.T) {
	th := newThrottle(50 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := th.wait(ctx); err != nil {
			t.Fatal(err)
		}
	}
	elapsed := time.Since(start)

	// Three calls need at least two full spacing intervals between them.
	if elapsed < 100*time.Millisecond {
		t.Errorf("Expected at least 100ms for 3 throttled calls, took %v", elapsed)
	}
}

func TestThrottleZeroSpacingNoBlocking(t *testing.T) {
	th := newThrottle(0)
	ctx := context.Background()

	start := time.Now()
	for i := 0; i < 100; i++ {
		if err := th.wait(ctx); err != nil {
			t.Fatal(err)
		}
	}

	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Errorf("Zero spacing should not block, took %v", elapsed)
	}
}

func TestThrottleCancelledContext(t *testing.T) {
	th := newThrottle(10 * time.Second)
	ctx := context.Background()

	// First call claims the slot immediately.
	if err := th.wait(ctx); err != nil {
		t.Fatal(err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()

	if err := th.wait(cancelled); err == nil {
		t.Error("Expected context error from cancelled wait")
	}
}
