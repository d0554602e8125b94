package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDo_SucceedsAfterFailures(t *testing.T) {
	calls := 0
	var retried []int
	err := Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("temporary")
		}
		return nil
	}, WithMaxAttempts(5), WithInitialDelay(0), WithOnRetry(func(attempt int, _ error, _ time.Duration) {
		retried = append(retried, attempt)
	}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
	if len(retried) != 2 || retried[0] != 1 || retried[1] != 2 {
		t.Fatalf("unexpected retry callbacks: %v", retried)
	}
}

func TestDo_ReturnsLastError(t *testing.T) {
	calls := 0
	last := errors.New("third")
	err := Do(context.Background(), func(context.Context) error {
		calls++
		if calls == 3 {
			return last
		}
		return errors.New("earlier")
	}, WithMaxAttempts(3), WithInitialDelay(0))
	if !errors.Is(err, last) {
		t.Fatalf("expected last error, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestDo_StopsWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Do(ctx, func(context.Context) error {
		calls++
		cancel()
		return errors.New("boom")
	}, WithMaxAttempts(5), WithInitialDelay(time.Hour))
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("expected a single call, got %d", calls)
	}
}

func TestNextDelay_CapsAtMax(t *testing.T) {
	cfg := Config{Multiplier: 2, MaxDelay: 300 * time.Millisecond}
	if got := nextDelay(200*time.Millisecond, cfg); got != 300*time.Millisecond {
		t.Fatalf("expected capped delay, got %s", got)
	}
	if got := nextDelay(100*time.Millisecond, cfg); got != 200*time.Millisecond {
		t.Fatalf("expected doubled delay, got %s", got)
	}
}
