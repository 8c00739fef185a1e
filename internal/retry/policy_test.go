package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errTransient = errors.New("transient")

func alwaysRetry(error) bool { return true }

func fastPolicy(maxAttempts int) Policy {
	return Policy{
		MaxAttempts:  maxAttempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
	}
}

func TestDo_SucceedsFirstAttempt(t *testing.T) {
	attempts, err := fastPolicy(3).Do(context.Background(), alwaysRetry,
		func(ctx context.Context, attempt int) error {
			return nil
		})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if attempts != 1 {
		t.Errorf("Expected 1 attempt, got %d", attempts)
	}
}

func TestDo_RetriesUntilSuccess(t *testing.T) {
	calls := 0
	attempts, err := fastPolicy(5).Do(context.Background(), alwaysRetry,
		func(ctx context.Context, attempt int) error {
			calls++
			if calls < 3 {
				return errTransient
			}
			return nil
		})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", attempts)
	}
	if calls != 3 {
		t.Errorf("Expected fn called 3 times, got %d", calls)
	}
}

func TestDo_StopsAtMaxAttempts(t *testing.T) {
	calls := 0
	attempts, err := fastPolicy(3).Do(context.Background(), alwaysRetry,
		func(ctx context.Context, attempt int) error {
			calls++
			return errTransient
		})
	if !errors.Is(err, errTransient) {
		t.Fatalf("Expected last error, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("Expected exactly 3 attempts, got %d", attempts)
	}
	if calls != 3 {
		t.Errorf("Expected fn called exactly 3 times, got %d", calls)
	}
}

func TestDo_NonRetryableReturnsImmediately(t *testing.T) {
	permanent := errors.New("permanent")
	calls := 0
	attempts, err := fastPolicy(5).Do(context.Background(),
		func(err error) bool { return errors.Is(err, errTransient) },
		func(ctx context.Context, attempt int) error {
			calls++
			return permanent
		})
	if !errors.Is(err, permanent) {
		t.Fatalf("Expected permanent error, got %v", err)
	}
	if attempts != 1 || calls != 1 {
		t.Errorf("Expected a single attempt, got attempts=%d calls=%d", attempts, calls)
	}
}

func TestDo_ContextCancelledBetweenAttempts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	policy := Policy{
		MaxAttempts:  5,
		InitialDelay: 50 * time.Millisecond,
		MaxDelay:     time.Second,
	}

	_, err := policy.Do(ctx, alwaysRetry,
		func(ctx context.Context, attempt int) error {
			cancel()
			return errTransient
		})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestDo_AttemptNumbersPassedToFn(t *testing.T) {
	var seen []int
	_, _ = fastPolicy(3).Do(context.Background(), alwaysRetry,
		func(ctx context.Context, attempt int) error {
			seen = append(seen, attempt)
			return errTransient
		})
	if len(seen) != 3 || seen[0] != 1 || seen[1] != 2 || seen[2] != 3 {
		t.Errorf("Expected attempts 1,2,3, got %v", seen)
	}
}

func TestDo_NormalizesInvalidPolicy(t *testing.T) {
	// Zero-value policy falls back to defaults and still runs
	calls := 0
	attempts, err := (Policy{InitialDelay: time.Millisecond, MaxDelay: time.Millisecond}).Do(
		context.Background(),
		nil,
		func(ctx context.Context, attempt int) error {
			calls++
			return nil
		})
	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if attempts != 1 || calls != 1 {
		t.Errorf("Expected one successful attempt, got attempts=%d calls=%d", attempts, calls)
	}
}
