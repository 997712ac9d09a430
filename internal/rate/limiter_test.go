package rate

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func testLimiter(t *testing.T, cfg Config) (*miniredis.Miniredis, *Limiter) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return mr, New(rdb, cfg)
}

func TestLimiterBudget(t *testing.T) {
	_, l := testLimiter(t, Config{MaxAttempts: 2, CooldownDuration: time.Minute})
	ctx := context.Background()

	if err := l.Increment(ctx, "alice", ""); err != nil {
		t.Fatalf("first: %v", err)
	}
	if err := l.Increment(ctx, "alice", ""); err != nil {
		t.Fatalf("second: %v", err)
	}
	if err := l.Increment(ctx, "alice", ""); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("third: err = %v, want ErrRateLimited", err)
	}
}

func TestLimiterIPThrottle(t *testing.T) {
	_, l := testLimiter(t, Config{EnableIPThrottle: true, MaxAttempts: 1, CooldownDuration: time.Minute})
	ctx := context.Background()

	if err := l.Increment(ctx, "alice", "10.0.0.1"); err != nil {
		t.Fatalf("first: %v", err)
	}
	// Different value, same IP: the IP counter trips.
	if err := l.Increment(ctx, "bob", "10.0.0.1"); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("err = %v, want ErrRateLimited", err)
	}
}

func TestLimiterReset(t *testing.T) {
	_, l := testLimiter(t, Config{MaxAttempts: 1, CooldownDuration: time.Minute})
	ctx := context.Background()

	if err := l.Increment(ctx, "alice", ""); err != nil {
		t.Fatalf("Increment: %v", err)
	}
	if err := l.Reset(ctx, "alice", ""); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if err := l.Increment(ctx, "alice", ""); err != nil {
		t.Fatalf("after reset: %v", err)
	}
}

func TestLimiterWindowExpiry(t *testing.T) {
	mr, l := testLimiter(t, Config{MaxAttempts: 1, CooldownDuration: time.Minute})
	ctx := context.Background()

	if err := l.Increment(ctx, "alice", ""); err != nil {
		t.Fatalf("Increment: %v", err)
	}
	if err := l.Increment(ctx, "alice", ""); !errors.Is(err, ErrRateLimited) {
		t.Fatalf("within window: err = %v, want ErrRateLimited", err)
	}

	mr.FastForward(2 * time.Minute)

	// The counter expired with the window, so the budget is whole again.
	if err := l.Increment(ctx, "alice", ""); err != nil {
		t.Fatalf("after window: %v", err)
	}
}
