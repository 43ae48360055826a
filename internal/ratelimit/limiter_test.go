package ratelimit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

type failingStore struct{}

func (failingStore) Take(context.Context, string, int, time.Time, time.Time) (Decision, error) {
	return Decision{}, errors.New("store is down")
}

func (failingStore) Sweep(context.Context, time.Time) (int, error) {
	return 0, errors.New("store is down")
}

func (failingStore) Close() error { return nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestLimiterCheckClientExhaustsAndResets(t *testing.T) {
	limiter := NewLimiter(NewMemoryStore(time.Hour), 2, 10*time.Minute, 100, discardLogger())

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if decision := limiter.CheckClient(ctx, "1.2.3.4"); !decision.Allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	decision := limiter.CheckClient(ctx, "1.2.3.4")
	if decision.Allowed {
		t.Fatalf("third request inside the window should be rejected")
	}
	if want := now.Add(10 * time.Minute); !decision.ResetAt.Equal(want) {
		t.Fatalf("resetAt = %v, want %v", decision.ResetAt, want)
	}

	if decision := limiter.CheckClient(ctx, "5.6.7.8"); !decision.Allowed {
		t.Fatalf("a different client must have its own window")
	}

	now = now.Add(10 * time.Minute)
	if decision := limiter.CheckClient(ctx, "1.2.3.4"); !decision.Allowed {
		t.Fatalf("request after window end should be allowed again")
	}
}

func TestLimiterCheckGlobalDailyResetsAtMidnight(t *testing.T) {
	limiter := NewLimiter(NewMemoryStore(time.Hour), 100, 10*time.Minute, 1, discardLogger())

	now := time.Date(2025, 6, 1, 23, 50, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	ctx := context.Background()

	decision := limiter.CheckGlobalDaily(ctx)
	if !decision.Allowed {
		t.Fatalf("first request of the day should be allowed")
	}
	if want := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC); !decision.ResetAt.Equal(want) {
		t.Fatalf("resetAt = %v, want %v", decision.ResetAt, want)
	}

	if decision := limiter.CheckGlobalDaily(ctx); decision.Allowed {
		t.Fatalf("daily budget of 1 should reject the second request")
	}

	now = time.Date(2025, 6, 2, 0, 0, 1, 0, time.UTC)
	if decision := limiter.CheckGlobalDaily(ctx); !decision.Allowed {
		t.Fatalf("budget should reset after midnight")
	}
}

func TestLimiterFallsBackWhenStoreFails(t *testing.T) {
	limiter := NewLimiter(failingStore{}, 1, 10*time.Minute, 100, discardLogger())

	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return now }

	ctx := context.Background()

	if decision := limiter.CheckClient(ctx, "1.2.3.4"); !decision.Allowed {
		t.Fatalf("fallback should admit the first request")
	}
	if decision := limiter.CheckClient(ctx, "1.2.3.4"); decision.Allowed {
		t.Fatalf("fallback must keep counting: second request should be rejected")
	}
}

func TestNewLimiterDefaultsToMemoryStore(t *testing.T) {
	limiter := NewLimiter(nil, 1, 10*time.Minute, 100, discardLogger())

	if decision := limiter.CheckClient(context.Background(), "1.2.3.4"); !decision.Allowed {
		t.Fatalf("nil store should degrade to an in-memory store, not reject")
	}
}
