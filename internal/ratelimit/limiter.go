package ratelimit

import (
	"context"
	"log/slog"
	"time"
)

const (
	globalDailyKey  = "global:daily"
	clientKeyPrefix = "client:"

	fallbackSweepInterval = time.Minute
)

// Limiter answers admission checks against a per-client counted window and
// one global daily bucket. All bucket state lives behind the Store; nothing
// else reads or writes it.
type Limiter struct {
	store            Store
	fallback         *MemoryStore
	perClientLimit   int
	window           time.Duration
	globalDailyLimit int
	now              func() time.Time
	log              *slog.Logger
}

func NewLimiter(
	store Store,
	perClientLimit int,
	window time.Duration,
	globalDailyLimit int,
	log *slog.Logger,
) *Limiter {
	if store == nil {
		store = NewMemoryStore(fallbackSweepInterval)
	}

	return &Limiter{
		store:            store,
		fallback:         NewMemoryStore(fallbackSweepInterval),
		perClientLimit:   perClientLimit,
		window:           window,
		globalDailyLimit: globalDailyLimit,
		now:              time.Now,
		log:              log,
	}
}

// CheckClient admits or rejects one request for the given client identity.
// The window is a counted window reset on first use past its end, not a
// sliding log: up to 2x the nominal rate can pass across a window boundary.
func (l *Limiter) CheckClient(ctx context.Context, clientID string) Decision {
	now := l.now()

	return l.take(ctx, clientKeyPrefix+clientID, l.perClientLimit, now, now.Add(l.window))
}

// CheckGlobalDaily admits or rejects one request against the process-wide
// daily budget. The bucket resets at local midnight of the process clock.
func (l *Limiter) CheckGlobalDaily(ctx context.Context) Decision {
	now := l.now()

	return l.take(ctx, globalDailyKey, l.globalDailyLimit, now, nextMidnight(now))
}

// Sweep discards expired buckets from the primary store.
func (l *Limiter) Sweep(ctx context.Context) (int, error) {
	return l.store.Sweep(ctx, l.now())
}

func (l *Limiter) Close() error {
	return l.store.Close()
}

// take never fails: a broken primary store degrades to local in-memory
// counting instead of erroring the admission decision either way.
func (l *Limiter) take(ctx context.Context, key string, limit int, now, resetAt time.Time) Decision {
	decision, err := l.store.Take(ctx, key, limit, now, resetAt)
	if err == nil {
		return decision
	}

	l.log.WarnContext(ctx, "Rate bucket store failed so local fallback is used",
		"error", err)

	decision, _ = l.fallback.Take(ctx, key, limit, now, resetAt)

	return decision
}

func nextMidnight(now time.Time) time.Time {
	year, month, day := now.Date()

	return time.Date(year, month, day+1, 0, 0, 0, 0, now.Location())
}
