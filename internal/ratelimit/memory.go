package ratelimit

import (
	"context"
	"sync"
	"time"
)

type bucket struct {
	count   int
	resetAt time.Time
}

// MemoryStore keeps buckets in a mutex-guarded map. State is lost on
// restart; scaling beyond one process needs a shared store instead.
type MemoryStore struct {
	mu            sync.Mutex
	buckets       map[string]*bucket
	sweepInterval time.Duration
	lastSweep     time.Time
	sweeping      bool
}

func NewMemoryStore(sweepInterval time.Duration) *MemoryStore {
	return &MemoryStore{
		buckets:       make(map[string]*bucket),
		sweepInterval: sweepInterval,
	}
}

func (s *MemoryStore) Take(
	_ context.Context,
	key string,
	limit int,
	now time.Time,
	resetAt time.Time,
) (Decision, error) {
	s.maybeSweep(now)

	s.mu.Lock()
	defer s.mu.Unlock()

	b := s.buckets[key]
	if b == nil || !b.resetAt.After(now) {
		b = &bucket{resetAt: resetAt}
		s.buckets[key] = b
	}

	allowed := b.count < limit
	if allowed {
		b.count++
	}

	remaining := limit - b.count
	if remaining < 0 {
		remaining = 0
	}

	return Decision{
		Allowed:   allowed,
		Remaining: remaining,
		ResetAt:   b.resetAt,
	}, nil
}

func (s *MemoryStore) Sweep(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, b := range s.buckets {
		if !b.resetAt.After(now) {
			delete(s.buckets, key)
			removed++
		}
	}

	return removed, nil
}

func (s *MemoryStore) Close() error {
	return nil
}

// Len reports the number of live buckets, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.buckets)
}

// maybeSweep runs an opportunistic sweep at most once per interval. The
// sweep itself runs off the calling goroutine so the admission that
// triggered it never waits for the map walk.
func (s *MemoryStore) maybeSweep(now time.Time) {
	s.mu.Lock()
	if s.sweeping || now.Sub(s.lastSweep) < s.sweepInterval {
		s.mu.Unlock()
		return
	}
	s.lastSweep = now
	s.sweeping = true
	s.mu.Unlock()

	go func() {
		_, _ = s.Sweep(context.Background(), now)

		s.mu.Lock()
		s.sweeping = false
		s.mu.Unlock()
	}()
}
