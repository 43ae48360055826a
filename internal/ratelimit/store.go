// Package ratelimit implements admission counting over replaceable bucket
// stores: a counted per-client window plus one fixed daily global bucket.
package ratelimit

import (
	"context"
	"time"
)

// Decision is the outcome of a single admission check.
type Decision struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// Store holds rate buckets keyed by an opaque identity.
//
// Take is an atomic read-test-increment: a bucket whose reset time has
// passed is replaced with a fresh one expiring at resetAt, and the counter
// is incremented only while it is below limit. Two concurrent calls for the
// same key must never both be admitted when one slot remains.
type Store interface {
	Take(ctx context.Context, key string, limit int, now, resetAt time.Time) (Decision, error)
	// Sweep discards buckets whose window has expired and reports how many
	// were removed.
	Sweep(ctx context.Context, now time.Time) (int, error)
	Close() error
}
