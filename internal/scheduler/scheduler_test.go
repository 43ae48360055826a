package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
)

type fakeSweeper struct {
	calls   int
	removed int
	err     error
}

func (f *fakeSweeper) Sweep(_ context.Context) (int, error) {
	f.calls++
	return f.removed, f.err
}

func TestSchedulerSweepBuckets(t *testing.T) {
	log := slog.New(slog.NewJSONHandler(io.Discard, nil))
	sweeper := &fakeSweeper{removed: 3}
	s := New(context.Background(), sweeper, log)

	s.sweepBuckets()

	if sweeper.calls != 1 {
		t.Fatalf("sweeper calls = %d, want 1", sweeper.calls)
	}
}

func TestSchedulerSweepBucketsSwallowsErrors(t *testing.T) {
	log := slog.New(slog.NewJSONHandler(io.Discard, nil))
	sweeper := &fakeSweeper{err: errors.New("store is down")}
	s := New(context.Background(), sweeper, log)

	// Must not panic; a failed sweep is logged and retried next tick.
	s.sweepBuckets()

	if sweeper.calls != 1 {
		t.Fatalf("sweeper calls = %d, want 1", sweeper.calls)
	}
}

func TestSchedulerStartStop(t *testing.T) {
	log := slog.New(slog.NewJSONHandler(io.Discard, nil))
	s := New(context.Background(), &fakeSweeper{}, log)

	if err := s.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s.Stop()
}
