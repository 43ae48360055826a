// Package scheduler runs the periodic rate-bucket sweep so the bucket table
// stays bounded to recently-active identities.
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const (
	SweepSpec             = "* * * * *"
	Timezone              = "UTC"
	TimezoneOffsetSeconds = 0
	sweepTimeout          = 30 * time.Second
)

// Sweeper discards expired rate buckets and reports how many were removed.
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

type Scheduler struct {
	ctx     context.Context
	cron    *cron.Cron
	sweeper Sweeper
	log     *slog.Logger
}

func New(ctx context.Context, sweeper Sweeper, log *slog.Logger) *Scheduler {
	c := cron.New(cron.WithLocation(time.FixedZone(Timezone, TimezoneOffsetSeconds)))

	return &Scheduler{
		ctx:     ctx,
		cron:    c,
		sweeper: sweeper,
		log:     log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(SweepSpec, s.sweepBuckets); err != nil {
		return err
	}

	s.cron.Start()

	return nil
}

func (s *Scheduler) Stop() {
	s.cron.Stop()
}

func (s *Scheduler) sweepBuckets() {
	ctx, cancel := context.WithTimeout(s.ctx, sweepTimeout)
	defer cancel()

	removed, err := s.sweeper.Sweep(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to sweep rate buckets",
			"error", err)

		return
	}

	if removed > 0 {
		s.log.DebugContext(ctx, "Swept expired rate buckets",
			"removed", removed)
	}
}
