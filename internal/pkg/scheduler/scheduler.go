// Package scheduler runs the gateway's periodic housekeeping jobs.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"
)

// Scheduler wraps a gocron scheduler whose jobs share one context.
type Scheduler struct {
	s      gocron.Scheduler
	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a stopped scheduler.
func New() (*Scheduler, error) {
	s, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{s: s, ctx: ctx, cancel: cancel}, nil
}

// Every registers fn to run every interval. A run still in progress when
// the next one is due is skipped.
func (s *Scheduler) Every(name string, interval time.Duration, fn func(ctx context.Context)) error {
	_, err := s.s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			start := time.Now()
			fn(s.ctx)
			log.Debug().Str("job", name).Dur("took", time.Since(start)).Msg("Job finished")
		}),
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return fmt.Errorf("register job %s: %w", name, err)
	}
	return nil
}

// Start begins running jobs.
func (s *Scheduler) Start() {
	s.s.Start()
	log.Info().Int("jobs", len(s.s.Jobs())).Msg("Scheduler started")
}

// Shutdown cancels running jobs and waits for them to return.
func (s *Scheduler) Shutdown() error {
	s.cancel()
	return s.s.Shutdown()
}

// Cleaner removes stored objects older than maxAge.
type Cleaner interface {
	CleanupExpired(ctx context.Context, maxAge time.Duration) (int, error)
}

// PreviewCleanup returns a job that purges cached proof previews.
func PreviewCleanup(c Cleaner, maxAge time.Duration) func(ctx context.Context) {
	return func(ctx context.Context) {
		n, err := c.CleanupExpired(ctx, maxAge)
		if err != nil {
			log.Error().Err(err).Msg("Preview cleanup failed")
			return
		}
		if n > 0 {
			log.Info().Int("removed", n).Dur("max_age", maxAge).Msg("Expired previews removed")
		}
	}
}
