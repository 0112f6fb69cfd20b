package cronjob

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Refresher reloads a cache from its source of truth.
type Refresher interface {
	Refresh(ctx context.Context) (int, error)
}

// Scheduler runs the cache warm job on a cron schedule.
type Scheduler struct {
	cron    *cron.Cron
	target  Refresher
	timeout time.Duration
}

func NewScheduler(target Refresher, timeout time.Duration) *Scheduler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Scheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		target:  target,
		timeout: timeout,
	}
}

// Start registers the warm job under schedule (standard five-field or
// descriptors like "@every 5m") and starts the cron loop.
func (s *Scheduler) Start(ctx context.Context, schedule string) error {
	_, err := s.cron.AddFunc(schedule, func() {
		_, _ = s.RunOnce(ctx)
	})
	if err != nil {
		return fmt.Errorf("failed to create cron job: %w", err)
	}

	log.Info().Str("schedule", schedule).Msg("cache warm scheduler started")
	s.cron.Start()
	return nil
}

// Stop halts the schedule and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// RunOnce performs a single warm pass.
func (s *Scheduler) RunOnce(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	n, err := s.target.Refresh(ctx)
	if err != nil {
		log.Error().Err(err).Msg("cache warm failed")
		return 0, err
	}

	log.Info().Int("projects", n).Dur("took", time.Since(start)).Msg("cache warm completed")
	return n, nil
}
