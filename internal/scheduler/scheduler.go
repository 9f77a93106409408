// Package scheduler runs report cleanup on a cron schedule while
// karate-runner is serving a host.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// ReportCleaner deletes reports older than maxAgeDays.
type ReportCleaner interface {
	CleanupOldReports(maxAgeDays int) (int, error)
}

// Scheduler periodically invokes a ReportCleaner.
type Scheduler struct {
	cleaner    ReportCleaner
	schedule   string
	maxAgeDays int
	cron       *cron.Cron
	logger     zerolog.Logger

	mu      sync.Mutex
	running bool
	entryID cron.EntryID
}

// New creates a Scheduler. An empty schedule disables it.
func New(cleaner ReportCleaner, schedule string, maxAgeDays int, logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		cleaner:    cleaner,
		schedule:   schedule,
		maxAgeDays: maxAgeDays,
		cron:       cron.New(cron.WithLocation(time.UTC)),
		logger:     logger.With().Str("component", "scheduler").Logger(),
	}
}

// Start registers the cleanup job and starts the cron loop. Calling Start
// on a running or disabled scheduler is a no-op.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}
	if s.schedule == "" {
		s.logger.Info().Msg("report cleanup schedule disabled")
		return nil
	}

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		s.runCleanup(ctx)
	})
	if err != nil {
		return fmt.Errorf("invalid report cleanup schedule %q: %w", s.schedule, err)
	}

	s.entryID = entryID
	s.cron.Start()
	s.running = true

	s.logger.Info().
		Str("schedule", s.schedule).
		Int("max_age_days", s.maxAgeDays).
		Msg("report cleanup scheduled")
	return nil
}

// Stop halts the cron loop and waits for a running cleanup to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	<-s.cron.Stop().Done()
	s.running = false
	s.logger.Info().Msg("report cleanup stopped")
}

// NextRun returns the next scheduled cleanup, or the zero time when stopped.
func (s *Scheduler) NextRun() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return time.Time{}
	}
	return s.cron.Entry(s.entryID).Next
}

// IsRunning reports whether the cron loop is active.
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// RunNow performs one cleanup immediately.
func (s *Scheduler) RunNow(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return s.cleaner.CleanupOldReports(s.maxAgeDays)
}

func (s *Scheduler) runCleanup(ctx context.Context) {
	removed, err := s.RunNow(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("report cleanup failed")
		return
	}
	s.logger.Info().Int("removed", removed).Msg("report cleanup finished")
}
