package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const refreshTimeout = 5 * time.Minute

// SnapshotRefresher recomputes stored cost snapshots.
type SnapshotRefresher interface {
	RefreshSnapshots(ctx context.Context) (int, error)
}

// Scheduler runs the periodic HPP maintenance jobs.
type Scheduler struct {
	cron      *cron.Cron
	refresher SnapshotRefresher
	schedule  string
	logger    *zap.Logger
}

// New validates schedule up front. An empty schedule yields a scheduler that
// never fires.
func New(schedule string, refresher SnapshotRefresher, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if schedule != "" {
		if _, err := cron.ParseStandard(schedule); err != nil {
			return nil, fmt.Errorf("invalid refresh schedule %q: %w", schedule, err)
		}
	}
	return &Scheduler{
		cron:      cron.New(),
		refresher: refresher,
		schedule:  schedule,
		logger:    logger,
	}, nil
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	if s.schedule == "" {
		s.logger.Info("snapshot refresh disabled")
		return nil
	}
	if _, err := s.cron.AddFunc(s.schedule, s.refresh); err != nil {
		return fmt.Errorf("schedule snapshot refresh: %w", err)
	}
	s.logger.Info("starting scheduler", zap.String("refresh_schedule", s.schedule))
	s.cron.Start()
	return nil
}

// Stop waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), refreshTimeout)
	defer cancel()
	s.RunOnce(ctx)
}

// RunOnce performs one refresh pass and logs the outcome.
func (s *Scheduler) RunOnce(ctx context.Context) int {
	started := time.Now()
	n, err := s.refresher.RefreshSnapshots(ctx)
	fields := []zap.Field{zap.Int("refreshed", n), zap.Duration("took", time.Since(started))}
	if err != nil {
		s.logger.Warn("snapshot refresh finished with errors", append(fields, zap.Error(err))...)
		return n
	}
	s.logger.Info("snapshot refresh finished", fields...)
	return n
}
