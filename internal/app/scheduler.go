package app

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/heartmarshall/swapmatch-backend/internal/config"
	"github.com/heartmarshall/swapmatch-backend/internal/domain"
)

type discoveryRunner interface {
	RunDiscoveryCycle(ctx context.Context, snapshotTime time.Time) (*domain.RunReport, error)
}

// Scheduler runs discovery on a fixed interval. Runs never overlap within a
// process; across processes the run lock decides.
type Scheduler struct {
	runner   discoveryRunner
	interval time.Duration
	timeout  time.Duration
	now      func() time.Time
	log      *slog.Logger

	last atomic.Pointer[domain.RunReport]
}

func NewScheduler(runner discoveryRunner, cfg config.SchedulerConfig, log *slog.Logger) *Scheduler {
	return &Scheduler{
		runner:   runner,
		interval: cfg.Interval,
		timeout:  cfg.RunTimeout,
		now:      time.Now,
		log:      log.With("component", "scheduler"),
	}
}

// Run fires one cycle immediately, then one per interval until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	s.log.InfoContext(ctx, "scheduler started", slog.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		s.tick(ctx)
		select {
		case <-ctx.Done():
			s.log.InfoContext(ctx, "scheduler stopped")
			return nil
		case <-ticker.C:
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	runCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	report, err := s.runner.RunDiscoveryCycle(runCtx, s.now().UTC())
	if err != nil {
		s.log.ErrorContext(ctx, "discovery run failed", slog.String("error", err.Error()))
		return
	}
	s.last.Store(report)
}

// LastRun returns the report of the latest completed tick.
func (s *Scheduler) LastRun() (domain.RunReport, bool) {
	r := s.last.Load()
	if r == nil {
		return domain.RunReport{}, false
	}
	return *r, true
}
