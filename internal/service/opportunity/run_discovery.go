package opportunity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/heartmarshall/swapmatch-backend/internal/domain"
	"github.com/heartmarshall/swapmatch-backend/internal/engine/discovery"
)

// RunDiscoveryCycle runs one batch pass as of snapshotTime: maintenance, a
// snapshot load, cycle discovery and the commit of selected candidates.
//
// Only one instance runs at a time; a concurrent call is reported as skipped.
// A run whose snapshot cannot be loaded is skipped and logged, leaving active
// opportunities untouched until their own TTL. Cancelling ctx stops the commit
// before the next candidate; candidates and partitions already written stay
// committed and an interrupted candidate is not counted as dropped. Re-running
// on the same snapshot creates nothing new.
func (s *Service) RunDiscoveryCycle(ctx context.Context, snapshotTime time.Time) (*domain.RunReport, error) {
	start := time.Now()
	snapshotTime = snapshotTime.UTC()
	report := &domain.RunReport{SnapshotTime: snapshotTime}

	unlock, ok, err := s.locker.TryLock(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "discovery run skipped: run lock unavailable", slog.String("error", err.Error()))
		report.Skipped = true
		return report, nil
	}
	if !ok {
		s.log.InfoContext(ctx, "discovery run skipped: another run in progress")
		report.Skipped = true
		return report, nil
	}
	defer unlock()

	maint, err := s.Maintain(ctx, snapshotTime)
	if maint != nil {
		report.Expired = maint.Expired + maint.Degenerate
		report.Converted = maint.Converted
	}
	if err != nil {
		s.log.ErrorContext(ctx, "discovery run skipped: maintenance failed", slog.String("error", err.Error()))
		report.Skipped = true
		return report, nil
	}

	snap, err := s.loadSnapshot(ctx, snapshotTime)
	if err != nil {
		s.log.ErrorContext(ctx, "discovery run skipped: snapshot unavailable", slog.String("error", err.Error()))
		report.Skipped = true
		return report, nil
	}

	res, err := discovery.New(s.log, s.cfg.Matching).Discover(ctx, snap)
	if err != nil {
		if ctx.Err() != nil {
			report.Aborted = true
			return report, nil
		}
		return nil, fmt.Errorf("discover: %w", err)
	}
	report.Candidates = len(res.Selected)

commit:
	for p, group := range res.ByPartition() {
		for _, c := range group {
			if ctx.Err() != nil {
				s.log.WarnContext(ctx, "discovery run aborted", slog.Int("partition", p))
				report.Aborted = true
				break commit
			}
			created, err := s.commit(ctx, c, snapshotTime)
			switch {
			case err == nil && created:
				report.Created++
			case err == nil:
			case ctx.Err() != nil:
				// Cut short by the abort, not a drop.
				s.log.WarnContext(ctx, "discovery run aborted", slog.Int("partition", p))
				report.Aborted = true
				break commit
			case errors.Is(err, domain.ErrDegenerateCandidate):
				report.Dropped++
				s.log.DebugContext(ctx, "candidate degenerated before commit",
					slog.String("key", c.Key),
					slog.String("reason", err.Error()),
				)
			default:
				report.Dropped++
				s.log.WarnContext(ctx, "candidate dropped",
					slog.String("key", c.Key),
					slog.Int("partition", p),
					slog.String("error", err.Error()),
				)
			}
		}
	}

	report.Duration = time.Since(start)
	s.log.InfoContext(ctx, "discovery run finished",
		slog.Time("snapshot_time", snapshotTime),
		slog.Int("items", res.Nodes),
		slog.Int("edges", res.Edges),
		slog.Int("found", res.Found),
		slog.Int("candidates", report.Candidates),
		slog.Int("created", report.Created),
		slog.Int("expired", report.Expired),
		slog.Int("converted", report.Converted),
		slog.Int("dropped", report.Dropped),
		slog.Bool("aborted", report.Aborted),
		slog.Duration("duration", report.Duration),
	)

	return report, nil
}

func (s *Service) loadSnapshot(ctx context.Context, at time.Time) (*domain.Snapshot, error) {
	var snap *domain.Snapshot
	err := s.retry(ctx, func() error {
		return s.tx.RunInSnapshot(ctx, func(ctx context.Context) error {
			var err error
			snap, err = s.loader.Load(ctx, at, s.cfg.Lifecycle.Cooldown)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// commit persists one candidate in its own transaction. created is false when
// an active opportunity over the same items exists or the set is cooling down.
func (s *Service) commit(ctx context.Context, c discovery.Candidate, now time.Time) (bool, error) {
	var created bool
	err := s.retry(ctx, func() error {
		created = false
		return s.tx.RunInTx(ctx, func(ctx context.Context) error {
			cooling, err := s.repo.InCooldown(ctx, c.Key, now.Add(-s.cfg.Lifecycle.Cooldown))
			if err != nil {
				return fmt.Errorf("check cooldown: %w", err)
			}
			if cooling {
				return nil
			}

			if err := s.repo.CheckParticipants(ctx, c.Participants); err != nil {
				return err
			}

			o := c.Opportunity(now, s.cfg.Lifecycle.TTL)
			ok, err := s.repo.InsertActive(ctx, o)
			if err != nil {
				return fmt.Errorf("insert opportunity: %w", err)
			}
			if !ok {
				return nil
			}

			if err := s.events.Publish(ctx, domain.NewOpportunityEvent(domain.EventOpportunityCreated, o, now)); err != nil {
				return fmt.Errorf("publish opportunity: %w", err)
			}
			created = true
			return nil
		})
	})
	return created, err
}

// retry runs op until it succeeds, fails with a non-transient error or the
// configured number of retries is used up.
func (s *Service) retry(ctx context.Context, op func() error) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = s.cfg.Lifecycle.RetryBaseDelay
	b.MaxElapsedTime = 0

	return backoff.Retry(func() error {
		err := op()
		if err != nil && !domain.IsTransient(err) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(b, uint64(s.cfg.Lifecycle.WriteRetries)), ctx))
}
