// Package opportunity manages the lifecycle of swap opportunities: listing,
// dismissal, maintenance and the scheduled discovery run that creates them.
package opportunity

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/swapmatch-backend/internal/domain"
)

type opportunityRepo interface {
	InsertActive(ctx context.Context, o *domain.SwapOpportunity) (bool, error)
	CheckParticipants(ctx context.Context, parts []domain.Participant) error
	InCooldown(ctx context.Context, key string, since time.Time) (bool, error)

	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.SwapOpportunity, error)
	ListActiveForUser(ctx context.Context, userID uuid.UUID, now time.Time, limit int) ([]domain.SwapOpportunity, error)

	RecordDismissal(ctx context.Context, o *domain.SwapOpportunity, userID uuid.UUID, at time.Time) (bool, error)
	CountDismissals(ctx context.Context, id uuid.UUID) (int, error)
	Close(ctx context.Context, id uuid.UUID, status domain.OpportunityStatus, reason domain.ClosedReason, at time.Time) error

	ExpireDue(ctx context.Context, now time.Time) ([]domain.SwapOpportunity, error)
	ConvertMatched(ctx context.Context, now time.Time) ([]domain.SwapOpportunity, error)
	ExpireDegenerate(ctx context.Context, now time.Time) ([]domain.SwapOpportunity, error)
}

type snapshotLoader interface {
	Load(ctx context.Context, takenAt time.Time, cooldown time.Duration) (*domain.Snapshot, error)
}

type runLocker interface {
	TryLock(ctx context.Context) (unlock func(), ok bool, err error)
}

type publisher interface {
	Publish(ctx context.Context, ev domain.Event) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
	RunInSnapshot(ctx context.Context, fn func(ctx context.Context) error) error
}

// Config holds the per-run parameters. Both halves are copied into every
// discovery run.
type Config struct {
	Matching  domain.MatchingConfig
	Lifecycle domain.LifecycleConfig
}

// Service provides opportunity lifecycle operations.
type Service struct {
	repo   opportunityRepo
	loader snapshotLoader
	locker runLocker
	events publisher
	tx     txManager
	cfg    Config
	log    *slog.Logger
}

// NewService creates a new opportunity service.
func NewService(
	log *slog.Logger,
	cfg Config,
	repo opportunityRepo,
	loader snapshotLoader,
	locker runLocker,
	events publisher,
	tx txManager,
) *Service {
	return &Service{
		repo:   repo,
		loader: loader,
		locker: locker,
		events: events,
		tx:     tx,
		cfg:    cfg,
		log:    log.With("service", "opportunity"),
	}
}
