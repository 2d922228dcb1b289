// Package swipe records swipes and turns reciprocal likes into matches.
package swipe

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/swapmatch-backend/internal/domain"
)

type itemRepo interface {
	GetForShare(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Item, error)
}

type swipeRepo interface {
	Insert(ctx context.Context, s domain.Swipe) (bool, error)
	Get(ctx context.Context, from, to uuid.UUID) (*domain.Swipe, error)
	HasLike(ctx context.Context, from, to uuid.UUID) (bool, error)
}

type matchRepo interface {
	CreateIfAbsent(ctx context.Context, m domain.Match) (*domain.Match, bool, error)
	GetByPair(ctx context.Context, pair domain.ItemPair) (*domain.Match, error)
}

type pairLocker interface {
	LockPair(ctx context.Context, pair domain.ItemPair) error
}

type publisher interface {
	Publish(ctx context.Context, ev domain.Event) error
}

type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Service implements swipe ingestion and mutual-match detection.
type Service struct {
	items   itemRepo
	swipes  swipeRepo
	matches matchRepo
	locker  pairLocker
	events  publisher
	tx      txManager
	log     *slog.Logger
}

// NewService creates a new swipe service.
func NewService(
	log *slog.Logger,
	items itemRepo,
	swipes swipeRepo,
	matches matchRepo,
	locker pairLocker,
	events publisher,
	tx txManager,
) *Service {
	return &Service{
		items:   items,
		swipes:  swipes,
		matches: matches,
		locker:  locker,
		events:  events,
		tx:      tx,
		log:     log.With("service", "swipe"),
	}
}

// Result is the outcome of RecordSwipe. Match is set whenever the pair is
// matched, whether or not this call created it.
type Result struct {
	MatchCreated bool
	Match        *domain.Match
}
