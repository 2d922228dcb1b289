// Package match stores confirmed two-party matches. A pair of items has at
// most one match, enforced by a unique constraint on the canonical pair.
package match

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/swapmatch-backend/internal/adapter/postgres"
	"github.com/heartmarshall/swapmatch-backend/internal/domain"
)

var columns = []string{"id", "item_a_id", "item_b_id", "created_at", "completed", "completed_at"}

// Repo provides match persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new match repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// CreateIfAbsent inserts m for its canonical pair. When a match already exists
// for the pair, the stored match is returned with created=false.
func (r *Repo) CreateIfAbsent(ctx context.Context, m domain.Match) (_ *domain.Match, created bool, err error) {
	pair := m.Pair()

	query, args, err := postgres.Builder().
		Insert("matches").
		Columns("id", "item_a_id", "item_b_id", "created_at", "completed", "completed_at").
		Values(m.ID, pair.Low, pair.High, m.CreatedAt, false, nil).
		Suffix("ON CONFLICT (item_a_id, item_b_id) DO NOTHING RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("build insert match: %w", err)
	}

	var row matchRow
	err = pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query, args...)
	if err == nil {
		return row.toDomain(), true, nil
	}

	mapped := postgres.MapError(err, "match", pair.Key())
	if !errors.Is(mapped, domain.ErrNotFound) {
		return nil, false, mapped
	}

	// Conflict: another writer got there first.
	existing, err := r.GetByPair(ctx, pair)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// GetByPair returns the match for an unordered item pair.
func (r *Repo) GetByPair(ctx context.Context, pair domain.ItemPair) (*domain.Match, error) {
	query, args, err := postgres.Builder().
		Select(columns...).
		From("matches").
		Where(sq.Eq{"item_a_id": pair.Low, "item_b_id": pair.High}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get match: %w", err)
	}

	var row matchRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query, args...); err != nil {
		return nil, postgres.MapError(err, "match", pair.Key())
	}
	return row.toDomain(), nil
}

type matchRow struct {
	ID          uuid.UUID  `db:"id"`
	ItemAID     uuid.UUID  `db:"item_a_id"`
	ItemBID     uuid.UUID  `db:"item_b_id"`
	CreatedAt   time.Time  `db:"created_at"`
	Completed   bool       `db:"completed"`
	CompletedAt *time.Time `db:"completed_at"`
}

func (r matchRow) toDomain() *domain.Match {
	return &domain.Match{
		ID:          r.ID,
		ItemAID:     r.ItemAID,
		ItemBID:     r.ItemBID,
		CreatedAt:   r.CreatedAt,
		Completed:   r.Completed,
		CompletedAt: r.CompletedAt,
	}
}
