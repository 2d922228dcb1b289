// Package swipe stores one-directional like/pass signals between items.
package swipe

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/swapmatch-backend/internal/adapter/postgres"
	"github.com/heartmarshall/swapmatch-backend/internal/domain"
)

// Repo provides swipe persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new swipe repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// Insert stores s unless a swipe for the same directed pair already exists.
// created is false when the insert was a no-op.
func (r *Repo) Insert(ctx context.Context, s domain.Swipe) (created bool, err error) {
	query, args, err := postgres.Builder().
		Insert("swipes").
		Columns("id", "swiping_item_id", "swiped_item_id", "liked", "created_at").
		Values(s.ID, s.SwipingItemID, s.SwipedItemID, s.Liked, s.CreatedAt).
		Suffix("ON CONFLICT (swiping_item_id, swiped_item_id) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build insert swipe: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		return false, postgres.MapError(err, "swipe", s.SwipingItemID.String()+">"+s.SwipedItemID.String())
	}
	return tag.RowsAffected() == 1, nil
}

// Get returns the swipe from one item to another.
func (r *Repo) Get(ctx context.Context, from, to uuid.UUID) (*domain.Swipe, error) {
	query, args, err := postgres.Builder().
		Select("id", "swiping_item_id", "swiped_item_id", "liked", "created_at").
		From("swipes").
		Where(sq.Eq{"swiping_item_id": from, "swiped_item_id": to}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get swipe: %w", err)
	}

	var row swipeRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query, args...); err != nil {
		return nil, postgres.MapError(err, "swipe", from.String()+">"+to.String())
	}

	return &domain.Swipe{
		ID:            row.ID,
		SwipingItemID: row.SwipingItemID,
		SwipedItemID:  row.SwipedItemID,
		Liked:         row.Liked,
		CreatedAt:     row.CreatedAt,
	}, nil
}

// HasLike reports whether from has liked to.
func (r *Repo) HasLike(ctx context.Context, from, to uuid.UUID) (bool, error) {
	query, args, err := postgres.Builder().
		Select("1").
		From("swipes").
		Where(sq.Eq{"swiping_item_id": from, "swiped_item_id": to, "liked": true}).
		Prefix("SELECT EXISTS (").
		Suffix(")").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build has like: %w", err)
	}

	var ok bool
	if err := postgres.QuerierFromCtx(ctx, r.db).QueryRow(ctx, query, args...).Scan(&ok); err != nil {
		return false, postgres.MapError(err, "swipe", from.String()+">"+to.String())
	}
	return ok, nil
}

type swipeRow struct {
	ID            uuid.UUID `db:"id"`
	SwipingItemID uuid.UUID `db:"swiping_item_id"`
	SwipedItemID  uuid.UUID `db:"swiped_item_id"`
	Liked         bool      `db:"liked"`
	CreatedAt     time.Time `db:"created_at"`
}
