// Package user implements user profile storage using PostgreSQL.
package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	postgres "github.com/heartmarshall/swapmatch-backend/internal/adapter/postgres"
	"github.com/heartmarshall/swapmatch-backend/internal/domain"
)

var columns = []string{"id", "display_name", "avatar_url", "home_lat", "home_lon", "created_at", "updated_at"}

// Repo provides user profile lookups backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new user repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// ---------------------------------------------------------------------------
// Read operations
// ---------------------------------------------------------------------------

// GetByID returns a user profile by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.UserProfile, error) {
	query, args, err := postgres.Builder().Select(columns...).From("users").Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get user: %w", err)
	}

	var row userRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query, args...); err != nil {
		return nil, postgres.MapError(err, "user", id)
	}

	u := row.toDomain()
	return &u, nil
}

// GetByIDs returns profiles for multiple users (batch for DataLoader).
// Unknown ids are absent from the result.
func (r *Repo) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.UserProfile, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]domain.UserProfile{}, nil
	}

	query, args, err := postgres.Builder().
		Select(columns...).
		From("users").
		Where("id = ANY(?::uuid[])", ids).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get users: %w", err)
	}

	var rows []userRow
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &rows, query, args...); err != nil {
		return nil, postgres.MapError(err, "users", "")
	}

	out := make(map[uuid.UUID]domain.UserProfile, len(rows))
	for _, row := range rows {
		out[row.ID] = row.toDomain()
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// Write operations
// ---------------------------------------------------------------------------

// Upsert creates the profile for id or replaces its editable fields.
// A nil home clears the stored home location.
func (r *Repo) Upsert(ctx context.Context, id uuid.UUID, displayName string, avatarURL *string, home *domain.GeoPoint) (*domain.UserProfile, error) {
	var lat, lon *float64
	if home != nil {
		lat, lon = &home.Lat, &home.Lon
	}

	query, args, err := postgres.Builder().
		Insert("users").
		Columns("id", "display_name", "avatar_url", "home_lat", "home_lon").
		Values(id, displayName, avatarURL, lat, lon).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
	display_name = EXCLUDED.display_name,
	avatar_url   = EXCLUDED.avatar_url,
	home_lat     = EXCLUDED.home_lat,
	home_lon     = EXCLUDED.home_lon,
	updated_at   = now()`).
		Suffix("RETURNING " + strings.Join(columns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build upsert user: %w", err)
	}

	var row userRow
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query, args...); err != nil {
		return nil, postgres.MapError(err, "user", id)
	}

	u := row.toDomain()
	return &u, nil
}

// ---------------------------------------------------------------------------
// Mapping
// ---------------------------------------------------------------------------

type userRow struct {
	ID          uuid.UUID `db:"id"`
	DisplayName string    `db:"display_name"`
	AvatarURL   *string   `db:"avatar_url"`
	HomeLat     *float64  `db:"home_lat"`
	HomeLon     *float64  `db:"home_lon"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r userRow) toDomain() domain.UserProfile {
	u := domain.UserProfile{
		ID:          r.ID,
		DisplayName: r.DisplayName,
		AvatarURL:   r.AvatarURL,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.HomeLat != nil && r.HomeLon != nil {
		u.HomeGeo = &domain.GeoPoint{Lat: *r.HomeLat, Lon: *r.HomeLon}
	}
	return u
}
