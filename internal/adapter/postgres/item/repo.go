// Package item implements read access to item listings. Items are written by
// the listing flow outside the engine; here they are only loaded and checked.
package item

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/swapmatch-backend/internal/adapter/postgres"
	"github.com/heartmarshall/swapmatch-backend/internal/domain"
)

// Columns selects an item joined with its owner (alias u) and falls back to
// the owner's home coordinates when the item has none.
var Columns = []string{
	"i.id", "i.owner_id", "i.title", "i.category", "i.condition", "i.photo_refs",
	"i.value_min", "i.value_max", "i.desired_categories", "i.active",
	"COALESCE(i.lat, u.home_lat) AS lat", "COALESCE(i.lon, u.home_lon) AS lon",
	"i.created_at", "i.updated_at",
}

// Row is the scan target for Columns.
type Row struct {
	ID                uuid.UUID `db:"id"`
	OwnerID           uuid.UUID `db:"owner_id"`
	Title             string    `db:"title"`
	Category          string    `db:"category"`
	Condition         string    `db:"condition"`
	PhotoRefs         []string  `db:"photo_refs"`
	ValueMin          int64     `db:"value_min"`
	ValueMax          *int64    `db:"value_max"`
	DesiredCategories []string  `db:"desired_categories"`
	Active            bool      `db:"active"`
	Lat               *float64  `db:"lat"`
	Lon               *float64  `db:"lon"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}

// ToDomain converts a scanned row.
func (r Row) ToDomain() domain.Item {
	desired := make([]domain.Category, len(r.DesiredCategories))
	for i, c := range r.DesiredCategories {
		desired[i] = domain.Category(c)
	}

	it := domain.Item{
		ID:                r.ID,
		OwnerID:           r.OwnerID,
		Title:             r.Title,
		Category:          domain.Category(r.Category),
		Condition:         domain.Condition(r.Condition),
		PhotoRefs:         r.PhotoRefs,
		Value:             domain.ValueRange{Min: r.ValueMin, Max: r.ValueMax},
		DesiredCategories: desired,
		Active:            r.Active,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
	if r.Lat != nil && r.Lon != nil {
		it.Geo = &domain.GeoPoint{Lat: *r.Lat, Lon: *r.Lon}
	}
	return it
}

// SelectBuilder starts a select over items joined with owners.
func SelectBuilder() sq.SelectBuilder {
	return postgres.Builder().
		Select(Columns...).
		From("items i").
		Join("users u ON u.id = i.owner_id")
}

// Repo provides item persistence backed by PostgreSQL.
type Repo struct {
	db postgres.Querier
}

// New creates a new item repository.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// GetByID returns an item by primary key.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	query, args, err := SelectBuilder().Where(sq.Eq{"i.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get item: %w", err)
	}

	var row Row
	if err := pgxscan.Get(ctx, postgres.QuerierFromCtx(ctx, r.db), &row, query, args...); err != nil {
		return nil, postgres.MapError(err, "item", id)
	}

	it := row.ToDomain()
	return &it, nil
}

// GetForShare loads the given items with FOR SHARE row locks so they cannot be
// withdrawn or reassigned until the surrounding transaction ends. Missing ids
// are simply absent from the result.
func (r *Repo) GetForShare(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Item, error) {
	if !postgres.InTx(ctx) {
		return nil, errors.New("get items for share: no transaction in context")
	}
	return r.getMany(ctx, SelectBuilder().Where("i.id = ANY(?::uuid[])", ids).OrderBy("i.id").Suffix("FOR SHARE OF i"))
}

// GetByIDs returns items for multiple ids (batch for DataLoader), keyed by id.
func (r *Repo) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Item, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]domain.Item{}, nil
	}
	return r.getMany(ctx, SelectBuilder().Where("i.id = ANY(?::uuid[])", ids))
}

func (r *Repo) getMany(ctx context.Context, b sq.SelectBuilder) (map[uuid.UUID]domain.Item, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get items: %w", err)
	}

	rows, err := postgres.QuerierFromCtx(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, postgres.MapError(err, "items", "")
	}
	return ScanMap(rows)
}

// ScanAll scans item rows in row order and closes rows.
func ScanAll(rows pgx.Rows) ([]domain.Item, error) {
	var scanned []Row
	if err := pgxscan.ScanAll(&scanned, rows); err != nil {
		return nil, postgres.MapError(err, "items", "")
	}

	out := make([]domain.Item, len(scanned))
	for i, row := range scanned {
		out[i] = row.ToDomain()
	}
	return out, nil
}

// ScanMap scans item rows into a map keyed by id and closes rows.
func ScanMap(rows pgx.Rows) (map[uuid.UUID]domain.Item, error) {
	items, err := ScanAll(rows)
	if err != nil {
		return nil, err
	}

	out := make(map[uuid.UUID]domain.Item, len(items))
	for _, it := range items {
		out[it.ID] = it
	}
	return out, nil
}
