package testhelper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/swapmatch-backend/internal/domain"
)

// uniqueSuffix returns a short unique string for generating non-conflicting test data.
func uniqueSuffix() string {
	return uuid.New().String()[:8]
}

// SeedUser creates a user profile without home coordinates.
func SeedUser(t *testing.T, pool *pgxpool.Pool) domain.UserProfile {
	t.Helper()
	return SeedUserAt(t, pool, nil)
}

// SeedUserAt creates a user profile with the given home coordinates.
func SeedUserAt(t *testing.T, pool *pgxpool.Pool, home *domain.GeoPoint) domain.UserProfile {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	user := domain.UserProfile{
		ID:          uuid.New(),
		DisplayName: "Test User " + uniqueSuffix(),
		HomeGeo:     home,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var lat, lon *float64
	if home != nil {
		lat, lon = &home.Lat, &home.Lon
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO users (id, display_name, home_lat, home_lon, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		user.ID, user.DisplayName, lat, lon, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedUser insert user: %v", err)
	}

	return user
}

// ItemOption customizes a seeded item.
type ItemOption func(*domain.Item)

// WithCategory sets the offered category.
func WithCategory(c domain.Category) ItemOption {
	return func(i *domain.Item) { i.Category = c }
}

// WithDesired sets the desired categories.
func WithDesired(cs ...domain.Category) ItemOption {
	return func(i *domain.Item) { i.DesiredCategories = cs }
}

// WithValue sets the declared value range; max < 0 means a single point.
func WithValue(lo, hi int64) ItemOption {
	return func(i *domain.Item) {
		i.Value = domain.ValueRange{Min: lo}
		if hi >= 0 {
			i.Value.Max = &hi
		}
	}
}

// WithGeo sets item coordinates.
func WithGeo(lat, lon float64) ItemOption {
	return func(i *domain.Item) { i.Geo = &domain.GeoPoint{Lat: lat, Lon: lon} }
}

// Inactive seeds the item as withdrawn.
func Inactive() ItemOption {
	return func(i *domain.Item) { i.Active = false }
}

// CreatedAt overrides the listing time.
func CreatedAt(at time.Time) ItemOption {
	return func(i *domain.Item) { i.CreatedAt = at.UTC().Truncate(time.Microsecond) }
}

// SeedItem creates an active item owned by ownerID. Defaults: books wanting
// music, good condition, value 1000..2000.
func SeedItem(t *testing.T, pool *pgxpool.Pool, ownerID uuid.UUID, opts ...ItemOption) domain.Item {
	t.Helper()
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Microsecond)
	hi := int64(2000)
	item := domain.Item{
		ID:                uuid.New(),
		OwnerID:           ownerID,
		Title:             "Item " + uniqueSuffix(),
		Category:          domain.CategoryBooks,
		Condition:         domain.ConditionGood,
		PhotoRefs:         []string{},
		Value:             domain.ValueRange{Min: 1000, Max: &hi},
		DesiredCategories: []domain.Category{domain.CategoryMusic},
		Active:            true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	for _, opt := range opts {
		opt(&item)
	}

	desired := make([]string, len(item.DesiredCategories))
	for i, c := range item.DesiredCategories {
		desired[i] = string(c)
	}
	var lat, lon *float64
	if item.Geo != nil {
		lat, lon = &item.Geo.Lat, &item.Geo.Lon
	}

	_, err := pool.Exec(ctx,
		`INSERT INTO items (id, owner_id, title, category, condition, photo_refs, value_min, value_max,
		                    desired_categories, active, lat, lon, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		item.ID, item.OwnerID, item.Title, string(item.Category), string(item.Condition), item.PhotoRefs,
		item.Value.Min, item.Value.Max, desired, item.Active, lat, lon, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedItem insert item: %v", err)
	}

	return item
}

// SeedSwipe records a swipe from one item to another.
func SeedSwipe(t *testing.T, pool *pgxpool.Pool, from, to uuid.UUID, liked bool) domain.Swipe {
	t.Helper()

	s := domain.Swipe{
		ID:            uuid.New(),
		SwipingItemID: from,
		SwipedItemID:  to,
		Liked:         liked,
		CreatedAt:     time.Now().UTC().Truncate(time.Microsecond),
	}
	_, err := pool.Exec(context.Background(),
		`INSERT INTO swipes (id, swiping_item_id, swiped_item_id, liked, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		s.ID, s.SwipingItemID, s.SwipedItemID, s.Liked, s.CreatedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedSwipe insert swipe: %v", err)
	}
	return s
}

// SeedMatch creates a match between two items.
func SeedMatch(t *testing.T, pool *pgxpool.Pool, a, b uuid.UUID, completed bool) domain.Match {
	t.Helper()

	pair := domain.NewItemPair(a, b)
	now := time.Now().UTC().Truncate(time.Microsecond)
	m := domain.Match{
		ID:        uuid.New(),
		ItemAID:   pair.Low,
		ItemBID:   pair.High,
		CreatedAt: now,
		Completed: completed,
	}
	if completed {
		m.CompletedAt = &now
	}
	_, err := pool.Exec(context.Background(),
		`INSERT INTO matches (id, item_a_id, item_b_id, created_at, completed, completed_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		m.ID, m.ItemAID, m.ItemBID, m.CreatedAt, m.Completed, m.CompletedAt,
	)
	if err != nil {
		t.Fatalf("testhelper: SeedMatch insert match: %v", err)
	}
	return m
}

// Ring seeds three users whose items form one 3-way exchange by category:
// A offers books and wants music, B offers music and wants games, C offers
// games and wants books. It returns the items in that order.
func Ring(t *testing.T, pool *pgxpool.Pool) [3]domain.Item {
	t.Helper()

	u1, u2, u3 := SeedUser(t, pool), SeedUser(t, pool), SeedUser(t, pool)
	return [3]domain.Item{
		SeedItem(t, pool, u1.ID, WithCategory(domain.CategoryBooks), WithDesired(domain.CategoryMusic)),
		SeedItem(t, pool, u2.ID, WithCategory(domain.CategoryMusic), WithDesired(domain.CategoryGames)),
		SeedItem(t, pool, u3.ID, WithCategory(domain.CategoryGames), WithDesired(domain.CategoryBooks)),
	}
}
