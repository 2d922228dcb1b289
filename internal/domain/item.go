package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// ValueRange is the owner's declared value of an item in minor currency units.
// Max is nil for a single-point declaration.
type ValueRange struct {
	Min int64
	Max *int64
}

// Upper returns Max, or Min when no upper bound was declared.
func (v ValueRange) Upper() int64 {
	if v.Max == nil {
		return v.Min
	}
	return *v.Max
}

// GeoPoint is a WGS84 coordinate in degrees.
type GeoPoint struct {
	Lat float64
	Lon float64
}

// Item is a listing that can be offered in an exchange.
type Item struct {
	ID                uuid.UUID
	OwnerID           uuid.UUID
	Title             string
	Category          Category
	Condition         Condition
	PhotoRefs         []string
	Value             ValueRange
	DesiredCategories []Category
	Active            bool
	Geo               *GeoPoint
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Wants reports whether the item's owner would accept an item of category c.
func (i *Item) Wants(c Category) bool {
	return slices.Contains(i.DesiredCategories, c)
}

// Swipe is a one-directional like/pass signal from one item to another.
type Swipe struct {
	ID            uuid.UUID
	SwipingItemID uuid.UUID
	SwipedItemID  uuid.UUID
	Liked         bool
	CreatedAt     time.Time
}

// Match is a confirmed two-party exchange formed from reciprocal likes.
// ItemAID < ItemBID always holds; see NewItemPair.
type Match struct {
	ID          uuid.UUID
	ItemAID     uuid.UUID
	ItemBID     uuid.UUID
	CreatedAt   time.Time
	Completed   bool
	CompletedAt *time.Time
}

// Pair returns the unordered item pair of the match.
func (m *Match) Pair() ItemPair {
	return NewItemPair(m.ItemAID, m.ItemBID)
}
