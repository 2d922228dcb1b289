package domain

import (
	"bytes"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// ItemPair is an unordered pair of item IDs stored in canonical order
// (Low < High by byte comparison, which is also PostgreSQL's uuid order).
type ItemPair struct {
	Low  uuid.UUID
	High uuid.UUID
}

// NewItemPair builds the canonical pair for a and b in either order.
func NewItemPair(a, b uuid.UUID) ItemPair {
	if CompareIDs(a, b) > 0 {
		a, b = b, a
	}
	return ItemPair{Low: a, High: b}
}

// Key is the natural dedup key of the pair.
func (p ItemPair) Key() string {
	return p.Low.String() + ":" + p.High.String()
}

// Contains reports whether id is one of the pair's items.
func (p ItemPair) Contains(id uuid.UUID) bool {
	return p.Low == id || p.High == id
}

// CompareIDs orders UUIDs bytewise.
func CompareIDs(a, b uuid.UUID) int {
	return bytes.Compare(a[:], b[:])
}

// ParticipantKey returns the order-independent key of an item set. Two
// opportunities over the same items share a key regardless of cycle direction.
func ParticipantKey(itemIDs []uuid.UUID) string {
	ids := slices.Clone(itemIDs)
	slices.SortFunc(ids, CompareIDs)
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return strings.Join(parts, ",")
}
