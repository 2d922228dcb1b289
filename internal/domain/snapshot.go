package domain

import (
	"time"

	"github.com/google/uuid"
)

// DirectedPair is an ordered (from, to) item pair, used for likes.
type DirectedPair struct {
	From uuid.UUID
	To   uuid.UUID
}

// Snapshot is a read-only view of the preference graph taken at one instant.
// Discovery only ever reads it; items reference each other by id.
type Snapshot struct {
	TakenAt time.Time
	// Items holds active items. Geo is already resolved (owner home geo
	// fallback applied).
	Items []Item
	// ActiveListings counts active items per owner.
	ActiveListings map[uuid.UUID]int
	// NegativePairs holds every unordered pair with a pass swipe in either direction.
	NegativePairs map[ItemPair]struct{}
	// Likes holds every liked swipe.
	Likes map[DirectedPair]struct{}
	// MatchedPairs holds every matched pair, completed or not.
	MatchedPairs map[ItemPair]struct{}
	// MatchedItems holds every item that participates in any match.
	MatchedItems map[uuid.UUID]struct{}
	// ActiveKeys holds participant keys of active opportunities.
	ActiveKeys map[string]struct{}
	// ActiveParticipation counts active opportunities per item.
	ActiveParticipation map[uuid.UUID]int
	// CooldownKeys holds participant keys dismissed within the cool-down window.
	CooldownKeys map[string]struct{}
}

// NewSnapshot returns an empty snapshot with all maps allocated.
func NewSnapshot(takenAt time.Time) *Snapshot {
	return &Snapshot{
		TakenAt:             takenAt,
		ActiveListings:      make(map[uuid.UUID]int),
		NegativePairs:       make(map[ItemPair]struct{}),
		Likes:               make(map[DirectedPair]struct{}),
		MatchedPairs:        make(map[ItemPair]struct{}),
		MatchedItems:        make(map[uuid.UUID]struct{}),
		ActiveKeys:          make(map[string]struct{}),
		ActiveParticipation: make(map[uuid.UUID]int),
		CooldownKeys:        make(map[string]struct{}),
	}
}

// AddItem appends an active item and bumps its owner's listing count.
func (s *Snapshot) AddItem(it Item) {
	s.Items = append(s.Items, it)
	s.ActiveListings[it.OwnerID]++
}

// AddSwipe records a swipe edge.
func (s *Snapshot) AddSwipe(from, to uuid.UUID, liked bool) {
	if liked {
		s.Likes[DirectedPair{From: from, To: to}] = struct{}{}
		return
	}
	s.NegativePairs[NewItemPair(from, to)] = struct{}{}
}

// AddMatch records a match between a and b.
func (s *Snapshot) AddMatch(a, b uuid.UUID) {
	s.MatchedPairs[NewItemPair(a, b)] = struct{}{}
	s.MatchedItems[a] = struct{}{}
	s.MatchedItems[b] = struct{}{}
}

// AddActive records an active opportunity over itemIDs.
func (s *Snapshot) AddActive(itemIDs []uuid.UUID) {
	s.ActiveKeys[ParticipantKey(itemIDs)] = struct{}{}
	for _, id := range itemIDs {
		s.ActiveParticipation[id]++
	}
}

// AddCooldown records a recently dismissed participant set.
func (s *Snapshot) AddCooldown(key string) {
	s.CooldownKeys[key] = struct{}{}
}

// Negative reports whether a or b passed on the other.
func (s *Snapshot) Negative(a, b uuid.UUID) bool {
	_, ok := s.NegativePairs[NewItemPair(a, b)]
	return ok
}

// Matched reports whether a and b form a match.
func (s *Snapshot) Matched(a, b uuid.UUID) bool {
	_, ok := s.MatchedPairs[NewItemPair(a, b)]
	return ok
}

// Reciprocal reports whether a and b liked each other.
func (s *Snapshot) Reciprocal(a, b uuid.UUID) bool {
	_, ab := s.Likes[DirectedPair{From: a, To: b}]
	_, ba := s.Likes[DirectedPair{From: b, To: a}]
	return ab && ba
}

// QualifiesAsPair reports whether a and b are, or are about to become, a
// direct 2-way match.
func (s *Snapshot) QualifiesAsPair(a, b uuid.UUID) bool {
	return s.Matched(a, b) || s.Reciprocal(a, b)
}
