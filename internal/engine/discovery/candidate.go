package discovery

import (
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/swapmatch-backend/internal/domain"
	"github.com/heartmarshall/swapmatch-backend/internal/engine/scoring"
)

// Candidate is a scored exchange cycle awaiting commit. Participants are in
// cycle order: each item is handed to the owner of the next one.
type Candidate struct {
	CycleType     domain.CycleType     `json:"cycle_type"`
	Participants  []domain.Participant `json:"participants"`
	Confidence    float64              `json:"confidence"`
	Scores        scoring.SubScores    `json:"scores"`
	Key           string               `json:"key"`
	Partition     int                  `json:"partition"`
	OldestListing time.Time            `json:"oldest_listing"`
	MinItemID     uuid.UUID            `json:"min_item_id"`
}

// ItemIDs returns participant item ids in cycle order.
func (c *Candidate) ItemIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(c.Participants))
	for i, p := range c.Participants {
		ids[i] = p.ItemID
	}
	return ids
}

// Opportunity converts the candidate into an active opportunity created at now.
func (c *Candidate) Opportunity(now time.Time, ttl time.Duration) *domain.SwapOpportunity {
	return &domain.SwapOpportunity{
		ID:           uuid.New(),
		CycleType:    c.CycleType,
		Participants: append([]domain.Participant(nil), c.Participants...),
		Confidence:   c.Confidence,
		Status:       domain.OpportunityStatusActive,
		CreatedAt:    now,
		ExpiresAt:    now.Add(ttl),
	}
}

// better reports whether a ranks ahead of b: higher confidence, then older
// listing, then lower item id. The key breaks any remaining tie.
func better(a, b *Candidate) bool {
	if a.Confidence != b.Confidence {
		return a.Confidence > b.Confidence
	}
	if !a.OldestListing.Equal(b.OldestListing) {
		return a.OldestListing.Before(b.OldestListing)
	}
	if c := domain.CompareIDs(a.MinItemID, b.MinItemID); c != 0 {
		return c < 0
	}
	return a.Key < b.Key
}
