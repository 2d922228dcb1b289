package domain

import (
	"time"

	"github.com/google/uuid"
)

// Participant is one (user, item) position in an exchange cycle. In cycle
// order, each participant's item is wanted by the next participant.
type Participant struct {
	UserID uuid.UUID
	ItemID uuid.UUID
}

// SwapOpportunity is a speculative 2- or 3-party exchange produced by discovery.
type SwapOpportunity struct {
	ID           uuid.UUID
	CycleType    CycleType
	Participants []Participant
	Confidence   float64
	Status       OpportunityStatus
	ClosedReason *ClosedReason
	ClosedAt     *time.Time
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

// ItemIDs returns participant item ids in cycle order.
func (o *SwapOpportunity) ItemIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(o.Participants))
	for i, p := range o.Participants {
		ids[i] = p.ItemID
	}
	return ids
}

// Key returns the unordered participant-set key.
func (o *SwapOpportunity) Key() string {
	return ParticipantKey(o.ItemIDs())
}

// HasUser reports whether userID holds any position in the cycle.
func (o *SwapOpportunity) HasUser(userID uuid.UUID) bool {
	for _, p := range o.Participants {
		if p.UserID == userID {
			return true
		}
	}
	return false
}

// IsExpiredAt reports whether the TTL has elapsed at t.
func (o *SwapOpportunity) IsExpiredAt(t time.Time) bool {
	return !t.Before(o.ExpiresAt)
}

// WellFormed checks participant count, cycle type agreement and distinctness
// of items and users. Item activity is checked against the store, not here.
func (o *SwapOpportunity) WellFormed() bool {
	want, ok := CycleTypeForSize(len(o.Participants))
	if !ok || want != o.CycleType {
		return false
	}
	items := make(map[uuid.UUID]struct{}, len(o.Participants))
	users := make(map[uuid.UUID]struct{}, len(o.Participants))
	for _, p := range o.Participants {
		items[p.ItemID] = struct{}{}
		users[p.UserID] = struct{}{}
	}
	return len(items) == len(o.Participants) && len(users) == len(o.Participants)
}

// RunReport summarizes one discovery cycle.
type RunReport struct {
	SnapshotTime time.Time     `json:"snapshot_time" yaml:"snapshot_time"`
	Created      int           `json:"created" yaml:"created"`
	Expired      int           `json:"expired" yaml:"expired"`
	Converted    int           `json:"converted" yaml:"converted"`
	Dropped      int           `json:"dropped" yaml:"dropped"`
	Candidates   int           `json:"candidates" yaml:"candidates"`
	Skipped      bool          `json:"skipped" yaml:"skipped"`
	Aborted      bool          `json:"aborted" yaml:"aborted"`
	Duration     time.Duration `json:"duration" yaml:"duration"`
}
