package domain

import (
	"time"

	"github.com/google/uuid"
)

// EventType names an engine event delivered to the notification hook.
type EventType string

const (
	EventMatchCreated         EventType = "match_created"
	EventOpportunityCreated   EventType = "opportunity_created"
	EventOpportunityExpired   EventType = "opportunity_expired"
	EventOpportunityConverted EventType = "opportunity_converted"
	EventOpportunityDismissed EventType = "opportunity_dismissed"
)

func (t EventType) String() string { return string(t) }

// Event is the payload published for a match or opportunity change.
// UserIDs lists the users that should be notified.
type Event struct {
	Type          EventType    `json:"type"`
	MatchID       *uuid.UUID   `json:"match_id,omitempty"`
	OpportunityID *uuid.UUID   `json:"opportunity_id,omitempty"`
	ItemIDs       []uuid.UUID  `json:"item_ids"`
	UserIDs       []uuid.UUID  `json:"user_ids"`
	Reason        ClosedReason `json:"reason,omitempty"`
	OccurredAt    time.Time    `json:"occurred_at"`
}

// NewMatchEvent builds a match_created event.
func NewMatchEvent(m *Match, users []uuid.UUID, at time.Time) Event {
	id := m.ID
	return Event{
		Type:       EventMatchCreated,
		MatchID:    &id,
		ItemIDs:    []uuid.UUID{m.ItemAID, m.ItemBID},
		UserIDs:    users,
		OccurredAt: at,
	}
}

// NewOpportunityEvent builds an opportunity lifecycle event.
func NewOpportunityEvent(t EventType, o *SwapOpportunity, at time.Time) Event {
	id := o.ID
	ev := Event{
		Type:          t,
		OpportunityID: &id,
		ItemIDs:       make([]uuid.UUID, 0, len(o.Participants)),
		UserIDs:       make([]uuid.UUID, 0, len(o.Participants)),
		OccurredAt:    at,
	}
	for _, p := range o.Participants {
		ev.ItemIDs = append(ev.ItemIDs, p.ItemID)
		ev.UserIDs = append(ev.UserIDs, p.UserID)
	}
	if o.ClosedReason != nil {
		ev.Reason = *o.ClosedReason
	}
	return ev
}
