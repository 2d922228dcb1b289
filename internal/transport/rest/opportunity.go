package rest

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/swapmatch-backend/internal/domain"
	"github.com/heartmarshall/swapmatch-backend/internal/service/opportunity"
	"github.com/heartmarshall/swapmatch-backend/internal/transport/dataloader"
)

type opportunityService interface {
	List(ctx context.Context, input opportunity.ListInput) ([]domain.SwapOpportunity, error)
	Dismiss(ctx context.Context, input opportunity.DismissInput) (*domain.SwapOpportunity, error)
}

// OpportunityHandler serves the caller's opportunity feed. It expects the
// dataloader middleware in front of List.
type OpportunityHandler struct {
	svc opportunityService
	log *slog.Logger
}

func NewOpportunityHandler(svc opportunityService, logger *slog.Logger) *OpportunityHandler {
	return &OpportunityHandler{svc: svc, log: logger.With("handler", "opportunity")}
}

type opportunityListResponse struct {
	Opportunities []opportunityView `json:"opportunities"`
}

type opportunityView struct {
	ID           uuid.UUID         `json:"id"`
	CycleType    string            `json:"cycle_type"`
	Confidence   float64           `json:"confidence"`
	Status       string            `json:"status"`
	CreatedAt    time.Time         `json:"created_at"`
	ExpiresAt    time.Time         `json:"expires_at"`
	Participants []participantView `json:"participants"`
}

// participantView is one position in the cycle; its item goes to GivesTo.
type participantView struct {
	User    userView  `json:"user"`
	Item    itemView  `json:"item"`
	GivesTo uuid.UUID `json:"gives_to"`
}

type userView struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name,omitempty"`
	AvatarURL   *string   `json:"avatar_url,omitempty"`
}

type itemView struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title,omitempty"`
	Category  string    `json:"category,omitempty"`
	Condition string    `json:"condition,omitempty"`
	PhotoRefs []string  `json:"photo_refs,omitempty"`
	ValueMin  *int64    `json:"value_min,omitempty"`
	ValueMax  *int64    `json:"value_max,omitempty"`
}

// List handles GET /opportunities?limit=N.
func (h *OpportunityHandler) List(w http.ResponseWriter, r *http.Request) {
	var input opportunity.ListInput
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		input.Limit = limit
	}

	opps, err := h.svc.List(r.Context(), input)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	views, err := renderOpportunities(r.Context(), opps)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, opportunityListResponse{Opportunities: views})
}

type dismissResponse struct {
	ID           uuid.UUID `json:"id"`
	Status       string    `json:"status"`
	ClosedReason *string   `json:"closed_reason,omitempty"`
}

// Dismiss handles POST /opportunities/{id}/dismiss.
func (h *OpportunityHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid opportunity id")
		return
	}

	opp, err := h.svc.Dismiss(r.Context(), opportunity.DismissInput{OpportunityID: id})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := dismissResponse{ID: opp.ID, Status: opp.Status.String()}
	if opp.ClosedReason != nil {
		reason := string(*opp.ClosedReason)
		resp.ClosedReason = &reason
	}
	writeJSON(w, http.StatusOK, resp)
}

// renderOpportunities resolves every profile and item through the request's
// loaders. All thunks are created before any is awaited so lookups batch.
func renderOpportunities(ctx context.Context, opps []domain.SwapOpportunity) ([]opportunityView, error) {
	loaders := dataloader.FromContext(ctx)

	type pending struct {
		profile func() (*domain.UserProfile, error)
		item    func() (*domain.Item, error)
	}
	thunks := make([][]pending, len(opps))
	for i, o := range opps {
		thunks[i] = make([]pending, len(o.Participants))
		for j, p := range o.Participants {
			thunks[i][j] = pending{
				profile: loaders.ProfileByUserID.Load(ctx, p.UserID),
				item:    loaders.ItemByID.Load(ctx, p.ItemID),
			}
		}
	}

	views := make([]opportunityView, len(opps))
	for i, o := range opps {
		v := opportunityView{
			ID:           o.ID,
			CycleType:    o.CycleType.String(),
			Confidence:   o.Confidence,
			Status:       o.Status.String(),
			CreatedAt:    o.CreatedAt,
			ExpiresAt:    o.ExpiresAt,
			Participants: make([]participantView, len(o.Participants)),
		}
		for j, p := range o.Participants {
			profile, err := thunks[i][j].profile()
			if err != nil {
				return nil, err
			}
			item, err := thunks[i][j].item()
			if err != nil {
				return nil, err
			}
			next := o.Participants[(j+1)%len(o.Participants)]
			v.Participants[j] = participantView{
				User:    toUserView(p.UserID, profile),
				Item:    toItemView(p.ItemID, item),
				GivesTo: next.UserID,
			}
		}
		views[i] = v
	}
	return views, nil
}

func toUserView(id uuid.UUID, p *domain.UserProfile) userView {
	if p == nil {
		return userView{ID: id}
	}
	return userView{ID: id, DisplayName: p.DisplayName, AvatarURL: p.AvatarURL}
}

func toItemView(id uuid.UUID, it *domain.Item) itemView {
	if it == nil {
		return itemView{ID: id}
	}
	minValue := it.Value.Min
	return itemView{
		ID:        id,
		Title:     it.Title,
		Category:  string(it.Category),
		Condition: string(it.Condition),
		PhotoRefs: it.PhotoRefs,
		ValueMin:  &minValue,
		ValueMax:  it.Value.Max,
	}
}
