package rest

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/heartmarshall/swapmatch-backend/internal/service/swipe"
)

type swipeService interface {
	RecordSwipe(ctx context.Context, input swipe.RecordSwipeInput) (*swipe.Result, error)
}

// SwipeHandler serves POST /swipes.
type SwipeHandler struct {
	svc swipeService
	log *slog.Logger
}

func NewSwipeHandler(svc swipeService, logger *slog.Logger) *SwipeHandler {
	return &SwipeHandler{svc: svc, log: logger.With("handler", "swipe")}
}

type swipeRequest struct {
	SwipingItemID uuid.UUID `json:"swiping_item_id"`
	SwipedItemID  uuid.UUID `json:"swiped_item_id"`
	Liked         *bool     `json:"liked"`
}

type swipeResponse struct {
	MatchCreated bool       `json:"match_created"`
	MatchID      *uuid.UUID `json:"match_id,omitempty"`
}

// Record handles POST /swipes.
func (h *SwipeHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req swipeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Liked == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:  "validation failed",
			Fields: []fieldErrorEntry{{Field: "liked", Message: "required"}},
		})
		return
	}

	res, err := h.svc.RecordSwipe(r.Context(), swipe.RecordSwipeInput{
		SwipingItemID: req.SwipingItemID,
		SwipedItemID:  req.SwipedItemID,
		Liked:         *req.Liked,
	})
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}

	resp := swipeResponse{MatchCreated: res.MatchCreated}
	if res.Match != nil {
		resp.MatchID = &res.Match.ID
	}
	writeJSON(w, http.StatusOK, resp)
}
