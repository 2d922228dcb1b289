package rest

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/swapmatch-backend/internal/domain"
	"github.com/heartmarshall/swapmatch-backend/internal/service/user"
)

type profileService interface {
	GetProfile(ctx context.Context) (*domain.UserProfile, error)
	SaveProfile(ctx context.Context, input user.SaveProfileInput) (*domain.UserProfile, error)
}

// ProfileHandler serves GET and PUT /me.
type ProfileHandler struct {
	svc profileService
	log *slog.Logger
}

func NewProfileHandler(svc profileService, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{svc: svc, log: logger.With("handler", "profile")}
}

type geoJSON struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type profileRequest struct {
	DisplayName string   `json:"display_name"`
	AvatarURL   *string  `json:"avatar_url"`
	HomeGeo     *geoJSON `json:"home_geo"`
}

type profileResponse struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	AvatarURL   *string   `json:"avatar_url,omitempty"`
	HomeGeo     *geoJSON  `json:"home_geo,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Get handles GET /me.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetProfile(r.Context())
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileResponse(p))
}

// Save handles PUT /me.
func (h *ProfileHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	in := user.SaveProfileInput{DisplayName: req.DisplayName, AvatarURL: req.AvatarURL}
	if req.HomeGeo != nil {
		in.HomeGeo = &domain.GeoPoint{Lat: req.HomeGeo.Lat, Lon: req.HomeGeo.Lon}
	}

	p, err := h.svc.SaveProfile(r.Context(), in)
	if err != nil {
		handleError(h.log, w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toProfileResponse(p))
}

func toProfileResponse(p *domain.UserProfile) profileResponse {
	resp := profileResponse{
		ID:          p.ID,
		DisplayName: p.DisplayName,
		AvatarURL:   p.AvatarURL,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.HomeGeo != nil {
		resp.HomeGeo = &geoJSON{Lat: p.HomeGeo.Lat, Lon: p.HomeGeo.Lon}
	}
	return resp
}
