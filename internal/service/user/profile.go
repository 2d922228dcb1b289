package user

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/heartmarshall/swapmatch-backend/internal/domain"
	"github.com/heartmarshall/swapmatch-backend/pkg/ctxutil"
)

// GetProfile returns the caller's profile, or ErrNotFound until the first
// SaveProfile.
func (s *Service) GetProfile(ctx context.Context) (*domain.UserProfile, error) {
	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	profile, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("user.GetProfile: %w", err)
	}

	return profile, nil
}

// SaveProfile creates or replaces the authenticated user's profile. Identity
// lives in the token issuer, so the first save is what makes the user known
// here and lets them own items.
func (s *Service) SaveProfile(ctx context.Context, input SaveProfileInput) (*domain.UserProfile, error) {
	input.DisplayName = strings.TrimSpace(input.DisplayName)
	if err := input.Validate(); err != nil {
		return nil, err
	}

	userID, ok := ctxutil.UserIDFromCtx(ctx)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	profile, err := s.users.Upsert(ctx, userID, input.DisplayName, input.AvatarURL, input.HomeGeo)
	if err != nil {
		return nil, fmt.Errorf("user.SaveProfile: %w", err)
	}

	s.log.InfoContext(ctx, "profile saved",
		slog.String("user_id", userID.String()),
		slog.Bool("home_geo", input.HomeGeo != nil))

	return profile, nil
}
