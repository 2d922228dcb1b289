// Package user manages the caller's public profile: the display name and
// avatar shown next to their items, and the home location used for items
// that carry no coordinates of their own.
package user

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/heartmarshall/swapmatch-backend/internal/domain"
)

// userRepo defines the user repository interface needed by user service.
type userRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.UserProfile, error)
	Upsert(ctx context.Context, id uuid.UUID, displayName string, avatarURL *string, home *domain.GeoPoint) (*domain.UserProfile, error)
}

// Service implements profile operations for the authenticated caller.
type Service struct {
	log   *slog.Logger
	users userRepo
}

// NewService creates a new user service instance.
func NewService(logger *slog.Logger, users userRepo) *Service {
	return &Service{
		log:   logger.With("service", "user"),
		users: users,
	}
}
