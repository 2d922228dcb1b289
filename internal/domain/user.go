package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserProfile is the public face of an item owner used when rendering
// opportunities. HomeGeo backs items that carry no coordinates of their own.
type UserProfile struct {
	ID          uuid.UUID
	DisplayName string
	AvatarURL   *string
	HomeGeo     *GeoPoint
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
