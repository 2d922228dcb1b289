package user

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/heartmarshall/swapmatch-backend/internal/domain"
)

const (
	maxDisplayNameLen = 255
	maxAvatarURLLen   = 512
)

// SaveProfileInput holds parameters for the profile save operation.
type SaveProfileInput struct {
	DisplayName string
	AvatarURL   *string
	HomeGeo     *domain.GeoPoint
}

// Validate validates the save profile input.
func (i SaveProfileInput) Validate() error {
	var errs []domain.FieldError

	name := strings.TrimSpace(i.DisplayName)
	if name == "" {
		errs = append(errs, domain.FieldError{Field: "display_name", Message: "required"})
	} else if utf8.RuneCountInString(name) > maxDisplayNameLen {
		errs = append(errs, domain.FieldError{Field: "display_name", Message: "too long"})
	}

	if i.AvatarURL != nil {
		if len(*i.AvatarURL) > maxAvatarURLLen {
			errs = append(errs, domain.FieldError{Field: "avatar_url", Message: "too long"})
		} else if u, err := url.Parse(*i.AvatarURL); err != nil || (u.Scheme != "https" && u.Scheme != "http") || u.Host == "" {
			errs = append(errs, domain.FieldError{Field: "avatar_url", Message: "must be an http(s) url"})
		}
	}

	if i.HomeGeo != nil && !i.HomeGeo.IsValid() {
		errs = append(errs, domain.FieldError{Field: "home_geo", Message: "coordinates out of range"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}
