package opportunity

import (
	"github.com/google/uuid"

	"github.com/heartmarshall/swapmatch-backend/internal/domain"
)

// ListInput holds the parameters for listing a user's opportunities.
// Limit 0, or anything above the configured cap, means the cap.
type ListInput struct {
	Limit int
}

// Validate checks all fields and collects all errors.
func (i ListInput) Validate() error {
	var errs []domain.FieldError
	if i.Limit < 0 {
		errs = append(errs, domain.FieldError{Field: "limit", Message: "must be non-negative"})
	}
	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// DismissInput holds the parameters for dismissing an opportunity.
type DismissInput struct {
	OpportunityID uuid.UUID
}

// Validate checks all fields and collects all errors.
func (i DismissInput) Validate() error {
	if i.OpportunityID == uuid.Nil {
		return domain.NewValidationError("opportunity_id", "required")
	}
	return nil
}
