package swipe

import (
	"github.com/google/uuid"

	"github.com/heartmarshall/swapmatch-backend/internal/domain"
)

// RecordSwipeInput holds the parameters of a swipe.
type RecordSwipeInput struct {
	SwipingItemID uuid.UUID
	SwipedItemID  uuid.UUID
	Liked         bool
}

// Validate checks all fields and collects all errors.
func (i RecordSwipeInput) Validate() error {
	var errs []domain.FieldError
	if i.SwipingItemID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "swiping_item_id", Message: "required"})
	}
	if i.SwipedItemID == uuid.Nil {
		errs = append(errs, domain.FieldError{Field: "swiped_item_id", Message: "required"})
	}
	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	if i.SwipingItemID == i.SwipedItemID {
		return domain.NewSwipeRejection(domain.SwipeRejectSelf, "an item cannot swipe on itself")
	}
	return nil
}
