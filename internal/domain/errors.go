package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrConflict      = errors.New("conflict")

	// ErrAlreadyTerminal is returned when acting on an opportunity that has
	// already left the active state (or was already dismissed by the caller).
	ErrAlreadyTerminal = errors.New("already terminal")
	// ErrTransient marks store failures that may succeed on retry.
	ErrTransient = errors.New("transient store error")
	// ErrDegenerateCandidate marks a candidate whose participants became
	// invalid between discovery and commit.
	ErrDegenerateCandidate = errors.New("degenerate candidate")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}

// SwipeRejectReason is the user-visible reason a swipe was refused.
type SwipeRejectReason string

const (
	SwipeRejectSelf          SwipeRejectReason = "self_swipe"
	SwipeRejectDuplicate     SwipeRejectReason = "duplicate_swipe"
	SwipeRejectInvalidTarget SwipeRejectReason = "invalid_target"
	SwipeRejectNotOwner      SwipeRejectReason = "not_owner"
	SwipeRejectInactiveItem  SwipeRejectReason = "inactive_item"
	SwipeRejectUnknownItem   SwipeRejectReason = "unknown_item"
)

// SwipeRejection is a validation failure of recordSwipe carrying a reason code.
type SwipeRejection struct {
	Reason  SwipeRejectReason
	Message string
}

func (e *SwipeRejection) Error() string {
	return fmt.Sprintf("swipe rejected: %s: %s", e.Reason, e.Message)
}

func (e *SwipeRejection) Unwrap() error { return ErrValidation }

// NewSwipeRejection creates a SwipeRejection.
func NewSwipeRejection(reason SwipeRejectReason, message string) *SwipeRejection {
	return &SwipeRejection{Reason: reason, Message: message}
}

// IsTransient reports whether err is worth retrying.
func IsTransient(err error) bool {
	return errors.Is(err, ErrTransient)
}
