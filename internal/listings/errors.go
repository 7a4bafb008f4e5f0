package listings

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated = errors.New("no current user")
	ErrForbidden       = errors.New("not allowed for this user")
	ErrNotFound        = errors.New("item not found")
	ErrConflict        = errors.New("item state conflict")
)

// Field names reported by ValidationError.
const (
	FieldTitle          = "title"
	FieldDescription    = "description"
	FieldCategory       = "category"
	FieldQuantity       = "quantity"
	FieldUnit           = "unit"
	FieldExpiresAt      = "expiresAt"
	FieldAvailableUntil = "availableUntil"
	FieldEstimatedValue = "estimatedValue"
	FieldStatus         = "status"
)

// ValidationError reports the first offending field of a rejected request.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}
