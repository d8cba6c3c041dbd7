package recordstore

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned by GetByID when the identity is absent.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidID is returned when an identity cannot be coerced to an
	// integer. Raised before any network call.
	ErrInvalidID = errors.New("invalid record id")

	// ErrRemoteFailure covers transport errors and backend-reported
	// failures (top-level success:false).
	ErrRemoteFailure = errors.New("record store failure")
)

// FieldValidationError is a business-rule rejection reported by the store
// for one field of a submitted record. When a batch reports several, only
// the first is surfaced; the rest are logged.
type FieldValidationError struct {
	Table   string
	Field   string
	Message string
}

func (e *FieldValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", e.Table, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", e.Table, e.Field, e.Message)
}
