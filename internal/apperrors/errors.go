package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrStateConflict indicates that a record exists but is no longer in the
// stage/status the caller expected, so a guarded transition matched zero rows.
var ErrStateConflict = errors.New("record not in expected state")

// ErrTerminal indicates an attempt to edit or delete a record that has
// reached a terminal state (delivered, fully accepted, rejected).
var ErrTerminal = errors.New("record is in a terminal state")

// ErrForbidden indicates the authenticated user's role does not permit the action.
var ErrForbidden = errors.New("action not permitted for role")

// ExternalSyncError carries the HTTP status and raw body of a failed call to
// the external ERP bridge, so the outcome can be stored on the record.
type ExternalSyncError struct {
	StatusCode int
	Body       string
}

func (e *ExternalSyncError) Error() string {
	return fmt.Sprintf("external sync failed with status %d: %s", e.StatusCode, e.Body)
}
