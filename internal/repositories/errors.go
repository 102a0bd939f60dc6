package repositories

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a record does not exist or is hidden from the
// public catalog.
var ErrNotFound = errors.New("record not found")

// DuplicateError reports a unique-index collision on a user identifier. The
// database constraint is the authoritative signal; this error names the field
// for the caller.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s is already in use", e.Field)
}
