package services

import (
	"errors"
	"sort"
	"strings"
)

// ErrInvalidCredentials is returned for both unknown identifiers and wrong
// passwords so callers cannot tell which identifiers exist.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrNotFound is returned for missing or inactive catalog records.
var ErrNotFound = errors.New("not found")

// ValidationError carries field-level messages for a rejected registration.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
