package storage

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ErrNotFound is returned when a lookup references an id that does not
// exist. Failing operations leave the store unchanged.
var ErrNotFound = errors.New("record not found")

// ErrInvalidTransition is reserved for reading-status workflow rules.
// Status changes are currently unrestricted, so nothing returns it yet.
var ErrInvalidTransition = errors.New("invalid status transition")

// ValidationError reports malformed or out-of-range fields. It is always
// raised before any write is applied.
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

// ReferentialIntegrityError reports a delete blocked by dependent books.
type ReferentialIntegrityError struct {
	Kind       string
	Dependents int
}

func (e *ReferentialIntegrityError) Error() string {
	return fmt.Sprintf("%s is referenced by %d book(s)", e.Kind, e.Dependents)
}
