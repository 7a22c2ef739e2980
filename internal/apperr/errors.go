// Package apperr holds the error taxonomy shared by services and handlers.
// Everything here is a client error recovered at the request boundary;
// transient store failures pass through untouched.
package apperr

import (
	"errors"
	"sort"
	"strings"
)

var (
	// ErrConflict marks a uniqueness violation on an add-type operation
	// (favorite/cart/subscription already present).
	ErrConflict = errors.New("already exists")

	// ErrNotInSet marks a remove on an absent membership or subscription.
	// Distinct from ErrNotFound: the referenced resource exists, the caller's
	// relation to it does not, and it maps to 400, not 404.
	ErrNotInSet = errors.New("not in set")

	// ErrNotFound marks a missing resource.
	ErrNotFound = errors.New("not found")

	// ErrForbidden marks an authorship check failure.
	ErrForbidden = errors.New("forbidden")
)

// ValidationError carries per-field problems of one request. It never
// partially applies: a draft that produces one is not persisted at all.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
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

// NewValidation builds a single-field ValidationError.
func NewValidation(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// AsValidation unwraps err into a *ValidationError if it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
