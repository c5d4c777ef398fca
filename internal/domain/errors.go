package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a duplicate resource.
	ErrAlreadyExists = errors.New("already exists")
	// ErrForbidden signals that the caller's role lacks the required capability.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidQuery signals a malformed browse request (bad cursor, bad limit).
	ErrInvalidQuery = errors.New("invalid query")

	// ErrConfiguration signals a programmer mistake in facet wiring.
	// It is never caused by record data or user input.
	ErrConfiguration = errors.New("facet configuration error")
	// ErrUnknownFacet signals a reference to a facet that is not declared.
	ErrUnknownFacet = fmt.Errorf("%w: unknown facet", ErrConfiguration)
	// ErrFacetKind signals a kind-specific operation applied to a facet of another kind.
	ErrFacetKind = fmt.Errorf("%w: wrong facet kind", ErrConfiguration)
)

// FacetError wraps ErrUnknownFacet or ErrFacetKind with the offending facet.
type FacetError struct {
	Field string
	Want  string // expected kind, empty for ErrUnknownFacet
	Got   string // actual kind, empty for ErrUnknownFacet
	err   error
}

func (e *FacetError) Error() string {
	if e.Want == "" {
		return fmt.Sprintf("%s %q", e.err.Error(), e.Field)
	}
	return fmt.Sprintf("%s: facet %q is %s, want %s", e.err.Error(), e.Field, e.Got, e.Want)
}

func (e *FacetError) Unwrap() error { return e.err }

// NewUnknownFacet creates an unknown facet error.
func NewUnknownFacet(field string) error {
	return &FacetError{Field: field, err: ErrUnknownFacet}
}

// NewFacetKindMismatch creates a wrong facet kind error.
func NewFacetKindMismatch(field, want, got string) error {
	return &FacetError{Field: field, Want: want, Got: got, err: ErrFacetKind}
}
