package articles

import "errors"

var (
	// ErrFieldMissing indicates a required article element was absent from
	// the page. Structural absence is never retried.
	ErrFieldMissing = errors.New("required field missing")

	// ErrValidation indicates an extracted article failed its invariants.
	// Content errors are never retried.
	ErrValidation = errors.New("article validation failed")
)
