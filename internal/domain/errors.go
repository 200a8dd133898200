package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrStoreUnavailable indicates the store holds no catalog or could not be read.
	ErrStoreUnavailable = errors.New("catalog store unavailable")

	// ErrMalformedCatalog indicates the stored catalog could not be decoded.
	ErrMalformedCatalog = errors.New("malformed catalog")

	// ErrValidationFailed indicates a catalog edit was rejected.
	ErrValidationFailed = errors.New("catalog validation failed")

	// ErrPersistenceFailed indicates a validated catalog could not be encoded or written.
	ErrPersistenceFailed = errors.New("catalog persistence failed")

	// ErrSelectionMiss indicates there is no model to evaluate against.
	ErrSelectionMiss = errors.New("no model data")
)

// ValidationError carries every problem found in one submission together with
// the candidate catalog, so the caller can redisplay what was typed.
type ValidationError struct {
	Errors    []string
	Candidate *Catalog
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrValidationFailed, strings.Join(e.Errors, "; "))
}

// Unwrap lets errors.Is match ErrValidationFailed.
func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}
