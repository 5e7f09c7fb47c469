package records

import "errors"

// Sentinel kinds for record store errors.
var (
	// ErrConflict means the stored version moved between the caller's
	// Load and Save. Callers re-load and retry.
	ErrConflict = errors.New("collection version conflict")
)
