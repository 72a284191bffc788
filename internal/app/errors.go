package app

import "errors"

// Sentinel kinds for engine errors.
var (
	// ErrUnknownTable marks a table id that is not in the registry.
	ErrUnknownTable = errors.New("table not found")

	// ErrProofMismatch marks a submission whose proof value does not
	// bind its name and score.
	ErrProofMismatch = errors.New("proof mismatch")

	// ErrInvalidEntry marks a candidate entry that fails basic
	// validation (empty name).
	ErrInvalidEntry = errors.New("invalid entry")
)
