package storage

import "errors"

// Sentinel kinds for storage errors.
var (
	// ErrCorruptTable marks a table file that does not parse. The file
	// is left untouched; repairing by dropping rows is not allowed.
	ErrCorruptTable = errors.New("table file corrupt")

	// ErrStorageUnavailable marks an I/O failure reading or writing the
	// table file. Retrying is the caller's responsibility.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
