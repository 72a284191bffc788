package registry

import "errors"

// Sentinel kinds for registry errors.
var (
	ErrNoTables = errors.New("no tables configured")
)
