// Package storage owns the durable CSV representation of each table.
package storage

import (
	"context"

	"github.com/okian/podium/internal/domain/model"
)

// Store provides read/write access to a table's durable snapshot.
type Store interface {
	// Load reads the durable file for table. If the file does not exist
	// it creates an empty one and returns an empty slice. Malformed
	// content fails with ErrCorruptTable; rows are never dropped or
	// coerced. I/O failures fail with ErrStorageUnavailable.
	Load(ctx context.Context, table string) ([]model.Entry, error)

	// Save replaces the durable file for table with entries. The write
	// is a single logical replace; a concurrent reader never observes a
	// mix of old and new rows. I/O failures fail with
	// ErrStorageUnavailable. No internal retries.
	Save(ctx context.Context, table string, entries []model.Entry) error
}
