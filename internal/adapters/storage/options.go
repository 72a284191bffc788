package storage

// Option applies a configuration option to the CSVStore.
type Option func(*CSVStore)

// WithTimestamps switches the column schema to name,score,time. The
// schema is fixed for the lifetime of the store; changing it does not
// migrate existing files.
func WithTimestamps(enabled bool) Option {
	return func(s *CSVStore) {
		s.withTime = enabled
	}
}
