// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Layer file and environment overrides in Load.
// - External errors must be wrapped via this package's error helpers.
package config

import "strings"

// Config contains process configuration. Immutable after startup.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DataDir is the root directory holding one CSV file per table.
	DataDir string `koanf:"data_dir"`

	// Tables is the comma-separated list of table identifiers. Each is
	// trimmed and lower-cased; the set is fixed for the process.
	Tables string `koanf:"tables"`

	// Capacity caps the number of retained entries per table.
	Capacity int `koanf:"capacity"`

	// RequireProof enables submission proof binding.
	RequireProof bool `koanf:"require_proof"`

	// ProofSalt is the separator/salt string mixed into the proof
	// digest. Only consulted when RequireProof is set.
	ProofSalt string `koanf:"proof_salt"`

	// RecordTime adds a unix-seconds time column to the table schema.
	// Fixed per deployment; flipping it does not migrate old files.
	RecordTime bool `koanf:"record_time"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:     "info",
		Addr:         ":8080",
		DataDir:      "data",
		Tables:       "highscores",
		Capacity:     100,
		RequireProof: false,
		ProofSalt:    "-UwU-",
		RecordTime:   false,
	}
}

// TableNames splits the configured table list on commas. Normalization
// and deduplication happen in the registry.
func (c *Config) TableNames() []string {
	return strings.Split(c.Tables, ",")
}
