// Package loadgen generates synthetic score traffic against a running
// podium service and reports how the submissions fared.
package loadgen

import "time"

// Config holds configuration for a load run.
type Config struct {
	BaseURL     string        // Base URL of the service
	Table       string        // Table to submit against
	Submissions int           // Number of submissions to generate
	Workers     int           // Number of concurrent submitters
	Timeout     time.Duration // HTTP request timeout
	MinScore    int64         // Lower bound of generated scores (inclusive)
	MaxScore    int64         // Upper bound of generated scores (inclusive)
	ProofSalt   string        // When set, a proof value is attached to each submission
}

// Submission is one generated score post.
type Submission struct {
	Name  string `json:"name"`
	Score int64  `json:"score"`
	Proof string `json:"proof,omitempty"`
}

// Stats accumulates the outcome of a run.
type Stats struct {
	StartTime time.Time
	Generated int
	Accepted  int64
	Rejected  int64
	Failed    int64
	BoardSize int
}
