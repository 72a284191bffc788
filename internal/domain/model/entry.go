// Package model contains the core data types shared across the application.
package model

// Entry represents one retained highscore row: who scored, what they
// scored, and optionally when. Entries are immutable once stored; a
// table update always replaces the whole snapshot.
type Entry struct {
	// Name is the caller-supplied player name. Untrusted input; must be
	// non-empty but is otherwise stored verbatim.
	Name string `json:"name"`

	// Score is the submitted score. Only integers are accepted.
	Score int64 `json:"score"`

	// RecordedAt is the unix-seconds timestamp stamped at admission.
	// Zero when the deployment schema carries no time column.
	RecordedAt int64 `json:"time,omitempty"`
}

// CloneEntries returns an independent copy of entries so cached
// snapshots are never aliased to callers.
func CloneEntries(entries []Entry) []Entry {
	if entries == nil {
		return nil
	}
	out := make([]Entry, len(entries))
	copy(out, entries)
	return out
}
