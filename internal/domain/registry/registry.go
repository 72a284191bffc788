// Package registry holds the fixed set of valid table names.
//
// The registry is built once at process start from configuration and is
// immutable afterwards. Every operation that receives a table id must be
// gated through Contains before any storage or cache access.
package registry

import "strings"

// Registry is the immutable set of configured table identifiers.
type Registry struct {
	names   []string
	members map[string]struct{}
}

// Normalize canonicalizes a table identifier: trimmed and lower-cased.
func Normalize(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}

// New builds a Registry from the configured identifiers. Each identifier
// is normalized; empty and duplicate identifiers are dropped. Returns
// ErrNoTables when nothing valid remains.
func New(ids []string) (*Registry, error) {
	r := &Registry{
		members: make(map[string]struct{}, len(ids)),
	}
	for _, id := range ids {
		id = Normalize(id)
		if id == "" {
			continue
		}
		if _, ok := r.members[id]; ok {
			continue
		}
		r.members[id] = struct{}{}
		r.names = append(r.names, id)
	}
	if len(r.names) == 0 {
		return nil, ErrNoTables
	}
	return r, nil
}

// Contains reports whether id names a configured table. The id is
// normalized before lookup.
func (r *Registry) Contains(id string) bool {
	_, ok := r.members[Normalize(id)]
	return ok
}

// Names returns the configured table identifiers in configuration order.
// The returned slice is a copy.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Len returns the number of configured tables.
func (r *Registry) Len() int {
	return len(r.names)
}
