package model

import "fmt"

// Mutation is a single tree edit: the path and the desired content hash.
// A nil hash deletes the path.
type Mutation struct {
	Path string
	Hash Hash
}

// IsDelete tells whether this mutation removes the path
func (m Mutation) IsDelete() bool {
	return m.Hash.IsNil()
}

// MutationSet is an ordered collection of tree edits.
//
// Invariant: no duplicate paths. The core builder enforces it, backends
// re-check it through Validate since duplicates are a contract violation
// of the underlying tree primitive.
type MutationSet []Mutation

// Paths of all mutations, in set order
func (s MutationSet) Paths() []string {
	paths := make([]string, 0, len(s))
	for _, m := range s {
		paths = append(paths, m.Path)
	}
	return paths
}

// Validate the set invariants
func (s MutationSet) Validate() error {
	seen := make(map[string]struct{}, len(s))
	for _, m := range s {
		if m.Path == "" {
			return fmt.Errorf("mutation with empty path")
		}
		if _, ok := seen[m.Path]; ok {
			return fmt.Errorf("duplicate path in mutation set: %q", m.Path)
		}
		seen[m.Path] = struct{}{}
	}
	return nil
}
