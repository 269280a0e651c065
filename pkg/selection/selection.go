// Package selection holds the view-state of a document selection: the set
// of chosen slugs and the edit-mode flag.
//
// Every transition returns a new value and leaves the receiver untouched,
// so a Set can be stored and compared like any other immutable snapshot of
// view state.
package selection

import "sort"

// Set is an immutable selection of document slugs
type Set struct {
	editing bool
	members map[string]struct{}
}

// New returns an empty selection, not in edit mode
func New() Set {
	return Set{}
}

func (s Set) clone() Set {
	members := make(map[string]struct{}, len(s.members)+1)
	for slug := range s.members {
		members[slug] = struct{}{}
	}
	return Set{editing: s.editing, members: members}
}

// Editing tells whether the selection is in edit mode
func (s Set) Editing() bool {
	return s.editing
}

// BeginEdit enters edit mode
func (s Set) BeginEdit() Set {
	next := s.clone()
	next.editing = true
	return next
}

// EndEdit leaves edit mode and drops the selection
func (s Set) EndEdit() Set {
	return Set{}
}

// With adds a slug to the selection
func (s Set) With(slug string) Set {
	next := s.clone()
	next.members[slug] = struct{}{}
	return next
}

// Without removes a slug from the selection
func (s Set) Without(slug string) Set {
	next := s.clone()
	delete(next.members, slug)
	return next
}

// Toggle flips the membership of a slug
func (s Set) Toggle(slug string) Set {
	if s.Contains(slug) {
		return s.Without(slug)
	}
	return s.With(slug)
}

// Clear empties the selection but keeps the edit mode
func (s Set) Clear() Set {
	return Set{editing: s.editing}
}

// Contains tells whether a slug is selected
func (s Set) Contains(slug string) bool {
	_, ok := s.members[slug]
	return ok
}

// Len is the number of selected slugs
func (s Set) Len() int {
	return len(s.members)
}

// Slugs yields the selected slugs, sorted
func (s Set) Slugs() []string {
	slugs := make([]string, 0, len(s.members))
	for slug := range s.members {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}
