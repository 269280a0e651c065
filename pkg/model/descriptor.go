package model

import (
	"sort"
	"strings"
	"time"
)

// TreeEntry maps one path to the hash of its content
type TreeEntry struct {
	Path string `yaml:"path" json:"path"`
	Hash Hash   `yaml:"hash" json:"hash"`
}

// TreeDescriptor is the serialized form of a tree: the sorted list of its
// entries
type TreeDescriptor struct {
	Entries []TreeEntry `yaml:"entries" json:"entries"`
}

// CommitDescriptor is the serialized form of a commit
type CommitDescriptor struct {
	Tree      Hash      `yaml:"tree" json:"tree"`
	Parents   []Hash    `yaml:"parents,omitempty" json:"parents,omitempty"`
	Message   string    `yaml:"message" json:"message"`
	Timestamp time.Time `yaml:"timestamp" json:"timestamp"`
}

// TreeHash computes the content hash of a tree from its entries. The
// entries are canonicalized (sorted by path) first, so the hash does not
// depend on input order.
func TreeHash(entries []TreeEntry) Hash {
	sorted := make([]TreeEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	var b strings.Builder
	b.WriteString("tree\n")
	for _, e := range sorted {
		b.WriteString(e.Path)
		b.WriteByte(0)
		b.WriteString(string(e.Hash))
		b.WriteByte('\n')
	}
	return HashBytes([]byte(b.String()))
}

// Digest computes the content hash of a commit
func (c CommitDescriptor) Digest() Hash {
	var b strings.Builder
	b.WriteString("commit\n")
	b.WriteString(string(c.Tree))
	b.WriteByte('\n')
	for _, p := range c.Parents {
		b.WriteString(string(p))
		b.WriteByte('\n')
	}
	b.WriteString(c.Message)
	b.WriteByte('\n')
	b.WriteString(c.Timestamp.UTC().Format(time.RFC3339Nano))
	return HashBytes([]byte(b.String()))
}
