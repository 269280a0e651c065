// Package memvcs implements the storage.Store interface fully in memory.
//
// Snapshot trees are immutable radix trees, so successive commits share
// structure instead of copying the whole path map. The backend is safe for
// concurrent use and is the reference implementation exercised by the core
// transaction tests.
package memvcs

import (
	"context"
	"fmt"
	"sync"
	"time"

	iradix "github.com/hashicorp/go-immutable-radix"

	"github.com/foliopress/folio/pkg/auth"
	"github.com/foliopress/folio/pkg/model"
	"github.com/foliopress/folio/pkg/storage"
	"github.com/foliopress/folio/pkg/storage/status"
)

var _ storage.Store = &Store{}

// Option configures the in-memory store
type Option func(*Store)

// Token sets the bearer token the store accepts. Without it any non-zero
// credential is accepted.
func Token(token string) Option {
	return func(s *Store) {
		s.token = token
	}
}

// Store is an in-memory git-style object store
type Store struct {
	mu    sync.RWMutex
	token string

	blobs   map[model.Hash][]byte
	trees   map[model.Hash]*iradix.Tree
	commits map[model.Hash]model.CommitDescriptor
	refs    map[string]model.Hash
}

// New in-memory store
func New(opts ...Option) *Store {
	s := &Store{
		blobs:   make(map[model.Hash][]byte),
		trees:   make(map[model.Hash]*iradix.Tree),
		commits: make(map[model.Hash]model.CommitDescriptor),
		refs:    make(map[string]model.Hash),
	}
	for _, apply := range opts {
		apply(s)
	}
	return s
}

func (s *Store) String() string {
	return "memvcs"
}

func (s *Store) authorize(cred auth.Credential) error {
	if cred.IsZero() {
		return status.ErrUnauthorized
	}
	if s.token != "" && cred.Token() != s.token {
		return status.ErrUnauthorized
	}
	return nil
}

// ReadBranchHead reads the commit a branch points at
func (s *Store) ReadBranchHead(ctx context.Context, cred auth.Credential, branch string) (model.Hash, error) {
	if err := s.authorize(cred); err != nil {
		return model.NilHash, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	head, ok := s.refs[branch]
	if !ok {
		return model.NilHash, status.ErrNotFound.Wrap(fmt.Errorf("branch %q", branch))
	}
	return head, nil
}

// ListPaths lists tree paths under a prefix at a commit
func (s *Store) ListPaths(ctx context.Context, cred auth.Credential, prefix string, at model.Hash) ([]string, error) {
	if err := s.authorize(cred); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	tree, err := s.treeOf(at)
	if err != nil {
		return nil, err
	}

	paths := make([]string, 0, 8)
	it := tree.Root().Iterator()
	it.SeekPrefix([]byte(prefix))
	for key, _, ok := it.Next(); ok; key, _, ok = it.Next() {
		paths = append(paths, string(key))
	}
	return paths, nil
}

// CreateTree applies deletions to the tree of the base commit and records
// the resulting tree. Deleting an absent path is a no-op.
func (s *Store) CreateTree(ctx context.Context, cred auth.Credential, deletions model.MutationSet, base model.Hash) (model.Hash, error) {
	if err := s.authorize(cred); err != nil {
		return model.NilHash, err
	}
	if err := deletions.Validate(); err != nil {
		return model.NilHash, status.ErrInvalidResource.Wrap(err)
	}
	for _, m := range deletions {
		if !m.IsDelete() {
			return model.NilHash, status.ErrNotSupported.Wrap(fmt.Errorf("tree edits are restricted to deletions: %q", m.Path))
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	tree, err := s.treeOf(base)
	if err != nil {
		return model.NilHash, err
	}

	txn := tree.Txn()
	for _, m := range deletions {
		txn.Delete([]byte(m.Path))
	}
	next := txn.Commit()

	hash := model.TreeHash(entriesOf(next))
	s.trees[hash] = next
	return hash, nil
}

// CreateCommit records a new immutable commit object
func (s *Store) CreateCommit(ctx context.Context, cred auth.Credential, tree model.Hash, parents []model.Hash, message string) (model.Hash, error) {
	if err := s.authorize(cred); err != nil {
		return model.NilHash, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.trees[tree]; !ok {
		return model.NilHash, status.ErrNotFound.Wrap(fmt.Errorf("tree %s", tree))
	}
	for _, p := range parents {
		if _, ok := s.commits[p]; !ok {
			return model.NilHash, status.ErrNotFound.Wrap(fmt.Errorf("parent commit %s", p))
		}
	}

	desc := model.CommitDescriptor{
		Tree:      tree,
		Parents:   parents,
		Message:   message,
		Timestamp: time.Now().UTC(),
	}
	hash := desc.Digest()
	s.commits[hash] = desc
	return hash, nil
}

// GetCommit reads back a commit descriptor
func (s *Store) GetCommit(ctx context.Context, cred auth.Credential, commit model.Hash) (model.CommitDescriptor, error) {
	if err := s.authorize(cred); err != nil {
		return model.CommitDescriptor{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	desc, ok := s.commits[commit]
	if !ok {
		return model.CommitDescriptor{}, status.ErrNotFound.Wrap(fmt.Errorf("commit %s", commit))
	}
	return desc, nil
}

// UpdateBranchHead moves the branch pointer to next only while it still
// equals expectedOld. A mismatch yields status.ErrRefConflict and leaves
// the pointer untouched.
func (s *Store) UpdateBranchHead(ctx context.Context, cred auth.Credential, branch string, expectedOld, next model.Hash) error {
	if err := s.authorize(cred); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.commits[next]; !ok {
		return status.ErrNotFound.Wrap(fmt.Errorf("commit %s", next))
	}
	current, ok := s.refs[branch]
	if !ok {
		return status.ErrNotFound.Wrap(fmt.Errorf("branch %q", branch))
	}
	if current != expectedOld {
		return status.ErrRefConflict.Wrap(fmt.Errorf("branch %q moved from %s to %s", branch, expectedOld, current))
	}
	s.refs[branch] = next
	return nil
}

// Populate loads a content snapshot onto a branch: every file becomes a
// blob plus a tree entry and one commit is appended (parented on the
// current head when the branch exists). This is the bootstrap/ingestion
// surface; tree editing through the Store interface remains delete-only.
func (s *Store) Populate(ctx context.Context, cred auth.Credential, branch string, files map[string][]byte) (model.Hash, error) {
	if err := s.authorize(cred); err != nil {
		return model.NilHash, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	base := iradix.New()
	var parents []model.Hash
	if head, ok := s.refs[branch]; ok {
		desc := s.commits[head]
		base = s.trees[desc.Tree]
		parents = []model.Hash{head}
	}

	txn := base.Txn()
	for path, content := range files {
		blob := model.HashBytes(content)
		s.blobs[blob] = content
		txn.Insert([]byte(path), blob)
	}
	tree := txn.Commit()

	treeHash := model.TreeHash(entriesOf(tree))
	s.trees[treeHash] = tree

	desc := model.CommitDescriptor{
		Tree:      treeHash,
		Parents:   parents,
		Message:   fmt.Sprintf("Import %d files", len(files)),
		Timestamp: time.Now().UTC(),
	}
	hash := desc.Digest()
	s.commits[hash] = desc
	s.refs[branch] = hash
	return hash, nil
}

// treeOf resolves the tree of a commit. Callers hold s.mu.
func (s *Store) treeOf(commit model.Hash) (*iradix.Tree, error) {
	desc, ok := s.commits[commit]
	if !ok {
		return nil, status.ErrNotFound.Wrap(fmt.Errorf("commit %s", commit))
	}
	tree, ok := s.trees[desc.Tree]
	if !ok {
		return nil, status.ErrNotFound.Wrap(fmt.Errorf("tree %s", desc.Tree))
	}
	return tree, nil
}

func entriesOf(tree *iradix.Tree) []model.TreeEntry {
	entries := make([]model.TreeEntry, 0, tree.Len())
	it := tree.Root().Iterator()
	for key, value, ok := it.Next(); ok; key, value, ok = it.Next() {
		entries = append(entries, model.TreeEntry{
			Path: string(key),
			Hash: value.(model.Hash),
		})
	}
	return entries
}
