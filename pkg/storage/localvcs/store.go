// Package localvcs implements the storage.Store interface on a local file
// system.
//
// Objects live under objects/{blob,tree,commit}/<hash> as yaml
// descriptors, branch pointers under refs/heads/<branch>. The conditional
// branch update is guarded by a process-local mutex: the backend is meant
// for a single process owning the directory.
package localvcs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v2"

	"github.com/foliopress/folio/pkg/auth"
	"github.com/foliopress/folio/pkg/model"
	"github.com/foliopress/folio/pkg/storage"
	"github.com/foliopress/folio/pkg/storage/status"
)

var _ storage.Store = &Store{}

// Option configures the file-backed store
type Option func(*Store)

// Token sets the bearer token the store accepts. Without it any non-zero
// credential is accepted.
func Token(token string) Option {
	return func(s *Store) {
		s.token = token
	}
}

// Store is a file-backed git-style object store
type Store struct {
	mu    sync.Mutex
	fs    afero.Fs
	token string
}

// New creates a file-backed store. A nil fs defaults to .folio/vcs under
// the working directory.
func New(fs afero.Fs, opts ...Option) *Store {
	if fs == nil {
		fs = afero.NewBasePathFs(afero.NewOsFs(), filepath.Join(".folio", "vcs"))
	}
	s := &Store{fs: fs}
	for _, apply := range opts {
		apply(s)
	}
	return s
}

func (s *Store) String() string {
	return "localvcs"
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

func commitPath(h model.Hash) string { return filepath.Join("objects", "commit", string(h)) }
func treePath(h model.Hash) string   { return filepath.Join("objects", "tree", string(h)) }
func blobPath(h model.Hash) string   { return filepath.Join("objects", "blob", string(h)) }
func refPath(branch string) string   { return filepath.Join("refs", "heads", branch) }

// ReadBranchHead reads the commit a branch points at
func (s *Store) ReadBranchHead(ctx context.Context, cred auth.Credential, branch string) (model.Hash, error) {
	if err := s.authorize(cred); err != nil {
		return model.NilHash, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readRef(branch)
}

// ListPaths lists tree paths under a prefix at a commit
func (s *Store) ListPaths(ctx context.Context, cred auth.Credential, prefix string, at model.Hash) ([]string, error) {
	if err := s.authorize(cred); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	entries, err := s.treeEntriesAt(at)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, 8)
	for _, e := range entries {
		if strings.HasPrefix(e.Path, prefix) {
			paths = append(paths, e.Path)
		}
	}
	sort.Strings(paths)
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
	entries, err := s.treeEntriesAt(base)
	if err != nil {
		return model.NilHash, err
	}
	doomed := make(map[string]struct{}, len(deletions))
	for _, m := range deletions {
		doomed[m.Path] = struct{}{}
	}
	kept := make([]model.TreeEntry, 0, len(entries))
	for _, e := range entries {
		if _, ok := doomed[e.Path]; !ok {
			kept = append(kept, e)
		}
	}

	hash := model.TreeHash(kept)
	if err := s.writeTree(hash, kept); err != nil {
		return model.NilHash, err
	}
	return hash, nil
}

// CreateCommit records a new immutable commit object
func (s *Store) CreateCommit(ctx context.Context, cred auth.Credential, tree model.Hash, parents []model.Hash, message string) (model.Hash, error) {
	if err := s.authorize(cred); err != nil {
		return model.NilHash, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if ok, _ := afero.Exists(s.fs, treePath(tree)); !ok {
		return model.NilHash, status.ErrNotFound.Wrap(fmt.Errorf("tree %s", tree))
	}
	for _, p := range parents {
		if ok, _ := afero.Exists(s.fs, commitPath(p)); !ok {
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
	if err := s.writeCommit(hash, desc); err != nil {
		return model.NilHash, err
	}
	return hash, nil
}

// GetCommit reads back a commit descriptor
func (s *Store) GetCommit(ctx context.Context, cred auth.Credential, commit model.Hash) (model.CommitDescriptor, error) {
	if err := s.authorize(cred); err != nil {
		return model.CommitDescriptor{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.readCommit(commit)
}

// UpdateBranchHead moves the branch pointer to next only while it still
// equals expectedOld
func (s *Store) UpdateBranchHead(ctx context.Context, cred auth.Credential, branch string, expectedOld, next model.Hash) error {
	if err := s.authorize(cred); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if ok, _ := afero.Exists(s.fs, commitPath(next)); !ok {
		return status.ErrNotFound.Wrap(fmt.Errorf("commit %s", next))
	}
	current, err := s.readRef(branch)
	if err != nil {
		return err
	}
	if current != expectedOld {
		return status.ErrRefConflict.Wrap(fmt.Errorf("branch %q moved from %s to %s", branch, expectedOld, current))
	}
	return s.writeFile(refPath(branch), []byte(next))
}

// Populate loads a content snapshot onto a branch, appending one commit
// parented on the current head when the branch exists
func (s *Store) Populate(ctx context.Context, cred auth.Credential, branch string, files map[string][]byte) (model.Hash, error) {
	if err := s.authorize(cred); err != nil {
		return model.NilHash, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := make(map[string]model.Hash, len(files))
	var parents []model.Hash
	if head, err := s.readRef(branch); err == nil {
		entries, e := s.treeEntriesAt(head)
		if e != nil {
			return model.NilHash, e
		}
		for _, entry := range entries {
			merged[entry.Path] = entry.Hash
		}
		parents = []model.Hash{head}
	}

	for path, content := range files {
		blob := model.HashBytes(content)
		if err := s.writeFile(blobPath(blob), content); err != nil {
			return model.NilHash, err
		}
		merged[path] = blob
	}

	entries := make([]model.TreeEntry, 0, len(merged))
	for path, blob := range merged {
		entries = append(entries, model.TreeEntry{Path: path, Hash: blob})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })

	treeHash := model.TreeHash(entries)
	if err := s.writeTree(treeHash, entries); err != nil {
		return model.NilHash, err
	}

	desc := model.CommitDescriptor{
		Tree:      treeHash,
		Parents:   parents,
		Message:   fmt.Sprintf("Import %d files", len(files)),
		Timestamp: time.Now().UTC(),
	}
	hash := desc.Digest()
	if err := s.writeCommit(hash, desc); err != nil {
		return model.NilHash, err
	}
	if err := s.writeFile(refPath(branch), []byte(hash)); err != nil {
		return model.NilHash, err
	}
	return hash, nil
}

func (s *Store) readRef(branch string) (model.Hash, error) {
	raw, err := afero.ReadFile(s.fs, refPath(branch))
	if err != nil {
		if os.IsNotExist(err) {
			return model.NilHash, status.ErrNotFound.Wrap(fmt.Errorf("branch %q", branch))
		}
		return model.NilHash, status.ErrStorageAPI.Wrap(err)
	}
	return model.Hash(strings.TrimSpace(string(raw))), nil
}

func (s *Store) readCommit(commit model.Hash) (model.CommitDescriptor, error) {
	raw, err := afero.ReadFile(s.fs, commitPath(commit))
	if err != nil {
		if os.IsNotExist(err) {
			return model.CommitDescriptor{}, status.ErrNotFound.Wrap(fmt.Errorf("commit %s", commit))
		}
		return model.CommitDescriptor{}, status.ErrStorageAPI.Wrap(err)
	}
	var desc model.CommitDescriptor
	if err := yaml.Unmarshal(raw, &desc); err != nil {
		return model.CommitDescriptor{}, status.ErrStorageAPI.Wrap(err)
	}
	return desc, nil
}

func (s *Store) treeEntriesAt(commit model.Hash) ([]model.TreeEntry, error) {
	desc, err := s.readCommit(commit)
	if err != nil {
		return nil, err
	}
	raw, err := afero.ReadFile(s.fs, treePath(desc.Tree))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, status.ErrNotFound.Wrap(fmt.Errorf("tree %s", desc.Tree))
		}
		return nil, status.ErrStorageAPI.Wrap(err)
	}
	var tree model.TreeDescriptor
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return nil, status.ErrStorageAPI.Wrap(err)
	}
	return tree.Entries, nil
}

func (s *Store) writeTree(hash model.Hash, entries []model.TreeEntry) error {
	raw, err := yaml.Marshal(model.TreeDescriptor{Entries: entries})
	if err != nil {
		return status.ErrStorageAPI.Wrap(err)
	}
	return s.writeFile(treePath(hash), raw)
}

func (s *Store) writeCommit(hash model.Hash, desc model.CommitDescriptor) error {
	raw, err := yaml.Marshal(desc)
	if err != nil {
		return status.ErrStorageAPI.Wrap(err)
	}
	return s.writeFile(commitPath(hash), raw)
}

func (s *Store) writeFile(path string, raw []byte) error {
	if err := s.fs.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return status.ErrStorageAPI.Wrap(err)
	}
	if err := afero.WriteFile(s.fs, path, raw, 0600); err != nil {
		return status.ErrStorageAPI.Wrap(err)
	}
	return nil
}
