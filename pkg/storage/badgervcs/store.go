// Package badgervcs implements the storage.Store interface on top of a
// badger key-value database.
//
// Objects are stored under hash-derived keys with yaml descriptors, branch
// pointers under ref keys. The conditional branch update runs inside a
// single badger read-modify-write transaction.
package badgervcs

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"gopkg.in/yaml.v2"

	"github.com/foliopress/folio/pkg/auth"
	"github.com/foliopress/folio/pkg/errors"
	"github.com/foliopress/folio/pkg/model"
	"github.com/foliopress/folio/pkg/storage"
	"github.com/foliopress/folio/pkg/storage/status"
)

var _ storage.Store = &Store{}

// Option configures the badger-backed store
type Option func(*Store)

// Token sets the bearer token the store accepts. Without it any non-zero
// credential is accepted.
func Token(token string) Option {
	return func(s *Store) {
		s.token = token
	}
}

// Store is a badger-backed git-style object store
type Store struct {
	db    *badger.DB
	dir   string
	token string
}

// New opens (or creates) a badger-backed store at dir
func New(dir string, opts ...Option) (*Store, error) {
	db, err := badger.Open(badger.DefaultOptions(dir).WithLogger(nil))
	if err != nil {
		return nil, status.ErrStorageAPI.Wrap(err)
	}
	s := &Store{db: db, dir: dir}
	for _, apply := range opts {
		apply(s)
	}
	return s, nil
}

// Close the underlying database
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) String() string {
	return fmt.Sprintf("badgervcs(%s)", s.dir)
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

func commitKey(h model.Hash) []byte { return []byte("commit/" + h) }
func treeKey(h model.Hash) []byte   { return []byte("tree/" + h) }
func blobKey(h model.Hash) []byte   { return []byte("blob/" + h) }
func refKey(branch string) []byte   { return []byte("ref/" + branch) }

// ReadBranchHead reads the commit a branch points at
func (s *Store) ReadBranchHead(ctx context.Context, cred auth.Credential, branch string) (model.Hash, error) {
	if err := s.authorize(cred); err != nil {
		return model.NilHash, err
	}
	var head model.Hash
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		head, err = readRef(txn, branch)
		return err
	})
	return head, err
}

// ListPaths lists tree paths under a prefix at a commit
func (s *Store) ListPaths(ctx context.Context, cred auth.Credential, prefix string, at model.Hash) ([]string, error) {
	if err := s.authorize(cred); err != nil {
		return nil, err
	}
	paths := make([]string, 0, 8)
	err := s.db.View(func(txn *badger.Txn) error {
		entries, err := treeEntriesAt(txn, at)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if strings.HasPrefix(e.Path, prefix) {
				paths = append(paths, e.Path)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
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

	var hash model.Hash
	err := s.db.Update(func(txn *badger.Txn) error {
		entries, err := treeEntriesAt(txn, base)
		if err != nil {
			return err
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

		hash = model.TreeHash(kept)
		return writeTree(txn, hash, kept)
	})
	if err != nil {
		return model.NilHash, err
	}
	return hash, nil
}

// CreateCommit records a new immutable commit object
func (s *Store) CreateCommit(ctx context.Context, cred auth.Credential, tree model.Hash, parents []model.Hash, message string) (model.Hash, error) {
	if err := s.authorize(cred); err != nil {
		return model.NilHash, err
	}
	var hash model.Hash
	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(treeKey(tree)); err != nil {
			return notFoundOr(err, fmt.Errorf("tree %s", tree))
		}
		for _, p := range parents {
			if _, err := txn.Get(commitKey(p)); err != nil {
				return notFoundOr(err, fmt.Errorf("parent commit %s", p))
			}
		}
		desc := model.CommitDescriptor{
			Tree:      tree,
			Parents:   parents,
			Message:   message,
			Timestamp: time.Now().UTC(),
		}
		hash = desc.Digest()
		return writeCommit(txn, hash, desc)
	})
	if err != nil {
		return model.NilHash, err
	}
	return hash, nil
}

// GetCommit reads back a commit descriptor
func (s *Store) GetCommit(ctx context.Context, cred auth.Credential, commit model.Hash) (model.CommitDescriptor, error) {
	if err := s.authorize(cred); err != nil {
		return model.CommitDescriptor{}, err
	}
	var desc model.CommitDescriptor
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		desc, err = readCommit(txn, commit)
		return err
	})
	return desc, err
}

// UpdateBranchHead moves the branch pointer to next only while it still
// equals expectedOld
func (s *Store) UpdateBranchHead(ctx context.Context, cred auth.Credential, branch string, expectedOld, next model.Hash) error {
	if err := s.authorize(cred); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(commitKey(next)); err != nil {
			return notFoundOr(err, fmt.Errorf("commit %s", next))
		}
		current, err := readRef(txn, branch)
		if err != nil {
			return err
		}
		if current != expectedOld {
			return status.ErrRefConflict.Wrap(fmt.Errorf("branch %q moved from %s to %s", branch, expectedOld, current))
		}
		return txn.Set(refKey(branch), []byte(next))
	})
}

// Populate loads a content snapshot onto a branch, appending one commit
// parented on the current head when the branch exists. This is the
// bootstrap/ingestion surface; tree editing through the Store interface
// remains delete-only.
func (s *Store) Populate(ctx context.Context, cred auth.Credential, branch string, files map[string][]byte) (model.Hash, error) {
	if err := s.authorize(cred); err != nil {
		return model.NilHash, err
	}
	var hash model.Hash
	err := s.db.Update(func(txn *badger.Txn) error {
		merged := make(map[string]model.Hash, len(files))
		var parents []model.Hash
		head, err := readRef(txn, branch)
		switch {
		case err == nil:
			entries, e := treeEntriesAt(txn, head)
			if e != nil {
				return e
			}
			for _, entry := range entries {
				merged[entry.Path] = entry.Hash
			}
			parents = []model.Hash{head}
		case !errors.Is(err, status.ErrNotFound):
			return err
		}

		for path, content := range files {
			blob := model.HashBytes(content)
			if e := txn.Set(blobKey(blob), content); e != nil {
				return status.ErrStorageAPI.Wrap(e)
			}
			merged[path] = blob
		}

		entries := make([]model.TreeEntry, 0, len(merged))
		for path, blob := range merged {
			entries = append(entries, model.TreeEntry{Path: path, Hash: blob})
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })

		treeHash := model.TreeHash(entries)
		if e := writeTree(txn, treeHash, entries); e != nil {
			return e
		}

		desc := model.CommitDescriptor{
			Tree:      treeHash,
			Parents:   parents,
			Message:   fmt.Sprintf("Import %d files", len(files)),
			Timestamp: time.Now().UTC(),
		}
		hash = desc.Digest()
		if e := writeCommit(txn, hash, desc); e != nil {
			return e
		}
		return txn.Set(refKey(branch), []byte(hash))
	})
	if err != nil {
		return model.NilHash, err
	}
	return hash, nil
}

func readRef(txn *badger.Txn, branch string) (model.Hash, error) {
	item, err := txn.Get(refKey(branch))
	if err != nil {
		return model.NilHash, notFoundOr(err, fmt.Errorf("branch %q", branch))
	}
	raw, err := item.ValueCopy(nil)
	if err != nil {
		return model.NilHash, status.ErrStorageAPI.Wrap(err)
	}
	return model.Hash(raw), nil
}

func readCommit(txn *badger.Txn, commit model.Hash) (model.CommitDescriptor, error) {
	item, err := txn.Get(commitKey(commit))
	if err != nil {
		return model.CommitDescriptor{}, notFoundOr(err, fmt.Errorf("commit %s", commit))
	}
	raw, err := item.ValueCopy(nil)
	if err != nil {
		return model.CommitDescriptor{}, status.ErrStorageAPI.Wrap(err)
	}
	var desc model.CommitDescriptor
	if err := yaml.Unmarshal(raw, &desc); err != nil {
		return model.CommitDescriptor{}, status.ErrStorageAPI.Wrap(err)
	}
	return desc, nil
}

func treeEntriesAt(txn *badger.Txn, commit model.Hash) ([]model.TreeEntry, error) {
	desc, err := readCommit(txn, commit)
	if err != nil {
		return nil, err
	}
	item, err := txn.Get(treeKey(desc.Tree))
	if err != nil {
		return nil, notFoundOr(err, fmt.Errorf("tree %s", desc.Tree))
	}
	raw, err := item.ValueCopy(nil)
	if err != nil {
		return nil, status.ErrStorageAPI.Wrap(err)
	}
	var tree model.TreeDescriptor
	if err := yaml.Unmarshal(raw, &tree); err != nil {
		return nil, status.ErrStorageAPI.Wrap(err)
	}
	return tree.Entries, nil
}

func writeTree(txn *badger.Txn, hash model.Hash, entries []model.TreeEntry) error {
	raw, err := yaml.Marshal(model.TreeDescriptor{Entries: entries})
	if err != nil {
		return status.ErrStorageAPI.Wrap(err)
	}
	if err := txn.Set(treeKey(hash), raw); err != nil {
		return status.ErrStorageAPI.Wrap(err)
	}
	return nil
}

func writeCommit(txn *badger.Txn, hash model.Hash, desc model.CommitDescriptor) error {
	raw, err := yaml.Marshal(desc)
	if err != nil {
		return status.ErrStorageAPI.Wrap(err)
	}
	if err := txn.Set(commitKey(hash), raw); err != nil {
		return status.ErrStorageAPI.Wrap(err)
	}
	return nil
}

func isNotFound(err error) bool {
	return err == badger.ErrKeyNotFound
}

func notFoundOr(err error, detail error) error {
	if isNotFound(err) {
		return status.ErrNotFound.Wrap(detail)
	}
	return status.ErrStorageAPI.Wrap(err)
}
