package storage

import (
	"context"

	"github.com/foliopress/folio/pkg/auth"
	"github.com/foliopress/folio/pkg/model"
)

// Store implementations expose a git-style object model: immutable blobs,
// trees and commits, plus named mutable branch pointers.
//
// Every call takes an explicit credential. Implementations reject a
// missing or invalid credential with status.ErrUnauthorized.
type Store interface {
	String() string

	// ReadBranchHead reads the commit a branch currently points at
	ReadBranchHead(ctx context.Context, cred auth.Credential, branch string) (model.Hash, error)

	// ListPaths lists the tree paths under a prefix at a given commit.
	// An absent directory yields an empty result, not an error.
	ListPaths(ctx context.Context, cred auth.Credential, prefix string, at model.Hash) ([]string, error)

	// CreateTree builds a new tree by applying deletions to the tree of a
	// base commit. Deleting a path absent from the base tree is a no-op.
	// Mutations carrying a content hash are rejected with
	// status.ErrNotSupported: only deletions are supported.
	CreateTree(ctx context.Context, cred auth.Credential, deletions model.MutationSet, base model.Hash) (model.Hash, error)

	// CreateCommit records a new immutable commit
	CreateCommit(ctx context.Context, cred auth.Credential, tree model.Hash, parents []model.Hash, message string) (model.Hash, error)

	// GetCommit reads back a commit descriptor
	GetCommit(ctx context.Context, cred auth.Credential, commit model.Hash) (model.CommitDescriptor, error)

	// UpdateBranchHead conditionally moves a branch pointer: the update
	// happens only while the branch still points at expectedOld.
	// A mismatch yields status.ErrRefConflict, distinct from any other
	// failure, and leaves the pointer untouched.
	UpdateBranchHead(ctx context.Context, cred auth.Credential, branch string, expectedOld, next model.Hash) error
}
