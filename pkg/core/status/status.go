// Package status exports errors produced by the core package: one
// sentinel per failure kind of the batch deletion transaction. Every kind
// carries its own human-readable message.
package status

import (
	"github.com/foliopress/folio/pkg/errors"
)

var (
	// ErrEmptySelection indicates a batch deletion was requested with no documents selected
	ErrEmptySelection = errors.New("no documents selected")

	// ErrInvalidSlug indicates a document slug failed validation
	ErrInvalidSlug = errors.New("invalid document slug")

	// ErrUnauthorized indicates no valid credential was available. The caller is
	// expected to acquire one and retry the whole operation.
	ErrUnauthorized = errors.New("missing or invalid credentials")

	// ErrResolution indicates reading the branch head or listing document
	// artifacts failed. Nothing was committed.
	ErrResolution = errors.New("failed to resolve document artifacts")

	// ErrCommitConstruction indicates the storage rejected the tree or commit
	// creation. The branch is untouched and the batch is safe to retry.
	ErrCommitConstruction = errors.New("failed to construct the deletion commit")

	// ErrRefConflict indicates the branch moved since its head was read. The
	// branch is untouched, the new commit is orphaned, and the whole pipeline
	// is safe to retry from a fresh head.
	ErrRefConflict = errors.New("branch moved since it was read")

	// ErrRefUpdate indicates the branch update failed for another reason. It is
	// unknown whether the pointer moved: re-verify the branch state before any
	// retry.
	ErrRefUpdate = errors.New("failed to advance the branch head")
)
