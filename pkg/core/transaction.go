package core

import (
	"context"
	"fmt"
	"sort"

	"github.com/segmentio/ksuid"
	"go.uber.org/zap"

	"github.com/foliopress/folio/pkg/auth"
	"github.com/foliopress/folio/pkg/core/status"
	"github.com/foliopress/folio/pkg/errors"
	"github.com/foliopress/folio/pkg/model"
	"github.com/foliopress/folio/pkg/storage"
	storagestatus "github.com/foliopress/folio/pkg/storage/status"
)

// DeleteDocuments removes every artifact of every selected document in
// one transaction: a single commit, child of the current branch head, made
// visible by one conditional update of the branch pointer. On success the
// new head commit is returned.
//
// The pipeline is strictly sequential (resolve, build, commit, advance)
// and fails fast: no stage is retried, nothing before the pointer update
// has side effects beyond allocating orphanable immutable objects. A
// status.ErrRefConflict outcome means another writer advanced the branch;
// the whole pipeline is then safe to re-run from a fresh head.
func DeleteDocuments(ctx context.Context, store storage.Store, cred auth.Credential, branch string, slugs []string, opts ...Option) (model.Hash, error) {
	settings := defaultSettings()
	for _, apply := range opts {
		apply(&settings)
	}
	l := settings.l.With(
		zap.String("txn", ksuid.New().String()),
		zap.String("branch", branch),
	)

	if len(slugs) == 0 {
		return model.NilHash, fail(settings, l, status.ErrEmptySelection)
	}
	slugs = uniqueSorted(slugs)
	for _, slug := range slugs {
		if err := model.ValidateSlug(slug); err != nil {
			return model.NilHash, fail(settings, l, status.ErrInvalidSlug.Wrap(err))
		}
	}
	if cred.IsZero() {
		return model.NilHash, fail(settings, l, status.ErrUnauthorized)
	}

	settings.sink.Notify(PhaseResolvingRefs, fmt.Sprintf("reading head of branch %q", branch))
	head, err := store.ReadBranchHead(ctx, cred, branch)
	if err != nil {
		return model.NilHash, fail(settings, l, classify(status.ErrResolution, err))
	}

	docs, err := resolveDocuments(ctx, store, cred, slugs, head, settings)
	if err != nil {
		return model.NilHash, fail(settings, l, classify(status.ErrResolution, err))
	}
	deletions := buildDeletions(docs)
	l.Debug("assembled deletion set",
		zap.Int("documents", len(slugs)),
		zap.Int("paths", len(deletions)))

	// the head is re-read immediately before tree construction: the fresh
	// value is the tree base, the commit parent and the expected old head
	// of the advance, keeping the race window as small as the protocol
	// allows
	base, err := store.ReadBranchHead(ctx, cred, branch)
	if err != nil {
		return model.NilHash, fail(settings, l, classify(status.ErrResolution, err))
	}

	settings.sink.Notify(PhaseCreatingTree, fmt.Sprintf("creating tree with %d deletions", len(deletions)))
	tree, err := store.CreateTree(ctx, cred, deletions, base)
	if err != nil {
		return model.NilHash, fail(settings, l, classify(status.ErrCommitConstruction, err))
	}

	message := deleteMessage(slugs)
	settings.sink.Notify(PhaseCreatingCommit, fmt.Sprintf("creating commit %q", message))
	commit, err := store.CreateCommit(ctx, cred, tree, []model.Hash{base}, message)
	if err != nil {
		return model.NilHash, fail(settings, l, classify(status.ErrCommitConstruction, err))
	}

	settings.sink.Notify(PhaseAdvancingRef, fmt.Sprintf("advancing branch %q to %s", branch, commit))
	if err := store.UpdateBranchHead(ctx, cred, branch, base, commit); err != nil {
		if errors.Is(err, storagestatus.ErrRefConflict) {
			return model.NilHash, fail(settings, l, status.ErrRefConflict.Wrap(err))
		}
		return model.NilHash, fail(settings, l, classify(status.ErrRefUpdate, err))
	}

	settings.sink.Notify(PhaseDone, fmt.Sprintf("deleted %d documents", len(slugs)))
	l.Info("batch deletion committed",
		zap.String("commit", commit.String()),
		zap.Int("documents", len(slugs)),
		zap.Int("deletions", len(deletions)))
	return commit, nil
}

// classify maps a storage failure onto a transaction failure kind, keeping
// credential rejections distinct whatever the stage
func classify(kind *errors.Error, err error) error {
	if errors.Is(err, storagestatus.ErrUnauthorized) {
		return status.ErrUnauthorized.Wrap(err)
	}
	return kind.Wrap(err)
}

func fail(settings Settings, l *zap.Logger, err error) error {
	settings.sink.Notify(PhaseFailed, err.Error())
	l.Error("batch deletion failed", zap.Error(err))
	return err
}

// deleteMessage applies the commit message policy: singular form for one
// document, aggregate count for several
func deleteMessage(slugs []string) string {
	if len(slugs) == 1 {
		return fmt.Sprintf("Delete %q", slugs[0])
	}
	return fmt.Sprintf("Delete %d documents", len(slugs))
}

func uniqueSorted(slugs []string) []string {
	sorted := make([]string, len(slugs))
	copy(sorted, slugs)
	sort.Strings(sorted)

	unique := sorted[:0]
	for i, slug := range sorted {
		if i == 0 || slug != sorted[i-1] {
			unique = append(unique, slug)
		}
	}
	return unique
}
