package localvcs

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foliopress/folio/pkg/auth"
	"github.com/foliopress/folio/pkg/errors"
	"github.com/foliopress/folio/pkg/model"
	"github.com/foliopress/folio/pkg/storage/status"
)

var testCred = auth.NewCredential("testing")

func testFiles() map[string][]byte {
	return map[string][]byte{
		"content/post-a.md":    []byte("# a"),
		"content/post-a.mdx":   []byte("# a (mdx)"),
		"content/post-b.md":    []byte("# b"),
		"media/post-a/img.png": []byte("png"),
	}
}

func TestPopulateAndList(t *testing.T) {
	ctx := context.Background()
	store := New(afero.NewMemMapFs())

	head, err := store.Populate(ctx, testCred, "main", testFiles())
	require.NoError(t, err)

	got, err := store.ReadBranchHead(ctx, testCred, "main")
	require.NoError(t, err)
	assert.Equal(t, head, got)

	paths, err := store.ListPaths(ctx, testCred, "media/post-a/", head)
	require.NoError(t, err)
	assert.Equal(t, []string{"media/post-a/img.png"}, paths)

	paths, err = store.ListPaths(ctx, testCred, "media/post-b/", head)
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestDeletionRound(t *testing.T) {
	ctx := context.Background()
	store := New(afero.NewMemMapFs())
	head, err := store.Populate(ctx, testCred, "main", testFiles())
	require.NoError(t, err)

	tree, err := store.CreateTree(ctx, testCred, model.MutationSet{
		{Path: "content/post-a.md"},
		{Path: "content/post-a.mdx"},
		{Path: "media/post-a/img.png"},
		{Path: "content/absent.md"}, // no-op
	}, head)
	require.NoError(t, err)

	commit, err := store.CreateCommit(ctx, testCred, tree, []model.Hash{head}, `Delete "post-a"`)
	require.NoError(t, err)
	require.NoError(t, store.UpdateBranchHead(ctx, testCred, "main", head, commit))

	paths, err := store.ListPaths(ctx, testCred, "", commit)
	require.NoError(t, err)
	assert.Equal(t, []string{"content/post-b.md"}, paths)

	desc, err := store.GetCommit(ctx, testCred, commit)
	require.NoError(t, err)
	assert.Equal(t, []model.Hash{head}, desc.Parents)
}

func TestConditionalUpdateConflict(t *testing.T) {
	ctx := context.Background()
	store := New(afero.NewMemMapFs())
	head, err := store.Populate(ctx, testCred, "main", testFiles())
	require.NoError(t, err)

	tree, err := store.CreateTree(ctx, testCred, model.MutationSet{{Path: "content/post-b.md"}}, head)
	require.NoError(t, err)
	commit, err := store.CreateCommit(ctx, testCred, tree, []model.Hash{head}, `Delete "post-b"`)
	require.NoError(t, err)

	err = store.UpdateBranchHead(ctx, testCred, "main", model.HashBytes([]byte("stale")), commit)
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrRefConflict))

	current, err := store.ReadBranchHead(ctx, testCred, "main")
	require.NoError(t, err)
	assert.Equal(t, head, current)
}

func TestMissingBranch(t *testing.T) {
	ctx := context.Background()
	store := New(afero.NewMemMapFs())

	_, err := store.ReadBranchHead(ctx, testCred, "nope")
	assert.True(t, errors.Is(err, status.ErrNotFound))
}

func TestAuthorization(t *testing.T) {
	ctx := context.Background()
	store := New(afero.NewMemMapFs(), Token("expected"))

	_, err := store.ReadBranchHead(ctx, auth.Credential{}, "main")
	assert.True(t, errors.Is(err, status.ErrUnauthorized))
}
