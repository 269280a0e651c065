package memvcs

import (
	"context"
	"testing"

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
		"content/post-a.md":      []byte("# a"),
		"content/post-a.mdx":     []byte("# a (mdx)"),
		"content/post-b.md":      []byte("# b"),
		"media/post-a/img.png":   []byte("png"),
		"media/post-a/deep/m.md": []byte("nested media"),
	}
}

func TestPopulateAndList(t *testing.T) {
	ctx := context.Background()
	store := New()

	head, err := store.Populate(ctx, testCred, "main", testFiles())
	require.NoError(t, err)

	got, err := store.ReadBranchHead(ctx, testCred, "main")
	require.NoError(t, err)
	assert.Equal(t, head, got)

	paths, err := store.ListPaths(ctx, testCred, "media/post-a/", head)
	require.NoError(t, err)
	assert.Equal(t, []string{"media/post-a/deep/m.md", "media/post-a/img.png"}, paths)

	// absent directory: empty, no error
	paths, err = store.ListPaths(ctx, testCred, "media/post-b/", head)
	require.NoError(t, err)
	assert.Empty(t, paths)
}

func TestCreateTreeDeletes(t *testing.T) {
	ctx := context.Background()
	store := New()
	head, err := store.Populate(ctx, testCred, "main", testFiles())
	require.NoError(t, err)

	tree, err := store.CreateTree(ctx, testCred, model.MutationSet{
		{Path: "content/post-a.md"},
		{Path: "content/post-a.mdx"},
		{Path: "media/post-a/img.png"},
		{Path: "media/post-a/deep/m.md"},
	}, head)
	require.NoError(t, err)

	commit, err := store.CreateCommit(ctx, testCred, tree, []model.Hash{head}, `Delete "post-a"`)
	require.NoError(t, err)

	paths, err := store.ListPaths(ctx, testCred, "", commit)
	require.NoError(t, err)
	assert.Equal(t, []string{"content/post-b.md"}, paths)

	desc, err := store.GetCommit(ctx, testCred, commit)
	require.NoError(t, err)
	assert.Equal(t, []model.Hash{head}, desc.Parents)
	assert.Equal(t, `Delete "post-a"`, desc.Message)
}

func TestCreateTreeAbsentPathIsNoop(t *testing.T) {
	ctx := context.Background()
	store := New()
	head, err := store.Populate(ctx, testCred, "main", testFiles())
	require.NoError(t, err)

	base, err := store.GetCommit(ctx, testCred, head)
	require.NoError(t, err)

	tree, err := store.CreateTree(ctx, testCred, model.MutationSet{
		{Path: "content/nope.md"},
		{Path: "media/nope/img.png"},
	}, head)
	require.NoError(t, err)
	assert.Equal(t, base.Tree, tree)
}

func TestCreateTreeRejectsNonDeletions(t *testing.T) {
	ctx := context.Background()
	store := New()
	head, err := store.Populate(ctx, testCred, "main", testFiles())
	require.NoError(t, err)

	_, err = store.CreateTree(ctx, testCred, model.MutationSet{
		{Path: "content/post-a.md", Hash: model.HashBytes([]byte("new content"))},
	}, head)
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrNotSupported))

	_, err = store.CreateTree(ctx, testCred, model.MutationSet{
		{Path: "content/post-a.md"},
		{Path: "content/post-a.md"},
	}, head)
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrInvalidResource))
}

func TestUpdateBranchHeadIsConditional(t *testing.T) {
	ctx := context.Background()
	store := New()
	head, err := store.Populate(ctx, testCred, "main", testFiles())
	require.NoError(t, err)

	tree, err := store.CreateTree(ctx, testCred, model.MutationSet{{Path: "content/post-b.md"}}, head)
	require.NoError(t, err)
	commit, err := store.CreateCommit(ctx, testCred, tree, []model.Hash{head}, `Delete "post-b"`)
	require.NoError(t, err)

	stale := model.HashBytes([]byte("stale"))
	err = store.UpdateBranchHead(ctx, testCred, "main", stale, commit)
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrRefConflict))

	// pointer untouched by the conflict
	current, err := store.ReadBranchHead(ctx, testCred, "main")
	require.NoError(t, err)
	assert.Equal(t, head, current)

	require.NoError(t, store.UpdateBranchHead(ctx, testCred, "main", head, commit))
	current, err = store.ReadBranchHead(ctx, testCred, "main")
	require.NoError(t, err)
	assert.Equal(t, commit, current)
}

func TestUnknownBranchAndCommit(t *testing.T) {
	ctx := context.Background()
	store := New()

	_, err := store.ReadBranchHead(ctx, testCred, "nope")
	assert.True(t, errors.Is(err, status.ErrNotFound))

	_, err = store.ListPaths(ctx, testCred, "", model.HashBytes([]byte("nope")))
	assert.True(t, errors.Is(err, status.ErrNotFound))
}

func TestAuthorization(t *testing.T) {
	ctx := context.Background()
	store := New(Token("expected"))

	_, err := store.ReadBranchHead(ctx, auth.Credential{}, "main")
	assert.True(t, errors.Is(err, status.ErrUnauthorized))

	_, err = store.ReadBranchHead(ctx, auth.NewCredential("wrong"), "main")
	assert.True(t, errors.Is(err, status.ErrUnauthorized))

	_, err = store.Populate(ctx, auth.NewCredential("expected"), "main", testFiles())
	assert.NoError(t, err)
}
