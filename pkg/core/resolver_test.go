package core

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foliopress/folio/pkg/auth"
	"github.com/foliopress/folio/pkg/model"
	"github.com/foliopress/folio/pkg/storage/mockstorage"
)

var testCred = auth.NewCredential("testing")

func TestResolveDocument(t *testing.T) {
	ctx := context.Background()
	at := model.HashBytes([]byte("head"))
	mock := &mockstorage.StoreMock{
		ListPathsFunc: func(_ context.Context, _ auth.Credential, prefix string, got model.Hash) ([]string, error) {
			assert.Equal(t, at, got)
			if prefix == "media/post-a/" {
				return []string{"media/post-a/img.png", "media/post-a/deep/m.md"}, nil
			}
			return nil, nil
		},
	}

	artifacts, err := resolveDocument(ctx, mock, testCred, "post-a", at)
	require.NoError(t, err)
	assert.Equal(t, []model.Artifact{
		{Path: "content/post-a.md", Kind: model.ArtifactContent},
		{Path: "content/post-a.mdx", Kind: model.ArtifactContent},
		{Path: "media/post-a/img.png", Kind: model.ArtifactMedia},
		{Path: "media/post-a/deep/m.md", Kind: model.ArtifactMedia},
	}, artifacts)

	// a document with no media still resolves both content entries
	artifacts, err = resolveDocument(ctx, mock, testCred, "post-b", at)
	require.NoError(t, err)
	require.Len(t, artifacts, 2)
	for _, a := range artifacts {
		assert.Equal(t, model.ArtifactContent, a.Kind)
	}
}

func TestResolveDocumentsKeepsInputOrder(t *testing.T) {
	ctx := context.Background()
	at := model.HashBytes([]byte("head"))
	mock := &mockstorage.StoreMock{
		ListPathsFunc: func(_ context.Context, _ auth.Credential, prefix string, _ model.Hash) ([]string, error) {
			slug := strings.TrimSuffix(strings.TrimPrefix(prefix, "media/"), "/")
			return []string{prefix + slug + ".png"}, nil
		},
	}

	slugs := make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		slugs = append(slugs, fmt.Sprintf("post-%02d", i))
	}

	settings := defaultSettings()
	ConcurrentResolve(4)(&settings)

	docs, err := resolveDocuments(ctx, mock, testCred, slugs, at, settings)
	require.NoError(t, err)
	require.Len(t, docs, len(slugs))
	for i, doc := range docs {
		assert.Equal(t, slugs[i], doc.slug)
		require.Len(t, doc.artifacts, 3)
		assert.Equal(t, "media/"+slugs[i]+"/"+slugs[i]+".png", doc.artifacts[2].Path)
	}
	assert.Equal(t, len(slugs), mock.CallCount("ListPaths"))
}

func TestResolveDocumentsPropagatesFailure(t *testing.T) {
	ctx := context.Background()
	boom := fmt.Errorf("listing blew up")
	mock := &mockstorage.StoreMock{
		ListPathsFunc: func(_ context.Context, _ auth.Credential, prefix string, _ model.Hash) ([]string, error) {
			if prefix == "media/post-b/" {
				return nil, boom
			}
			return nil, nil
		},
	}

	_, err := resolveDocuments(ctx, mock, testCred, []string{"post-a", "post-b", "post-c"},
		model.HashBytes([]byte("head")), defaultSettings())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}
