package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foliopress/folio/pkg/auth"
	"github.com/foliopress/folio/pkg/core/status"
	"github.com/foliopress/folio/pkg/errors"
)

func TestListDocuments(t *testing.T) {
	ctx := context.Background()
	store, _ := populatedStore(t, map[string][]byte{
		"content/2024-05-hello.md":  []byte("# hello"),
		"content/2024-05-hello.mdx": []byte("# hello (mdx)"),
		"content/2024-06-again.md":  []byte("# again"),
		"content/notes.md":          []byte("# notes"),
		"content/README.txt":        []byte("not a content entry"),
		"media/notes/img.png":       []byte("png"),
	})

	slugs, err := ListDocuments(ctx, store, testCred, "main")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-05-hello", "2024-06-again", "notes"}, slugs)
}

func TestListDocumentsWithoutCredential(t *testing.T) {
	store, _ := populatedStore(t, map[string][]byte{})

	_, err := ListDocuments(context.Background(), store, auth.Credential{}, "main")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrUnauthorized))
}

func TestListDocumentsUnknownBranch(t *testing.T) {
	store, _ := populatedStore(t, map[string][]byte{})

	_, err := ListDocuments(context.Background(), store, testCred, "nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrResolution))
}

func TestGroupByMonth(t *testing.T) {
	groups := GroupByMonth([]string{
		"2024-05-hello",
		"2024-05-world",
		"2024-06-again",
		"notes",
	})
	assert.Equal(t, map[string][]string{
		"2024-05":    {"2024-05-hello", "2024-05-world"},
		"2024-06":    {"2024-06-again"},
		UndatedGroup: {"notes"},
	}, groups)
}
