package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateSlug(t *testing.T) {
	for _, slug := range []string{
		"post-a",
		"2024-05-hello",
		"a",
		"a.b_c-d",
		"42",
	} {
		assert.NoErrorf(t, ValidateSlug(slug), "slug %q should be valid", slug)
	}

	for _, slug := range []string{
		"",
		"Post-A",
		"post a",
		"post/a",
		"-post",
		"post-",
		"media/../etc",
	} {
		assert.Errorf(t, ValidateSlug(slug), "slug %q should be invalid", slug)
	}
}

func TestContentPaths(t *testing.T) {
	paths := ContentPaths("post-a")
	require.Len(t, paths, 2)
	assert.Equal(t, []string{"content/post-a.md", "content/post-a.mdx"}, paths)
}

func TestMediaPrefix(t *testing.T) {
	assert.Equal(t, "media/post-a/", MediaPrefix("post-a"))
}

func TestParseContentPath(t *testing.T) {
	fixtures := []struct {
		path string
		slug string
		ok   bool
	}{
		{path: "content/post-a.md", slug: "post-a", ok: true},
		{path: "content/post-a.mdx", slug: "post-a", ok: true},
		{path: "content/post-a.txt"},
		{path: "content/.md"},
		{path: "content/sub/post-a.md"},
		{path: "media/post-a/img.png"},
		{path: "post-a.md"},
	}
	for _, fixture := range fixtures {
		slug, ok := ParseContentPath(fixture.path)
		assert.Equalf(t, fixture.ok, ok, "path %q", fixture.path)
		assert.Equalf(t, fixture.slug, slug, "path %q", fixture.path)
	}
}

func TestPublishMonth(t *testing.T) {
	month, ok := PublishMonth("2024-05-hello-world")
	require.True(t, ok)
	assert.Equal(t, "2024-05", month)

	_, ok = PublishMonth("hello-world")
	assert.False(t, ok)

	// month out of range
	_, ok = PublishMonth("2024-13-hello")
	assert.False(t, ok)
}
