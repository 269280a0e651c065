package model

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// ContentPrefix is the tree prefix holding document content entries
	ContentPrefix = "content/"

	// MediaRoot is the tree prefix holding per-document media directories
	MediaRoot = "media/"
)

// ContentExtensions are the canonical extensions a content entry may carry.
// A document owns one entry per extension; absence of either is not an
// error.
var ContentExtensions = []string{".md", ".mdx"}

var (
	slugRe  = regexp.MustCompile(`^[a-z0-9]+(?:[._-][a-z0-9]+)*$`)
	monthRe = regexp.MustCompile(`^(\d{4}-(?:0[1-9]|1[0-2]))-`)
)

// ValidateSlug checks a document slug
func ValidateSlug(slug string) error {
	if slug == "" {
		return fmt.Errorf("slug is empty")
	}
	if !slugRe.MatchString(slug) {
		return fmt.Errorf("invalid slug: %q", slug)
	}
	return nil
}

// ContentPaths yields the canonical content entry paths for a slug, one
// per canonical extension, in extension order.
func ContentPaths(slug string) []string {
	paths := make([]string, 0, len(ContentExtensions))
	for _, ext := range ContentExtensions {
		paths = append(paths, ContentPrefix+slug+ext)
	}
	return paths
}

// MediaPrefix yields the tree prefix of the media directory owned by a slug
func MediaPrefix(slug string) string {
	return MediaRoot + slug + "/"
}

// ParseContentPath extracts the slug from a content entry path
func ParseContentPath(path string) (string, bool) {
	rest, found := strings.CutPrefix(path, ContentPrefix)
	if !found || strings.Contains(rest, "/") {
		return "", false
	}
	for _, ext := range ContentExtensions {
		if slug, ok := strings.CutSuffix(rest, ext); ok && slug != "" {
			return slug, true
		}
	}
	return "", false
}

// PublishMonth extracts the year-month prefix of a dated slug
// (e.g. "2024-05-hello" yields "2024-05"). Listings group documents by it.
func PublishMonth(slug string) (string, bool) {
	m := monthRe.FindStringSubmatch(slug)
	if m == nil {
		return "", false
	}
	return m[1], true
}
