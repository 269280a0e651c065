package core

import (
	"context"
	"sort"

	"github.com/foliopress/folio/pkg/auth"
	"github.com/foliopress/folio/pkg/core/status"
	"github.com/foliopress/folio/pkg/model"
	"github.com/foliopress/folio/pkg/storage"
)

// UndatedGroup is the grouping key of slugs carrying no year-month prefix
const UndatedGroup = "undated"

// ListDocuments yields the slugs of all documents present at the branch
// head, sorted and unique. A document counts as present when either
// canonical content entry exists.
func ListDocuments(ctx context.Context, store storage.Store, cred auth.Credential, branch string, opts ...Option) ([]string, error) {
	settings := defaultSettings()
	for _, apply := range opts {
		apply(&settings)
	}
	if cred.IsZero() {
		return nil, status.ErrUnauthorized
	}

	head, err := store.ReadBranchHead(ctx, cred, branch)
	if err != nil {
		return nil, classify(status.ErrResolution, err)
	}
	paths, err := store.ListPaths(ctx, cred, model.ContentPrefix, head)
	if err != nil {
		return nil, classify(status.ErrResolution, err)
	}

	seen := make(map[string]struct{}, len(paths))
	slugs := make([]string, 0, len(paths))
	for _, path := range paths {
		slug, ok := model.ParseContentPath(path)
		if !ok {
			continue
		}
		if _, dup := seen[slug]; dup {
			continue
		}
		seen[slug] = struct{}{}
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs, nil
}

// GroupByMonth groups slugs by their year-month prefix, the way listings
// present them. Slugs without a date prefix fall under UndatedGroup.
// Groups preserve the input order of their members.
func GroupByMonth(slugs []string) map[string][]string {
	groups := make(map[string][]string)
	for _, slug := range slugs {
		key, ok := model.PublishMonth(slug)
		if !ok {
			key = UndatedGroup
		}
		groups[key] = append(groups[key], slug)
	}
	return groups
}
