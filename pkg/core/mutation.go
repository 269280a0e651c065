package core

import (
	"sort"

	"github.com/foliopress/folio/pkg/model"
)

// buildDeletions flattens resolved documents into a single deletion set:
// one deletion per artifact path, sorted by slug then path, with duplicate
// paths dropped. Duplicates should not occur given slug-namespaced paths,
// but a set with duplicates would violate the tree primitive contract.
func buildDeletions(docs []resolvedDocument) model.MutationSet {
	sorted := make([]resolvedDocument, len(docs))
	copy(sorted, docs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].slug < sorted[j].slug })

	deletions := make(model.MutationSet, 0, 4*len(sorted))
	seen := make(map[string]struct{}, 4*len(sorted))
	for _, doc := range sorted {
		artifacts := make([]model.Artifact, len(doc.artifacts))
		copy(artifacts, doc.artifacts)
		sort.Slice(artifacts, func(i, j int) bool { return artifacts[i].Path < artifacts[j].Path })

		for _, a := range artifacts {
			if _, ok := seen[a.Path]; ok {
				continue
			}
			seen[a.Path] = struct{}{}
			deletions = append(deletions, model.Mutation{Path: a.Path})
		}
	}
	return deletions
}
