package core

import (
	"context"
	"fmt"
	"sync"

	"github.com/foliopress/folio/pkg/auth"
	"github.com/foliopress/folio/pkg/model"
	"github.com/foliopress/folio/pkg/storage"
)

type resolvedDocument struct {
	slug      string
	artifacts []model.Artifact
}

// resolveDocuments enumerates the artifacts of every slug at a given
// commit. Per-slug listings are independent and read-only, so they run
// concurrently up to the configured bound; results keep the input order.
func resolveDocuments(ctx context.Context, store storage.Store, cred auth.Credential, slugs []string, at model.Hash, settings Settings) ([]resolvedDocument, error) {
	docs := make([]resolvedDocument, len(slugs))
	semaphore := make(chan struct{}, max(1, settings.concurrentResolve))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for i, slug := range slugs {
		wg.Add(1)
		go func(i int, slug string) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			artifacts, err := resolveDocument(ctx, store, cred, slug, at)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			docs[i] = resolvedDocument{slug: slug, artifacts: artifacts}
			settings.sink.Notify(PhaseResolvingDocuments,
				fmt.Sprintf("resolved document %q (%d artifacts)", slug, len(artifacts)))
		}(i, slug)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return docs, nil
}

// resolveDocument yields every physical artifact backing one document: the
// canonical content entries are included unconditionally (the committer
// treats deletion of an absent path as a no-op) plus every file found
// under the media directory. An absent media directory yields no
// artifacts and no error.
func resolveDocument(ctx context.Context, store storage.Store, cred auth.Credential, slug string, at model.Hash) ([]model.Artifact, error) {
	artifacts := make([]model.Artifact, 0, 4)
	for _, path := range model.ContentPaths(slug) {
		artifacts = append(artifacts, model.Artifact{Path: path, Kind: model.ArtifactContent})
	}

	paths, err := store.ListPaths(ctx, cred, model.MediaPrefix(slug), at)
	if err != nil {
		return nil, err
	}
	for _, path := range paths {
		artifacts = append(artifacts, model.Artifact{Path: path, Kind: model.ArtifactMedia})
	}
	return artifacts, nil
}
