package model

// ArtifactKind discriminates the physical artifacts backing a document
type ArtifactKind string

const (
	// ArtifactContent is a content entry (markdown file)
	ArtifactContent ArtifactKind = "content"

	// ArtifactMedia is a file under the document media directory
	ArtifactMedia ArtifactKind = "media"
)

// Artifact is a single file-path entry to delete when removing a document
type Artifact struct {
	Path string
	Kind ArtifactKind
}
