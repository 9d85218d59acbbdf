package domain

import "context"

// Backend gives uniform read access to a repository tree at one reference.
//
// A Backend is single-use: it is bound to one (repository, reference) pair,
// must be initialized exactly once before any read, and is discarded after
// the extractor that received it returns. Missing files and missing optional
// metadata are reported as empty values, never as errors.
type Backend interface {
	// Init resolves the bound reference and prepares the handle for reads
	Init(ctx context.Context) error
	// ReadFile returns the file contents, or nil when the file does not exist
	ReadFile(ctx context.Context, path string) ([]byte, error)
	// ListDirectory returns the entries of a directory, or nil when it does not exist
	ListDirectory(ctx context.Context, path string) ([]Entry, error)
	// Metadata returns repository level information
	Metadata(ctx context.Context) (*RepoMetadata, error)
	// Contributors returns the people who authored commits
	Contributors(ctx context.Context) ([]Contributor, error)
}

// BackendFactory produces a fresh Backend bound to a repository and reference
type BackendFactory func(repository, reference string) Backend
