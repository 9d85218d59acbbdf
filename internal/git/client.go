package git

import (
	"context"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/storage"
)

// RealClient implements Client using go-git
type RealClient struct{}

// NewClient creates a new RealClient
func NewClient() *RealClient {
	return &RealClient{}
}

// PlainOpen opens a non-bare repository without walking up to parent directories
func (c *RealClient) PlainOpen(path string) (*git.Repository, error) {
	return git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: false})
}

// CloneContext calls git.CloneContext
func (c *RealClient) CloneContext(ctx context.Context, s storage.Storer, worktree billy.Filesystem, o *git.CloneOptions) (*git.Repository, error) {
	return git.CloneContext(ctx, s, worktree, o)
}
