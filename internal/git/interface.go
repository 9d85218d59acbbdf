package git

import (
	"context"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/storage"
)

// Client defines the interface for Git operations
type Client interface {
	PlainOpen(path string) (*git.Repository, error)
	CloneContext(ctx context.Context, s storage.Storer, worktree billy.Filesystem, o *git.CloneOptions) (*git.Repository, error)
}
