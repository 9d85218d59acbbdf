package mocks

import (
	"context"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/storage"
	"github.com/stretchr/testify/mock"
)

// MockGitClient mocks the git.Client interface
type MockGitClient struct {
	mock.Mock
}

// PlainOpen mocks opening a repository
func (m *MockGitClient) PlainOpen(path string) (*git.Repository, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*git.Repository), args.Error(1)
}

// CloneContext mocks the git clone operation
func (m *MockGitClient) CloneContext(ctx context.Context, s storage.Storer, worktree billy.Filesystem, o *git.CloneOptions) (*git.Repository, error) {
	args := m.Called(ctx, s, worktree, o)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*git.Repository), args.Error(1)
}
