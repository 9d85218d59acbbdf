package git

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/go-git/go-git/v5/storage/filesystem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/repolens/internal/testutil"
)

func TestNewClient(t *testing.T) {
	client := NewClient()
	assert.NotNil(t, client)
}

func TestClientInterface(t *testing.T) {
	var client Client = NewClient()
	_, ok := client.(*RealClient)
	assert.True(t, ok)
}

func TestRealClient_PlainOpen(t *testing.T) {
	client := NewClient()

	t.Run("opens repository root", func(t *testing.T) {
		dir := testutil.NewGitRepo(t, "main", map[string]string{"README.md": "hi"})
		repo, err := client.PlainOpen(dir)
		require.NoError(t, err)
		assert.NotNil(t, repo)
	})

	t.Run("does not walk up to parent repository", func(t *testing.T) {
		dir := testutil.NewGitRepo(t, "main", map[string]string{"sub/file.txt": "x"})
		_, err := client.PlainOpen(filepath.Join(dir, "sub"))
		assert.ErrorIs(t, err, git.ErrRepositoryNotExists)
	})

	t.Run("plain directory", func(t *testing.T) {
		_, err := client.PlainOpen(t.TempDir())
		assert.Error(t, err)
	})
}

func TestRealClient_CloneContext(t *testing.T) {
	client := NewClient()
	source := testutil.NewGitRepo(t, "main", map[string]string{"README.md": "hello"})

	t.Run("clones into worktree and storer", func(t *testing.T) {
		dir := t.TempDir()
		worktree := osfs.New(dir)
		dot, err := worktree.Chroot(git.GitDirName)
		require.NoError(t, err)

		repo, err := client.CloneContext(context.Background(),
			filesystem.NewStorage(dot, cache.NewObjectLRUDefault()), worktree,
			&git.CloneOptions{URL: source})
		require.NoError(t, err)

		head, err := repo.Head()
		require.NoError(t, err)
		assert.Equal(t, "main", head.Name().Short())
		assert.FileExists(t, filepath.Join(dir, "README.md"))
	})
}
