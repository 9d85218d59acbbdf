package testutil

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// Default commit author used by test repositories
const (
	AuthorName  = "Test User"
	AuthorEmail = "test@example.com"
)

var commitTime = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

// NewGitRepo initializes a repository whose HEAD points at branch and,
// when files is non-empty, commits them as the first commit.
func NewGitRepo(t *testing.T, branch string, files map[string]string) string {
	t.Helper()

	dir := t.TempDir()
	_, err := git.PlainInitWithOptions(dir, &git.PlainInitOptions{
		InitOptions: git.InitOptions{
			DefaultBranch: plumbing.NewBranchReferenceName(branch),
		},
	})
	require.NoError(t, err)

	if len(files) > 0 {
		Commit(t, dir, files, "initial commit")
	}
	return dir
}

// Commit writes files into the working tree of dir and commits them
func Commit(t *testing.T, dir string, files map[string]string, message string) plumbing.Hash {
	t.Helper()
	return CommitAs(t, dir, files, message, AuthorName, AuthorEmail)
}

// CommitAs is Commit with an explicit author
func CommitAs(t *testing.T, dir string, files map[string]string, message, name, email string) plumbing.Hash {
	t.Helper()

	repo, err := git.PlainOpen(dir)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(files[name]), 0644))
		_, err := wt.Add(name)
		require.NoError(t, err)
	}

	commitTime = commitTime.Add(time.Minute)
	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{Name: name, Email: email, When: commitTime},
	})
	require.NoError(t, err)
	return hash
}

// CreateBranch points a new local branch at the current HEAD commit
func CreateBranch(t *testing.T, dir, branch string) {
	t.Helper()

	repo, err := git.PlainOpen(dir)
	require.NoError(t, err)
	head, err := repo.Head()
	require.NoError(t, err)

	ref := plumbing.NewHashReference(plumbing.NewBranchReferenceName(branch), head.Hash())
	require.NoError(t, repo.Storer.SetReference(ref))
}

// CreateTag creates a lightweight tag at the current HEAD commit
func CreateTag(t *testing.T, dir, tag string) {
	t.Helper()

	repo, err := git.PlainOpen(dir)
	require.NoError(t, err)
	head, err := repo.Head()
	require.NoError(t, err)

	_, err = repo.CreateTag(tag, head.Hash(), nil)
	require.NoError(t, err)
}

// Snapshot returns every regular file under dir (excluding .git) keyed by
// slash-separated relative path.
func Snapshot(t *testing.T, dir string) map[string]string {
	t.Helper()

	out := make(map[string]string)
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		out[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	require.NoError(t, err)
	return out
}

// HeadRef returns the full name HEAD points to
func HeadRef(t *testing.T, dir string) string {
	t.Helper()

	repo, err := git.PlainOpen(dir)
	require.NoError(t, err)
	ref, err := repo.Storer.Reference(plumbing.HEAD)
	require.NoError(t, err)
	if ref.Type() == plumbing.SymbolicReference {
		return ref.Target().String()
	}
	return ref.Hash().String()
}
