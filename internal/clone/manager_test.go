package clone

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/repolens/internal/domain"
	"github.com/quantmind-br/repolens/internal/mocks"
	"github.com/quantmind-br/repolens/internal/testutil"
)

func entries(t *testing.T, dir string) []string {
	t.Helper()
	items, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.Name())
	}
	return names
}

func TestManager_Prepare(t *testing.T) {
	source := testutil.NewGitRepo(t, "main", map[string]string{
		"README.md":     "# Demo\n",
		"docs/intro.md": "intro",
	})
	root := t.TempDir()
	m := NewManager(ManagerOptions{TempDir: root})

	c, err := m.Prepare(context.Background(), source)
	require.NoError(t, err)
	defer c.Close()

	assert.True(t, strings.HasPrefix(filepath.Base(c.Path()), "repolens-clone-"))
	assert.Equal(t, root, filepath.Dir(c.Path()))
	assert.Equal(t, source, c.Source())
	assert.Equal(t, 1, m.Live())

	data, err := os.ReadFile(filepath.Join(c.Path(), "docs", "intro.md"))
	require.NoError(t, err)
	assert.Equal(t, "intro", string(data))

	repo, err := git.PlainOpen(c.Path())
	require.NoError(t, err)
	head, err := repo.Head()
	require.NoError(t, err)
	assert.Equal(t, "main", head.Name().Short())
}

func TestManager_Prepare_LeavesSourceUntouched(t *testing.T) {
	source := testutil.NewGitRepo(t, "main", map[string]string{"LICENSE": "MIT"})
	// Uncommitted change in the caller's working tree
	require.NoError(t, os.WriteFile(filepath.Join(source, "WIP.md"), []byte("draft"), 0644))
	before := testutil.Snapshot(t, source)
	headBefore := testutil.HeadRef(t, source)

	m := NewManager(ManagerOptions{TempDir: t.TempDir()})
	c, err := m.Prepare(context.Background(), source)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(c.Path(), "WIP.md"))
	assert.True(t, os.IsNotExist(err), "uncommitted files must not leak into the clone")

	require.NoError(t, c.Close())

	assert.Equal(t, before, testutil.Snapshot(t, source))
	assert.Equal(t, headBefore, testutil.HeadRef(t, source))
}

func TestClone_Close(t *testing.T) {
	source := testutil.NewGitRepo(t, "main", map[string]string{"a.txt": "a"})
	m := NewManager(ManagerOptions{TempDir: t.TempDir()})

	c, err := m.Prepare(context.Background(), source)
	require.NoError(t, err)

	require.NoError(t, c.Close())
	_, err = os.Stat(c.Path())
	assert.True(t, os.IsNotExist(err))
	assert.Equal(t, 0, m.Live())

	// Idempotent
	assert.NoError(t, c.Close())
}

func TestManager_Prepare_NotARepository(t *testing.T) {
	root := t.TempDir()
	plain := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(plain, "file.txt"), []byte("x"), 0644))

	m := NewManager(ManagerOptions{TempDir: root})
	c, err := m.Prepare(context.Background(), plain)

	require.Error(t, err)
	assert.Nil(t, c)
	assert.ErrorIs(t, err, domain.ErrClone)

	var cloneErr *domain.CloneError
	require.True(t, errors.As(err, &cloneErr))
	assert.Equal(t, plain, cloneErr.Source)

	assert.Empty(t, entries(t, root))
	assert.Equal(t, 0, m.Live())
}

func TestManager_Prepare_MissingPath(t *testing.T) {
	root := t.TempDir()
	m := NewManager(ManagerOptions{TempDir: root})

	_, err := m.Prepare(context.Background(), filepath.Join(root, "does-not-exist"))

	assert.ErrorIs(t, err, domain.ErrClone)
	assert.Empty(t, entries(t, root))
}

func TestManager_Prepare_CloneFailureRemovesDirectory(t *testing.T) {
	root := t.TempDir()
	client := new(mocks.MockGitClient)
	client.On("PlainOpen", mock.Anything).Return(nil, nil)
	client.On("CloneContext", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("no space left on device"))

	m := NewManager(ManagerOptions{Client: client, TempDir: root})
	_, err := m.Prepare(context.Background(), "/some/repo")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrClone)
	assert.Contains(t, err.Error(), "no space left on device")
	assert.Empty(t, entries(t, root))
	assert.Equal(t, 0, m.Live())
	client.AssertExpectations(t)
}

func TestManager_Prepare_ClonesFromSourcePath(t *testing.T) {
	root := t.TempDir()
	client := new(mocks.MockGitClient)
	client.On("PlainOpen", "/some/repo").Return(nil, nil)
	client.On("CloneContext", mock.Anything, mock.Anything, mock.Anything, mock.MatchedBy(func(o *git.CloneOptions) bool {
		return o.URL == "/some/repo" && o.Tags == git.AllTags
	})).Return(nil, nil)

	m := NewManager(ManagerOptions{Client: client, TempDir: root})
	c, err := m.Prepare(context.Background(), "/some/repo")
	require.NoError(t, err)
	defer c.Close()

	client.AssertExpectations(t)
}

func TestManager_Cleanup(t *testing.T) {
	source := testutil.NewGitRepo(t, "main", map[string]string{"a.txt": "a"})
	root := t.TempDir()
	m := NewManager(ManagerOptions{TempDir: root})

	first, err := m.Prepare(context.Background(), source)
	require.NoError(t, err)
	second, err := m.Prepare(context.Background(), source)
	require.NoError(t, err)
	assert.NotEqual(t, first.Path(), second.Path())
	assert.Equal(t, 2, m.Live())

	require.NoError(t, m.Cleanup())

	assert.Equal(t, 0, m.Live())
	assert.Empty(t, entries(t, root))
	assert.NoError(t, first.Close())
}

func TestManager_Prepare_AfterCleanup(t *testing.T) {
	source := testutil.NewGitRepo(t, "main", map[string]string{"a.txt": "a"})
	root := t.TempDir()
	m := NewManager(ManagerOptions{TempDir: root})

	require.NoError(t, m.Cleanup())

	c, err := m.Prepare(context.Background(), source)
	assert.Nil(t, c)
	assert.ErrorIs(t, err, domain.ErrClone)
	assert.ErrorIs(t, err, ErrClosed)
	assert.Empty(t, entries(t, root))
}

func TestManager_Cleanup_DuringClone(t *testing.T) {
	root := t.TempDir()
	started := make(chan struct{})
	release := make(chan struct{})

	client := new(mocks.MockGitClient)
	client.On("PlainOpen", mock.Anything).Return(nil, nil)
	client.On("CloneContext", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return(nil, nil)

	m := NewManager(ManagerOptions{Client: client, TempDir: root})

	done := make(chan error, 1)
	go func() {
		_, err := m.Prepare(context.Background(), "/some/repo")
		done <- err
	}()

	<-started
	require.Len(t, entries(t, root), 1)
	require.NoError(t, m.Cleanup())
	close(release)

	assert.ErrorIs(t, <-done, ErrClosed)
	assert.Empty(t, entries(t, root))
	assert.Equal(t, 0, m.Live())
}

func TestManager_Cleanup_ConcurrentPrepare(t *testing.T) {
	source := testutil.NewGitRepo(t, "main", map[string]string{"a.txt": "a"})
	root := t.TempDir()
	m := NewManager(ManagerOptions{TempDir: root})

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = m.Prepare(context.Background(), source)
		}()
	}
	require.NoError(t, m.Cleanup())
	wg.Wait()

	assert.Empty(t, entries(t, root))
	assert.Equal(t, 0, m.Live())
}

func TestManager_Prepare_CreatesTempRoot(t *testing.T) {
	source := testutil.NewGitRepo(t, "main", map[string]string{"a.txt": "a"})
	root := filepath.Join(t.TempDir(), "nested", "clones")

	m := NewManager(ManagerOptions{TempDir: root})
	c, err := m.Prepare(context.Background(), source)
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, root, filepath.Dir(c.Path()))
}
