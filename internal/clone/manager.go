// Package clone materializes disposable, isolated copies of local
// repositories so that examining a reference never touches the caller's
// working tree, index or uncommitted changes.
//
// Every Clone is a scoped resource: the caller defers Close, which removes
// the directory on all exit paths. The Manager additionally tracks live
// clones so a signal handler can remove them through Cleanup when the
// process is asked to terminate.
package clone

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/cache"
	"github.com/go-git/go-git/v5/storage/filesystem"

	"github.com/quantmind-br/repolens/internal/domain"
	gitclient "github.com/quantmind-br/repolens/internal/git"
	"github.com/quantmind-br/repolens/internal/utils"
)

// DirPattern is the os.MkdirTemp pattern used for clone directories
const DirPattern = "repolens-clone-*"

// ErrClosed is returned by Prepare once Cleanup has run
var ErrClosed = errors.New("clone manager closed")

// Manager prepares isolated clones and tracks the ones still alive
type Manager struct {
	client  gitclient.Client
	tempDir string
	logger  *utils.Logger

	mu     sync.Mutex
	live   map[string]*Clone
	closed bool
}

// ManagerOptions contains options for creating a Manager
type ManagerOptions struct {
	Client  gitclient.Client
	TempDir string
	Logger  *utils.Logger
}

// NewManager creates a new clone manager
func NewManager(opts ManagerOptions) *Manager {
	client := opts.Client
	if client == nil {
		client = gitclient.NewClient()
	}
	logger := opts.Logger
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &Manager{
		client:  client,
		tempDir: utils.ExpandPath(opts.TempDir),
		logger:  logger.WithComponent("clone"),
		live:    make(map[string]*Clone),
	}
}

// Prepare clones sourcePath into a fresh, uniquely named temporary directory.
// Any failure is returned as a *domain.CloneError and leaves nothing on disk.
func (m *Manager) Prepare(ctx context.Context, sourcePath string) (*Clone, error) {
	source, err := filepath.Abs(utils.ExpandPath(sourcePath))
	if err != nil {
		return nil, &domain.CloneError{Source: sourcePath, Err: err}
	}

	if _, err := m.client.PlainOpen(source); err != nil {
		return nil, &domain.CloneError{Source: source, Err: fmt.Errorf("not a git repository: %w", err)}
	}

	if m.tempDir != "" {
		if err := os.MkdirAll(m.tempDir, 0755); err != nil {
			return nil, &domain.CloneError{Source: source, Err: fmt.Errorf("failed to create temp root: %w", err)}
		}
	}

	c, err := m.create(source)
	if err != nil {
		return nil, &domain.CloneError{Source: source, Err: err}
	}

	m.logger.Debug().Str("source", source).Str("path", c.path).Msg("Cloning repository")

	err = m.clone(ctx, source, c.path)
	if !m.isLive(c) {
		// Cleanup ran while cloning and may have raced with the writes
		if rmErr := os.RemoveAll(c.path); rmErr != nil {
			m.logger.Warn().Err(rmErr).Str("path", c.path).Msg("Failed to remove clone")
		}
		return nil, &domain.CloneError{Source: source, Err: ErrClosed}
	}
	if err != nil {
		if rmErr := c.Close(); rmErr != nil {
			m.logger.Warn().Err(rmErr).Str("path", c.path).Msg("Failed to remove incomplete clone")
		}
		return nil, &domain.CloneError{Source: source, Err: err}
	}

	return c, nil
}

// create makes the clone directory and registers it in one step so Cleanup
// never misses a directory that exists on disk.
func (m *Manager) create(source string) (*Clone, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, ErrClosed
	}
	dir, err := os.MkdirTemp(m.tempDir, DirPattern)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	c := &Clone{path: dir, source: source, manager: m}
	m.live[dir] = c
	return c, nil
}

func (m *Manager) clone(ctx context.Context, source, dir string) error {
	worktree := osfs.New(dir)
	dot, err := worktree.Chroot(git.GitDirName)
	if err != nil {
		return err
	}
	storer := filesystem.NewStorage(dot, cache.NewObjectLRUDefault())

	_, err = m.client.CloneContext(ctx, storer, worktree, &git.CloneOptions{
		URL:  source,
		Tags: git.AllTags,
	})
	return err
}

// Cleanup removes every clone that has not been closed yet. The manager
// refuses to prepare new clones afterwards.
func (m *Manager) Cleanup() error {
	m.mu.Lock()
	m.closed = true
	clones := make([]*Clone, 0, len(m.live))
	for _, c := range m.live {
		clones = append(clones, c)
	}
	m.mu.Unlock()

	var errs []error
	for _, c := range clones {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(clones) > 0 {
		m.logger.Debug().Int("count", len(clones)).Msg("Removed live clones")
	}
	return errors.Join(errs...)
}

// Live returns the number of clones not yet closed
func (m *Manager) Live() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.live)
}

func (m *Manager) isLive(c *Clone) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.live[c.path] == c
}

func (m *Manager) untrack(c *Clone) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.live, c.path)
}

// Clone is an isolated copy of a local repository
type Clone struct {
	path    string
	source  string
	manager *Manager

	once sync.Once
	err  error
}

// Path returns the directory holding the clone
func (c *Clone) Path() string {
	return c.path
}

// Source returns the absolute path of the repository that was cloned
func (c *Clone) Source() string {
	return c.source
}

// Close removes the clone directory and its contents. It is safe to call
// more than once; later calls return the result of the first.
func (c *Clone) Close() error {
	c.once.Do(func() {
		// Untrack first so a concurrent Prepare sees the clone as gone
		// before its directory is removed.
		if c.manager != nil {
			c.manager.untrack(c)
		}
		c.err = os.RemoveAll(c.path)
	})
	return c.err
}
