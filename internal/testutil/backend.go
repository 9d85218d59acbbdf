package testutil

import (
	"context"
	"path"
	"sort"
	"strings"
	"sync"

	"github.com/quantmind-br/repolens/internal/domain"
)

// MemoryBackend is a domain.Backend over an in-memory file map
type MemoryBackend struct {
	Files        map[string]string
	Meta         *domain.RepoMetadata
	People       []domain.Contributor
	InitErr      error
	ReadErr      error
	ReadErrPaths map[string]bool

	mu          sync.Mutex
	initialized bool
	reads       []string
}

// NewMemoryBackend creates a backend serving files
func NewMemoryBackend(files map[string]string) *MemoryBackend {
	return &MemoryBackend{Files: files}
}

// Init fails with InitErr when set
func (m *MemoryBackend) Init(ctx context.Context) error {
	if m.InitErr != nil {
		return m.InitErr
	}
	m.mu.Lock()
	m.initialized = true
	m.mu.Unlock()
	return nil
}

// Initialized reports whether Init succeeded
func (m *MemoryBackend) Initialized() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.initialized
}

// Reads returns the paths passed to ReadFile
func (m *MemoryBackend) Reads() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.reads...)
}

func (m *MemoryBackend) ReadFile(ctx context.Context, name string) ([]byte, error) {
	m.mu.Lock()
	m.reads = append(m.reads, name)
	m.mu.Unlock()

	if m.ReadErr != nil && (len(m.ReadErrPaths) == 0 || m.ReadErrPaths[name]) {
		return nil, m.ReadErr
	}
	content, ok := m.Files[name]
	if !ok {
		return nil, nil
	}
	return []byte(content), nil
}

func (m *MemoryBackend) ListDirectory(ctx context.Context, name string) ([]domain.Entry, error) {
	dir := strings.Trim(name, "/")
	prefix := ""
	if dir != "" {
		prefix = dir + "/"
	}

	children := make(map[string]domain.EntryType)
	for p := range m.Files {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		rest := strings.TrimPrefix(p, prefix)
		if i := strings.Index(rest, "/"); i >= 0 {
			children[rest[:i]] = domain.EntryDir
			continue
		}
		children[rest] = domain.EntryFile
	}

	names := make([]string, 0, len(children))
	for n := range children {
		names = append(names, n)
	}
	sort.Strings(names)

	var entries []domain.Entry
	for _, n := range names {
		entries = append(entries, domain.Entry{Name: n, Path: path.Join(dir, n), Type: children[n]})
	}
	return entries, nil
}

func (m *MemoryBackend) Metadata(ctx context.Context) (*domain.RepoMetadata, error) {
	if m.Meta == nil {
		return &domain.RepoMetadata{}, nil
	}
	meta := *m.Meta
	return &meta, nil
}

func (m *MemoryBackend) Contributors(ctx context.Context) ([]domain.Contributor, error) {
	return append([]domain.Contributor(nil), m.People...), nil
}

var _ domain.Backend = (*MemoryBackend)(nil)
