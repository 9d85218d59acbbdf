// Package local implements domain.Backend over a git repository on disk.
//
// The backend never checks anything out: reads are served from the tree of
// the resolved commit, so the working tree of the repository is irrelevant
// and the reference can be any branch, tag or commit.
package local

import (
	"context"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/quantmind-br/repolens/internal/domain"
	gitclient "github.com/quantmind-br/repolens/internal/git"
)

// RemoteName is the remote a clone uses to reach its source
const RemoteName = "origin"

// Backend reads a repository at one reference
type Backend struct {
	path      string
	reference string
	client    gitclient.Client

	repo          *git.Repository
	commit        *object.Commit
	tree          *object.Tree
	defaultBranch string
}

// New creates a backend bound to the repository at path and reference.
// An empty reference means HEAD.
func New(path, reference string) *Backend {
	return NewWithClient(gitclient.NewClient(), path, reference)
}

// NewWithClient is New with an explicit git client
func NewWithClient(client gitclient.Client, path, reference string) *Backend {
	return &Backend{
		path:      path,
		reference: reference,
		client:    client,
	}
}

// Factory returns a BackendFactory producing local backends
func Factory(client gitclient.Client) domain.BackendFactory {
	if client == nil {
		client = gitclient.NewClient()
	}
	return func(repository, reference string) domain.Backend {
		return NewWithClient(client, repository, reference)
	}
}

// Init opens the repository and resolves the reference to a commit tree
func (b *Backend) Init(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return &domain.BackendUnavailableError{Repository: b.path, Err: err}
	}

	repo, err := b.client.PlainOpen(b.path)
	if err != nil {
		return &domain.BackendUnavailableError{Repository: b.path, Err: err}
	}

	if head, err := repo.Head(); err == nil && head.Name().IsBranch() {
		b.defaultBranch = head.Name().Short()
	}

	hash, err := b.resolve(repo)
	if err != nil {
		return &domain.ReferenceNotFoundError{Repository: b.path, Reference: b.reference, Err: err}
	}

	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return domain.NewBackendIOError(b.path, "read commit", hash.String(), err)
	}
	tree, err := commit.Tree()
	if err != nil {
		return domain.NewBackendIOError(b.path, "read tree", hash.String(), err)
	}

	b.repo = repo
	b.commit = commit
	b.tree = tree
	return nil
}

// resolve tries the reference as given, then as a branch of the origin
// remote, since branches of a cloned source only exist as remote-tracking
// references in the clone.
func (b *Backend) resolve(repo *git.Repository) (*plumbing.Hash, error) {
	if b.reference == "" {
		return repo.ResolveRevision(plumbing.Revision(plumbing.HEAD))
	}

	candidates := []string{b.reference, RemoteName + "/" + b.reference}
	var lastErr error
	for _, candidate := range candidates {
		hash, err := repo.ResolveRevision(plumbing.Revision(candidate))
		if err == nil {
			return hash, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// ReadFile returns the blob at path, or nil when it is missing or not a file
func (b *Backend) ReadFile(ctx context.Context, name string) ([]byte, error) {
	if b.tree == nil {
		return nil, domain.ErrNotInitialized
	}
	if err := ctx.Err(); err != nil {
		return nil, domain.NewBackendIOError(b.path, "read file", name, err)
	}

	p := cleanPath(name)
	if p == "" {
		return nil, nil
	}

	entry, err := b.tree.FindEntry(p)
	if err != nil {
		if isAbsent(err) {
			return nil, nil
		}
		return nil, domain.NewBackendIOError(b.path, "read file", p, err)
	}
	if !entry.Mode.IsFile() {
		return nil, nil
	}

	file, err := b.tree.File(p)
	if err != nil {
		if isAbsent(err) {
			return nil, nil
		}
		return nil, domain.NewBackendIOError(b.path, "read file", p, err)
	}

	contents, err := file.Contents()
	if err != nil {
		return nil, domain.NewBackendIOError(b.path, "read file", p, err)
	}
	return []byte(contents), nil
}

// ListDirectory returns the files and directories directly under path.
// Submodules are skipped.
func (b *Backend) ListDirectory(ctx context.Context, name string) ([]domain.Entry, error) {
	if b.tree == nil {
		return nil, domain.ErrNotInitialized
	}
	if err := ctx.Err(); err != nil {
		return nil, domain.NewBackendIOError(b.path, "list directory", name, err)
	}

	p := cleanPath(name)
	tree := b.tree
	if p != "" {
		entry, err := b.tree.FindEntry(p)
		if err != nil {
			if isAbsent(err) {
				return nil, nil
			}
			return nil, domain.NewBackendIOError(b.path, "list directory", p, err)
		}
		if entry.Mode != filemode.Dir {
			return nil, nil
		}
		tree, err = b.tree.Tree(p)
		if err != nil {
			return nil, domain.NewBackendIOError(b.path, "list directory", p, err)
		}
	}

	entries := make([]domain.Entry, 0, len(tree.Entries))
	for _, e := range tree.Entries {
		var typ domain.EntryType
		switch {
		case e.Mode == filemode.Dir:
			typ = domain.EntryDir
		case e.Mode.IsFile():
			typ = domain.EntryFile
		default:
			continue
		}
		entries = append(entries, domain.Entry{
			Name: e.Name,
			Path: path.Join(p, e.Name),
			Type: typ,
		})
	}
	return entries, nil
}

// Metadata reports what git itself knows: the default branch of the
// repository, the resolved commit and its date, and the origin URL.
// Hosting-only fields are left empty.
func (b *Backend) Metadata(ctx context.Context) (*domain.RepoMetadata, error) {
	if b.commit == nil {
		return nil, domain.ErrNotInitialized
	}

	meta := &domain.RepoMetadata{
		DefaultBranch:  b.defaultBranch,
		HeadCommit:     b.commit.Hash.String(),
		LastCommitDate: b.commit.Committer.When.UTC(),
	}
	if remote, err := b.repo.Remote(RemoteName); err == nil {
		if urls := remote.Config().URLs; len(urls) > 0 {
			meta.URL = urls[0]
		}
	}
	return meta, nil
}

// Contributors ranks the authors of every commit reachable from the
// resolved reference by number of commits, ties broken by name.
func (b *Backend) Contributors(ctx context.Context) ([]domain.Contributor, error) {
	if b.commit == nil {
		return nil, domain.ErrNotInitialized
	}

	iter, err := b.repo.Log(&git.LogOptions{From: b.commit.Hash})
	if err != nil {
		return nil, domain.NewBackendIOError(b.path, "log", "", err)
	}
	defer iter.Close()

	byEmail := make(map[string]*domain.Contributor)
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		key := strings.ToLower(c.Author.Email)
		if key == "" {
			key = c.Author.Name
		}
		contributor, ok := byEmail[key]
		if !ok {
			contributor = &domain.Contributor{
				Username: c.Author.Name,
				Email:    c.Author.Email,
			}
			byEmail[key] = contributor
		}
		contributor.Contributions++
		return nil
	})
	if err != nil {
		return nil, domain.NewBackendIOError(b.path, "log", "", err)
	}

	contributors := make([]domain.Contributor, 0, len(byEmail))
	for _, c := range byEmail {
		contributors = append(contributors, *c)
	}
	sort.Slice(contributors, func(i, j int) bool {
		if contributors[i].Contributions != contributors[j].Contributions {
			return contributors[i].Contributions > contributors[j].Contributions
		}
		return contributors[i].Username < contributors[j].Username
	})
	return contributors, nil
}

func cleanPath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = path.Clean("/" + p)
	return strings.TrimPrefix(p, "/")
}

func isAbsent(err error) bool {
	return errors.Is(err, object.ErrEntryNotFound) ||
		errors.Is(err, object.ErrDirectoryNotFound) ||
		errors.Is(err, object.ErrFileNotFound)
}

var _ domain.Backend = (*Backend)(nil)

func (b *Backend) String() string {
	return fmt.Sprintf("local(%s@%s)", b.path, b.reference)
}
