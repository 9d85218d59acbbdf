// Package github implements domain.Backend on top of the GitHub REST API.
//
// Every read is served by the API at the commit the reference resolved to
// during Init, so a backend sees a consistent snapshot even when the branch
// moves while extractors run. Nothing is written to the local filesystem.
package github

import (
	"context"
	"fmt"
	"path"
	"strings"

	gh "github.com/google/go-github/v35/github"

	"github.com/quantmind-br/repolens/internal/domain"
	"github.com/quantmind-br/repolens/internal/utils"
)

const contributorsPerPage = 100

// Options configures backends produced by NewFactory
type Options struct {
	Client  ClientOptions
	Retry   RetrierOptions
	Logger  *utils.Logger
	Service *gh.Client // overrides Client when set
}

// Backend reads a hosted repository at one reference
type Backend struct {
	client     *gh.Client
	retrier    *Retrier
	logger     *utils.Logger
	repository string
	reference  string

	info *RepoInfo
	repo *gh.Repository
	sha  string
}

// NewFactory builds one API client and returns a factory producing fresh
// backends that share it. Backends never share repository data.
func NewFactory(opts Options) (domain.BackendFactory, error) {
	client := opts.Service
	if client == nil {
		var err error
		client, err = NewClient(opts.Client)
		if err != nil {
			return nil, err
		}
	}
	retrier := NewRetrier(opts.Retry)
	logger := opts.Logger
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	logger = logger.WithComponent("github")

	return func(repository, reference string) domain.Backend {
		return New(client, retrier, logger, repository, reference)
	}, nil
}

// New creates a backend bound to repository and reference
func New(client *gh.Client, retrier *Retrier, logger *utils.Logger, repository, reference string) *Backend {
	if retrier == nil {
		retrier = NewRetrier(DefaultRetrierOptions())
	}
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	return &Backend{
		client:     client,
		retrier:    retrier,
		logger:     logger,
		repository: repository,
		reference:  reference,
	}
}

// Init validates the repository and resolves the reference to a commit SHA.
// An empty reference falls back to the /tree/<branch> part of the URL, then
// to the default branch of the repository.
func (b *Backend) Init(ctx context.Context) error {
	info, err := ParseURL(b.repository)
	if err != nil {
		return &domain.BackendUnavailableError{Repository: b.repository, Err: err}
	}
	if !b.servesHost(info.Host) {
		return &domain.BackendUnavailableError{
			Repository: b.repository,
			Err:        fmt.Errorf("%w: unsupported host %q", domain.ErrInvalidURL, info.Host),
		}
	}

	var repo *gh.Repository
	err = b.retrier.Retry(ctx, func() error {
		var err error
		repo, _, err = b.client.Repositories.Get(ctx, info.Owner, info.Repo)
		return err
	})
	if err != nil {
		return &domain.BackendUnavailableError{Repository: info.FullName(), Err: err}
	}

	ref := b.reference
	if ref == "" {
		ref = info.Branch
	}
	if ref == "" {
		ref = repo.GetDefaultBranch()
	}

	var sha string
	err = b.retrier.Retry(ctx, func() error {
		var err error
		sha, _, err = b.client.Repositories.GetCommitSHA1(ctx, info.Owner, info.Repo, ref, "")
		return err
	})
	if err != nil {
		switch statusOf(err) {
		case 404, 422:
			return &domain.ReferenceNotFoundError{Repository: info.FullName(), Reference: ref, Err: err}
		}
		return domain.NewBackendIOError(info.FullName(), "resolve reference", ref, err)
	}

	b.logger.Debug().
		Str("repository", info.FullName()).
		Str("reference", ref).
		Str("sha", sha).
		Msg("Resolved reference")

	b.info = info
	b.repo = repo
	b.sha = strings.TrimSpace(sha)
	return nil
}

// servesHost reports whether repositories on host are reachable through the
// configured API. Enterprise installs serve the API on the web host.
func (b *Backend) servesHost(host string) bool {
	host = strings.TrimPrefix(strings.ToLower(host), "www.")
	if host == DefaultHost {
		return true
	}
	if b.client == nil || b.client.BaseURL == nil {
		return false
	}
	api := strings.ToLower(b.client.BaseURL.Hostname())
	return host == api || "api."+host == api
}

func (b *Backend) getContents(ctx context.Context, p string) (*gh.RepositoryContent, []*gh.RepositoryContent, error) {
	var (
		file *gh.RepositoryContent
		dir  []*gh.RepositoryContent
	)
	err := b.retrier.Retry(ctx, func() error {
		var err error
		file, dir, _, err = b.client.Repositories.GetContents(ctx, b.info.Owner, b.info.Repo, p,
			&gh.RepositoryContentGetOptions{Ref: b.sha})
		return err
	})
	return file, dir, err
}

// ReadFile returns the decoded contents of a file, or nil when the path
// does not exist or is not a file
func (b *Backend) ReadFile(ctx context.Context, name string) ([]byte, error) {
	if b.info == nil {
		return nil, domain.ErrNotInitialized
	}

	p := cleanPath(name)
	if p == "" {
		return nil, nil
	}

	file, _, err := b.getContents(ctx, p)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, domain.NewBackendIOError(b.info.FullName(), "read file", p, err)
	}
	if file == nil || file.GetType() != "file" {
		return nil, nil
	}

	// Files over the contents API size limit come back without content
	if file.GetEncoding() == "none" {
		return b.readBlob(ctx, p, file.GetSHA())
	}

	content, err := file.GetContent()
	if err != nil {
		return nil, domain.NewBackendIOError(b.info.FullName(), "decode file", p, err)
	}
	return []byte(content), nil
}

func (b *Backend) readBlob(ctx context.Context, p, sha string) ([]byte, error) {
	var data []byte
	err := b.retrier.Retry(ctx, func() error {
		var err error
		data, _, err = b.client.Git.GetBlobRaw(ctx, b.info.Owner, b.info.Repo, sha)
		return err
	})
	if err != nil {
		return nil, domain.NewBackendIOError(b.info.FullName(), "read blob", p, err)
	}
	return data, nil
}

// ListDirectory returns the files and directories directly under path.
// Symlinks and submodules are skipped.
func (b *Backend) ListDirectory(ctx context.Context, name string) ([]domain.Entry, error) {
	if b.info == nil {
		return nil, domain.ErrNotInitialized
	}

	p := cleanPath(name)
	file, dir, err := b.getContents(ctx, p)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, domain.NewBackendIOError(b.info.FullName(), "list directory", p, err)
	}
	if file != nil {
		return nil, nil
	}

	entries := make([]domain.Entry, 0, len(dir))
	for _, item := range dir {
		var typ domain.EntryType
		switch item.GetType() {
		case "file":
			typ = domain.EntryFile
		case "dir":
			typ = domain.EntryDir
		default:
			continue
		}
		entryPath := item.GetPath()
		if entryPath == "" {
			entryPath = path.Join(p, item.GetName())
		}
		entries = append(entries, domain.Entry{
			Name: item.GetName(),
			Path: entryPath,
			Type: typ,
		})
	}
	return entries, nil
}

// Metadata combines the repository fetched during Init with the date of
// the resolved commit
func (b *Backend) Metadata(ctx context.Context) (*domain.RepoMetadata, error) {
	if b.info == nil {
		return nil, domain.ErrNotInitialized
	}

	meta := &domain.RepoMetadata{
		URL:           b.repo.GetHTMLURL(),
		DefaultBranch: b.repo.GetDefaultBranch(),
		HeadCommit:    b.sha,
		Description:   b.repo.GetDescription(),
		Homepage:      b.repo.GetHomepage(),
		Topics:        b.repo.Topics,
		SPDXLicense:   b.repo.GetLicense().GetSPDXID(),
		Stars:         b.repo.StargazersCount,
		Forks:         b.repo.ForksCount,
		OpenIssues:    b.repo.OpenIssuesCount,
	}
	if meta.URL == "" {
		meta.URL = b.info.HTMLURL()
	}
	// NOASSERTION is what the API reports for unrecognised licenses
	if meta.SPDXLicense == "NOASSERTION" {
		meta.SPDXLicense = ""
	}

	var commit *gh.Commit
	err := b.retrier.Retry(ctx, func() error {
		var err error
		commit, _, err = b.client.Git.GetCommit(ctx, b.info.Owner, b.info.Repo, b.sha)
		return err
	})
	if err != nil {
		if isNotFound(err) {
			return meta, nil
		}
		return nil, domain.NewBackendIOError(b.info.FullName(), "read commit", b.sha, err)
	}
	meta.LastCommitDate = commit.GetCommitter().GetDate().UTC()
	return meta, nil
}

// Contributors lists the contributors reported by the API, most active first
func (b *Backend) Contributors(ctx context.Context) ([]domain.Contributor, error) {
	if b.info == nil {
		return nil, domain.ErrNotInitialized
	}

	opts := &gh.ListContributorsOptions{ListOptions: gh.ListOptions{PerPage: contributorsPerPage}}
	var contributors []domain.Contributor
	for {
		var (
			page []*gh.Contributor
			resp *gh.Response
		)
		err := b.retrier.Retry(ctx, func() error {
			var err error
			page, resp, err = b.client.Repositories.ListContributors(ctx, b.info.Owner, b.info.Repo, opts)
			return err
		})
		if err != nil {
			if isNotFound(err) {
				return contributors, nil
			}
			return nil, domain.NewBackendIOError(b.info.FullName(), "list contributors", "", err)
		}

		for _, c := range page {
			contributors = append(contributors, domain.Contributor{
				Username:      c.GetLogin(),
				AvatarURL:     c.GetAvatarURL(),
				ProfileURL:    c.GetHTMLURL(),
				Contributions: c.GetContributions(),
			})
		}

		if resp == nil || resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return contributors, nil
}

func (b *Backend) String() string {
	return fmt.Sprintf("github(%s@%s)", b.repository, b.reference)
}

func cleanPath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = path.Clean("/" + p)
	return strings.TrimPrefix(p, "/")
}

var _ domain.Backend = (*Backend)(nil)
