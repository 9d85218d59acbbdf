package github

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/quantmind-br/repolens/internal/domain"
)

// DefaultHost is the public GitHub host
const DefaultHost = "github.com"

// RepoInfo identifies a hosted repository
type RepoInfo struct {
	Host   string
	Owner  string
	Repo   string
	Branch string // from a /tree/<branch> suffix, empty otherwise
}

// FullName returns owner/repo
func (r *RepoInfo) FullName() string {
	return r.Owner + "/" + r.Repo
}

// HTMLURL returns the canonical browser URL of the repository
func (r *RepoInfo) HTMLURL() string {
	return fmt.Sprintf("https://%s/%s/%s", r.Host, r.Owner, r.Repo)
}

var (
	scpPattern  = regexp.MustCompile(`^(?:[^@/]+@)?([^:/]+):([^/]+)/([^/]+?)(?:\.git)?/?$`)
	treePattern = regexp.MustCompile(`^tree/([^/]+)(?:/.*)?$`)
)

// ParseURL accepts the forms a repository is usually written in:
//
//	https://github.com/owner/repo
//	https://github.com/owner/repo.git
//	https://github.com/owner/repo/tree/branch[/path]
//	git@github.com:owner/repo.git
//	ssh://git@github.com/owner/repo.git
//	github.com/owner/repo
func ParseURL(rawURL string) (*RepoInfo, error) {
	raw := strings.TrimSpace(rawURL)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty repository URL", domain.ErrInvalidURL)
	}

	if !strings.Contains(raw, "://") {
		if m := scpPattern.FindStringSubmatch(raw); m != nil && strings.Contains(raw, "@") {
			return &RepoInfo{Host: strings.ToLower(m[1]), Owner: m[2], Repo: m[3]}, nil
		}
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidURL, rawURL, err)
	}
	switch u.Scheme {
	case "http", "https", "ssh", "git":
	default:
		return nil, fmt.Errorf("%w: unsupported scheme %q in %s", domain.ErrInvalidURL, u.Scheme, rawURL)
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("%w: missing host in %s", domain.ErrInvalidURL, rawURL)
	}

	parts := strings.SplitN(strings.Trim(u.Path, "/"), "/", 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return nil, fmt.Errorf("%w: expected owner/repo in %s", domain.ErrInvalidURL, rawURL)
	}

	info := &RepoInfo{
		Host:  strings.ToLower(u.Hostname()),
		Owner: parts[0],
		Repo:  strings.TrimSuffix(parts[1], ".git"),
	}
	if info.Repo == "" {
		return nil, fmt.Errorf("%w: expected owner/repo in %s", domain.ErrInvalidURL, rawURL)
	}

	if len(parts) == 3 {
		if m := treePattern.FindStringSubmatch(parts[2]); m != nil {
			if branch, err := url.PathUnescape(m[1]); err == nil {
				info.Branch = branch
			}
		}
	}
	return info, nil
}
