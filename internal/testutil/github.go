package testutil

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// CommitDate is the committer date the fake API reports for every commit
const CommitDate = "2024-03-01T10:00:00Z"

// FakeContributor is a contributor served by FakeGitHub
type FakeContributor struct {
	Login         string
	Contributions int
}

// FakeGitHub serves the subset of the GitHub REST API the hosted backend
// uses, for a single repository. Files are visible at every ref.
type FakeGitHub struct {
	Owner         string
	Repo          string
	DefaultBranch string
	Description   string
	Homepage      string
	Topics        []string
	License       string
	Stars         int
	Forks         int
	OpenIssues    int
	Refs          map[string]string
	Files         map[string]string
	Contributors  []FakeContributor

	// PerPage is the contributors page size; zero means all on one page
	PerPage int

	mu       sync.Mutex
	requests []string
}

// NewGitHubServer starts an httptest server for fake. Its URL is suitable
// as an enterprise base URL.
func NewGitHubServer(t *testing.T, fake *FakeGitHub) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)
	return server
}

// Requests returns the request URIs received so far
func (f *FakeGitHub) Requests() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func (f *FakeGitHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r.URL.RequestURI())
	f.mu.Unlock()

	prefix := fmt.Sprintf("/api/v3/repos/%s/%s", f.Owner, f.Repo)
	if r.URL.Path != prefix && !strings.HasPrefix(r.URL.Path, prefix+"/") {
		notFound(w)
		return
	}
	rest := strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, prefix), "/")

	switch {
	case rest == "":
		f.serveRepository(w)
	case strings.HasPrefix(rest, "commits/"):
		f.serveCommitSHA(w, strings.TrimPrefix(rest, "commits/"))
	case strings.HasPrefix(rest, "git/commits/"):
		writeJSON(w, map[string]any{
			"sha":       strings.TrimPrefix(rest, "git/commits/"),
			"committer": map[string]any{"name": "Test User", "date": CommitDate},
		})
	case rest == "contents" || strings.HasPrefix(rest, "contents/"):
		f.serveContents(w, strings.Trim(strings.TrimPrefix(rest, "contents"), "/"))
	case rest == "contributors":
		f.serveContributors(w, r)
	default:
		notFound(w)
	}
}

func (f *FakeGitHub) serveRepository(w http.ResponseWriter) {
	repo := map[string]any{
		"name":              f.Repo,
		"full_name":         f.Owner + "/" + f.Repo,
		"html_url":          fmt.Sprintf("https://github.com/%s/%s", f.Owner, f.Repo),
		"default_branch":    f.DefaultBranch,
		"description":       f.Description,
		"homepage":          f.Homepage,
		"topics":            f.Topics,
		"stargazers_count":  f.Stars,
		"forks_count":       f.Forks,
		"open_issues_count": f.OpenIssues,
	}
	if f.License != "" {
		repo["license"] = map[string]any{"spdx_id": f.License}
	}
	writeJSON(w, repo)
}

func (f *FakeGitHub) serveCommitSHA(w http.ResponseWriter, ref string) {
	sha, ok := f.Refs[ref]
	if !ok {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		fmt.Fprintf(w, `{"message":"No commit found for SHA: %s"}`, ref)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.github.v3.sha")
	fmt.Fprint(w, sha)
}

func (f *FakeGitHub) serveContents(w http.ResponseWriter, p string) {
	if content, ok := f.Files[p]; ok {
		writeJSON(w, f.fileJSON(p, content))
		return
	}

	children := make(map[string]bool)
	prefix := ""
	if p != "" {
		prefix = p + "/"
	}
	for name := range f.Files {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		rest := strings.TrimPrefix(name, prefix)
		if i := strings.Index(rest, "/"); i >= 0 {
			children[rest[:i]] = true
			continue
		}
		children[rest] = false
	}
	if len(children) == 0 {
		notFound(w)
		return
	}

	names := make([]string, 0, len(children))
	for name := range children {
		names = append(names, name)
	}
	sort.Strings(names)

	listing := make([]map[string]any, 0, len(names))
	for _, name := range names {
		typ := "file"
		if children[name] {
			typ = "dir"
		}
		listing = append(listing, map[string]any{
			"type": typ,
			"name": name,
			"path": path.Join(p, name),
			"sha":  "sha-" + path.Join(p, name),
		})
	}
	writeJSON(w, listing)
}

func (f *FakeGitHub) fileJSON(p, content string) map[string]any {
	return map[string]any{
		"type":     "file",
		"encoding": "base64",
		"name":     path.Base(p),
		"path":     p,
		"sha":      "sha-" + p,
		"size":     len(content),
		"content":  base64.StdEncoding.EncodeToString([]byte(content)),
	}
}

func (f *FakeGitHub) serveContributors(w http.ResponseWriter, r *http.Request) {
	all := f.Contributors
	perPage := f.PerPage
	if perPage <= 0 {
		perPage = len(all) + 1
	}
	page := 1
	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		page = v
	}

	start := (page - 1) * perPage
	if start > len(all) {
		start = len(all)
	}
	end := start + perPage
	if end > len(all) {
		end = len(all)
	}

	if end < len(all) {
		next := *r.URL
		q := next.Query()
		q.Set("page", strconv.Itoa(page+1))
		next.RawQuery = q.Encode()
		next.Scheme = "http"
		next.Host = r.Host
		w.Header().Set("Link", fmt.Sprintf(`<%s>; rel="next"`, next.String()))
	}

	out := make([]map[string]any, 0, end-start)
	for _, c := range all[start:end] {
		out = append(out, map[string]any{
			"login":         c.Login,
			"contributions": c.Contributions,
			"avatar_url":    "https://avatars.example.com/" + c.Login,
			"html_url":      "https://github.com/" + c.Login,
		})
	}
	writeJSON(w, out)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func notFound(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	fmt.Fprint(w, `{"message":"Not Found"}`)
}
