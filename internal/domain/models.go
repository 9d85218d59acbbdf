package domain

import "time"

// EntryType distinguishes files from directories in a listing
type EntryType string

const (
	EntryFile EntryType = "file"
	EntryDir  EntryType = "dir"
)

// Entry is a single item of a directory listing
type Entry struct {
	Name string    `json:"name"`
	Path string    `json:"path"`
	Type EntryType `json:"type"`
}

// IsDir reports whether the entry is a directory
func (e Entry) IsDir() bool {
	return e.Type == EntryDir
}

// RepoMetadata contains repository level information.
// Counters are nil when the backend cannot know them.
type RepoMetadata struct {
	URL            string    `json:"url,omitempty"`
	DefaultBranch  string    `json:"default_branch,omitempty"`
	HeadCommit     string    `json:"head_commit,omitempty"`
	LastCommitDate time.Time `json:"last_commit_date,omitempty"`
	Description    string    `json:"description,omitempty"`
	Homepage       string    `json:"homepage,omitempty"`
	Topics         []string  `json:"topics,omitempty"`
	SPDXLicense    string    `json:"spdx_license,omitempty"`
	Stars          *int      `json:"stars,omitempty"`
	Forks          *int      `json:"forks,omitempty"`
	OpenIssues     *int      `json:"open_issues,omitempty"`
}

// Contributor is a commit author with its contribution count
type Contributor struct {
	Username      string `json:"username"`
	Email         string `json:"email,omitempty"`
	AvatarURL     string `json:"avatar,omitempty"`
	ProfileURL    string `json:"profile,omitempty"`
	Contributions int    `json:"contributions"`
}
