package plugins

import (
	"context"
	"time"

	"github.com/quantmind-br/repolens/internal/domain"
	"github.com/quantmind-br/repolens/internal/report"
)

// extractRepository reports repository level metadata. Only the fields
// the backend knows are present.
func extractRepository(ctx context.Context, b domain.Backend) (report.Report, error) {
	meta, err := b.Metadata(ctx)
	if err != nil {
		return nil, err
	}
	if meta == nil {
		return report.New(), nil
	}

	repo := make(map[string]any)
	setString := func(key, value string) {
		if value != "" {
			repo[key] = value
		}
	}
	setCount := func(key string, value *int) {
		if value != nil {
			repo[key] = *value
		}
	}

	setString("url", meta.URL)
	setString("defaultBranch", meta.DefaultBranch)
	setString("headCommit", meta.HeadCommit)
	if !meta.LastCommitDate.IsZero() {
		repo["lastCommitDate"] = meta.LastCommitDate.UTC().Format(time.RFC3339)
	}
	setString("homepage", meta.Homepage)
	setString("spdxLicense", meta.SPDXLicense)
	setCount("stars", meta.Stars)
	setCount("forks", meta.Forks)
	setCount("openIssues", meta.OpenIssues)
	if len(meta.Topics) > 0 {
		topics := make([]any, len(meta.Topics))
		for i, topic := range meta.Topics {
			topics[i] = topic
		}
		repo["topics"] = topics
	}

	if len(repo) == 0 {
		return report.New(), nil
	}
	return report.Report{NameRepository: repo}, nil
}

func extractContributors(ctx context.Context, b domain.Backend) (report.Report, error) {
	contributors, err := b.Contributors(ctx)
	if err != nil {
		return nil, err
	}
	if len(contributors) == 0 {
		return report.New(), nil
	}

	list := make([]any, 0, len(contributors))
	for _, c := range contributors {
		entry := map[string]any{
			"username":      c.Username,
			"contributions": c.Contributions,
		}
		if c.AvatarURL != "" {
			entry["avatar"] = c.AvatarURL
		}
		if c.ProfileURL != "" {
			entry["profile"] = c.ProfileURL
		}
		list = append(list, entry)
	}
	return report.Report{NameContributors: list}, nil
}
