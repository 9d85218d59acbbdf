package plugins

import (
	"context"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/quantmind-br/repolens/internal/domain"
	"github.com/quantmind-br/repolens/internal/markdown"
	"github.com/quantmind-br/repolens/internal/report"
)

// Changelog sources, machine readable first
const (
	VersionbotChangelog = ".versionbot/CHANGELOG.yml"
	MarkdownChangelog   = "CHANGELOG.md"
)

var (
	versionRegex = regexp.MustCompile(`v?(\d+\.\d+(?:\.\d+)?(?:-[0-9A-Za-z.\-]+)?(?:\+[0-9A-Za-z.\-]+)?)`)
	dateRegex    = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
)

type versionbotEntry struct {
	Version string `yaml:"version"`
	Date    string `yaml:"date"`
	Commits []struct {
		Subject string `yaml:"subject"`
	} `yaml:"commits"`
}

// extractChangelog always sets the field: an empty list means neither
// changelog exists. The markdown changelog is used only when the YAML one
// is missing, blank or has no entries.
func extractChangelog(ctx context.Context, b domain.Backend) (report.Report, error) {
	data, err := b.ReadFile(ctx, VersionbotChangelog)
	if err != nil {
		return nil, err
	}
	entries := parseVersionbotChangelog(data)

	if len(entries) == 0 {
		data, err = b.ReadFile(ctx, MarkdownChangelog)
		if err != nil {
			return nil, err
		}
		entries = parseMarkdownChangelog(string(data))
	}

	return report.Report{NameChangelog: entries}, nil
}

// parseVersionbotChangelog returns nil for blank or malformed input
func parseVersionbotChangelog(data []byte) []any {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil
	}

	var raw []versionbotEntry
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil
	}

	entries := make([]any, 0, len(raw))
	for _, e := range raw {
		changes := make([]any, 0, len(e.Commits))
		for _, c := range e.Commits {
			if subject := strings.TrimSpace(c.Subject); subject != "" {
				changes = append(changes, subject)
			}
		}
		entries = append(entries, changelogEntry(e.Version, e.Date, changes))
	}
	return entries
}

// parseMarkdownChangelog reads one entry per level two heading, in the
// style of keepachangelog.com. The version and date come from the heading;
// the changes are the bullets beneath it.
func parseMarkdownChangelog(content string) []any {
	entries := make([]any, 0)
	for _, s := range markdown.Sections(content) {
		if s.Level != 2 {
			continue
		}

		heading := markdown.Strip(s.Heading)
		version := strings.Trim(heading, "[] ")
		if m := versionRegex.FindStringSubmatch(heading); m != nil {
			version = m[1]
		}
		date := dateRegex.FindString(heading)

		items := markdown.ListItems(s.Body)
		changes := make([]any, len(items))
		for i, item := range items {
			changes[i] = item
		}
		entries = append(entries, changelogEntry(version, date, changes))
	}
	return entries
}

func changelogEntry(version, date string, changes []any) map[string]any {
	entry := map[string]any{
		"version": version,
		"changes": changes,
	}
	if date != "" {
		entry["date"] = date
	}
	return entry
}
