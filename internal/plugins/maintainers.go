package plugins

import (
	"context"
	"regexp"
	"strings"

	"github.com/quantmind-br/repolens/internal/domain"
	"github.com/quantmind-br/repolens/internal/report"
)

var handleRegex = regexp.MustCompile(`(?:^|[\s(<,])@([A-Za-z0-9][A-Za-z0-9-]*(?:/[A-Za-z0-9][A-Za-z0-9._-]*)?)`)

// extractMaintainers lists the @handles found in MAINTAINERS or CODEOWNERS.
// A MAINTAINERS file without handles contributes its entries verbatim.
func extractMaintainers(ctx context.Context, b domain.Backend) (report.Report, error) {
	content, name, err := readFirst(ctx, b, maintainersFiles...)
	if err != nil {
		return nil, err
	}
	if content == "" {
		return report.New(), nil
	}

	maintainers := parseHandles(content)
	if len(maintainers) == 0 && !strings.HasSuffix(name, "CODEOWNERS") {
		maintainers = parseEntries(content)
	}
	if len(maintainers) == 0 {
		return report.New(), nil
	}

	list := make([]any, len(maintainers))
	for i, m := range maintainers {
		list[i] = m
	}
	return report.Report{NameMaintainers: list}, nil
}

// parseHandles returns the unique handles in order of first appearance,
// ignoring comment lines
func parseHandles(content string) []string {
	seen := make(map[string]bool)
	var handles []string
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "#") {
			continue
		}
		for _, m := range handleRegex.FindAllStringSubmatch(line, -1) {
			handle := m[1]
			if !seen[strings.ToLower(handle)] {
				seen[strings.ToLower(handle)] = true
				handles = append(handles, handle)
			}
		}
	}
	return handles
}

// parseEntries returns the non-blank, non-comment lines without list markers
func parseEntries(content string) []string {
	var entries []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		for _, marker := range []string{"- ", "* ", "+ "} {
			line = strings.TrimPrefix(line, marker)
		}
		if line = strings.TrimSpace(line); line != "" {
			entries = append(entries, line)
		}
	}
	return entries
}
