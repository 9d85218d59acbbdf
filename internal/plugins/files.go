package plugins

import (
	"context"
	"strings"

	"github.com/quantmind-br/repolens/internal/domain"
	"github.com/quantmind-br/repolens/internal/markdown"
	"github.com/quantmind-br/repolens/internal/report"
)

// Candidate file names, in lookup order
var (
	readmeFiles        = []string{"README.md", "README", "readme.md", "Readme.md", "README.markdown", "README.txt", "README.rst"}
	readmeHTMLFiles    = []string{"README.html", "readme.html"}
	licenseFiles       = []string{"LICENSE", "LICENSE.md", "LICENSE.txt", "LICENCE", "LICENCE.md", "COPYING"}
	architectureFiles  = []string{"ARCHITECTURE.md", "docs/ARCHITECTURE.md", "docs/architecture.md"}
	contributingFiles  = []string{"CONTRIBUTING.md", ".github/CONTRIBUTING.md", "docs/CONTRIBUTING.md"}
	codeOfConductFiles = []string{"CODE_OF_CONDUCT.md", ".github/CODE_OF_CONDUCT.md", "docs/CODE_OF_CONDUCT.md"}
	securityFiles      = []string{"SECURITY.md", ".github/SECURITY.md", "docs/SECURITY.md"}
	faqFiles           = []string{"FAQ.md", "docs/FAQ.md", ".github/FAQ.md", "docs/faq.md"}
	maintainersFiles   = []string{"MAINTAINERS", "MAINTAINERS.md", ".github/CODEOWNERS", "CODEOWNERS", "docs/CODEOWNERS"}
)

// readFirst returns the contents and name of the first candidate that
// exists and is not blank
func readFirst(ctx context.Context, b domain.Backend, candidates ...string) (string, string, error) {
	for _, name := range candidates {
		data, err := b.ReadFile(ctx, name)
		if err != nil {
			return "", "", err
		}
		if strings.TrimSpace(string(data)) != "" {
			return string(data), name, nil
		}
	}
	return "", "", nil
}

// readReadme returns the README as markdown. An HTML README is converted
// when no markdown or plain text one exists.
func readReadme(ctx context.Context, b domain.Backend) (string, error) {
	content, _, err := readFirst(ctx, b, readmeFiles...)
	if err != nil || content != "" {
		return content, err
	}

	html, _, err := readFirst(ctx, b, readmeHTMLFiles...)
	if err != nil || html == "" {
		return "", err
	}
	return markdown.FromHTML(html)
}

// documentExtractor stores the first existing candidate verbatim under field
func documentExtractor(field string, candidates ...string) ExtractFunc {
	return func(ctx context.Context, b domain.Backend) (report.Report, error) {
		content, _, err := readFirst(ctx, b, candidates...)
		if err != nil {
			return nil, err
		}
		if content == "" {
			return report.New(), nil
		}
		return report.Report{field: content}, nil
	}
}
