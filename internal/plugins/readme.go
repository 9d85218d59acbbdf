package plugins

import (
	"context"
	"strings"

	"github.com/quantmind-br/repolens/internal/domain"
	"github.com/quantmind-br/repolens/internal/markdown"
	"github.com/quantmind-br/repolens/internal/report"
)

// Headings recognised for README sections
var (
	motivationHeadings = []string{"motivation", "why", "background", "rationale"}
	highlightsHeadings = []string{"highlights", "features", "key features"}
)

func extractReadme(ctx context.Context, b domain.Backend) (report.Report, error) {
	content, err := readReadme(ctx, b)
	if err != nil {
		return nil, err
	}
	if content == "" {
		return report.New(), nil
	}
	return report.Report{NameReadme: content}, nil
}

// extractDescription prefers the description the host knows about and
// falls back to the first prose paragraph of the README
func extractDescription(ctx context.Context, b domain.Backend) (report.Report, error) {
	meta, err := b.Metadata(ctx)
	if err != nil {
		return nil, err
	}
	if meta != nil && strings.TrimSpace(meta.Description) != "" {
		return report.Report{NameDescription: strings.TrimSpace(meta.Description)}, nil
	}

	content, err := readReadme(ctx, b)
	if err != nil {
		return nil, err
	}
	if desc := markdown.FirstParagraph(content); desc != "" {
		return report.Report{NameDescription: desc}, nil
	}
	return report.New(), nil
}

func extractMotivation(ctx context.Context, b domain.Backend) (report.Report, error) {
	content, err := readReadme(ctx, b)
	if err != nil {
		return nil, err
	}
	body, ok := markdown.FindSection(content, motivationHeadings...)
	if !ok || body == "" {
		return report.New(), nil
	}
	return report.Report{NameMotivation: body}, nil
}

// extractHighlights lists the bullets of the highlights section, or its
// paragraphs when it has no bullets
func extractHighlights(ctx context.Context, b domain.Backend) (report.Report, error) {
	content, err := readReadme(ctx, b)
	if err != nil {
		return nil, err
	}
	body, ok := markdown.FindSection(content, highlightsHeadings...)
	if !ok || body == "" {
		return report.New(), nil
	}

	items := markdown.ListItems(body)
	if len(items) == 0 {
		for _, paragraph := range strings.Split(body, "\n\n") {
			if p := strings.TrimSpace(paragraph); p != "" {
				items = append(items, p)
			}
		}
	}

	highlights := make([]any, len(items))
	for i, item := range items {
		highlights[i] = item
	}
	return report.Report{NameHighlights: highlights}, nil
}
