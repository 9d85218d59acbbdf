package plugins

import (
	"context"

	"github.com/quantmind-br/repolens/internal/domain"
	"github.com/quantmind-br/repolens/internal/markdown"
	"github.com/quantmind-br/repolens/internal/report"
)

// extractFAQ turns each question heading of the FAQ into a question and
// answer pair. Level two headings are used when present, level three
// otherwise.
func extractFAQ(ctx context.Context, b domain.Backend) (report.Report, error) {
	content, _, err := readFirst(ctx, b, faqFiles...)
	if err != nil {
		return nil, err
	}
	if content == "" {
		return report.New(), nil
	}

	sections := markdown.Sections(content)
	level := 2
	if !hasLevel(sections, level) {
		level = 3
	}

	var faq []any
	for _, s := range sections {
		if s.Level != level || s.Body == "" {
			continue
		}
		faq = append(faq, map[string]any{
			"question": markdown.Strip(s.Heading),
			"answer":   s.Body,
		})
	}
	if len(faq) == 0 {
		return report.New(), nil
	}
	return report.Report{NameFAQ: faq}, nil
}

func hasLevel(sections []markdown.Section, level int) bool {
	for _, s := range sections {
		if s.Level == level {
			return true
		}
	}
	return false
}
