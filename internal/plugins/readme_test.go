package plugins

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/quantmind-br/repolens/internal/domain"
	"github.com/quantmind-br/repolens/internal/report"
	"github.com/quantmind-br/repolens/internal/testutil"
)

const sampleReadme = `# Demo

[![CI](https://github.com/octo/demo/actions/workflows/ci.yml/badge.svg)](https://github.com/octo/demo/actions)

Demo turns repositories into **metadata**.

## Motivation

Reading every README by hand does not scale.

## Highlights

- Fast
- Works offline

## Usage

Run it.
`

func TestExtractReadme(t *testing.T) {
	t.Run("markdown", func(t *testing.T) {
		got := extract(t, extractReadme, testutil.NewMemoryBackend(map[string]string{"README.md": sampleReadme}))
		assert.Equal(t, report.Report{"readme": sampleReadme}, got)
	})

	t.Run("plain README preferred over html", func(t *testing.T) {
		got := extract(t, extractReadme, testutil.NewMemoryBackend(map[string]string{
			"README":      "plain",
			"README.html": "<h1>html</h1>",
		}))
		assert.Equal(t, report.Report{"readme": "plain"}, got)
	})

	t.Run("html converted to markdown", func(t *testing.T) {
		got := extract(t, extractReadme, testutil.NewMemoryBackend(map[string]string{
			"README.html": "<h1>Demo</h1><p>Some <em>text</em></p>",
		}))
		readme, ok := got["readme"].(string)
		assert.True(t, ok)
		assert.Contains(t, readme, "# Demo")
		assert.NotContains(t, readme, "<h1>")
	})
}

func TestExtractDescription(t *testing.T) {
	t.Run("hosted description wins", func(t *testing.T) {
		b := testutil.NewMemoryBackend(map[string]string{"README.md": sampleReadme})
		b.Meta = &domain.RepoMetadata{Description: "  From the host  "}
		assert.Equal(t, report.Report{"description": "From the host"}, extract(t, extractDescription, b))
	})

	t.Run("first readme paragraph", func(t *testing.T) {
		b := testutil.NewMemoryBackend(map[string]string{"README.md": sampleReadme})
		assert.Equal(t, report.Report{"description": "Demo turns repositories into metadata."}, extract(t, extractDescription, b))
	})

	t.Run("nothing known", func(t *testing.T) {
		b := testutil.NewMemoryBackend(map[string]string{"README.md": "# Title only"})
		assert.Empty(t, extract(t, extractDescription, b))
	})
}

func TestExtractMotivation(t *testing.T) {
	b := testutil.NewMemoryBackend(map[string]string{"README.md": sampleReadme})
	assert.Equal(t, report.Report{"motivation": "Reading every README by hand does not scale."}, extract(t, extractMotivation, b))

	b = testutil.NewMemoryBackend(map[string]string{"README.md": "# Demo\n\n## Usage\n\nx"})
	assert.Empty(t, extract(t, extractMotivation, b))
}

func TestExtractHighlights(t *testing.T) {
	t.Run("bullets", func(t *testing.T) {
		b := testutil.NewMemoryBackend(map[string]string{"README.md": sampleReadme})
		assert.Equal(t, report.Report{"highlights": []any{"Fast", "Works offline"}}, extract(t, extractHighlights, b))
	})

	t.Run("paragraphs", func(t *testing.T) {
		b := testutil.NewMemoryBackend(map[string]string{
			"README.md": "# Demo\n\n## Features\n\nFirst point.\n\nSecond point.\n",
		})
		assert.Equal(t, report.Report{"highlights": []any{"First point.", "Second point."}}, extract(t, extractHighlights, b))
	})
}
