package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromHTML(t *testing.T) {
	out, err := FromHTML(`<h1>Demo</h1><p>Hello <strong>world</strong></p><ul><li>one</li></ul>`)
	require.NoError(t, err)

	assert.Contains(t, out, "# Demo")
	assert.Contains(t, out, "**world**")
	assert.Contains(t, out, "one")
	assert.NotContains(t, out, "<p>")
}

func TestClean(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"collapses blank lines", "a\n\n\n\nb", "a\n\nb"},
		{"normalizes line endings", "a\r\n\r\n\r\nb", "a\n\nb"},
		{"trims", "\n\n  a  \n\n", "a"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, clean(tt.input))
		})
	}
}

func TestStrip(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"link", "see [docs](https://x.dev)", "see docs"},
		{"image", "![logo](logo.png) text", "logo text"},
		{"bold and italic", "**bold** and *italic*", "bold and italic"},
		{"underscores", "__strong__ _em_", "strong em"},
		{"snake case kept", "use my_var_name", "use my_var_name"},
		{"inline code", "run `make`", "run make"},
		{"heading", "## Title", "Title"},
		{"blockquote", "> quoted", "quoted"},
		{"lists", "- a\n1. b", "a\nb"},
		{"code block", "before\n```go\nx := 1\n```\nafter", "before\n\nafter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Strip(tt.input))
		})
	}
}
