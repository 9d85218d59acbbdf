// Package markdown holds the small markdown toolkit the extractors share:
// HTML conversion, plain-text stripping, frontmatter, titles, paragraphs
// and heading sections.
package markdown

import (
	"fmt"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown/v2"
)

type rule struct {
	re   *regexp.Regexp
	repl string
}

// stripRules apply in order. Fenced code goes first so its contents are not
// mistaken for inline markup, and images precede links because an image is
// a link with a leading bang.
var stripRules = []rule{
	{regexp.MustCompile("(?s)```.*?```"), ""},
	{regexp.MustCompile(`!\[([^\]]*)\]\([^)]+\)`), "$1"},
	{regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`), "$1"},
	{regexp.MustCompile(`\*\*([^*]+)\*\*`), "$1"},
	{regexp.MustCompile(`\*([^*]+)\*`), "$1"},
	{regexp.MustCompile(`__([^_]+)__`), "$1"},
	{regexp.MustCompile(`\b_([^_]+)_\b`), "$1"},
	{regexp.MustCompile("`([^`]+)`"), "$1"},
	{regexp.MustCompile(`(?m)^#{1,6}\s+`), ""},
	{regexp.MustCompile(`(?m)^[\-*_]{3,}$`), ""},
	{regexp.MustCompile(`(?m)^>\s+`), ""},
	{regexp.MustCompile(`(?m)^\s*[\-*+]\s+`), ""},
	{regexp.MustCompile(`(?m)^\s*\d+\.\s+`), ""},
}

var blankLines = regexp.MustCompile(`\n{3,}`)

// FromHTML converts an HTML document to markdown
func FromHTML(html string) (string, error) {
	out, err := md.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("convert html: %w", err)
	}
	return clean(out), nil
}

// clean collapses runs of blank lines and trims the document
func clean(markdown string) string {
	markdown = strings.ReplaceAll(markdown, "\r\n", "\n")
	markdown = blankLines.ReplaceAllString(markdown, "\n\n")
	return strings.TrimSpace(markdown)
}

// Strip removes markdown formatting to get plain text
func Strip(markdown string) string {
	for _, r := range stripRules {
		markdown = r.re.ReplaceAllString(markdown, r.repl)
	}
	return strings.TrimSpace(markdown)
}
