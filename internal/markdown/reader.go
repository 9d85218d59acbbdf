package markdown

import (
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// Frontmatter represents YAML frontmatter commonly found in markdown files
type Frontmatter struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Summary     string   `yaml:"summary"`
	Tags        []string `yaml:"tags"`
}

// Section is the text under one heading, up to the next heading of the
// same or a higher level
type Section struct {
	Heading string
	Level   int
	Body    string
}

var (
	headingRegex      = regexp.MustCompile(`^(#{1,6})\s+(.+)$`)
	numberedListRegex = regexp.MustCompile(`^\d+\.\s`)
	ruleRegex         = regexp.MustCompile(`^[-*_]{3,}$`)
	badgeLineRegex    = regexp.MustCompile(`^(\[?!\[[^\]]*\]\([^)]*\)(\]\([^)]*\))?\s*)+$`)
)

// ParseFrontmatter splits a leading YAML frontmatter block from the body.
// Content without a well-formed block is returned unchanged with a nil
// frontmatter.
func ParseFrontmatter(content string) (*Frontmatter, string) {
	content = strings.TrimSpace(strings.ReplaceAll(content, "\r\n", "\n"))

	if !strings.HasPrefix(content, "---\n") {
		return nil, content
	}

	lines := strings.Split(content[4:], "\n")
	closingIdx := -1
	for i, line := range lines {
		if line == "---" {
			closingIdx = i
			break
		}
	}
	if closingIdx == -1 {
		return nil, content
	}

	var fm Frontmatter
	if err := yaml.Unmarshal([]byte(strings.Join(lines[:closingIdx], "\n")), &fm); err != nil {
		return nil, content
	}

	body := strings.TrimSpace(strings.Join(lines[closingIdx+1:], "\n"))
	return &fm, body
}

// Title returns the frontmatter title or the first level one heading
func Title(content string) string {
	fm, body := ParseFrontmatter(content)
	if fm != nil && fm.Title != "" {
		return fm.Title
	}

	for _, h := range headings(body) {
		if h.Level == 1 {
			return h.Heading
		}
	}
	return ""
}

// FirstParagraph returns the first prose paragraph, skipping headings,
// lists, code, HTML blocks and badge rows
func FirstParagraph(content string) string {
	fm, body := ParseFrontmatter(content)
	if fm != nil {
		if fm.Description != "" {
			return fm.Description
		}
		if fm.Summary != "" {
			return fm.Summary
		}
	}

	inCodeBlock := false
	var paragraphLines []string

	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)

		if isFence(trimmed) {
			inCodeBlock = !inCodeBlock
			continue
		}
		if inCodeBlock {
			continue
		}

		if trimmed == "" {
			if len(paragraphLines) > 0 {
				break
			}
			continue
		}

		if strings.HasPrefix(trimmed, "#") ||
			strings.HasPrefix(trimmed, "<") ||
			strings.HasPrefix(trimmed, "- ") ||
			strings.HasPrefix(trimmed, "* ") ||
			strings.HasPrefix(trimmed, "+ ") ||
			numberedListRegex.MatchString(trimmed) ||
			ruleRegex.MatchString(trimmed) ||
			badgeLineRegex.MatchString(trimmed) {
			if len(paragraphLines) > 0 {
				break
			}
			continue
		}

		paragraphLines = append(paragraphLines, trimmed)
	}

	return Strip(strings.Join(paragraphLines, " "))
}

// Sections splits the document into heading sections in document order.
// Headings inside fenced code blocks are ignored.
func Sections(content string) []Section {
	_, body := ParseFrontmatter(content)
	lines := strings.Split(body, "\n")
	heads := headings(body)

	sections := make([]Section, 0, len(heads))
	for i, h := range heads {
		end := len(lines)
		for _, next := range heads[i+1:] {
			if next.Level <= h.Level {
				end = next.line
				break
			}
		}
		sections = append(sections, Section{
			Heading: h.Heading,
			Level:   h.Level,
			Body:    strings.TrimSpace(strings.Join(lines[h.line+1:end], "\n")),
		})
	}
	return sections
}

// FindSection returns the body of the first section whose heading matches
// one of names, ignoring case and surrounding punctuation
func FindSection(content string, names ...string) (string, bool) {
	for _, s := range Sections(content) {
		heading := normalizeHeading(s.Heading)
		for _, name := range names {
			if heading == normalizeHeading(name) {
				return s.Body, true
			}
		}
	}
	return "", false
}

// ListItems returns the text of top level bullet items
func ListItems(body string) []string {
	var items []string
	for _, line := range strings.Split(body, "\n") {
		if line == "" || line[0] == ' ' || line[0] == '\t' {
			continue
		}
		for _, marker := range []string{"- ", "* ", "+ "} {
			if strings.HasPrefix(line, marker) {
				if item := strings.TrimSpace(strings.TrimPrefix(line, marker)); item != "" {
					items = append(items, item)
				}
				break
			}
		}
	}
	return items
}

type heading struct {
	Heading string
	Level   int
	line    int
}

func headings(body string) []heading {
	var out []heading
	inCodeBlock := false

	for i, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)

		if isFence(trimmed) {
			inCodeBlock = !inCodeBlock
			continue
		}
		if inCodeBlock {
			continue
		}

		matches := headingRegex.FindStringSubmatch(trimmed)
		if len(matches) != 3 {
			continue
		}
		text := strings.TrimSpace(strings.TrimRight(strings.TrimSpace(matches[2]), "#"))
		if text == "" {
			continue
		}
		out = append(out, heading{Heading: text, Level: len(matches[1]), line: i})
	}
	return out
}

func isFence(line string) bool {
	return strings.HasPrefix(line, "```") || strings.HasPrefix(line, "~~~")
}

func normalizeHeading(s string) string {
	s = strings.ToLower(Strip(s))
	return strings.TrimFunc(s, func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
}
