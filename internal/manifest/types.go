package manifest

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/quantmind-br/repolens/internal/config"
)

// Config represents the complete manifest configuration
type Config struct {
	Sources []Source `yaml:"sources" json:"sources" toml:"sources"`
	Options Options  `yaml:"options" json:"options" toml:"options"`
}

// Source is one repository to examine
type Source struct {
	// Target is a local path or a hosted repository URL
	Target    string   `yaml:"target" json:"target" toml:"target"`
	Reference string   `yaml:"reference,omitempty" json:"reference,omitempty" toml:"reference,omitempty"`
	Plugins   []string `yaml:"plugins,omitempty" json:"plugins,omitempty" toml:"plugins,omitempty"`
	Output    string   `yaml:"output,omitempty" json:"output,omitempty" toml:"output,omitempty"`
}

// Options represents global manifest options
type Options struct {
	ContinueOnError bool   `yaml:"continue_on_error" json:"continue_on_error" toml:"continue_on_error"`
	OutputDir       string `yaml:"output_dir,omitempty" json:"output_dir,omitempty" toml:"output_dir,omitempty"`
	Format          string `yaml:"format,omitempty" json:"format,omitempty" toml:"format,omitempty"`
	Concurrency     int    `yaml:"concurrency,omitempty" json:"concurrency,omitempty" toml:"concurrency,omitempty"`
}

// DefaultOptions returns options with sensible defaults
func DefaultOptions() Options {
	return Options{
		ContinueOnError: false,
		OutputDir:       "./reports",
		Format:          config.DefaultOutputFormat,
		Concurrency:     1,
	}
}

var (
	schemePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)
	slugPattern   = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)
)

// Slug returns a file-name-safe identifier for the source's target:
// "https://github.com/org/repo.git" becomes "github.com-org-repo".
func (s Source) Slug() string {
	target := strings.TrimSpace(s.Target)
	target = schemePattern.ReplaceAllString(target, "")
	if at := strings.Index(target, "@"); at >= 0 && !strings.Contains(target[:at], "/") {
		target = target[at+1:]
	}
	target = strings.TrimSuffix(strings.TrimRight(target, "/"), ".git")
	target = strings.ReplaceAll(target, ":", "/")

	slug := strings.Trim(slugPattern.ReplaceAllString(target, "-"), "-.")
	if slug == "" {
		slug = "repository"
	}
	if s.Reference != "" {
		slug += "@" + strings.Trim(slugPattern.ReplaceAllString(s.Reference, "-"), "-")
	}
	return slug
}

// OutputPath returns where the report of source i is written
func (c *Config) OutputPath(i int) string {
	src := c.Sources[i]
	if src.Output != "" {
		return src.Output
	}
	return filepath.Join(c.Options.OutputDir, src.Slug()+"."+c.Options.Format)
}

// Validate validates the manifest configuration
func (c *Config) Validate() error {
	if len(c.Sources) == 0 {
		return ErrNoSources
	}

	switch c.Options.Format {
	case config.FormatJSON, config.FormatYAML:
	default:
		return fmt.Errorf("invalid format %q: expected %s or %s", c.Options.Format, config.FormatJSON, config.FormatYAML)
	}

	seen := make(map[string]int, len(c.Sources))
	for i, src := range c.Sources {
		if strings.TrimSpace(src.Target) == "" {
			return fmt.Errorf("source %d: %w", i, ErrEmptyTarget)
		}
		path := filepath.Clean(c.OutputPath(i))
		if prev, ok := seen[path]; ok {
			return fmt.Errorf("sources %d and %d: %w: %s", prev, i, ErrDuplicateOutput, path)
		}
		seen[path] = i
	}
	return nil
}
