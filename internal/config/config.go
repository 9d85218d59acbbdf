package config

import (
	"fmt"
	"strings"
	"time"
)

// Config represents the application configuration
type Config struct {
	GitHub  GitHubConfig  `mapstructure:"github" yaml:"github"`
	Clone   CloneConfig   `mapstructure:"clone" yaml:"clone"`
	Output  OutputConfig  `mapstructure:"output" yaml:"output"`
	Plugins []string      `mapstructure:"plugins" yaml:"plugins"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
}

// GitHubConfig contains hosted-repository backend settings
type GitHubConfig struct {
	// BaseURL and UploadURL target a GitHub Enterprise instance; both or neither
	BaseURL    string        `mapstructure:"base_url" yaml:"base_url"`
	UploadURL  string        `mapstructure:"upload_url" yaml:"upload_url"`
	Timeout    time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxRetries int           `mapstructure:"max_retries" yaml:"max_retries"`
}

// CloneConfig contains local clone settings
type CloneConfig struct {
	// TempDir is the parent of isolated clones; empty means os.TempDir()
	TempDir string `mapstructure:"temp_dir" yaml:"temp_dir"`
}

// OutputConfig contains report output settings
type OutputConfig struct {
	Format string `mapstructure:"format" yaml:"format"`
	File   string `mapstructure:"file" yaml:"file"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.GitHub.Timeout < time.Second {
		c.GitHub.Timeout = DefaultGitHubTimeout
	}
	if c.GitHub.MaxRetries < 0 {
		c.GitHub.MaxRetries = DefaultGitHubMaxRetries
	}
	if (c.GitHub.BaseURL == "") != (c.GitHub.UploadURL == "") {
		return fmt.Errorf("github.base_url and github.upload_url must be set together")
	}

	c.Output.Format = strings.ToLower(strings.TrimSpace(c.Output.Format))
	switch c.Output.Format {
	case "":
		c.Output.Format = DefaultOutputFormat
	case FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("invalid output.format %q: expected %s or %s", c.Output.Format, FormatJSON, FormatYAML)
	}

	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Format == "" {
		c.Logging.Format = DefaultLogFormat
	}
	return nil
}
