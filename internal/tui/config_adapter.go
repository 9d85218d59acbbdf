package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/quantmind-br/repolens/internal/config"
)

// ConfigValues holds form values that map to config.Config.
// Numeric and duration fields are stored as strings for form editing.
type ConfigValues struct {
	GitHubBaseURL    string
	GitHubUploadURL  string
	GitHubTimeout    string
	GitHubMaxRetries string

	CloneTempDir string

	OutputFormat string
	OutputFile   string

	Plugins []string

	LogLevel  string
	LogFormat string
}

// FromConfig copies cfg into editable form values. A nil cfg yields the defaults.
func FromConfig(cfg *config.Config) *ConfigValues {
	if cfg == nil {
		cfg = config.Default()
	}
	return &ConfigValues{
		GitHubBaseURL:    cfg.GitHub.BaseURL,
		GitHubUploadURL:  cfg.GitHub.UploadURL,
		GitHubTimeout:    cfg.GitHub.Timeout.String(),
		GitHubMaxRetries: strconv.Itoa(cfg.GitHub.MaxRetries),
		CloneTempDir:     cfg.Clone.TempDir,
		OutputFormat:     cfg.Output.Format,
		OutputFile:       cfg.Output.File,
		Plugins:          append([]string(nil), cfg.Plugins...),
		LogLevel:         cfg.Logging.Level,
		LogFormat:        cfg.Logging.Format,
	}
}

// ToConfig parses the form values back into a validated config.Config
func (v *ConfigValues) ToConfig() (*config.Config, error) {
	cfg := config.Default()

	cfg.GitHub.BaseURL = strings.TrimSpace(v.GitHubBaseURL)
	cfg.GitHub.UploadURL = strings.TrimSpace(v.GitHubUploadURL)

	timeout, err := parseDuration(v.GitHubTimeout, config.DefaultGitHubTimeout)
	if err != nil {
		return nil, fmt.Errorf("invalid github timeout: %w", err)
	}
	cfg.GitHub.Timeout = timeout

	retries, err := parseInt(v.GitHubMaxRetries, config.DefaultGitHubMaxRetries)
	if err != nil {
		return nil, fmt.Errorf("invalid github max retries: %w", err)
	}
	cfg.GitHub.MaxRetries = retries

	cfg.Clone.TempDir = strings.TrimSpace(v.CloneTempDir)
	cfg.Output.Format = v.OutputFormat
	cfg.Output.File = strings.TrimSpace(v.OutputFile)
	cfg.Plugins = append([]string(nil), v.Plugins...)
	cfg.Logging.Level = v.LogLevel
	cfg.Logging.Format = v.LogFormat

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseDuration(s string, fallback time.Duration) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback, nil
	}
	return time.ParseDuration(s)
}

func parseInt(s string, fallback int) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback, nil
	}
	return strconv.Atoi(s)
}
