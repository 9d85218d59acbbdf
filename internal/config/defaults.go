package config

import (
	"os"
	"path/filepath"
	"time"
)

// Output formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Default values
const (
	DefaultGitHubTimeout    = 30 * time.Second
	DefaultGitHubMaxRetries = 3

	DefaultOutputFormat = FormatJSON

	DefaultLogLevel  = "info"
	DefaultLogFormat = "pretty"
)

// TokenEnv is the environment variable holding the optional GitHub token
const TokenEnv = "GITHUB_TOKEN"

// ConfigDir returns the config directory path
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".repolens"
	}
	return filepath.Join(home, ".repolens")
}

// ConfigFilePath returns the config file path
func ConfigFilePath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		GitHub: GitHubConfig{
			Timeout:    DefaultGitHubTimeout,
			MaxRetries: DefaultGitHubMaxRetries,
		},
		Output: OutputConfig{
			Format: DefaultOutputFormat,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
