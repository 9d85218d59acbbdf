package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME and the working directory at fresh temp dirs
func isolate(t *testing.T) string {
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	originalWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(originalWd) })
	return dir
}

// TestConfig_Validate tests configuration validation
func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		check   func(*testing.T, *Config)
		wantErr bool
	}{
		{
			name: "defaults are valid",
		},
		{
			name: "timeout below minimum defaults to 30s",
			modify: func(c *Config) {
				c.GitHub.Timeout = 10 * time.Millisecond
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, DefaultGitHubTimeout, c.GitHub.Timeout)
			},
		},
		{
			name: "negative retries default",
			modify: func(c *Config) {
				c.GitHub.MaxRetries = -1
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, DefaultGitHubMaxRetries, c.GitHub.MaxRetries)
			},
		},
		{
			name: "zero retries kept",
			modify: func(c *Config) {
				c.GitHub.MaxRetries = 0
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, 0, c.GitHub.MaxRetries)
			},
		},
		{
			name: "enterprise urls must come in pairs",
			modify: func(c *Config) {
				c.GitHub.BaseURL = "https://ghe.example.com/"
			},
			wantErr: true,
		},
		{
			name: "enterprise urls together",
			modify: func(c *Config) {
				c.GitHub.BaseURL = "https://ghe.example.com/"
				c.GitHub.UploadURL = "https://ghe.example.com/uploads/"
			},
		},
		{
			name: "format is normalised",
			modify: func(c *Config) {
				c.Output.Format = " YAML "
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, FormatYAML, c.Output.Format)
			},
		},
		{
			name: "empty format defaults to json",
			modify: func(c *Config) {
				c.Output.Format = ""
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, FormatJSON, c.Output.Format)
			},
		},
		{
			name: "unknown format rejected",
			modify: func(c *Config) {
				c.Output.Format = "xml"
			},
			wantErr: true,
		},
		{
			name: "empty logging filled",
			modify: func(c *Config) {
				c.Logging = LoggingConfig{}
			},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, DefaultLogLevel, c.Logging.Level)
				assert.Equal(t, DefaultLogFormat, c.Logging.Format)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			if tt.modify != nil {
				tt.modify(cfg)
			}
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

// TestDefault tests default configuration
func TestDefault(t *testing.T) {
	cfg := Default()

	require.NotNil(t, cfg)
	assert.Equal(t, DefaultGitHubTimeout, cfg.GitHub.Timeout)
	assert.Equal(t, DefaultGitHubMaxRetries, cfg.GitHub.MaxRetries)
	assert.Empty(t, cfg.GitHub.BaseURL)
	assert.Empty(t, cfg.Clone.TempDir)
	assert.Equal(t, FormatJSON, cfg.Output.Format)
	assert.Empty(t, cfg.Plugins)
	assert.Equal(t, DefaultLogLevel, cfg.Logging.Level)
	assert.Equal(t, DefaultLogFormat, cfg.Logging.Format)
}

func TestConfigDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	assert.Equal(t, filepath.Join(home, ".repolens"), ConfigDir())
	assert.Equal(t, filepath.Join(home, ".repolens", "config.yaml"), ConfigFilePath())
}

func TestEnsureConfigDir(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	require.NoError(t, EnsureConfigDir())
	info, err := os.Stat(filepath.Join(home, ".repolens"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestLoadWithViper_MissingConfig(t *testing.T) {
	isolate(t)

	cfg, v, err := LoadWithViper()
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.NotNil(t, v)

	assert.Equal(t, DefaultGitHubTimeout, cfg.GitHub.Timeout)
	assert.Equal(t, FormatJSON, cfg.Output.Format)
}

func TestLoadWithViper_InvalidConfigFile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("invalid: yaml: content: ["), 0644))

	cfg, _, err := LoadWithViper()
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoadWithViper_ValidConfigFile(t *testing.T) {
	dir := isolate(t)
	content := `
github:
  timeout: 5s
  max_retries: 1
clone:
  temp_dir: /var/tmp/repolens
output:
  format: yaml
plugins:
  - license
  - readme
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644))

	cfg, _, err := LoadWithViper()
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.GitHub.Timeout)
	assert.Equal(t, 1, cfg.GitHub.MaxRetries)
	assert.Equal(t, "/var/tmp/repolens", cfg.Clone.TempDir)
	assert.Equal(t, FormatYAML, cfg.Output.Format)
	assert.Equal(t, []string{"license", "readme"}, cfg.Plugins)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadWithViper_EnvironmentOverride(t *testing.T) {
	isolate(t)
	t.Setenv("REPOLENS_OUTPUT_FORMAT", "yaml")
	t.Setenv("REPOLENS_GITHUB_MAX_RETRIES", "7")

	cfg, _, err := LoadWithViper()
	require.NoError(t, err)

	assert.Equal(t, FormatYAML, cfg.Output.Format)
	assert.Equal(t, 7, cfg.GitHub.MaxRetries)
}

func TestLoadWithViper_InvalidFormatFromFile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("output:\n  format: toml\n"), 0644))

	_, _, err := LoadWithViper()
	assert.Error(t, err)
}

func TestLoadFrom_ExplicitConfigFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("plugins:\n  - faq\nlogging:\n  format: json\n"), 0644))

	v := viper.New()
	v.SetConfigFile(path)
	v.Set("output.format", "yaml")

	cfg, err := LoadFrom(v)
	require.NoError(t, err)

	assert.Equal(t, []string{"faq"}, cfg.Plugins)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, FormatYAML, cfg.Output.Format)
}

func TestSave_RoundTrip(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.GitHub.Timeout = 45 * time.Second
	cfg.GitHub.MaxRetries = 5
	cfg.Clone.TempDir = "/var/tmp/clones"
	cfg.Output.Format = FormatYAML
	cfg.Plugins = []string{"readme", "license"}
	cfg.Logging.Level = "debug"

	require.NoError(t, Save(cfg, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "timeout: 45s")

	v := viper.New()
	v.SetConfigFile(path)
	loaded, err := LoadFrom(v)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestMarshal_EmptyPlugins(t *testing.T) {
	data, err := Marshal(Default())
	require.NoError(t, err)
	assert.Contains(t, string(data), "plugins: []")
}
