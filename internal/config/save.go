package config

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Marshal renders cfg as a YAML config file. Durations are written in
// their string form ("30s") so the file stays hand-editable.
func Marshal(cfg *Config) ([]byte, error) {
	plugins := cfg.Plugins
	if plugins == nil {
		plugins = []string{}
	}

	doc := map[string]any{
		"github": map[string]any{
			"base_url":    cfg.GitHub.BaseURL,
			"upload_url":  cfg.GitHub.UploadURL,
			"timeout":     cfg.GitHub.Timeout.String(),
			"max_retries": cfg.GitHub.MaxRetries,
		},
		"clone": map[string]any{
			"temp_dir": cfg.Clone.TempDir,
		},
		"output": map[string]any{
			"format": cfg.Output.Format,
			"file":   cfg.Output.File,
		},
		"plugins": plugins,
		"logging": map[string]any{
			"level":  cfg.Logging.Level,
			"format": cfg.Logging.Format,
		},
	}
	return yaml.Marshal(doc)
}

// Save writes cfg to path, creating the parent directory
func Save(cfg *Config, path string) error {
	data, err := Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
