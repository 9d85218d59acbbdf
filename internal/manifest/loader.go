package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Loader loads and validates manifest files
type Loader struct{}

// NewLoader creates a new manifest loader
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads and parses a manifest file. Relative local targets and output
// paths are resolved against the manifest's directory.
func (l *Loader) Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest file: %w", err)
	}

	cfg, err := l.LoadFromBytes(data, filepath.Ext(path))
	if err != nil {
		return nil, err
	}
	l.resolvePaths(cfg, filepath.Dir(path))
	return cfg, nil
}

// LoadFromBytes parses manifest configuration from raw bytes
func (l *Loader) LoadFromBytes(data []byte, ext string) (*Config, error) {
	var cfg Config
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedExt, ext)
	}

	l.applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (l *Loader) applyDefaults(cfg *Config) {
	defaults := DefaultOptions()

	if cfg.Options.OutputDir == "" {
		cfg.Options.OutputDir = defaults.OutputDir
	}
	cfg.Options.Format = strings.ToLower(strings.TrimSpace(cfg.Options.Format))
	if cfg.Options.Format == "" {
		cfg.Options.Format = defaults.Format
	}
	if cfg.Options.Concurrency <= 0 {
		cfg.Options.Concurrency = defaults.Concurrency
	}
}

func (l *Loader) resolvePaths(cfg *Config, base string) {
	if !filepath.IsAbs(cfg.Options.OutputDir) {
		cfg.Options.OutputDir = filepath.Join(base, cfg.Options.OutputDir)
	}
	for i := range cfg.Sources {
		src := &cfg.Sources[i]
		if src.Output != "" && !filepath.IsAbs(src.Output) {
			src.Output = filepath.Join(base, src.Output)
		}
		if isRelativePath(src.Target) {
			src.Target = filepath.Join(base, src.Target)
		}
	}
}

// isRelativePath reports whether target is written as a relative local path
func isRelativePath(target string) bool {
	return strings.HasPrefix(target, "./") || strings.HasPrefix(target, "../") || target == "." || target == ".."
}
