package manifest

import "errors"

// Sentinel errors for the manifest package
var (
	// ErrNoSources indicates the manifest has no sources defined
	ErrNoSources = errors.New("manifest must contain at least one source")

	// ErrEmptyTarget indicates a source is missing its repository path or URL
	ErrEmptyTarget = errors.New("source target cannot be empty")

	// ErrInvalidFormat indicates the manifest file could not be decoded
	ErrInvalidFormat = errors.New("manifest must be valid YAML or JSON")

	// ErrFileNotFound indicates the manifest file does not exist
	ErrFileNotFound = errors.New("manifest file not found")

	// ErrUnsupportedExt indicates an unsupported file extension
	ErrUnsupportedExt = errors.New("unsupported file extension (use .yaml, .yml, .json or .toml)")

	// ErrDuplicateOutput indicates two sources would write the same file
	ErrDuplicateOutput = errors.New("duplicate output path")
)
