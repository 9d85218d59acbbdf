package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	// ErrReferenceNotFound indicates the bound git reference does not exist
	ErrReferenceNotFound = errors.New("reference not found")

	// ErrBackendUnavailable indicates the repository could not be reached or opened
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrBackendIO indicates an unexpected read failure that is not "not found"
	ErrBackendIO = errors.New("backend I/O failure")

	// ErrClone indicates the local isolation step failed
	ErrClone = errors.New("clone failed")

	// ErrNotInitialized indicates a backend was read before Init succeeded
	ErrNotInitialized = errors.New("backend not initialized")

	// ErrNotFound indicates a resource was not found
	ErrNotFound = errors.New("not found")

	// ErrRateLimited indicates rate limiting was encountered
	ErrRateLimited = errors.New("rate limited")

	// ErrTimeout indicates a timeout occurred
	ErrTimeout = errors.New("timeout")

	// ErrInvalidURL indicates an unsupported repository URL was provided
	ErrInvalidURL = errors.New("invalid URL")
)

// ReferenceNotFoundError is returned by Backend.Init when the reference does not exist
type ReferenceNotFoundError struct {
	Repository string
	Reference  string
	Err        error
}

func (e *ReferenceNotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("reference %q not found in %s: %v", e.Reference, e.Repository, e.Err)
	}
	return fmt.Sprintf("reference %q not found in %s", e.Reference, e.Repository)
}

func (e *ReferenceNotFoundError) Unwrap() error {
	return e.Err
}

// Is matches ErrReferenceNotFound
func (e *ReferenceNotFoundError) Is(target error) bool {
	return target == ErrReferenceNotFound
}

// BackendUnavailableError is returned by Backend.Init when the repository cannot be opened
type BackendUnavailableError struct {
	Repository string
	Err        error
}

func (e *BackendUnavailableError) Error() string {
	return fmt.Sprintf("repository %s unavailable: %v", e.Repository, e.Err)
}

func (e *BackendUnavailableError) Unwrap() error {
	return e.Err
}

// Is matches ErrBackendUnavailable
func (e *BackendUnavailableError) Is(target error) bool {
	return target == ErrBackendUnavailable
}

// BackendIOError represents a transient or unexpected read failure
type BackendIOError struct {
	Repository string
	Op         string
	Path       string
	Err        error
}

func (e *BackendIOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %s in %s: %v", e.Op, e.Path, e.Repository, e.Err)
	}
	return fmt.Sprintf("%s in %s: %v", e.Op, e.Repository, e.Err)
}

func (e *BackendIOError) Unwrap() error {
	return e.Err
}

// Is matches ErrBackendIO
func (e *BackendIOError) Is(target error) bool {
	return target == ErrBackendIO
}

// NewBackendIOError creates a new BackendIOError
func NewBackendIOError(repository, op, path string, err error) *BackendIOError {
	return &BackendIOError{
		Repository: repository,
		Op:         op,
		Path:       path,
		Err:        err,
	}
}

// CloneError represents a failure to produce an isolated clone
type CloneError struct {
	Source string
	Err    error
}

func (e *CloneError) Error() string {
	return fmt.Sprintf("clone of %s failed: %v", e.Source, e.Err)
}

func (e *CloneError) Unwrap() error {
	return e.Err
}

// Is matches ErrClone
func (e *CloneError) Is(target error) bool {
	return target == ErrClone
}

// Plugin execution stages
const (
	StageInit    = "init"
	StageExtract = "extract"
)

// PluginError identifies which extractor failed and at which stage.
// The wrapped error is the one raised by the backend or the extractor.
type PluginError struct {
	Plugin string
	Index  int
	Stage  string
	Err    error
}

func (e *PluginError) Error() string {
	return fmt.Sprintf("plugin %s (#%d) failed during %s: %v", e.Plugin, e.Index+1, e.Stage, e.Err)
}

func (e *PluginError) Unwrap() error {
	return e.Err
}

// RetryableError indicates an error that can be retried
type RetryableError struct {
	Err        error
	StatusCode int
}

func (e *RetryableError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("retryable error (status %d): %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("retryable error: %v", e.Err)
}

func (e *RetryableError) Unwrap() error {
	return e.Err
}

// IsRetryable checks if an error should be retried
func IsRetryable(err error) bool {
	var retryable *RetryableError
	if errors.As(err, &retryable) {
		return true
	}
	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrTimeout)
}

// ShouldRetryStatus returns true if the HTTP status code should be retried
func ShouldRetryStatus(statusCode int) bool {
	switch statusCode {
	case 429, 502, 503, 504:
		return true
	}
	return false
}
