// Package output serializes examination reports to stdout or a file.
package output

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/quantmind-br/repolens/internal/config"
	"github.com/quantmind-br/repolens/internal/report"
	"github.com/quantmind-br/repolens/internal/utils"
)

// ErrOutputExists is returned when the output file exists and Force is off
var ErrOutputExists = errors.New("output file already exists")

// Writer handles writing reports
type Writer struct {
	format string
	file   string
	force  bool
	stdout io.Writer
}

// WriterOptions contains options for the writer
type WriterOptions struct {
	// Format is "json" or "yaml"; empty means json
	Format string
	// File is the destination path; empty writes to Stdout
	File  string
	Force bool
	// Stdout defaults to os.Stdout
	Stdout io.Writer
}

// NewWriter creates a new output writer
func NewWriter(opts WriterOptions) (*Writer, error) {
	format := strings.ToLower(strings.TrimSpace(opts.Format))
	switch format {
	case "":
		format = config.DefaultOutputFormat
	case config.FormatJSON, config.FormatYAML:
	default:
		return nil, fmt.Errorf("unsupported output format %q", opts.Format)
	}

	stdout := opts.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	return &Writer{
		format: format,
		file:   utils.ExpandPath(opts.File),
		force:  opts.Force,
		stdout: stdout,
	}, nil
}

// Format returns the serialization format in use
func (w *Writer) Format() string {
	return w.format
}

// Write serializes r and writes it to the configured destination
func (w *Writer) Write(ctx context.Context, r report.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r == nil {
		r = report.New()
	}

	data, err := Encode(r, w.format)
	if err != nil {
		return err
	}

	if w.file == "" {
		_, err := w.stdout.Write(data)
		return err
	}

	if !w.force {
		if _, err := os.Stat(w.file); err == nil {
			return fmt.Errorf("%w: %s", ErrOutputExists, w.file)
		}
	}

	if err := utils.EnsureDir(w.file); err != nil {
		return err
	}
	return os.WriteFile(w.file, data, 0644)
}

// Encode serializes r in format. Mapping keys are sorted in both formats.
func Encode(r report.Report, format string) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
	case config.FormatJSON, "":
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return nil, fmt.Errorf("failed to encode report: %w", err)
		}
	case config.FormatYAML:
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(map[string]any(r)); err != nil {
			return nil, fmt.Errorf("failed to encode report: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}

	return buf.Bytes(), nil
}
