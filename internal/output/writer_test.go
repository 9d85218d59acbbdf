package output

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/quantmind-br/repolens/internal/report"
)

func sample() report.Report {
	return report.Report{
		"readme":  "# Demo <b>bold</b> & more\n",
		"license": "MIT",
		"repository": map[string]any{
			"stars":         5,
			"defaultBranch": "main",
		},
		"changelog": []any{},
	}
}

func TestNewWriter(t *testing.T) {
	tests := []struct {
		name     string
		format   string
		expected string
		wantErr  bool
	}{
		{"default", "", "json", false},
		{"json", "json", "json", false},
		{"yaml mixed case", " YAML ", "yaml", false},
		{"unsupported", "toml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := NewWriter(WriterOptions{Format: tt.format})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, w.Format())
		})
	}
}

func TestEncode_JSON(t *testing.T) {
	data, err := Encode(sample(), "json")
	require.NoError(t, err)

	expected := `{
  "changelog": [],
  "license": "MIT",
  "readme": "# Demo <b>bold</b> & more\n",
  "repository": {
    "defaultBranch": "main",
    "stars": 5
  }
}
`
	assert.Equal(t, expected, string(data))
}

func TestEncode_YAML(t *testing.T) {
	data, err := Encode(sample(), "yaml")
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, "MIT", decoded["license"])
	assert.Equal(t, map[string]any{"defaultBranch": "main", "stars": 5}, decoded["repository"])

	// Keys are emitted in sorted order
	text := string(data)
	assert.Less(t, bytes.Index(data, []byte("changelog:")), bytes.Index(data, []byte("license:")), text)
	assert.Less(t, bytes.Index(data, []byte("license:")), bytes.Index(data, []byte("readme:")), text)
}

func TestEncode_Unsupported(t *testing.T) {
	_, err := Encode(sample(), "xml")
	assert.Error(t, err)
}

func TestWriter_Write_Stdout(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(WriterOptions{Stdout: &buf})
	require.NoError(t, err)

	require.NoError(t, w.Write(context.Background(), report.Report{"license": "MIT"}))
	assert.Equal(t, "{\n  \"license\": \"MIT\"\n}\n", buf.String())
}

func TestWriter_Write_NilReport(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(WriterOptions{Stdout: &buf})
	require.NoError(t, err)

	require.NoError(t, w.Write(context.Background(), nil))
	assert.Equal(t, "{}\n", buf.String())
}

func TestWriter_Write_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "report.yaml")
	w, err := NewWriter(WriterOptions{Format: "yaml", File: path})
	require.NoError(t, err)

	require.NoError(t, w.Write(context.Background(), report.Report{"license": "MIT"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "license: MIT\n", string(data))
}

func TestWriter_Write_ExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0644))

	w, err := NewWriter(WriterOptions{File: path})
	require.NoError(t, err)
	err = w.Write(context.Background(), report.Report{"a": 1})
	assert.ErrorIs(t, err, ErrOutputExists)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))

	w, err = NewWriter(WriterOptions{File: path, Force: true})
	require.NoError(t, err)
	require.NoError(t, w.Write(context.Background(), report.Report{"a": 1}))

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"a\": 1\n}\n", string(data))
}

func TestWriter_Write_CancelledContext(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(WriterOptions{Stdout: &buf})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, w.Write(ctx, report.Report{"a": 1}), context.Canceled)
	assert.Empty(t, buf.String())
}
