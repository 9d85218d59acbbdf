package plugins

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantmind-br/repolens/internal/report"
	"github.com/quantmind-br/repolens/internal/testutil"
)

func TestReadFirst(t *testing.T) {
	b := testutil.NewMemoryBackend(map[string]string{
		"LICENSE.md": "  \n",
		"COPYING":    "GPL",
	})

	content, name, err := readFirst(context.Background(), b, licenseFiles...)
	require.NoError(t, err)
	assert.Equal(t, "GPL", content)
	assert.Equal(t, "COPYING", name)
	assert.Equal(t, []string{"LICENSE", "LICENSE.md", "LICENSE.txt", "LICENCE", "LICENCE.md", "COPYING"}, b.Reads())
}

func TestReadFirst_Error(t *testing.T) {
	boom := errors.New("boom")
	b := testutil.NewMemoryBackend(map[string]string{"LICENSE": "MIT"})
	b.ReadErr = boom

	_, _, err := readFirst(context.Background(), b, licenseFiles...)
	assert.ErrorIs(t, err, boom)
}

func TestDocumentExtractors(t *testing.T) {
	tests := []struct {
		name     string
		plugin   string
		files    map[string]string
		expected report.Report
	}{
		{
			name:     "license at root",
			plugin:   NameLicense,
			files:    map[string]string{"LICENSE": "MIT License\n"},
			expected: report.Report{"license": "MIT License\n"},
		},
		{
			name:     "architecture under docs",
			plugin:   NameArchitecture,
			files:    map[string]string{"docs/ARCHITECTURE.md": "# Arch"},
			expected: report.Report{"architecture": "# Arch"},
		},
		{
			name:     "contributing under .github",
			plugin:   NameContributing,
			files:    map[string]string{".github/CONTRIBUTING.md": "PRs welcome"},
			expected: report.Report{"contributing": "PRs welcome"},
		},
		{
			name:     "code of conduct",
			plugin:   NameCodeOfConduct,
			files:    map[string]string{"CODE_OF_CONDUCT.md": "Be nice"},
			expected: report.Report{"codeOfConduct": "Be nice"},
		},
		{
			name:     "security root wins",
			plugin:   NameSecurity,
			files:    map[string]string{"SECURITY.md": "root", ".github/SECURITY.md": "github"},
			expected: report.Report{"security": "root"},
		},
		{
			name:     "missing",
			plugin:   NameSecurity,
			files:    map[string]string{"README.md": "x"},
			expected: report.Report{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Select(Builtin(), []string{tt.plugin})
			require.Len(t, p, 1)
			got := extract(t, p[0].Extract, testutil.NewMemoryBackend(tt.files))
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestDocumentExtractor_PropagatesBackendError(t *testing.T) {
	boom := errors.New("read failed")
	b := testutil.NewMemoryBackend(nil)
	b.ReadErr = boom

	_, err := documentExtractor(NameLicense, licenseFiles...)(context.Background(), b)
	assert.ErrorIs(t, err, boom)
}
