package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DotEnvFile)
	require.NoError(t, os.WriteFile(path, []byte("REPOLENS_DOTENV_NEW=from-file\nREPOLENS_DOTENV_SET=from-file\n"), 0644))

	t.Setenv("REPOLENS_DOTENV_SET", "from-env")
	t.Cleanup(func() { os.Unsetenv("REPOLENS_DOTENV_NEW") })

	require.NoError(t, LoadDotEnv(path))

	assert.Equal(t, "from-file", os.Getenv("REPOLENS_DOTENV_NEW"))
	assert.Equal(t, "from-env", os.Getenv("REPOLENS_DOTENV_SET"), "existing variables win")
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), DotEnvFile)))
}

func TestLoadDotEnv_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), DotEnvFile)
	require.NoError(t, os.WriteFile(path, []byte("NOT VALID LINE WITHOUT EQUALS 'unterminated\n"), 0644))

	assert.Error(t, LoadDotEnv(path))
}
