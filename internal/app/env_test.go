package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvFiles_LoadsKeyValues(t *testing.T) {
	t.Setenv("SIREN_TEST_FOO", "")
	t.Setenv("SIREN_TEST_BAR", "")
	p := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(p, []byte("\n# sample\nSIREN_TEST_FOO=alpha\nSIREN_TEST_BAR=\"beta\"\n"), 0o600))

	require.NoError(t, LoadEnvFiles(p))
	assert.Equal(t, "alpha", os.Getenv("SIREN_TEST_FOO"))
	assert.Equal(t, "beta", os.Getenv("SIREN_TEST_BAR"))
}

func TestLoadEnvFiles_LaterFilesOverride(t *testing.T) {
	t.Setenv("SIREN_TEST_K", "")
	dir := t.TempDir()
	a, b := filepath.Join(dir, ".env.a"), filepath.Join(dir, ".env.b")
	require.NoError(t, os.WriteFile(a, []byte("SIREN_TEST_K=first\n"), 0o600))
	require.NoError(t, os.WriteFile(b, []byte("SIREN_TEST_K=second\n"), 0o600))

	require.NoError(t, LoadEnvFiles(a, b))
	assert.Equal(t, "second", os.Getenv("SIREN_TEST_K"))
}

func TestLoadEnvFiles_ProcessEnvWins(t *testing.T) {
	t.Setenv("SIREN_TEST_SET", "process")
	p := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(p, []byte("SIREN_TEST_SET=file\n"), 0o600))

	require.NoError(t, LoadEnvFiles(p))
	assert.Equal(t, "process", os.Getenv("SIREN_TEST_SET"))
}

func TestLoadEnvFiles_MissingIsSkipped(t *testing.T) {
	assert.NoError(t, LoadEnvFiles(filepath.Join(t.TempDir(), "absent.env"), ""))
}
