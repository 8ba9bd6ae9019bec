package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 9300, cfg.Port)
	assert.Equal(t, "127.0.0.1", cfg.Bind)
	assert.Equal(t, "auto", cfg.Security.APIKey)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg := DefaultConfig()
	cfg.Port = 9400
	cfg.Security.APIKey = "secret"
	require.NoError(t, SaveConfig(cfg, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 9400, loaded.Port)
	assert.Equal(t, "secret", loaded.Security.APIKey)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestLoadConfigMissing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestBootstrapConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	cfg, err := BootstrapConfig(path, dir)
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.WorkDir)
	assert.Len(t, cfg.Security.APIKey, 64) // 32 bytes hex-encoded
	assert.True(t, ConfigExists(path))
}

func TestGenerateSecureKeyUnique(t *testing.T) {
	a, err := GenerateSecureKey(16)
	require.NoError(t, err)
	b, err := GenerateSecureKey(16)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
