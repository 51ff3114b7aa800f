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

	assert.Equal(t, "~/.config/crimesense", cfg.Storage.Path)
	assert.Equal(t, "crimesense.db", cfg.Storage.SQLiteFile)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 5000, cfg.Server.Port)
	assert.Equal(t, "change-me", cfg.Auth.JWTSecret)
	assert.Equal(t, 24*60, cfg.Auth.TokenTTLMinutes)
	assert.Equal(t, "admin@crimesense.com", cfg.Auth.AdminEmail)
	assert.Equal(t, "admin123", cfg.Auth.AdminPassword)
	assert.Equal(t, "last-update", cfg.Notify.MarkerFile)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.Logging.File)
}

func TestLoadValidYAMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	yamlContent := `
storage:
  path: "/var/lib/crimesense"
server:
  port: 9999
auth:
  jwt_secret: "real-secret"
logging:
  level: "debug"
`
	err := os.WriteFile(cfgPath, []byte(yamlContent), 0644)
	require.NoError(t, err)

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	// Overridden values
	assert.Equal(t, "/var/lib/crimesense", cfg.Storage.Path)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "real-secret", cfg.Auth.JWTSecret)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Defaults retained for everything unspecified
	assert.Equal(t, "crimesense.db", cfg.Storage.SQLiteFile)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, "admin@crimesense.com", cfg.Auth.AdminEmail)
}

func TestLoadMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadInvalidYAMLFails(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("{{not yaml"), 0644))

	_, err := Load(cfgPath)
	assert.Error(t, err)
}

func TestLoadOrCreateAt_WritesDefaults(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := LoadOrCreateAt(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, 5000, cfg.Server.Port)

	// File should now exist and round-trip.
	reloaded, err := Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, cfg.Auth.AdminEmail, reloaded.Auth.AdminEmail)
}

func TestDatabaseAndMarkerPaths(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.Path = "/data/crimesense"

	dbPath, err := cfg.DatabasePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/data/crimesense", "crimesense.db"), dbPath)

	markerPath, err := cfg.MarkerPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/data/crimesense", "last-update"), markerPath)
}

func TestExpandPath_Tilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	expanded, err := expandPath("~/.config/crimesense")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "crimesense"), expanded)

	plain, err := expandPath("/absolute/path")
	require.NoError(t, err)
	assert.Equal(t, "/absolute/path", plain)
}
