package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults().Listen, cfg.Listen)
	assert.Equal(t, Defaults().Motd, cfg.Motd)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
listen:
  host: 0.0.0.0
  port: 25565
backend:
  host: 10.0.0.5
  port: 25565
backend_wake_id: "40:A8:F0:67:CA:21"
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.5", cfg.Backend.Host)
	assert.Equal(t, uint16(25565), cfg.Backend.Port)
	assert.Equal(t, "40:A8:F0:67:CA:21", cfg.BackendWakeID)
}

func TestValidateRejectsMissingBackend(t *testing.T) {
	cfg := Defaults()
	cfg.Backend.Host = ""
	require.Error(t, Validate(&cfg))
}

func TestValidateAcceptsDefaults(t *testing.T) {
	cfg := Defaults()
	require.NoError(t, Validate(&cfg))
}
