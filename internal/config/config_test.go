package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "quickfps.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv(EnvPath, "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, [2]float64{-5000, -5000}, cfg.World.Min)
	assert.Equal(t, 100, cfg.World.Columns)
	assert.Equal(t, time.Second/60, cfg.TickInterval())
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
world:
  columns: 50
loop:
  max_step: 50ms
log:
  level: debug
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.World.Columns)
	assert.Equal(t, 100, cfg.World.Rows)
	assert.Equal(t, 50*time.Millisecond, cfg.Loop.MaxStep)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadFromEnv(t *testing.T) {
	path := writeConfig(t, "targets:\n  count: 3\n")
	t.Setenv(EnvPath, path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Targets.Count)
}

func TestLoadInvalid(t *testing.T) {
	path := writeConfig(t, "world:\n  rows: 0\nloop:\n  tick_rate: -1\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "columns and rows")
	assert.Contains(t, err.Error(), "tick_rate")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
