package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/rollcall/internal/model"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Nil(t, cfg.Selector.Mode)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[selector]
mode = "weighted"
floor-points = true
recent-window = 3

[timer]
minutes = 5

[groups]
size = 4
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Selector.Mode)
	assert.Equal(t, "weighted", *cfg.Selector.Mode)
	assert.True(t, *cfg.Selector.FloorPoints)
	assert.Equal(t, 3, *cfg.Selector.RecentWindow)
	assert.Equal(t, 5, *cfg.Timer.Minutes)
	assert.Equal(t, 4, *cfg.Groups.Size)
	assert.Nil(t, cfg.Groups.Count)
}

func TestLoadConfigUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[selector]\nmoode = \"fair\"\n"), 0o644))
	_, err := LoadConfig(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "selector.moode")
}

func TestXDGPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_DATA_HOME", "/tmp/data")
	t.Setenv("XDG_STATE_HOME", "/tmp/state")
	assert.Equal(t, "/tmp/cfg/rollcall/config.toml", DefaultConfigPath())
	assert.Equal(t, "/tmp/data/rollcall/rollcall.db", DefaultDBPath())
	assert.Equal(t, "/tmp/state/rollcall/rollcall.log", DefaultLogPath())
}

func validOptions() model.Options {
	return model.Options{
		Mode:          "normal",
		RecentWindow:  5,
		WeightCeiling: 10,
		LogLevel:      "info",
	}
}

func TestValidatorAcceptsDefaults(t *testing.T) {
	assert.NoError(t, NewValidator().Options(validOptions()))
}

func TestValidatorReportsFlags(t *testing.T) {
	opts := validOptions()
	opts.Mode = "random"
	opts.GroupSize = -1
	err := NewValidator().Options(opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--mode")
	assert.Contains(t, err.Error(), "--size")
}
