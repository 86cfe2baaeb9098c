package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 5, cfg.Recent.Capacity)
	assert.Equal(t, 10000, cfg.Bus.QueueSize)
	assert.True(t, cfg.Plugins.Watch)
	assert.NotEmpty(t, cfg.Plugins.Paths)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Recent, cfg.Recent)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[log]
level = "debug"

[recent]
capacity = 8

[bus]
queue_size = 32
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format, "unset keys keep their defaults")
	assert.Equal(t, 8, cfg.Recent.Capacity)
	assert.Equal(t, 32, cfg.Bus.QueueSize)
}

func TestLoad_ParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[recent\ncapacity = 3\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)

	var perr *ParseError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, path, perr.Path)
	assert.Positive(t, perr.Line)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"zero capacity", "[recent]\ncapacity = 0\n"},
		{"negative queue", "[bus]\nqueue_size = -1\n"},
		{"bad format", "[log]\nformat = \"xml\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg = Default()
			err := Parse("test.toml", []byte(tt.data), &cfg)
			assert.ErrorIs(t, err, ErrInvalidValue)
		})
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "plugins"), ExpandHome("~/plugins"))
	assert.Equal(t, "/abs/path", ExpandHome("/abs/path"))
	assert.Equal(t, "rel/~/path", ExpandHome("rel/~/path"))
	assert.Equal(t, "", ExpandHome(""))
}

func envMap(vars map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := ApplyEnv(&cfg, envMap(map[string]string{
		"STORMDBG_LOG_LEVEL":          "debug",
		"STORMDBG_PLUGINS_PATHS":      "/a" + string(os.PathListSeparator) + "/b",
		"STORMDBG_PLUGINS_WATCH":      "off",
		"STORMDBG_RECENT_CAPACITY":    "9",
		"STORMDBG_BUS_QUEUE_SIZE":     "64",
		"STORMDBG_PLUGINS_DESCRIPTOR": "/etc/stormdbg/plugins.yaml",
		"STORMDBG_UNKNOWN":            "ignored",
	}))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, []string{"/a", "/b"}, cfg.Plugins.Paths)
	assert.False(t, cfg.Plugins.Watch)
	assert.Equal(t, 9, cfg.Recent.Capacity)
	assert.Equal(t, 64, cfg.Bus.QueueSize)
	assert.Equal(t, "/etc/stormdbg/plugins.yaml", cfg.Plugins.Descriptor)
}

func TestApplyEnv_Invalid(t *testing.T) {
	tests := map[string]string{
		"STORMDBG_RECENT_CAPACITY": "many",
		"STORMDBG_PLUGINS_WATCH":   "maybe",
		"STORMDBG_BUS_QUEUE_SIZE":  "0",
		"STORMDBG_LOG_FORMAT":      "xml",
	}
	for name, val := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := Default()
			err := ApplyEnv(&cfg, envMap(map[string]string{name: val}))
			assert.True(t, errors.Is(err, ErrInvalidValue), "got %v", err)
		})
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[recent]\ncapacity = 8\n"), 0o644))
	t.Setenv("STORMDBG_RECENT_CAPACITY", "3")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Recent.Capacity)
}
