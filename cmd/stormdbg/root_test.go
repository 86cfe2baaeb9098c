package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/stormdbg/internal/app"
)

func execute(t *testing.T, args ...string) (app.Options, string, error) {
	t.Helper()
	var got app.Options
	var out bytes.Buffer
	cmd := newRootCommand("1.2.3", "abc", "today", func(_ context.Context, opts app.Options) error {
		got = opts
		return nil
	})
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return got, out.String(), err
}

func TestRoot_Flags(t *testing.T) {
	opts, _, err := execute(t,
		"--config", "/etc/stormdbg.toml",
		"--settings", "/tmp/s.json",
		"--plugins-dir", "/a", "--plugins-dir", "/b",
		"--log-level", "debug",
		"--headless",
		"./server", "--", "-port", "8080",
	)
	require.NoError(t, err)

	assert.Equal(t, "/etc/stormdbg.toml", opts.ConfigPath)
	assert.Equal(t, "/tmp/s.json", opts.SettingsPath)
	assert.Equal(t, []string{"/a", "/b"}, opts.PluginDirs)
	assert.Equal(t, "debug", opts.LogLevel)
	assert.True(t, opts.Headless)
	assert.Equal(t, "./server", opts.Executable)
	assert.Equal(t, []string{"-port", "8080"}, opts.Args)
	assert.Equal(t, "1.2.3", opts.Version)
}

func TestRoot_NoExecutable(t *testing.T) {
	opts, _, err := execute(t)
	require.NoError(t, err)
	assert.Empty(t, opts.Executable)
	assert.Empty(t, opts.Args)
	assert.False(t, opts.Headless)
}

func TestRoot_InvalidLogLevel(t *testing.T) {
	_, _, err := execute(t, "--log-level", "loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestVersionCommand(t *testing.T) {
	opts, out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "stormdbg 1.2.3")
	assert.Contains(t, out, "Commit: abc")
	assert.Empty(t, opts.Executable)
}
