package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/stormdbg/internal/event"
	"github.com/dshills/stormdbg/internal/plugin"
	"github.com/dshills/stormdbg/internal/settings"
	"github.com/dshills/stormdbg/internal/ui"
	"github.com/dshills/stormdbg/internal/window"
)

type greeter struct{}

func (greeter) ID() string { return "greeter" }

func (greeter) RegisterPanels(ctx context.Context, host plugin.Host) error {
	return host.AddPanel(ctx, &ui.Panel{
		ID:     "greeter.panel",
		View:   &ui.TextView{Name: "Greeter"},
		Area:   ui.AreaBottom,
		Toggle: true,
	})
}

func (greeter) RegisterActions(ctx context.Context, host plugin.Host) error {
	return host.AddAction(ctx, ui.NewAction("greeter.hello", "Hello"))
}

func (greeter) Deactivate(context.Context, plugin.Host) error { return nil }

type testEnv struct {
	dir        string
	settings   string
	descriptor string
	plugins    string
}

// newEnv writes a configuration that keeps every file inside a temp dir.
func newEnv(t *testing.T, watch bool) (testEnv, Options) {
	t.Helper()
	dir := t.TempDir()
	env := testEnv{
		dir:        dir,
		settings:   filepath.Join(dir, "settings.json"),
		descriptor: filepath.Join(dir, "plugins.yaml"),
		plugins:    filepath.Join(dir, "plugins"),
	}
	require.NoError(t, os.MkdirAll(env.plugins, 0o755))

	cfg := fmt.Sprintf("[plugins]\ndescriptor = '%s'\nwatch = %t\n", env.descriptor, watch)
	cfgPath := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	return env, Options{
		ConfigPath:   cfgPath,
		SettingsPath: env.settings,
		PluginDirs:   []string{env.plugins},
		Headless:     true,
		LogOutput:    io.Discard,
		Version:      "test",
		Builtins:     plugin.NewBuiltinSource().Register("greeter", func(context.Context) (plugin.Plugin, error) { return greeter{}, nil }),
	}
}

// onLoop runs fn on the UI loop and waits for it.
func onLoop(t *testing.T, app *Application, fn func(ctx context.Context)) {
	t.Helper()
	done := make(chan struct{})
	require.NoError(t, app.Loop().Post(func(ctx context.Context) {
		defer close(done)
		fn(ctx)
	}))
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("loop task did not run")
	}
}

// query runs fn on the loop and returns its result, or false on timeout.
func query(app *Application, fn func() bool) bool {
	res := make(chan bool, 1)
	if app.Loop().Post(func(context.Context) { res <- fn() }) != nil {
		return false
	}
	select {
	case ok := <-res:
		return ok
	case <-time.After(time.Second):
		return false
	}
}

// startApp runs app on a new goroutine and waits for the window to start.
func startApp(t *testing.T, app *Application, ctx context.Context) <-chan error {
	t.Helper()
	errc := make(chan error, 1)
	go func() { errc <- app.Run(ctx) }()
	require.Eventually(t, func() bool {
		return query(app, func() bool { return app.Window().Started() })
	}, 5*time.Second, 10*time.Millisecond)
	return errc
}

func waitRun(t *testing.T, errc <-chan error) error {
	t.Helper()
	select {
	case err := <-errc:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
		return nil
	}
}

func TestNew_Headless(t *testing.T) {
	env, opts := newEnv(t, false)
	app, err := New(opts)
	require.NoError(t, err)
	defer app.Shutdown()

	assert.NotNil(t, app.Loop())
	assert.NotNil(t, app.Bus())
	assert.NotNil(t, app.Backend())
	assert.NotNil(t, app.Window())
	assert.NotNil(t, app.Registry())
	assert.Nil(t, app.Screen())
	assert.Nil(t, app.Watcher())
	assert.IsType(t, &window.HeadlessFrame{}, app.Frame())
	assert.False(t, app.IsRunning())

	cfg := app.Config()
	assert.Equal(t, env.settings, cfg.Settings.Path)
	assert.Equal(t, []string{env.plugins}, cfg.Plugins.Paths)
	assert.Equal(t, env.descriptor, app.Registry().DescriptorPath())
}

func TestNew_ConfigError(t *testing.T) {
	_, opts := newEnv(t, false)
	require.NoError(t, os.WriteFile(opts.ConfigPath, []byte("[recent\ncapacity = "), 0o644))

	_, err := New(opts)
	require.Error(t, err)
	var ierr *InitError
	require.True(t, errors.As(err, &ierr))
	assert.Equal(t, "config", ierr.Component)
}

func TestNew_LogLevelError(t *testing.T) {
	_, opts := newEnv(t, false)
	opts.LogLevel = "loud"

	_, err := New(opts)
	var ierr *InitError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, "logging", ierr.Component)
	assert.Contains(t, err.Error(), "init logging")
}

func TestNew_LogLevelOverride(t *testing.T) {
	_, opts := newEnv(t, false)
	opts.LogLevel = "debug"

	app, err := New(opts)
	require.NoError(t, err)
	defer app.Shutdown()
	assert.Equal(t, logrus.DebugLevel, app.Logger().GetLevel())
}

func TestRun_ExitActionClosesWindow(t *testing.T) {
	env, opts := newEnv(t, false)
	app, err := New(opts)
	require.NoError(t, err)
	defer app.Shutdown()

	errc := startApp(t, app, context.Background())
	onLoop(t, app, func(ctx context.Context) {
		w := app.Window()
		assert.True(t, w.Started())
		_, ok := w.Dock().Panel("greeter.panel")
		assert.True(t, ok)
		assert.NotNil(t, w.Menu(window.MenuPlugins).Find("greeter.hello"))
		assert.NoError(t, w.Action(window.ActionExit).Trigger(ctx))
	})
	require.NoError(t, waitRun(t, errc))

	assert.True(t, app.Window().Closed())
	assert.False(t, app.IsRunning())

	store, err := settings.Open(env.settings, nil)
	require.NoError(t, err)
	assert.True(t, store.Contains(settings.KeyGeometry))
	assert.True(t, store.Contains(settings.KeyWindowState))
	assert.True(t, store.Contains(settings.KeyInitialGeometry))

	entries, err := plugin.ReadActivationSet(env.descriptor)
	require.NoError(t, err)
	assert.Equal(t, []plugin.ActivationEntry{{ID: "greeter", Enabled: true}}, entries)
}

func TestRun_CancelClosesWindow(t *testing.T) {
	env, opts := newEnv(t, false)
	app, err := New(opts)
	require.NoError(t, err)
	defer app.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	errc := startApp(t, app, ctx)
	cancel()
	require.NoError(t, waitRun(t, errc))

	assert.True(t, app.Window().Closed())
	_, err = os.Stat(env.settings)
	assert.NoError(t, err)
}

func TestRun_OpensExecutable(t *testing.T) {
	env, opts := newEnv(t, false)
	exe := filepath.Join(env.dir, "prog")
	require.NoError(t, os.WriteFile(exe, []byte("#!/bin/sh\n"), 0o755))
	opts.Executable = exe

	app, err := New(opts)
	require.NoError(t, err)
	defer app.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	errc := startApp(t, app, ctx)
	onLoop(t, app, func(context.Context) {
		assert.Equal(t, exe, app.Window().FilePath())
		assert.Equal(t, []string{exe}, app.Window().Recent().Files())
		assert.True(t, app.Window().Action(window.ActionSaveSession).Enabled())
	})
	cancel()
	require.NoError(t, waitRun(t, errc))
	assert.Equal(t, exe, app.Backend().Executable())
}

func TestRun_MissingExecutableIsLogged(t *testing.T) {
	env, opts := newEnv(t, false)
	opts.Executable = filepath.Join(env.dir, "missing")

	app, err := New(opts)
	require.NoError(t, err)
	defer app.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	errc := startApp(t, app, ctx)
	onLoop(t, app, func(context.Context) {
		assert.Empty(t, app.Window().FilePath())
	})
	cancel()
	assert.NoError(t, waitRun(t, errc))
}

func TestRun_LifecycleFromWorker(t *testing.T) {
	_, opts := newEnv(t, false)
	app, err := New(opts)
	require.NoError(t, err)
	defer app.Shutdown()

	ctx, cancel := context.WithCancel(context.Background())
	errc := startApp(t, app, ctx)

	require.NoError(t, app.Bus().Publish(context.Background(), event.ChannelLifecycle,
		event.Lifecycle{Kind: event.StartRunning}))
	onLoop(t, app, func(context.Context) {
		label, _ := app.Frame().(*window.HeadlessFrame).Status()
		assert.Equal(t, "Running", label)
	})
	cancel()
	require.NoError(t, waitRun(t, errc))
}

func TestRun_AfterShutdown(t *testing.T) {
	_, opts := newEnv(t, false)
	app, err := New(opts)
	require.NoError(t, err)
	app.Shutdown()
	app.Shutdown()

	assert.ErrorIs(t, app.Run(context.Background()), ErrClosed)
}

func TestRun_WatcherRescansPlugins(t *testing.T) {
	env, opts := newEnv(t, true)
	app, err := New(opts)
	require.NoError(t, err)
	defer app.Shutdown()
	require.NotNil(t, app.Watcher())

	ctx, cancel := context.WithCancel(context.Background())
	errc := startApp(t, app, ctx)

	src := "plugin = { id = \"late\" }\n"
	require.NoError(t, os.WriteFile(filepath.Join(env.plugins, "late.lua"), []byte(src), 0o644))

	assert.Eventually(t, func() bool {
		return query(app, func() bool {
			for _, d := range app.Registry().Descriptors() {
				if d.ID == "late" {
					return true
				}
			}
			return false
		})
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	require.NoError(t, waitRun(t, errc))
}

func TestRun_Terminal(t *testing.T) {
	_, opts := newEnv(t, false)
	sim := tcell.NewSimulationScreen("")
	opts.Headless = false
	opts.Screen = sim

	app, err := New(opts)
	require.NoError(t, err)
	defer app.Shutdown()
	require.NotNil(t, app.Screen())
	sim.SetSize(160, 24)

	ctx, cancel := context.WithCancel(context.Background())
	errc := startApp(t, app, ctx)
	onLoop(t, app, func(context.Context) {
		cells, w, _ := sim.GetContents()
		var b strings.Builder
		for x := 0; x < w; x++ {
			if r := cells[x].Runes; len(r) > 0 {
				b.WriteRune(r[0])
			}
		}
		assert.Contains(t, b.String(), window.AppName)
	})

	sim.InjectKey(tcell.KeyCtrlQ, 0, tcell.ModCtrl)
	require.NoError(t, waitRun(t, errc))
	assert.True(t, app.Window().Closed())
	cancel()
}
