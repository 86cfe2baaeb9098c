// Package app wires the stormdbg components together and runs the UI loop.
//
// New builds every collaborator in dependency order; Run drives the loop
// until the window closes or the context is cancelled; Shutdown releases
// what New acquired, in reverse order.
package app

import (
	"context"
	"errors"
	"io"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"github.com/dshills/stormdbg/internal/config"
	"github.com/dshills/stormdbg/internal/debugger"
	"github.com/dshills/stormdbg/internal/editor"
	"github.com/dshills/stormdbg/internal/event"
	"github.com/dshills/stormdbg/internal/event/dispatch"
	"github.com/dshills/stormdbg/internal/hub"
	"github.com/dshills/stormdbg/internal/plugin"
	"github.com/dshills/stormdbg/internal/settings"
	"github.com/dshills/stormdbg/internal/tui"
	"github.com/dshills/stormdbg/internal/ui"
	"github.com/dshills/stormdbg/internal/views"
	"github.com/dshills/stormdbg/internal/window"
)

// Application is the running debugger front-end.
type Application struct {
	opts Options
	cfg  config.Config

	// Core infrastructure
	log       *logrus.Logger
	logCloser io.Closer
	settings  *settings.FileStore
	loop      *dispatch.Loop
	bus       event.Bus

	// Collaborators
	backend *debugger.ProcessBackend
	editor  *editor.Files
	dialogs ui.Dialogs
	hub     *hub.Context

	// Front-end; screen is nil when headless
	screen *tui.Screen
	frame  window.Frame

	// Window and extensions
	registry *plugin.Registry
	core     *views.Core
	window   *window.Window
	watcher  *plugin.Watcher

	initOrder []string

	// State
	running  atomic.Bool
	closed   atomic.Bool
	stop     context.CancelFunc
	startErr error
}

// Options configures the application. Non-zero fields override the
// configuration file.
type Options struct {
	// ConfigPath is the path to the configuration file.
	ConfigPath string

	// SettingsPath overrides the persisted settings file.
	SettingsPath string

	// PluginDirs replace the configured plugin search paths.
	PluginDirs []string

	// LogLevel sets the logging verbosity.
	LogLevel string

	// Headless runs without a terminal. Dialogs are answered by Dialogs.
	Headless bool

	// Executable is opened once the window has started.
	Executable string

	// Args are passed to the executable when it runs.
	Args []string

	// Version is shown in the About dialog.
	Version string

	// LogOutput receives logs when no log file is configured.
	LogOutput io.Writer

	// Screen replaces the controlling terminal.
	Screen tcell.Screen

	// Builtins serves plugins compiled into the binary.
	Builtins *plugin.BuiltinSource

	// Dialogs answers file dialogs when headless. Every dialog is cancelled
	// when nil.
	Dialogs *ui.ScriptedDialogs
}

// New creates an Application with the given options. On failure every
// component already created is released.
func New(opts Options) (*Application, error) {
	app := &Application{opts: opts}
	b := newBootstrapper(app, opts)
	if err := b.bootstrap(); err != nil {
		return nil, err
	}
	app.initOrder = b.initOrder
	return app, nil
}

// Run starts the UI loop and blocks until the window closes or ctx is
// cancelled. When ctx ends first the window is closed on the way out.
func (app *Application) Run(ctx context.Context) error {
	if app.closed.Load() {
		return ErrClosed
	}
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	app.stop = cancel

	if app.watcher != nil {
		if err := app.watcher.Start(ctx); err != nil {
			app.log.WithError(err).Warn("plugin watcher not started")
		}
	}
	if app.screen != nil {
		app.screen.Poll(ctx)
	}

	if err := app.loop.Post(app.start); err != nil {
		return &InitError{Component: "window", Err: err}
	}
	err := app.loop.Run(ctx)

	if app.startErr != nil {
		return &InitError{Component: "window", Err: app.startErr}
	}
	if !app.window.Closed() {
		app.closeWindow()
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// start runs as the first task on the loop.
func (app *Application) start(ctx context.Context) {
	if err := app.window.Start(ctx); err != nil {
		app.startErr = err
		app.stop()
		return
	}
	if app.opts.Executable == "" {
		return
	}
	if err := app.backend.OpenExecutable(ctx, app.opts.Executable); err != nil {
		app.log.WithError(err).WithField("path", app.opts.Executable).Error("opening executable")
	}
}

// closeWindow closes the window after the loop has stopped. The caller is
// the goroutine that ran the loop, so it still owns window state.
func (app *Application) closeWindow() {
	lctx := app.loop.Context(context.Background())
	if !app.window.Close(lctx) {
		app.log.Warn("window still open at shutdown")
	}
}

func (app *Application) onClosed() {
	if app.stop != nil {
		app.stop()
	}
}

// redraw is the loop's after-task hook.
func (app *Application) redraw(context.Context) {
	if app.screen == nil {
		return
	}
	select {
	case <-app.screen.Done():
	default:
		app.screen.Draw()
	}
}

// rescan is called by the plugin watcher from its own goroutine.
func (app *Application) rescan() {
	err := app.loop.Post(func(ctx context.Context) {
		n, err := app.registry.Rescan(ctx)
		if err != nil {
			app.log.WithError(err).Warn("plugin rescan")
		}
		if n > 0 {
			app.log.WithField("count", n).Info("plugins discovered")
		}
	})
	if err != nil {
		app.log.WithError(err).Warn("plugin rescan dropped")
	}
}

// Shutdown releases every component in reverse initialization order. It is
// safe to call more than once and must not be called while Run is active.
func (app *Application) Shutdown() {
	if !app.closed.CompareAndSwap(false, true) {
		return
	}
	b := &bootstrapper{app: app, opts: app.opts, initOrder: app.initOrder}
	b.cleanup()
}

// IsRunning returns true while Run is active.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// Config returns the effective configuration.
func (app *Application) Config() config.Config { return app.cfg }

// Logger returns the root logger.
func (app *Application) Logger() *logrus.Logger { return app.log }

// Loop returns the UI loop.
func (app *Application) Loop() *dispatch.Loop { return app.loop }

// Bus returns the event bus.
func (app *Application) Bus() event.Bus { return app.bus }

// Backend returns the debugger back-end.
func (app *Application) Backend() *debugger.ProcessBackend { return app.backend }

// Window returns the main window.
func (app *Application) Window() *window.Window { return app.window }

// Registry returns the plugin registry.
func (app *Application) Registry() *plugin.Registry { return app.registry }

// Screen returns the terminal front-end, or nil when headless.
func (app *Application) Screen() *tui.Screen { return app.screen }

// Frame returns the window frame.
func (app *Application) Frame() window.Frame { return app.frame }

// Watcher returns the plugin watcher, or nil when watching is disabled.
func (app *Application) Watcher() *plugin.Watcher { return app.watcher }
