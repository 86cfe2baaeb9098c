package app

import (
	"os"
	"path/filepath"

	"github.com/dshills/stormdbg/internal/config"
	"github.com/dshills/stormdbg/internal/debugger"
	"github.com/dshills/stormdbg/internal/editor"
	"github.com/dshills/stormdbg/internal/event"
	"github.com/dshills/stormdbg/internal/event/dispatch"
	"github.com/dshills/stormdbg/internal/hub"
	"github.com/dshills/stormdbg/internal/logging"
	"github.com/dshills/stormdbg/internal/plugin"
	"github.com/dshills/stormdbg/internal/session"
	"github.com/dshills/stormdbg/internal/settings"
	"github.com/dshills/stormdbg/internal/tui"
	"github.com/dshills/stormdbg/internal/ui"
	"github.com/dshills/stormdbg/internal/views"
	"github.com/dshills/stormdbg/internal/window"
)

// bootstrapper handles component initialization with proper cleanup on failure.
type bootstrapper struct {
	app       *Application
	opts      Options
	initOrder []string
}

// newBootstrapper creates a new bootstrapper for the application.
func newBootstrapper(app *Application, opts Options) *bootstrapper {
	return &bootstrapper{
		app:       app,
		opts:      opts,
		initOrder: make([]string, 0, 10),
	}
}

// bootstrap initializes all components in dependency order.
// On failure, it cleans up already-initialized components.
func (b *bootstrapper) bootstrap() error {
	steps := []func() error{
		// 1. Config and logging
		b.initConfig,
		b.initLogging,
		// 2. Persisted settings
		b.initSettings,
		// 3. UI loop and event bus
		b.initLoop,
		b.initEventBus,
		// 4. Collaborators
		b.initBackend,
		b.initEditor,
		b.initFrontend,
		b.initHub,
		// 5. Plugins and window
		b.initPlugins,
		b.initWindow,
		// 6. Plugin directory watcher
		b.initWatcher,
	}
	for _, step := range steps {
		if err := step(); err != nil {
			b.cleanup()
			return err
		}
	}
	b.app.log.WithField("components", len(b.initOrder)).
		WithField("headless", b.opts.Headless).
		Debug("bootstrap complete")
	return nil
}

// initConfig loads the configuration file and applies option overrides.
func (b *bootstrapper) initConfig() error {
	cfg, err := config.Load(b.opts.ConfigPath)
	if err != nil {
		return &InitError{Component: "config", Err: err}
	}

	if b.opts.SettingsPath != "" {
		cfg.Settings.Path = config.ExpandHome(b.opts.SettingsPath)
	}
	if len(b.opts.PluginDirs) > 0 {
		cfg.Plugins.Paths = make([]string, len(b.opts.PluginDirs))
		for i, p := range b.opts.PluginDirs {
			cfg.Plugins.Paths[i] = config.ExpandHome(p)
		}
	}
	if b.opts.LogLevel != "" {
		cfg.Log.Level = b.opts.LogLevel
	}

	b.app.cfg = cfg
	b.initOrder = append(b.initOrder, "config")
	return nil
}

// initLogging builds the root logger. The terminal owns stderr, so an
// interactive session without a log file logs next to the configuration.
func (b *bootstrapper) initLogging() error {
	lc := logging.Config{
		Level:  b.app.cfg.Log.Level,
		Format: b.app.cfg.Log.Format,
		File:   b.app.cfg.Log.File,
		Output: b.opts.LogOutput,
	}
	if lc.File == "" && lc.Output == nil && !b.opts.Headless {
		lc.File = filepath.Join(config.DefaultDir(), "stormdbg.log")
	}

	log, closer, err := logging.New(lc)
	if err != nil {
		return &InitError{Component: "logging", Err: err}
	}
	b.app.log = log
	b.app.logCloser = closer
	b.initOrder = append(b.initOrder, "logging")
	return nil
}

// initSettings opens the persisted key/value store.
func (b *bootstrapper) initSettings() error {
	store, err := settings.Open(b.app.cfg.Settings.Path, logging.Component(b.app.log, "settings"))
	if err != nil {
		return &InitError{Component: "settings", Err: err}
	}
	b.app.settings = store
	b.initOrder = append(b.initOrder, "settings")
	return nil
}

// initLoop creates the UI loop. Every task is followed by a redraw.
func (b *bootstrapper) initLoop() error {
	log := logging.Component(b.app.log, "loop")
	b.app.loop = dispatch.NewLoop(
		dispatch.WithQueueSize(b.app.cfg.Bus.QueueSize),
		dispatch.WithAfterTask(b.app.redraw),
		dispatch.WithLoopPanicHandler(func(_ any, v any, stack []byte) {
			log.WithField("panic", v).WithField("stack", string(stack)).Error("task panicked")
		}),
	)
	b.initOrder = append(b.initOrder, "loop")
	return nil
}

// initEventBus initializes the event bus.
func (b *bootstrapper) initEventBus() error {
	b.app.bus = event.NewBus(b.app.loop, event.WithLogger(logging.Component(b.app.log, "bus")))
	b.initOrder = append(b.initOrder, "eventBus")
	return nil
}

// initBackend creates the debugger back-end. Its lifecycle notifications
// travel over the bus.
func (b *bootstrapper) initBackend() error {
	opts := []debugger.ProcessOption{
		debugger.WithLogger(logging.Component(b.app.log, "backend")),
		debugger.WithArgs(b.opts.Args...),
	}
	if b.opts.Headless {
		opts = append(opts, debugger.WithOutput(os.Stdout))
	}
	b.app.backend = debugger.NewProcessBackend(debugger.NewRelay(b.app.bus, "backend"), opts...)
	b.initOrder = append(b.initOrder, "backend")
	return nil
}

// initEditor creates the central editor.
func (b *bootstrapper) initEditor() error {
	b.app.editor = editor.NewFiles(nil)
	b.initOrder = append(b.initOrder, "editor")
	return nil
}

// initFrontend creates the frame and dialogs: the terminal, or a headless
// frame with scripted dialogs.
func (b *bootstrapper) initFrontend() error {
	if b.opts.Headless {
		dialogs := b.opts.Dialogs
		if dialogs == nil {
			dialogs = &ui.ScriptedDialogs{}
		}
		b.app.frame = window.NewHeadlessFrame()
		b.app.dialogs = dialogs
		b.initOrder = append(b.initOrder, "frontend")
		return nil
	}

	tuiOpts := []tui.Option{tui.WithLogger(logging.Component(b.app.log, "tui"))}
	var screen *tui.Screen
	if b.opts.Screen != nil {
		if err := b.opts.Screen.Init(); err != nil {
			return &InitError{Component: "terminal", Err: err}
		}
		screen = tui.New(b.opts.Screen, b.app.loop, tuiOpts...)
	} else {
		var err error
		screen, err = tui.NewTerminal(b.app.loop, tuiOpts...)
		if err != nil {
			return &InitError{Component: "terminal", Err: err}
		}
	}
	b.app.screen = screen
	b.app.frame = screen
	b.app.dialogs = screen
	b.initOrder = append(b.initOrder, "frontend")
	return nil
}

// initHub assembles the shared collaborator set.
func (b *bootstrapper) initHub() error {
	sessions := session.NewFiles(b.app.dialogs, b.app.backend, b.app.editor,
		logging.Component(b.app.log, "session"))

	h := &hub.Context{
		Bus:      b.app.bus,
		Loop:     b.app.loop,
		Settings: b.app.settings,
		Backend:  b.app.backend,
		Editor:   b.app.editor,
		Sessions: sessions,
		Dialogs:  b.app.dialogs,
		Logger:   b.app.log,
		Config:   b.app.cfg,
	}
	if err := h.Validate(); err != nil {
		return &InitError{Component: "hub", Err: err}
	}
	b.app.hub = h
	b.initOrder = append(b.initOrder, "hub")
	return nil
}

// initPlugins creates the plugin registry over the built-in and Lua sources.
func (b *bootstrapper) initPlugins() error {
	builtins := b.opts.Builtins
	if builtins == nil {
		builtins = plugin.NewBuiltinSource()
	}
	lua := plugin.NewLuaSource(b.app.cfg.Plugins.Paths,
		plugin.WithLuaLogger(logging.Component(b.app.log, "lua")))

	b.app.registry = plugin.NewRegistry(b.app.hub,
		plugin.WithSources(builtins, lua),
		plugin.WithDescriptorPath(b.app.cfg.Plugins.Descriptor),
	)
	b.initOrder = append(b.initOrder, "plugins")
	return nil
}

// initWindow creates the main window and attaches it to the terminal.
func (b *bootstrapper) initWindow() error {
	b.app.core = views.NewCore(b.app.bus)
	w, err := window.New(b.app.hub, b.app.registry, b.app.frame,
		window.WithPanelProviders(b.app.core),
		window.WithOnClosed(b.app.onClosed),
		window.WithVersion(b.opts.Version),
	)
	if err != nil {
		return &InitError{Component: "window", Err: err}
	}
	b.app.window = w
	if b.app.screen != nil {
		b.app.screen.Attach(w)
	}
	b.initOrder = append(b.initOrder, "window")
	return nil
}

// initWatcher creates the plugin directory watcher. Watch errors are
// non-fatal: the application runs without rescanning.
func (b *bootstrapper) initWatcher() error {
	if !b.app.cfg.Plugins.Watch {
		return nil
	}
	w, err := plugin.NewWatcher(b.app.cfg.Plugins.Paths, b.app.rescan,
		plugin.WithWatchLogger(logging.Component(b.app.log, "watcher")))
	if err != nil {
		b.app.log.WithError(err).Warn("plugin directories will not be watched")
		return nil
	}
	b.app.watcher = w
	b.initOrder = append(b.initOrder, "watcher")
	return nil
}

// cleanup performs cleanup in reverse initialization order.
func (b *bootstrapper) cleanup() {
	for i := len(b.initOrder) - 1; i >= 0; i-- {
		b.cleanupComponent(b.initOrder[i])
	}
	b.initOrder = nil
}

// cleanupComponent cleans up a single component.
func (b *bootstrapper) cleanupComponent(component string) {
	log := b.app.log
	if log == nil {
		log = logging.Discard()
	}
	switch component {
	case "watcher":
		if b.app.watcher != nil {
			if err := b.app.watcher.Close(); err != nil {
				log.WithError(err).Warn("closing plugin watcher")
			}
		}
	case "plugins":
		if b.app.registry != nil {
			if err := b.app.registry.Close(); err != nil {
				log.WithError(err).Warn("closing plugins")
			}
		}
	case "frontend":
		if b.app.frame != nil {
			b.app.frame.Close()
		}
	case "backend":
		if b.app.backend != nil {
			if err := b.app.backend.Close(); err != nil {
				log.WithError(err).Warn("closing backend")
			}
		}
	case "eventBus":
		if b.app.bus != nil {
			b.app.bus.Close()
		}
	case "settings":
		if b.app.settings != nil {
			if err := b.app.settings.Sync(); err != nil {
				log.WithError(err).Warn("syncing settings")
			}
		}
	case "logging":
		if b.app.logCloser != nil {
			_ = b.app.logCloser.Close()
		}
	}
}
