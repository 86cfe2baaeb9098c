package window

import (
	"context"
	"errors"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/dshills/stormdbg/internal/dock"
	"github.com/dshills/stormdbg/internal/hub"
	"github.com/dshills/stormdbg/internal/plugin"
	"github.com/dshills/stormdbg/internal/recent"
	"github.com/dshills/stormdbg/internal/status"
	"github.com/dshills/stormdbg/internal/ui"
)

// AppName is used in the window title and the About box.
const AppName = "stormdbg"

// PanelProvider contributes panels during the startup panel phase.
type PanelProvider interface {
	InsertPanels(ctx context.Context) error
}

// Option configures a Window.
type Option func(*Window)

// WithPanelProviders adds providers whose panels are inserted before the
// plugin registry's. They run in the order given.
func WithPanelProviders(p ...PanelProvider) Option {
	return func(w *Window) { w.providers = append(w.providers, p...) }
}

// WithOnClosed sets a function run after a successful Close, typically to
// stop the UI loop.
func WithOnClosed(fn func()) Option {
	return func(w *Window) { w.onClosed = fn }
}

// WithVersion sets the version shown in the About box.
func WithVersion(v string) Option {
	return func(w *Window) { w.version = v }
}

// Window is the main window orchestrator. It is used on the UI loop only.
type Window struct {
	hub       *hub.Context
	registry  *plugin.Registry
	frame     Frame
	providers []PanelProvider
	log       logrus.FieldLogger

	dock    *dock.Manager
	recent  *recent.Tracker
	status  *status.Indicator
	menuBar ui.MenuBar
	toolbar *ui.Menu
	menus   map[string]*ui.Menu
	actions map[string]*ui.Action

	subs *subscriptions

	filePath string
	version  string
	onClosed func()
	started  bool
	closed   bool
}

// New creates a window. The hub context must carry a bus, a loop, settings,
// a backend, an editor and dialogs; the session manager is optional.
func New(h *hub.Context, registry *plugin.Registry, frame Frame, opts ...Option) (*Window, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}
	var missing []error
	if h.Backend == nil {
		missing = append(missing, errors.New("backend"))
	}
	if h.Editor == nil {
		missing = append(missing, errors.New("editor"))
	}
	if h.Dialogs == nil {
		missing = append(missing, errors.New("dialogs"))
	}
	if registry == nil {
		missing = append(missing, errors.New("plugin registry"))
	}
	if frame == nil {
		missing = append(missing, errors.New("frame"))
	}
	if len(missing) > 0 {
		return nil, errors.Join(append([]error{ErrMissingCollaborator}, missing...)...)
	}

	w := &Window{
		hub:      h,
		registry: registry,
		frame:    frame,
		log:      h.Log("window"),
		dock:     dock.NewManager(),
		menus:    make(map[string]*ui.Menu),
		actions:  make(map[string]*ui.Action),
		version:  "dev",
	}
	for _, opt := range opts {
		opt(w)
	}

	capacity := h.Config.Recent.Capacity
	if capacity <= 0 {
		capacity = recent.DefaultCapacity
	}
	w.recent = recent.New(h.Settings,
		recent.WithCapacity(capacity),
		recent.WithOpener(h.Backend.OpenExecutable),
		recent.WithLogger(h.Log("recent")),
	)
	w.subs = newSubscriptions(w)
	return w, nil
}

// Dock returns the panel arrangement.
func (w *Window) Dock() *dock.Manager { return w.dock }

// Recent returns the recent-file tracker.
func (w *Window) Recent() *recent.Tracker { return w.recent }

// Status returns the current run state.
func (w *Window) Status() status.State {
	if w.status == nil {
		return status.NotRunning
	}
	return w.status.State()
}

// MenuBar returns the top-level menus in display order.
func (w *Window) MenuBar() []*ui.Menu { return w.menuBar.Menus() }

// Menu returns a top-level menu by id: file, view, debug, plugins or help.
func (w *Window) Menu(id string) *ui.Menu { return w.menus[id] }

// Toolbar returns the toolbar.
func (w *Window) Toolbar() *ui.Menu { return w.toolbar }

// Action returns a window action by id.
func (w *Window) Action(id string) *ui.Action { return w.actions[id] }

// CentralView returns the editor's view.
func (w *Window) CentralView() ui.View { return w.hub.Editor.View() }

// FilePath returns the opened executable shown in the title.
func (w *Window) FilePath() string { return w.filePath }

// Registry returns the plugin registry.
func (w *Window) Registry() *plugin.Registry { return w.registry }

// Started reports whether Start completed.
func (w *Window) Started() bool { return w.started }

// Closed reports whether the window was closed.
func (w *Window) Closed() bool { return w.closed }

func (w *Window) setFilePath(path string) {
	w.filePath = path
	if path == "" {
		w.frame.SetTitle(AppName)
		return
	}
	w.frame.SetTitle(filepath.Base(path) + " - " + AppName)
}

func (w *Window) onStatus(s status.State) {
	w.frame.SetStatus(s.Label(), s.Icon())
}
