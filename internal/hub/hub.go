// Package hub holds the shared collaborators of the main window.
//
// A Context is built once by the application and handed to every component
// that needs the bus, the UI loop or a collaborator. Nothing in the tree
// reaches these through package-level state.
package hub

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/dshills/stormdbg/internal/config"
	"github.com/dshills/stormdbg/internal/debugger"
	"github.com/dshills/stormdbg/internal/editor"
	"github.com/dshills/stormdbg/internal/event"
	"github.com/dshills/stormdbg/internal/event/dispatch"
	"github.com/dshills/stormdbg/internal/logging"
	"github.com/dshills/stormdbg/internal/session"
	"github.com/dshills/stormdbg/internal/settings"
	"github.com/dshills/stormdbg/internal/ui"
)

// ErrIncomplete is returned by Validate when a required collaborator is missing.
var ErrIncomplete = errors.New("hub context incomplete")

// Context is the dependency set shared by the window, the plugin registry
// and plugins.
type Context struct {
	Bus      event.Bus
	Loop     *dispatch.Loop
	Settings settings.Store
	Backend  debugger.Backend
	Editor   editor.Editor
	Sessions session.Manager
	Dialogs  ui.Dialogs
	Logger   logrus.FieldLogger
	Config   config.Config
}

// Validate checks that the collaborators every component relies on are set.
func (c *Context) Validate() error {
	var missing []error
	if c.Bus == nil {
		missing = append(missing, errors.New("bus"))
	}
	if c.Loop == nil {
		missing = append(missing, errors.New("loop"))
	}
	if c.Settings == nil {
		missing = append(missing, errors.New("settings"))
	}
	if len(missing) > 0 {
		return errors.Join(append([]error{ErrIncomplete}, missing...)...)
	}
	return nil
}

// Log returns a logger scoped to component.
func (c *Context) Log(component string) logrus.FieldLogger {
	return logging.Component(c.Logger, component)
}
