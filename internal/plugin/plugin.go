package plugin

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/dshills/stormdbg/internal/hub"
	"github.com/dshills/stormdbg/internal/ui"
)

// Plugin is the capability contract every plugin implements.
type Plugin interface {
	// ID returns the unique plugin identifier.
	ID() string

	// RegisterPanels adds the plugin's panels through host.
	RegisterPanels(ctx context.Context, host Host) error

	// RegisterActions adds the plugin's menu actions through host.
	RegisterActions(ctx context.Context, host Host) error

	// Deactivate releases plugin resources. Contributions are withdrawn by
	// the registry afterwards.
	Deactivate(ctx context.Context, host Host) error
}

// Host is the plugin's view of the window.
type Host interface {
	// AddPanel requests a dock panel. The panel's Owner is set to the plugin.
	AddPanel(ctx context.Context, p *ui.Panel) error

	// AddAction adds an entry to the Plugins menu.
	AddAction(ctx context.Context, a *ui.Action) error

	// Hub returns the shared collaborators.
	Hub() *hub.Context

	// Logger returns a logger scoped to the plugin.
	Logger() logrus.FieldLogger
}

// Factory instantiates a plugin.
type Factory func(ctx context.Context) (Plugin, error)

// Descriptor describes a discovered plugin.
type Descriptor struct {
	ID      string
	Source  string
	Enabled bool
	State   State
	Err     error

	// Panels holds the IDs of the panels the plugin registered.
	Panels []string

	// Actions holds the plugin's menu actions in registration order.
	Actions []*ui.Action
}
