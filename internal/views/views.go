// Package views provides the debugger's built-in dock panels.
//
// The panels here are placeholders for the debugger's data views; their
// content is rendered elsewhere. What matters to the window is their IDs,
// which the canonical layout refers to.
package views

import (
	"context"
	"fmt"

	"github.com/dshills/stormdbg/internal/event"
	"github.com/dshills/stormdbg/internal/ui"
)

// Owner is the owner recorded for built-in panels.
const Owner = "core"

// Panel IDs.
const (
	FileList   = "FileListView"
	DataGraph  = "DataGraphView"
	Watch      = "WatchView"
	Locals     = "LocalsView"
	Stack      = "StackView"
	Breakpoint = "BreakpointView"
	Tracepoint = "TracepointView"
	GdbIo      = "GdbIoView"
	PyIo       = "PyIoView"
	InferiorIo = "InferiorIoView"
)

// Def describes one built-in panel.
type Def struct {
	ID    string
	Title string
	Area  ui.Area
}

var defs = []Def{
	{FileList, "Files", ui.AreaLeft},
	{DataGraph, "Data Graph", ui.AreaRight},
	{Watch, "Watch", ui.AreaRight},
	{Locals, "Locals", ui.AreaRight},
	{Stack, "Stack", ui.AreaRight},
	{Breakpoint, "Breakpoints", ui.AreaRight},
	{Tracepoint, "Tracepoints", ui.AreaRight},
	{GdbIo, "GDB Console", ui.AreaBottom},
	{PyIo, "Python Console", ui.AreaBottom},
	{InferiorIo, "Program Output", ui.AreaBottom},
}

// Defs returns the built-in panel definitions in insertion order.
func Defs() []Def {
	out := make([]Def, len(defs))
	copy(out, defs)
	return out
}

// CanonicalPairs lists the default tab groupings. The second panel of each
// pair joins the first panel's stack; pairs are applied in order.
func CanonicalPairs() [][2]string {
	return [][2]string{
		{FileList, DataGraph},
		{Watch, Locals},
		{Locals, Stack},
		{Stack, Breakpoint},
		{Breakpoint, Tracepoint},
		{GdbIo, PyIo},
		{PyIo, InferiorIo},
	}
}

// Core registers the built-in panels.
type Core struct {
	bus   event.Bus
	views map[string]*ui.TextView
}

// NewCore returns the built-in panel provider.
func NewCore(bus event.Bus) *Core {
	return &Core{bus: bus, views: make(map[string]*ui.TextView)}
}

// InsertPanels publishes a registration for every built-in panel.
func (c *Core) InsertPanels(ctx context.Context) error {
	for _, d := range defs {
		v, ok := c.views[d.ID]
		if !ok {
			v = &ui.TextView{Name: d.Title}
			c.views[d.ID] = v
		}
		p := &ui.Panel{ID: d.ID, View: v, Area: d.Area, Owner: Owner, Toggle: true}
		if err := c.bus.Publish(ctx, event.ChannelPanelRegistration, event.PanelRegistration{Panel: p}); err != nil {
			return fmt.Errorf("register %s: %w", d.ID, err)
		}
	}
	return nil
}

// View returns the content handle of a built-in panel.
func (c *Core) View(id string) (*ui.TextView, bool) {
	v, ok := c.views[id]
	return v, ok
}
