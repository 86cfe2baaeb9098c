// Package window implements the debugger's main window orchestrator.
//
// A Window owns the frame skeleton (menus, toolbar, central editor region and
// status label), the dock arrangement of panels and the persisted layout. It
// reacts to four event channels:
//
//	lifecycle             -> status indicator, window title, recent files
//	panel registration    -> dock.Manager.Add and a View menu toggle
//	panel removal         -> detach and drop the toggle
//	action registration   -> Plugins menu entries, in registration order
//
// Everything here runs on the UI loop. Start and Close must be called with a
// context derived from the loop, which makes bus deliveries synchronous, so
// panels published during startup are attached before the layout is
// captured.
//
// Startup order:
//
//	skeleton -> subscriptions -> plugin discovery and activation set
//	-> InsertPanels of every provider -> initial snapshot (first run only)
//	-> restore geometry and windowState
package window
