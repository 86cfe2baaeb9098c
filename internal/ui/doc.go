// Package ui holds the toolkit-neutral models of the main window surface:
// actions, menus, the toolbar, dock panels and file dialogs.
//
// Nothing in this package is safe for concurrent use. Like every piece of
// window state, these values are created and mutated only on the UI loop;
// other goroutines reach them by publishing on the event bus.
package ui
