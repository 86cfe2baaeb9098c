// Package plugin discovers, activates and deactivates the plugins that
// contribute panels and menu actions to the main window.
//
// # Contract
//
// A Plugin registers what it contributes through a Host:
//
//	type Plugin interface {
//	    ID() string
//	    RegisterPanels(ctx context.Context, host Host) error
//	    RegisterActions(ctx context.Context, host Host) error
//	    Deactivate(ctx context.Context, host Host) error
//	}
//
// The Host publishes every contribution on the event bus and records which
// plugin owns it, so the Registry can withdraw it on deactivation.
//
// # Sources
//
// Plugins come from Sources. BuiltinSource serves Go factories compiled into
// the binary. LuaSource scans directories for Lua scripts:
//
//	~/.config/stormdbg/plugins/watch_expr.lua
//	~/.config/stormdbg/plugins/memory/init.lua
//
// A script may set a global plugin table and define hook functions:
//
//	plugin = { id = "memory" }
//
//	function register_panels(hub)
//	    hub.panel { id = "MemoryView", title = "Memory", area = "bottom", toggle = true }
//	end
//
//	function register_actions(hub)
//	    hub.action { id = "memory.refresh", text = "Refresh Memory", shortcut = "F6",
//	                 run = function() hub.log("refresh") end }
//	end
//
// # Activation Set
//
// The set of enabled plugins is persisted as a YAML descriptor:
//
//	plugins:
//	  - id: memory
//	    enabled: true
//	  - id: watch_expr
//	    enabled: false
//
// Every discovered plugin also gets a checkable entry in the Plugins menu that
// activates or deactivates it.
//
// # Lifecycle
//
//	discovered ──Activate──▶ active ──Deactivate──▶ discovered
//	     │                     │
//	     └──── load error ─────┴──▶ error
//
// Panels are registered in one phase, InsertPanels, after the window skeleton
// exists. Plugins activated after that phase register their panels at once.
//
// All Registry methods run on the UI loop.
package plugin
