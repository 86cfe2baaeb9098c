package plugin

import (
	"context"
	"time"

	lua "github.com/yuin/gopher-lua"

	plua "github.com/dshills/stormdbg/internal/plugin/lua"
	"github.com/dshills/stormdbg/internal/ui"
)

// luaPlugin adapts a Lua script to the Plugin contract.
type luaPlugin struct {
	id    string
	path  string
	state *plua.State
}

// loadLuaPlugin runs the script once so it can define its globals. The
// plugin ID is plugin.id when set, and name otherwise.
func loadLuaPlugin(ctx context.Context, name, path string, timeout time.Duration) (Plugin, error) {
	state := plua.NewState(plua.WithExecutionTimeout(timeout))
	if err := state.DoFile(ctx, path); err != nil {
		state.Close()
		return nil, err
	}

	id := name
	if tbl, ok := state.GetGlobal("plugin").(*lua.LTable); ok {
		if v, ok := tbl.RawGetString("id").(lua.LString); ok && v != "" {
			id = string(v)
		}
	}
	return &luaPlugin{id: id, path: path, state: state}, nil
}

func (p *luaPlugin) ID() string { return p.id }

func (p *luaPlugin) RegisterPanels(ctx context.Context, host Host) error {
	return p.callHook(ctx, "register_panels", host)
}

func (p *luaPlugin) RegisterActions(ctx context.Context, host Host) error {
	return p.callHook(ctx, "register_actions", host)
}

func (p *luaPlugin) Deactivate(ctx context.Context, host Host) error {
	return p.callHook(ctx, "deactivate", host)
}

// Close releases the Lua state.
func (p *luaPlugin) Close() error {
	return p.state.Close()
}

func (p *luaPlugin) callHook(ctx context.Context, name string, host Host) error {
	_, err := p.state.CallGlobal(ctx, name, p.hubTable(ctx, host))
	return err
}

// hubTable builds the table passed to hooks. Its functions run while the
// hook is executing, on the UI loop.
func (p *luaPlugin) hubTable(ctx context.Context, host Host) *lua.LTable {
	return p.state.NewTable(map[string]lua.LGFunction{
		"panel": func(L *lua.LState) int {
			args := L.CheckTable(1)
			id := fieldString(args, "id")
			if id == "" {
				L.ArgError(1, "panel id is required")
				return 0
			}
			area := ui.AreaRight
			if s := fieldString(args, "area"); s != "" {
				a, err := ui.ParseArea(s)
				if err != nil {
					L.ArgError(1, err.Error())
					return 0
				}
				area = a
			}
			panel := &ui.Panel{
				ID:     id,
				View:   &ui.TextView{Name: fieldString(args, "title")},
				Area:   area,
				Toggle: lua.LVAsBool(args.RawGetString("toggle")),
			}
			if err := host.AddPanel(ctx, panel); err != nil {
				L.RaiseError("%v", err)
			}
			return 0
		},
		"action": func(L *lua.LState) int {
			args := L.CheckTable(1)
			id, text := fieldString(args, "id"), fieldString(args, "text")
			if id == "" || text == "" {
				L.ArgError(1, "action id and text are required")
				return 0
			}
			opts := []ui.ActionOption{ui.WithShortcut(fieldString(args, "shortcut"))}
			if fn, ok := args.RawGetString("run").(*lua.LFunction); ok {
				opts = append(opts, ui.WithTrigger(func(tctx context.Context) error {
					_, err := p.state.Call(tctx, fn)
					return err
				}))
			}
			if err := host.AddAction(ctx, ui.NewAction(id, text, opts...)); err != nil {
				L.RaiseError("%v", err)
			}
			return 0
		},
		"log": func(L *lua.LState) int {
			host.Logger().Info(L.CheckString(1))
			return 0
		},
	})
}

func fieldString(t *lua.LTable, key string) string {
	if v, ok := t.RawGetString(key).(lua.LString); ok {
		return string(v)
	}
	return ""
}
