// Package lua provides the sandboxed Lua runtime used by script plugins.
//
// A State opens only the base, table, string and math libraries and removes
// the functions that load code from disk or strings:
//
//	state := lua.NewState(lua.WithExecutionTimeout(2 * time.Second))
//	defer state.Close()
//
//	if err := state.DoFile(ctx, "breakpoints.lua"); err != nil {
//	    return err
//	}
//	found, err := state.CallGlobal(ctx, "register_panels", hubTable)
//
// gopher-lua states are not goroutine-safe. Script plugins only touch their
// State from the UI loop; the mutex guards against accidental misuse.
//
// Every call runs under a context. Execution stops with ErrExecutionTimeout
// when the configured timeout elapses, and with the context's error when the
// caller's context is cancelled first.
package lua
