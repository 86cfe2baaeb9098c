package plugin

import (
	"errors"
	"fmt"
)

// Plugin system errors.
var (
	// ErrPluginNotFound is returned when a plugin ID is not discovered.
	ErrPluginNotFound = errors.New("plugin not found")

	// ErrNoEntryPoint is returned when a plugin directory has no init.lua.
	ErrNoEntryPoint = errors.New("plugin has no entry point (init.lua)")

	// ErrDuplicateID is returned when two plugins claim the same ID.
	ErrDuplicateID = errors.New("duplicate plugin id")

	// ErrInvalidPlugin is returned when a factory yields an unusable plugin.
	ErrInvalidPlugin = errors.New("invalid plugin")

	// ErrNotActive is returned when a plugin contributes while inactive.
	ErrNotActive = errors.New("plugin is not active")
)

// LoadError reports a plugin that could not be discovered, loaded or
// activated.
type LoadError struct {
	// Source names where the plugin came from.
	Source string

	// Plugin is the plugin ID or, before the ID is known, its key.
	Plugin string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *LoadError) Error() string {
	if e.Plugin == "" {
		return fmt.Sprintf("plugin source %s: %v", e.Source, e.Err)
	}
	return fmt.Sprintf("plugin %s (%s): %v", e.Plugin, e.Source, e.Err)
}

// Unwrap returns the underlying error.
func (e *LoadError) Unwrap() error {
	return e.Err
}
