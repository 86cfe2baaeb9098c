package plugin

// State represents the lifecycle state of a plugin.
type State int

// Plugin states.
const (
	// StateDiscovered - Plugin is loaded but not active.
	StateDiscovered State = iota

	// StateActivating - Plugin is being activated.
	StateActivating

	// StateActive - Plugin is active and its contributions are attached.
	StateActive

	// StateDeactivating - Plugin is being deactivated.
	StateDeactivating

	// StateError - Plugin failed to activate.
	StateError
)

// String returns a string representation of the state.
func (s State) String() string {
	switch s {
	case StateDiscovered:
		return "discovered"
	case StateActivating:
		return "activating"
	case StateActive:
		return "active"
	case StateDeactivating:
		return "deactivating"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// IsTransitioning returns true while activation or deactivation runs.
func (s State) IsTransitioning() bool {
	return s == StateActivating || s == StateDeactivating
}
