package dock

import "errors"

var (
	// ErrNilPanel is returned when a nil panel or a panel without ID is added.
	ErrNilPanel = errors.New("panel is nil or has no id")

	// ErrAlreadyAttached is returned when a panel ID is added twice.
	ErrAlreadyAttached = errors.New("panel already attached")

	// ErrNotAttached is returned for operations on an unknown panel ID.
	ErrNotAttached = errors.New("panel not attached")

	// ErrInvalidArea is returned when a panel requests an unknown area.
	ErrInvalidArea = errors.New("invalid dock area")

	// ErrCorruptState is returned when a saved state or geometry blob cannot be decoded.
	ErrCorruptState = errors.New("corrupt layout state")
)
