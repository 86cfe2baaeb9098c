package window

import "errors"

var (
	// ErrNotOnLoop is returned when Start or Close run outside the UI loop.
	ErrNotOnLoop = errors.New("not running on the UI loop")

	// ErrAlreadyStarted is returned by a second Start.
	ErrAlreadyStarted = errors.New("window already started")

	// ErrClosed is returned when starting a window that was closed.
	ErrClosed = errors.New("window is closed")

	// ErrMissingCollaborator is returned by New when a required collaborator
	// is absent from the hub context.
	ErrMissingCollaborator = errors.New("missing window collaborator")

	// ErrOwnerMismatch is returned when a panel removal names the wrong owner.
	ErrOwnerMismatch = errors.New("panel belongs to another owner")
)
