package debugger

import "errors"

var (
	// ErrNoExecutable is returned when running before an executable is opened.
	ErrNoExecutable = errors.New("no executable opened")

	// ErrAlreadyRunning is returned when Run is called while the inferior runs.
	ErrAlreadyRunning = errors.New("inferior already running")

	// ErrNotRunning is returned by controls that need a live inferior.
	ErrNotRunning = errors.New("inferior not running")

	// ErrUnsupported is returned for operations the backend cannot perform.
	ErrUnsupported = errors.New("operation not supported by backend")
)
