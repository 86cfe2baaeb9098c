package dispatch

import "errors"

// Sentinel errors for the dispatch package.
var (
	// ErrAlreadyRunning is returned when Run is called on a running loop.
	ErrAlreadyRunning = errors.New("loop is already running")

	// ErrQueueFull is returned when the loop queue is at capacity.
	ErrQueueFull = errors.New("loop queue is full")

	// ErrNilTask is returned when a nil task is posted.
	ErrNilTask = errors.New("task cannot be nil")
)
