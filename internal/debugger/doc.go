// Package debugger defines the backend the main window drives and the way
// the backend reports lifecycle changes.
//
// The window calls Backend methods directly from the UI loop. The backend
// reports back only through a Notifier, typically a Relay onto the event bus,
// which is safe to call from the goroutine that waits on the inferior.
//
// ProcessBackend is a minimal backend that launches the executable as a
// plain child process. It reports start, signal and exit, and supports
// interrupt and continue through job-control signals. Source-level stepping
// needs a real debugger and returns ErrUnsupported.
package debugger
