package debugger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dshills/stormdbg/internal/event"
	"github.com/dshills/stormdbg/internal/logging"
)

// ProcessOption configures a ProcessBackend.
type ProcessOption func(*ProcessBackend)

// WithArgs sets the arguments passed to the inferior.
func WithArgs(args ...string) ProcessOption {
	return func(b *ProcessBackend) { b.args = args }
}

// WithOutput sets where the inferior's stdout and stderr go. By default the
// output is discarded.
func WithOutput(w io.Writer) ProcessOption {
	return func(b *ProcessBackend) { b.output = w }
}

// WithLogger sets the backend logger.
func WithLogger(l logrus.FieldLogger) ProcessOption {
	return func(b *ProcessBackend) { b.log = l }
}

// ProcessBackend runs the executable as a child process.
// It is safe for concurrent use.
type ProcessBackend struct {
	notifier Notifier
	args     []string
	output   io.Writer
	log      logrus.FieldLogger

	mu      sync.Mutex
	path    string
	cmd     *exec.Cmd
	runID   string
	stopped bool
	done    chan struct{}
}

// NewProcessBackend creates a backend reporting to n.
func NewProcessBackend(n Notifier, opts ...ProcessOption) *ProcessBackend {
	b := &ProcessBackend{
		notifier: n,
		output:   io.Discard,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.log == nil {
		b.log = logging.Discard()
	}
	return b
}

// OpenExecutable selects the program to debug. A running inferior is killed
// first.
func (b *ProcessBackend) OpenExecutable(ctx context.Context, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("open executable: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("open executable %s: is a directory", path)
	}

	if err := b.Close(); err != nil {
		b.log.WithError(err).Warn("stopping previous inferior")
	}

	b.mu.Lock()
	b.path = path
	b.mu.Unlock()

	b.log.WithField("path", path).Info("executable opened")
	return b.notify(ctx, event.Lifecycle{Kind: event.ExecutableOpened, Path: path})
}

// Executable returns the opened executable path.
func (b *ProcessBackend) Executable() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.path
}

// Run starts the inferior.
func (b *ProcessBackend) Run(ctx context.Context) error {
	b.mu.Lock()
	if b.path == "" {
		b.mu.Unlock()
		return ErrNoExecutable
	}
	if b.cmd != nil {
		b.mu.Unlock()
		return ErrAlreadyRunning
	}

	cmd := exec.Command(b.path, b.args...)
	if b.output != io.Discard {
		cmd.Stdout = b.output
		cmd.Stderr = b.output
	}
	// Orphaned grandchildren may keep the output pipe open after exit.
	cmd.WaitDelay = time.Second
	if err := cmd.Start(); err != nil {
		b.mu.Unlock()
		return fmt.Errorf("start inferior: %w", err)
	}
	runID := uuid.NewString()
	done := make(chan struct{})
	b.cmd = cmd
	b.runID = runID
	b.stopped = false
	b.done = done
	b.mu.Unlock()

	b.log.WithFields(logrus.Fields{"run": runID, "pid": cmd.Process.Pid}).Info("inferior started")
	err := b.notify(ctx, event.Lifecycle{Kind: event.StartRunning, Detail: runID})

	go b.wait(cmd, runID, done)
	return err
}

// wait reports how the inferior ended. It runs on its own goroutine and
// notifies with a background context so events are queued for the UI loop.
func (b *ProcessBackend) wait(cmd *exec.Cmd, runID string, done chan struct{}) {
	defer close(done)
	err := cmd.Wait()

	b.mu.Lock()
	if b.runID == runID {
		b.cmd = nil
		b.runID = ""
	}
	b.mu.Unlock()

	ctx := context.Background()
	detail := "exit status 0"
	if err != nil {
		detail = err.Error()
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
				sig := status.Signal().String()
				_ = b.notify(ctx, event.Lifecycle{Kind: event.ReceivedSignal, Detail: sig})
				detail = "killed by " + sig
			}
		}
	}

	b.log.WithFields(logrus.Fields{"run": runID, "status": detail}).Info("inferior exited")
	_ = b.notify(ctx, event.Lifecycle{Kind: event.Exited, Detail: detail})
}

// Interrupt suspends the running inferior.
func (b *ProcessBackend) Interrupt(ctx context.Context) error {
	cmd, err := b.live()
	if err != nil {
		return err
	}
	if err := stopProcess(cmd.Process); err != nil {
		return fmt.Errorf("interrupt: %w", err)
	}
	b.mu.Lock()
	b.stopped = true
	b.mu.Unlock()
	return b.notify(ctx, event.Lifecycle{Kind: event.ReceivedSignal, Detail: "interrupted"})
}

// Continue resumes an interrupted inferior.
func (b *ProcessBackend) Continue(ctx context.Context) error {
	cmd, err := b.live()
	if err != nil {
		return err
	}
	b.mu.Lock()
	stopped := b.stopped
	b.mu.Unlock()
	if !stopped {
		return nil
	}
	if err := continueProcess(cmd.Process); err != nil {
		return fmt.Errorf("continue: %w", err)
	}
	b.mu.Lock()
	b.stopped = false
	b.mu.Unlock()
	return b.notify(ctx, event.Lifecycle{Kind: event.StartRunning, Detail: "continued"})
}

func (b *ProcessBackend) Step(context.Context) error        { return ErrUnsupported }
func (b *ProcessBackend) Next(context.Context) error        { return ErrUnsupported }
func (b *ProcessBackend) Finish(context.Context) error      { return ErrUnsupported }
func (b *ProcessBackend) ReverseStep(context.Context) error { return ErrUnsupported }
func (b *ProcessBackend) ReverseNext(context.Context) error { return ErrUnsupported }
func (b *ProcessBackend) ToggleRecord(context.Context) error {
	return ErrUnsupported
}

func (b *ProcessBackend) RunToCursor(context.Context, string, int) error {
	return ErrUnsupported
}

// Close kills the inferior and waits for its exit to be reported.
func (b *ProcessBackend) Close() error {
	b.mu.Lock()
	cmd, done := b.cmd, b.done
	b.mu.Unlock()
	if cmd == nil {
		return nil
	}
	if err := cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("kill inferior: %w", err)
	}
	<-done
	return nil
}

// Done returns a channel closed when the current inferior has exited, or
// nil if nothing was started.
func (b *ProcessBackend) Done() <-chan struct{} {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.done
}

func (b *ProcessBackend) live() (*exec.Cmd, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.cmd == nil {
		return nil, ErrNotRunning
	}
	return b.cmd, nil
}

func (b *ProcessBackend) notify(ctx context.Context, ev event.Lifecycle) error {
	if b.notifier == nil {
		return nil
	}
	if err := b.notifier.Notify(ctx, ev); err != nil {
		b.log.WithField("kind", ev.Kind.String()).WithError(err).Warn("lifecycle notification failed")
		return err
	}
	return nil
}
