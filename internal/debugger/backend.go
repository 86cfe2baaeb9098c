package debugger

import (
	"context"

	"github.com/dshills/stormdbg/internal/event"
)

// Backend is the debugger control surface used by the window's actions.
type Backend interface {
	OpenExecutable(ctx context.Context, path string) error
	Executable() string

	Run(ctx context.Context) error
	Continue(ctx context.Context) error
	Interrupt(ctx context.Context) error
	Step(ctx context.Context) error
	Next(ctx context.Context) error
	Finish(ctx context.Context) error
	RunToCursor(ctx context.Context, file string, line int) error
	ReverseStep(ctx context.Context) error
	ReverseNext(ctx context.Context) error
	ToggleRecord(ctx context.Context) error

	// Close stops the inferior, if any.
	Close() error
}

// Notifier receives lifecycle notifications from a backend.
type Notifier interface {
	Notify(ctx context.Context, ev event.Lifecycle) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, ev event.Lifecycle) error

// Notify implements Notifier.
func (f NotifierFunc) Notify(ctx context.Context, ev event.Lifecycle) error {
	return f(ctx, ev)
}

// Relay publishes lifecycle notifications on the event bus.
type Relay struct {
	bus    event.Bus
	source string
}

// NewRelay returns a Relay publishing on bus with the given source tag.
func NewRelay(bus event.Bus, source string) *Relay {
	return &Relay{bus: bus, source: source}
}

// Notify implements Notifier.
func (r *Relay) Notify(ctx context.Context, ev event.Lifecycle) error {
	if r.source != "" {
		ctx = event.WithSource(ctx, r.source)
	}
	return r.bus.Publish(ctx, event.ChannelLifecycle, ev)
}
