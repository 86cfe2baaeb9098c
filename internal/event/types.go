package event

import "context"

// Priority determines handler execution order.
// Lower values execute first.
type Priority int

const (
	// PriorityCritical is for window state that other handlers read.
	PriorityCritical Priority = 0

	// PriorityHigh is for the status indicator and dock placement.
	PriorityHigh Priority = 100

	// PriorityNormal is the default priority.
	PriorityNormal Priority = 200

	// PriorityLow is for logging and bookkeeping handlers that run last.
	PriorityLow Priority = 300
)

// String returns a human-readable priority name.
func (p Priority) String() string {
	switch {
	case p <= PriorityCritical:
		return "critical"
	case p <= PriorityHigh:
		return "high"
	case p <= PriorityNormal:
		return "normal"
	default:
		return "low"
	}
}

// Handler is the interface for event handlers.
type Handler interface {
	// Handle processes an event. The event parameter is an Event value.
	Handle(ctx context.Context, event any) error
}

// HandlerFunc is a function adapter for Handler.
type HandlerFunc func(ctx context.Context, event any) error

// Handle implements the Handler interface.
func (f HandlerFunc) Handle(ctx context.Context, event any) error {
	return f(ctx, event)
}

// TypedHandlerFunc handles the payload of a single channel.
type TypedHandlerFunc[T any] func(ctx context.Context, payload T) error

// AsHandlerFunc converts a TypedHandlerFunc to a HandlerFunc.
// Events whose payload is not a T are skipped silently.
func AsHandlerFunc[T any](fn TypedHandlerFunc[T]) HandlerFunc {
	return func(ctx context.Context, event any) error {
		ev, ok := event.(Event)
		if !ok {
			return nil
		}
		payload, ok := ev.Payload.(T)
		if !ok {
			return nil
		}
		return fn(ctx, payload)
	}
}

// FilterFunc is a predicate for filtering events.
// Return true to allow the event, false to filter it out.
type FilterFunc func(event Event) bool

// Stats contains event bus statistics.
type Stats struct {
	// EventsPublished is the total number of events accepted by Publish.
	EventsPublished uint64

	// EventsDelivered is the number of events handed to their subscribers.
	EventsDelivered uint64

	// EventsDropped is the number of events dropped because the queue was full.
	EventsDropped uint64

	// HandlersExecuted is the total number of handler executions.
	HandlersExecuted uint64

	// HandlerErrors is the number of handlers that returned errors.
	HandlerErrors uint64

	// HandlerPanics is the number of handlers that panicked.
	HandlerPanics uint64

	// AvgDeliveryTimeNs is the average handler execution time in nanoseconds.
	AvgDeliveryTimeNs int64

	// ActiveSubscribers is the current number of active subscriptions.
	ActiveSubscribers int

	// QueueDepth is the current loop queue depth.
	QueueDepth int
}
