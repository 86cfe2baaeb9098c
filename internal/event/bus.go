package event

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dshills/stormdbg/internal/event/dispatch"
	"github.com/dshills/stormdbg/internal/logging"
)

// Bus is the central event bus interface.
type Bus interface {
	// Publishing
	Publish(ctx context.Context, ch Channel, payload any) error

	// Subscription
	Subscribe(ch Channel, handler Handler, opts ...SubscriptionOption) (Subscription, error)
	SubscribeFunc(ch Channel, fn HandlerFunc, opts ...SubscriptionOption) (Subscription, error)
	Unsubscribe(sub Subscription) error

	// Lifecycle
	Close()

	// Status
	Stats() Stats
}

// bus is the default Bus implementation.
type bus struct {
	registry *Registry
	loop     *dispatch.Loop
	executor *dispatch.Executor
	log      logrus.FieldLogger

	closed atomic.Bool

	// Stats
	eventsPublished  atomic.Uint64
	eventsDelivered  atomic.Uint64
	eventsDropped    atomic.Uint64
	handlersExecuted atomic.Uint64
	handlerErrors    atomic.Uint64
	handlerPanics    atomic.Uint64
	totalDeliveryNs  atomic.Int64
}

// NewBus creates an event bus that delivers on loop.
func NewBus(loop *dispatch.Loop, opts ...BusOption) Bus {
	config := defaultBusConfig()
	for _, opt := range opts {
		opt(&config)
	}

	log := config.logger
	if log == nil {
		log = logging.Discard()
	}

	return &bus{
		registry: NewRegistry(),
		loop:     loop,
		executor: dispatch.NewExecutor(),
		log:      log,
	}
}

// Publish sends an event. On the UI loop the handlers run before Publish
// returns; elsewhere the event is queued for the loop and Publish returns
// immediately.
func (b *bus) Publish(ctx context.Context, ch Channel, payload any) error {
	if b.closed.Load() {
		return ErrBusClosed
	}
	if !ch.Valid() {
		return ErrInvalidChannel
	}
	if !ch.accepts(payload) {
		return ErrInvalidPayload
	}

	ev := Event{
		Channel: ch,
		Payload: payload,
		Source:  SourceFrom(ctx),
		Time:    time.Now(),
	}

	if b.loop.Owns(ctx) {
		b.eventsPublished.Add(1)
		b.deliver(ctx, ev)
		return nil
	}

	err := b.loop.Post(func(lctx context.Context) {
		b.deliver(lctx, ev)
	})
	if err != nil {
		if errors.Is(err, dispatch.ErrQueueFull) {
			b.eventsDropped.Add(1)
			b.log.WithFields(logrus.Fields{
				"channel": ch.String(),
				"source":  ev.Source,
			}).Warn("event queue full, event dropped")
			return ErrQueueFull
		}
		return err
	}
	b.eventsPublished.Add(1)
	return nil
}

// deliver runs every matching handler on the calling goroutine, which is
// always the UI loop.
func (b *bus) deliver(ctx context.Context, ev Event) {
	subs := b.registry.MatchActive(ev.Channel)
	for _, sub := range subs {
		if !sub.ShouldDeliver(ev) {
			continue
		}

		result := b.executor.Execute(ctx, ev, sub.Handler())
		if result.Skipped {
			continue
		}
		b.handlersExecuted.Add(1)
		b.totalDeliveryNs.Add(result.Duration.Nanoseconds())

		switch {
		case result.Panicked:
			b.handlerPanics.Add(1)
			perr := &PanicError{
				SubscriptionID: sub.ID(),
				Channel:        ev.Channel,
				Value:          result.PanicValue,
				Stack:          string(result.PanicStack),
			}
			b.log.WithFields(logrus.Fields{
				"channel":      ev.Channel.String(),
				"subscription": sub.ID(),
				"stack":        perr.Stack,
			}).WithError(perr).Error("event handler panicked")
		case result.Error != nil:
			b.handlerErrors.Add(1)
			herr := &HandlerError{SubscriptionID: sub.ID(), Channel: ev.Channel, Err: result.Error}
			b.log.WithFields(logrus.Fields{
				"channel":      ev.Channel.String(),
				"subscription": sub.ID(),
			}).WithError(herr).Warn("event handler failed")
		}

		if sub.Config().Once && result.Success {
			sub.Cancel()
			b.registry.Remove(sub.ID())
		}
	}
	b.eventsDelivered.Add(1)
}

// Subscribe registers handler for events on ch.
// This method is safe to call concurrently.
func (b *bus) Subscribe(ch Channel, handler Handler, opts ...SubscriptionOption) (Subscription, error) {
	if handler == nil {
		return nil, ErrNilHandler
	}
	if !ch.Valid() {
		return nil, ErrInvalidChannel
	}

	sub := newSubscription(uuid.NewString(), ch, handler, opts...)
	b.registry.Add(sub)

	return sub, nil
}

// SubscribeFunc is a convenience method for subscribing with a function handler.
func (b *bus) SubscribeFunc(ch Channel, fn HandlerFunc, opts ...SubscriptionOption) (Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	return b.Subscribe(ch, fn, opts...)
}

// Unsubscribe removes a subscription.
// This method is safe to call concurrently.
func (b *bus) Unsubscribe(sub Subscription) error {
	if sub == nil {
		return ErrInvalidSubscription
	}

	sub.Cancel()
	if !b.registry.Remove(sub.ID()) {
		return ErrSubscriptionNotFound
	}
	return nil
}

// Close rejects further publishes. Events already queued are still delivered
// if the loop keeps running.
func (b *bus) Close() {
	b.closed.Store(true)
}

// Stats returns current bus statistics.
func (b *bus) Stats() Stats {
	executed := b.handlersExecuted.Load()
	var avgNs int64
	if executed > 0 {
		avgNs = b.totalDeliveryNs.Load() / int64(executed)
	}

	return Stats{
		EventsPublished:   b.eventsPublished.Load(),
		EventsDelivered:   b.eventsDelivered.Load(),
		EventsDropped:     b.eventsDropped.Load(),
		HandlersExecuted:  executed,
		HandlerErrors:     b.handlerErrors.Load(),
		HandlerPanics:     b.handlerPanics.Load(),
		AvgDeliveryTimeNs: avgNs,
		ActiveSubscribers: b.registry.CountActive(),
		QueueDepth:        b.loop.QueueDepth(),
	}
}
