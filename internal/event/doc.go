// Package event provides the event bus that connects the debugger backend,
// the plugin registry and the main window.
//
// The bus is the only path between goroutines. The debugger backend publishes
// from worker goroutines; everything else runs on the UI loop:
//
//	                   ┌──────────────────────────────────────┐
//	worker goroutine   │              Event Bus               │   UI loop
//	  Publish ────────▶│  off-loop: Post to dispatch.Loop ────┼──▶ handlers
//	                   │  on-loop:  deliver in-line ──────────┼──▶ handlers
//	                   └──────────────────────────────────────┘
//
// # Channels
//
// Events travel on a closed set of channels, each with one payload type:
//
//	ChannelLifecycle           Lifecycle           debugger state changes
//	ChannelPanelRegistration   PanelRegistration   a panel wants a dock area
//	ChannelPanelRemoval        PanelRemoval        a panel is withdrawn
//	ChannelActionRegistration  ActionRegistration  a menu action is added or retracted
//
// Publishing on any other channel, or with the wrong payload type, fails.
//
// # Ordering
//
// Events published off the loop are queued on the loop's single FIFO queue,
// so subscribers observe them in publish order. Within one event, handlers
// run by priority (lower first) and then in subscription order.
//
// # Handler Isolation
//
// A handler that returns an error or panics is logged and counted in Stats.
// The failure never reaches the publisher and the remaining handlers still run.
//
// # Backpressure
//
// The loop queue is bounded. When it is full the event is dropped, counted in
// Stats.EventsDropped, and Publish returns ErrQueueFull. Publish never blocks.
//
// # Usage
//
//	loop := dispatch.NewLoop()
//	bus := event.NewBus(loop, event.WithLogger(log))
//
//	bus.SubscribeFunc(event.ChannelLifecycle, event.AsHandlerFunc(
//	    func(ctx context.Context, ev event.Lifecycle) error {
//	        indicator.Apply(ev.Kind)
//	        return nil
//	    }))
//
//	// From the backend's wait goroutine:
//	bus.Publish(ctx, event.ChannelLifecycle, event.Lifecycle{Kind: event.Exited})
package event
