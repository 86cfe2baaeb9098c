// Package dispatch provides the UI loop and the handler executor used by the
// event bus.
//
// # The UI Loop
//
// Loop is a single-goroutine task queue. Every mutation of window, panel and
// menu state happens inside a task run by Loop.Run; other goroutines hand work
// over with Post, which never blocks:
//
//	worker goroutine          bounded FIFO           UI loop goroutine
//	  Post(task) ─────────▶ [t1][t2][t3]... ─────▶ Run: t1, t2, t3 in order
//
// Tasks run with a context derived by Loop.Context. Code holding such a
// context is, by construction, already on the loop, so Owns(ctx) lets callers
// choose between running in-line and posting.
//
// # Panic Recovery
//
// Both Loop and Executor recover panics so that one misbehaving handler or
// task cannot stop the loop. Panics are reported through a PanicHandler.
//
// # Usage
//
//	loop := dispatch.NewLoop(dispatch.WithQueueSize(1024))
//	go loop.Run(ctx)
//
//	// From any goroutine:
//	if err := loop.Post(func(ctx context.Context) { window.Refresh(ctx) }); err != nil {
//	    // queue full; the task was dropped
//	}
package dispatch
