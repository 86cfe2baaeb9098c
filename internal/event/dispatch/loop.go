package dispatch

import (
	"context"
	"runtime/debug"
	"sync/atomic"
)

// Task is a unit of work run on the loop.
type Task func(ctx context.Context)

// DefaultQueueSize bounds the loop queue when no size is configured.
const DefaultQueueSize = 10000

// loopKey marks contexts derived by Loop.Context.
type loopKey struct{}

// Loop is the single-threaded UI loop. All window state is owned by the
// goroutine running Run; other goroutines reach it through Post.
type Loop struct {
	queue        chan Task
	panicHandler PanicHandler
	afterTask    Task

	running atomic.Bool

	// Stats
	posted   atomic.Uint64
	executed atomic.Uint64
	dropped  atomic.Uint64
	panicked atomic.Uint64
}

// LoopOption configures a Loop.
type LoopOption func(*loopConfig)

type loopConfig struct {
	queueSize    int
	panicHandler PanicHandler
	afterTask    Task
}

// WithQueueSize sets the queue capacity. Non-positive values are ignored.
func WithQueueSize(size int) LoopOption {
	return func(c *loopConfig) {
		if size > 0 {
			c.queueSize = size
		}
	}
}

// WithLoopPanicHandler sets the handler called when a task panics.
func WithLoopPanicHandler(h PanicHandler) LoopOption {
	return func(c *loopConfig) {
		if h != nil {
			c.panicHandler = h
		}
	}
}

// WithAfterTask sets a hook run on the loop after every task, typically a
// redraw.
func WithAfterTask(fn Task) LoopOption {
	return func(c *loopConfig) {
		c.afterTask = fn
	}
}

// NewLoop creates a loop. It does nothing until Run or RunPending is called.
func NewLoop(opts ...LoopOption) *Loop {
	cfg := loopConfig{
		queueSize:    DefaultQueueSize,
		panicHandler: defaultPanicHandler,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Loop{
		queue:        make(chan Task, cfg.queueSize),
		panicHandler: cfg.panicHandler,
		afterTask:    cfg.afterTask,
	}
}

// Context derives a context that marks its holder as running on this loop.
func (l *Loop) Context(parent context.Context) context.Context {
	return context.WithValue(parent, loopKey{}, l)
}

// Owns reports whether ctx was derived by this loop's Context.
func (l *Loop) Owns(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	owner, _ := ctx.Value(loopKey{}).(*Loop)
	return owner == l
}

// Post enqueues a task without blocking. Tasks run in the order posted.
// When the queue is full the task is dropped and ErrQueueFull returned.
func (l *Loop) Post(task Task) error {
	if task == nil {
		return ErrNilTask
	}
	select {
	case l.queue <- task:
		l.posted.Add(1)
		return nil
	default:
		l.dropped.Add(1)
		return ErrQueueFull
	}
}

// Invoke runs task in-line when ctx belongs to the loop, and posts it
// otherwise.
func (l *Loop) Invoke(ctx context.Context, task Task) error {
	if task == nil {
		return ErrNilTask
	}
	if l.Owns(ctx) {
		l.execute(ctx, task)
		return nil
	}
	return l.Post(task)
}

// Run executes tasks until ctx is done. The calling goroutine becomes the
// UI loop.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer l.running.Store(false)

	lctx := l.Context(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case task := <-l.queue:
			l.execute(lctx, task)
		}
	}
}

// RunPending executes the tasks queued so far, plus any they post, and
// returns how many ran. It never blocks waiting for new tasks and does
// nothing while Run is active on another goroutine.
func (l *Loop) RunPending(ctx context.Context) int {
	if !l.running.CompareAndSwap(false, true) {
		return 0
	}
	defer l.running.Store(false)

	lctx := l.Context(ctx)
	n := 0
	for {
		select {
		case task := <-l.queue:
			l.execute(lctx, task)
			n++
		default:
			return n
		}
	}
}

// IsRunning reports whether a goroutine is currently draining the loop.
func (l *Loop) IsRunning() bool {
	return l.running.Load()
}

// execute runs one task and the after-task hook, recovering panics in both.
func (l *Loop) execute(ctx context.Context, task Task) {
	l.guard(ctx, task)
	l.executed.Add(1)
	if l.afterTask != nil {
		l.guard(ctx, l.afterTask)
	}
}

func (l *Loop) guard(ctx context.Context, task Task) {
	defer func() {
		if r := recover(); r != nil {
			l.panicked.Add(1)
			stack := debug.Stack()
			func() {
				defer func() { _ = recover() }()
				l.panicHandler(nil, r, stack)
			}()
		}
	}()
	task(ctx)
}

// QueueDepth returns the number of tasks waiting.
func (l *Loop) QueueDepth() int {
	return len(l.queue)
}

// QueueSize returns the queue capacity.
func (l *Loop) QueueSize() int {
	return cap(l.queue)
}

// LoopStats contains loop statistics.
type LoopStats struct {
	// Posted is the number of tasks accepted by Post.
	Posted uint64
	// Executed is the number of tasks run, posted or in-line.
	Executed uint64
	// Dropped is the number of tasks rejected because the queue was full.
	Dropped uint64
	// Panicked is the number of tasks that panicked.
	Panicked uint64
	// QueueDepth is the number of tasks waiting.
	QueueDepth int
}

// Stats returns loop statistics.
func (l *Loop) Stats() LoopStats {
	return LoopStats{
		Posted:     l.posted.Load(),
		Executed:   l.executed.Load(),
		Dropped:    l.dropped.Load(),
		Panicked:   l.panicked.Load(),
		QueueDepth: l.QueueDepth(),
	}
}
