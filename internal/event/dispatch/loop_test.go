package dispatch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestLoop_PostRunsInOrder(t *testing.T) {
	loop := NewLoop()

	var got []int
	for i := 0; i < 5; i++ {
		if err := loop.Post(func(context.Context) { got = append(got, i) }); err != nil {
			t.Fatalf("Post() failed: %v", err)
		}
	}

	if n := loop.RunPending(context.Background()); n != 5 {
		t.Fatalf("RunPending() = %d, want 5", n)
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("task order = %v, want 0..4", got)
		}
	}
}

func TestLoop_PostNil(t *testing.T) {
	loop := NewLoop()
	if err := loop.Post(nil); !errors.Is(err, ErrNilTask) {
		t.Errorf("expected ErrNilTask, got %v", err)
	}
}

func TestLoop_QueueFull(t *testing.T) {
	loop := NewLoop(WithQueueSize(2))
	noop := func(context.Context) {}

	if err := loop.Post(noop); err != nil {
		t.Fatal(err)
	}
	if err := loop.Post(noop); err != nil {
		t.Fatal(err)
	}
	if err := loop.Post(noop); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}

	stats := loop.Stats()
	if stats.Posted != 2 || stats.Dropped != 1 || stats.QueueDepth != 2 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if loop.QueueSize() != 2 {
		t.Errorf("QueueSize() = %d, want 2", loop.QueueSize())
	}
}

func TestLoop_Owns(t *testing.T) {
	loop := NewLoop()
	other := NewLoop()
	ctx := context.Background()

	if loop.Owns(ctx) {
		t.Error("plain context should not be owned")
	}
	if loop.Owns(nil) { //nolint:staticcheck
		t.Error("nil context should not be owned")
	}
	lctx := loop.Context(ctx)
	if !loop.Owns(lctx) {
		t.Error("derived context should be owned")
	}
	if other.Owns(lctx) {
		t.Error("context should only be owned by its loop")
	}

	var owned bool
	loop.Post(func(ctx context.Context) { owned = loop.Owns(ctx) })
	loop.RunPending(ctx)
	if !owned {
		t.Error("tasks should run with a loop-owned context")
	}
}

func TestLoop_Invoke(t *testing.T) {
	loop := NewLoop()
	ctx := context.Background()

	ran := false
	if err := loop.Invoke(loop.Context(ctx), func(context.Context) { ran = true }); err != nil {
		t.Fatal(err)
	}
	if !ran {
		t.Error("Invoke on the loop should run in-line")
	}

	ran = false
	if err := loop.Invoke(ctx, func(context.Context) { ran = true }); err != nil {
		t.Fatal(err)
	}
	if ran {
		t.Error("Invoke off the loop should only post")
	}
	loop.RunPending(ctx)
	if !ran {
		t.Error("posted task should run on RunPending")
	}
}

func TestLoop_PanicRecovery(t *testing.T) {
	var recovered atomic.Value
	loop := NewLoop(WithLoopPanicHandler(func(_ any, v any, _ []byte) {
		recovered.Store(v)
	}))

	ranAfter := false
	loop.Post(func(context.Context) { panic("boom") })
	loop.Post(func(context.Context) { ranAfter = true })
	loop.RunPending(context.Background())

	if !ranAfter {
		t.Error("task after a panic should still run")
	}
	if recovered.Load() != "boom" {
		t.Errorf("panic handler got %v, want boom", recovered.Load())
	}
	if loop.Stats().Panicked != 1 {
		t.Errorf("Panicked = %d, want 1", loop.Stats().Panicked)
	}
}

func TestLoop_AfterTask(t *testing.T) {
	var after int
	loop := NewLoop(WithAfterTask(func(context.Context) { after++ }))

	loop.Post(func(context.Context) {})
	loop.Post(func(context.Context) {})
	loop.RunPending(context.Background())

	if after != 2 {
		t.Errorf("after-task hook ran %d times, want 2", after)
	}
}

func TestLoop_RunPendingIncludesNestedPosts(t *testing.T) {
	loop := NewLoop()
	var got []string
	loop.Post(func(context.Context) {
		got = append(got, "outer")
		loop.Post(func(context.Context) { got = append(got, "inner") })
	})

	if n := loop.RunPending(context.Background()); n != 2 {
		t.Fatalf("RunPending() = %d, want 2", n)
	}
	if len(got) != 2 || got[1] != "inner" {
		t.Errorf("got %v", got)
	}
}

func TestLoop_Run(t *testing.T) {
	loop := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())

	errCh := make(chan error, 1)
	go func() { errCh <- loop.Run(ctx) }()

	var wg sync.WaitGroup
	wg.Add(3)
	for i := 0; i < 3; i++ {
		go func() {
			for {
				if err := loop.Post(func(context.Context) { wg.Done() }); err == nil {
					return
				}
			}
		}()
	}

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for tasks")
	}

	cancel()
	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if loop.IsRunning() {
		t.Error("loop should not be running after Run returns")
	}
}

func TestLoop_AlreadyRunning(t *testing.T) {
	loop := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	started := make(chan struct{})
	loop.Post(func(context.Context) { close(started) })
	go loop.Run(ctx)
	<-started

	if err := loop.Run(ctx); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("expected ErrAlreadyRunning, got %v", err)
	}
	if n := loop.RunPending(ctx); n != 0 {
		t.Errorf("RunPending while running = %d, want 0", n)
	}
}
