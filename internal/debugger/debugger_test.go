package debugger

import (
	"context"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/stormdbg/internal/event"
	"github.com/dshills/stormdbg/internal/event/dispatch"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []event.Lifecycle
}

func (r *recordingNotifier) Notify(_ context.Context, ev event.Lifecycle) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recordingNotifier) kinds() []event.LifecycleKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]event.LifecycleKind, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Kind
	}
	return out
}

func requireShell(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}
	return "/bin/sh"
}

func waitDone(t *testing.T, b *ProcessBackend) {
	t.Helper()
	select {
	case <-b.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("inferior did not exit")
	}
}

func TestProcessBackend_RunToExit(t *testing.T) {
	sh := requireShell(t)
	rec := &recordingNotifier{}
	b := NewProcessBackend(rec, WithArgs("-c", "exit 3"))
	ctx := context.Background()

	assert.ErrorIs(t, b.Run(ctx), ErrNoExecutable)

	require.NoError(t, b.OpenExecutable(ctx, sh))
	assert.Equal(t, sh, b.Executable())
	require.NoError(t, b.Run(ctx))
	waitDone(t, b)

	assert.Equal(t, []event.LifecycleKind{event.ExecutableOpened, event.StartRunning, event.Exited}, rec.kinds())
	assert.Equal(t, sh, rec.events[0].Path)
	assert.Equal(t, "exit status 3", rec.events[2].Detail)

	assert.ErrorIs(t, b.Interrupt(ctx), ErrNotRunning)
}

func TestProcessBackend_Signal(t *testing.T) {
	sh := requireShell(t)
	rec := &recordingNotifier{}
	b := NewProcessBackend(rec, WithArgs("-c", "kill -TERM $$"))
	ctx := context.Background()

	require.NoError(t, b.OpenExecutable(ctx, sh))
	require.NoError(t, b.Run(ctx))
	waitDone(t, b)

	assert.Equal(t, []event.LifecycleKind{
		event.ExecutableOpened, event.StartRunning, event.ReceivedSignal, event.Exited,
	}, rec.kinds())
}

func TestProcessBackend_InterruptContinueClose(t *testing.T) {
	sh := requireShell(t)
	rec := &recordingNotifier{}
	b := NewProcessBackend(rec, WithArgs("-c", "sleep 30"))
	ctx := context.Background()

	require.NoError(t, b.OpenExecutable(ctx, sh))
	require.NoError(t, b.Run(ctx))
	assert.ErrorIs(t, b.Run(ctx), ErrAlreadyRunning)

	require.NoError(t, b.Interrupt(ctx))
	require.NoError(t, b.Continue(ctx))
	require.NoError(t, b.Close())

	kinds := rec.kinds()
	require.GreaterOrEqual(t, len(kinds), 5)
	assert.Equal(t, []event.LifecycleKind{
		event.ExecutableOpened, event.StartRunning, event.ReceivedSignal, event.StartRunning,
	}, kinds[:4])
	assert.Equal(t, event.Exited, kinds[len(kinds)-1])
}

func TestProcessBackend_OpenMissing(t *testing.T) {
	b := NewProcessBackend(nil)
	assert.Error(t, b.OpenExecutable(context.Background(), "/definitely/not/here"))
	assert.Error(t, b.OpenExecutable(context.Background(), t.TempDir()))
	assert.Empty(t, b.Executable())
}

func TestProcessBackend_Unsupported(t *testing.T) {
	b := NewProcessBackend(nil)
	ctx := context.Background()
	for name, fn := range map[string]func(context.Context) error{
		"step":         b.Step,
		"next":         b.Next,
		"finish":       b.Finish,
		"reverse-step": b.ReverseStep,
		"reverse-next": b.ReverseNext,
		"record":       b.ToggleRecord,
	} {
		assert.ErrorIs(t, fn(ctx), ErrUnsupported, name)
	}
	assert.ErrorIs(t, b.RunToCursor(ctx, "main.c", 3), ErrUnsupported)
	assert.NoError(t, b.Close())
}

func TestRelay_PublishesLifecycle(t *testing.T) {
	loop := dispatch.NewLoop()
	bus := event.NewBus(loop)

	var got []event.Event
	_, err := bus.SubscribeFunc(event.ChannelLifecycle, func(_ context.Context, ev any) error {
		got = append(got, ev.(event.Event))
		return nil
	})
	require.NoError(t, err)

	relay := NewRelay(bus, "process")
	require.NoError(t, relay.Notify(context.Background(), event.Lifecycle{Kind: event.Exited}))
	assert.Empty(t, got, "worker notifications wait for the loop")

	loop.RunPending(context.Background())
	require.Len(t, got, 1)
	assert.Equal(t, "process", got[0].Source)
	assert.Equal(t, event.Exited, got[0].Payload.(event.Lifecycle).Kind)
}
