package plugin

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_DebouncesBurst(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32
	w, err := NewWatcher([]string{dir, filepath.Join(dir, "missing")}, func() { calls.Add(1) },
		WithWatchDelay(50*time.Millisecond))
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Start(context.Background()))

	for i := range 5 {
		name := filepath.Join(dir, "p"+string(rune('a'+i))+".lua")
		require.NoError(t, os.WriteFile(name, []byte("plugin = {}"), 0o644))
	}

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, int32(1), calls.Load())
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	var calls atomic.Int32
	w, err := NewWatcher([]string{dir}, func() { calls.Add(1) }, WithWatchDelay(20*time.Millisecond))
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Start(context.Background()))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	time.Sleep(150 * time.Millisecond)
	assert.Zero(t, calls.Load())
}

func TestWatcher_CloseIsIdempotent(t *testing.T) {
	w, err := NewWatcher(nil, nil)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	assert.ErrorIs(t, w.Start(context.Background()), ErrWatcherClosed)
}
