package recent

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/dshills/stormdbg/internal/settings"
	"github.com/dshills/stormdbg/internal/ui"
)

func TestTracker_PromotionExample(t *testing.T) {
	store := settings.NewMemoryStore()
	tr := New(store)

	for _, p := range []string{"a", "b", "c", "d", "e", "f", "c"} {
		require.NoError(t, tr.Add(p))
	}

	assert.Equal(t, []string{"c", "f", "e", "d", "b"}, tr.Files())
	assert.Equal(t, []string{"c", "f", "e", "d", "b"}, store.Strings(settings.KeyRecentFiles))
}

func TestTracker_LoadRestores(t *testing.T) {
	store := settings.NewMemoryStore()
	require.NoError(t, store.SetStrings(settings.KeyRecentFiles, []string{"x", "y", "x", "", "z"}))

	tr := New(store, WithCapacity(2))
	tr.Load()
	assert.Equal(t, []string{"x", "y"}, tr.Files())
	assert.Equal(t, 2, tr.Capacity())
}

func TestTracker_LoadAbsentKey(t *testing.T) {
	tr := New(settings.NewMemoryStore())
	tr.Load()
	assert.Empty(t, tr.Files())
	for _, s := range tr.Slots() {
		assert.False(t, s.Visible())
	}
}

func TestTracker_Slots(t *testing.T) {
	var opened []string
	tr := New(settings.NewMemoryStore(), WithOpener(func(_ context.Context, p string) error {
		opened = append(opened, p)
		return nil
	}))
	require.NoError(t, tr.Add("/bin/first"))
	require.NoError(t, tr.Add("/usr/bin/second"))

	slots := tr.Slots()
	require.Len(t, slots, DefaultCapacity)
	assert.True(t, slots[0].Visible())
	assert.Equal(t, "&1 second", slots[0].Text())
	assert.True(t, slots[1].Visible())
	assert.Equal(t, "&2 first", slots[1].Text())
	for _, s := range slots[2:] {
		assert.False(t, s.Visible())
	}

	require.NoError(t, slots[1].Trigger(context.Background()))
	assert.Equal(t, []string{"/bin/first"}, opened)

	assert.ErrorIs(t, slots[3].Trigger(context.Background()), ui.ErrActionDisabled)
}

func TestTracker_NoOpener(t *testing.T) {
	tr := New(settings.NewMemoryStore())
	require.NoError(t, tr.Add("a"))
	assert.ErrorIs(t, tr.Slots()[0].Trigger(context.Background()), ErrNoOpener)
}

func TestTracker_SyncError(t *testing.T) {
	store := settings.NewMemoryStore()
	store.SyncErr = fmt.Errorf("disk full")
	tr := New(store)

	assert.Error(t, tr.Add("a"))
	assert.Equal(t, []string{"a"}, tr.Files())
}

func TestTracker_Properties(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		capacity := rapid.IntRange(1, 8).Draw(rt, "capacity")
		paths := rapid.SliceOf(rapid.SampledFrom([]string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"})).Draw(rt, "paths")

		tr := New(settings.NewMemoryStore(), WithCapacity(capacity))
		for _, p := range paths {
			if err := tr.Add(p); err != nil {
				rt.Fatal(err)
			}

			files := tr.Files()
			if len(files) > capacity {
				rt.Fatalf("len %d exceeds capacity %d", len(files), capacity)
			}
			if files[0] != p {
				rt.Fatalf("front is %q after adding %q", files[0], p)
			}
			seen := map[string]bool{}
			for _, f := range files {
				if seen[f] {
					rt.Fatalf("duplicate %q in %v", f, files)
				}
				seen[f] = true
			}
		}

		// The list is the distinct paths in reverse order of last use.
		var want []string
		seen := map[string]bool{}
		for i := len(paths) - 1; i >= 0 && len(want) < capacity; i-- {
			if !seen[paths[i]] {
				seen[paths[i]] = true
				want = append(want, paths[i])
			}
		}
		if fmt.Sprint(tr.Files()) != fmt.Sprint(want) {
			rt.Fatalf("files %v, want %v", tr.Files(), want)
		}
	})
}
