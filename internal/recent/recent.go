// Package recent tracks recently opened executables and exposes them as a
// fixed number of menu slots.
package recent

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/dshills/stormdbg/internal/logging"
	"github.com/dshills/stormdbg/internal/settings"
	"github.com/dshills/stormdbg/internal/ui"
)

// DefaultCapacity is the number of remembered files.
const DefaultCapacity = 5

// ErrNoOpener is returned when a slot is triggered without an opener.
var ErrNoOpener = errors.New("no opener configured")

// Opener opens an executable, usually through the debugger backend.
type Opener func(ctx context.Context, path string) error

// Option configures a Tracker.
type Option func(*Tracker)

// WithCapacity sets the list capacity. Values below one are ignored.
func WithCapacity(n int) Option {
	return func(t *Tracker) {
		if n > 0 {
			t.capacity = n
		}
	}
}

// WithOpener sets the function called when a slot is triggered.
func WithOpener(fn Opener) Option {
	return func(t *Tracker) {
		t.opener = fn
	}
}

// WithLogger sets the tracker's logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(t *Tracker) {
		t.log = l
	}
}

// Tracker keeps the most-recent-first list of opened files. The list never
// holds duplicates and never exceeds its capacity. It is used on the UI loop.
type Tracker struct {
	store    settings.Store
	capacity int
	opener   Opener
	log      logrus.FieldLogger

	files []string
	slots []*ui.Action
}

// New creates a tracker persisting to store.
func New(store settings.Store, opts ...Option) *Tracker {
	t := &Tracker{
		store:    store,
		capacity: DefaultCapacity,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.log == nil {
		t.log = logging.Discard()
	}

	t.slots = make([]*ui.Action, t.capacity)
	for i := range t.slots {
		idx := i
		t.slots[i] = ui.NewAction(
			fmt.Sprintf("recent.%d", i+1), "",
			ui.WithVisible(false),
			ui.WithTrigger(func(ctx context.Context) error { return t.open(ctx, idx) }),
		)
	}
	return t
}

// Capacity returns the maximum number of remembered files.
func (t *Tracker) Capacity() int { return t.capacity }

// Load restores the list from settings. Stored duplicates and entries past
// capacity are discarded.
func (t *Tracker) Load() {
	t.files = t.files[:0]
	for _, p := range t.store.Strings(settings.KeyRecentFiles) {
		if p == "" || slices.Contains(t.files, p) {
			continue
		}
		t.files = append(t.files, p)
		if len(t.files) == t.capacity {
			break
		}
	}
	t.refresh()
}

// Add records path as the most recent file and persists the list.
func (t *Tracker) Add(path string) error {
	if path == "" {
		return nil
	}
	if i := slices.Index(t.files, path); i >= 0 {
		t.files = slices.Delete(t.files, i, i+1)
	}
	t.files = slices.Insert(t.files, 0, path)
	if len(t.files) > t.capacity {
		t.files = t.files[:t.capacity]
	}
	t.refresh()

	if err := t.store.SetStrings(settings.KeyRecentFiles, t.files); err != nil {
		return fmt.Errorf("persist recent files: %w", err)
	}
	if err := t.store.Sync(); err != nil {
		return fmt.Errorf("persist recent files: %w", err)
	}
	return nil
}

// Files returns a copy of the list, most recent first.
func (t *Tracker) Files() []string {
	return slices.Clone(t.files)
}

// Slots returns the menu actions, one per capacity slot. Slot i is visible
// only while entry i exists.
func (t *Tracker) Slots() []*ui.Action {
	return slices.Clone(t.slots)
}

func (t *Tracker) refresh() {
	for i, a := range t.slots {
		if i < len(t.files) {
			a.SetText(fmt.Sprintf("&%d %s", i+1, filepath.Base(t.files[i])))
			a.SetVisible(true)
			continue
		}
		a.SetText("")
		a.SetVisible(false)
	}
}

func (t *Tracker) open(ctx context.Context, idx int) error {
	if idx >= len(t.files) {
		return nil
	}
	if t.opener == nil {
		return ErrNoOpener
	}
	path := t.files[idx]
	t.log.WithField("path", path).Debug("opening recent file")
	return t.opener(ctx, path)
}
