package plugin

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"github.com/dshills/stormdbg/internal/logging"
)

// DefaultWatchDelay is the quiet period before a change triggers a rescan.
const DefaultWatchDelay = 250 * time.Millisecond

// ErrWatcherClosed is returned when starting a closed watcher.
var ErrWatcherClosed = errors.New("plugin watcher is closed")

// Watcher reports changes to the plugin directories. Bursts of file system
// events are collapsed into one callback after a quiet period.
type Watcher struct {
	mu sync.Mutex

	watcher *fsnotify.Watcher
	paths   []string
	delay   time.Duration
	log     logrus.FieldLogger

	onChange func()
	timer    *time.Timer
	seq      uint64

	closed  bool
	closeCh chan struct{}
	wg      sync.WaitGroup
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithWatchDelay sets the debounce delay.
func WithWatchDelay(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.delay = d }
}

// WithWatchLogger sets the logger.
func WithWatchLogger(l logrus.FieldLogger) WatcherOption {
	return func(w *Watcher) { w.log = l }
}

// NewWatcher creates a watcher over paths. onChange runs on a timer
// goroutine; callers hand it off to the UI loop.
func NewWatcher(paths []string, onChange func(), opts ...WatcherOption) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		watcher:  fsw,
		paths:    paths,
		delay:    DefaultWatchDelay,
		onChange: onChange,
		closeCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.log == nil {
		w.log = logging.Discard()
	}
	return w, nil
}

// Start adds the existing plugin directories and begins processing events.
// Directories that do not exist are skipped.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrWatcherClosed
	}

	for _, p := range w.paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		if info, err := os.Stat(abs); err != nil || !info.IsDir() {
			continue
		}
		if err := w.watcher.Add(abs); err != nil {
			w.log.WithField("path", abs).WithError(err).Warn("cannot watch plugin directory")
			continue
		}
		w.log.WithField("path", abs).Debug("watching plugin directory")
	}

	w.wg.Add(1)
	go w.processLoop(ctx)
	return nil
}

func (w *Watcher) processLoop(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.closeCh:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Op == fsnotify.Chmod {
				continue
			}
			if ext := filepath.Ext(ev.Name); ext != "" && !IsPluginFile(ev.Name) {
				continue
			}
			if ev.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					_ = w.watcher.Add(ev.Name)
				}
			}
			w.schedule()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.WithError(err).Warn("plugin watcher error")
		}
	}
}

// schedule restarts the quiet-period timer.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}

	w.seq++
	current := w.seq
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, func() {
		w.mu.Lock()
		fire := !w.closed && w.seq == current
		w.mu.Unlock()
		if fire && w.onChange != nil {
			w.onChange()
		}
	})
}

// Close stops watching. Pending callbacks are cancelled.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	close(w.closeCh)
	w.mu.Unlock()

	err := w.watcher.Close()
	w.wg.Wait()
	return err
}
