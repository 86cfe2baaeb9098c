package window

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/dshills/stormdbg/internal/settings"
	"github.com/dshills/stormdbg/internal/status"
	"github.com/dshills/stormdbg/internal/views"
)

// Start builds the window and brings up plugins and panels. ctx must come
// from the UI loop.
func (w *Window) Start(ctx context.Context) error {
	if !w.hub.Loop.Owns(ctx) {
		return ErrNotOnLoop
	}
	if w.closed {
		return ErrClosed
	}
	if w.started {
		return ErrAlreadyStarted
	}

	w.buildSkeleton()
	w.status = status.NewIndicator(w.onStatus)
	w.setFilePath("")
	w.recent.Load()

	if err := w.subs.setup(); err != nil {
		return err
	}

	// Plugin failures are isolated; the window starts regardless.
	if err := w.registry.DiscoverAndLoadAll(ctx); err != nil {
		w.log.WithError(err).Warn("some plugins failed to load")
	}
	if err := w.registry.LoadActivationSet(ctx, ""); err != nil {
		w.log.WithError(err).Warn("some plugins failed to activate")
	}

	for _, p := range w.providers {
		if err := p.InsertPanels(ctx); err != nil {
			w.log.WithError(err).Warn("inserting panels")
		}
	}
	if err := w.registry.InsertPanels(ctx); err != nil {
		w.log.WithError(err).Warn("inserting plugin panels")
	}

	if !w.hub.Settings.Contains(settings.KeyInitialGeometry) {
		w.applyCanonicalLayout()
		if err := w.saveLayout(settings.KeyInitialGeometry, settings.KeyInitialWindowState); err != nil {
			w.log.WithError(err).Warn("saving initial layout")
		} else {
			w.log.Info("initial layout saved")
		}
	}
	w.restoreLayout(settings.KeyGeometry, settings.KeyWindowState)

	w.started = true
	w.log.WithFields(logrus.Fields{
		"panels":  w.dock.Len(),
		"plugins": len(w.registry.ActivationSet()),
	}).Info("window started")
	return nil
}

// Close shuts the window down unless the editor vetoes it. On a veto nothing
// is written and the frame stays open. Close reports whether the window
// closed.
func (w *Window) Close(ctx context.Context) bool {
	if w.closed {
		return true
	}
	if !w.hub.Loop.Owns(ctx) {
		w.log.WithError(ErrNotOnLoop).Error("close refused")
		return false
	}
	if !w.hub.Editor.CloseOpenedFiles() {
		w.log.Info("close cancelled by editor")
		return false
	}

	if err := w.saveLayout(settings.KeyGeometry, settings.KeyWindowState); err != nil {
		w.log.WithError(err).Warn("saving layout")
	}
	w.frame.Close()
	if err := w.registry.SaveActivationSet(""); err != nil {
		w.log.WithError(err).Warn("saving plugin activation set")
	}

	w.subs.cleanup()
	w.closed = true
	w.log.Info("window closed")
	if w.onClosed != nil {
		w.onClosed()
	}
	return true
}

// applyCanonicalLayout tabifies the built-in panel pairs.
func (w *Window) applyCanonicalLayout() {
	for _, pair := range views.CanonicalPairs() {
		first, second := pair[0], pair[1]
		_, ok1 := w.dock.Panel(first)
		_, ok2 := w.dock.Panel(second)
		if !ok1 || !ok2 {
			w.log.WithFields(logrus.Fields{"first": first, "second": second}).Debug("skipping tab pair, panel missing")
			continue
		}
		if err := w.dock.Tabify(first, second); err != nil {
			w.log.WithError(err).Debug("tabify failed")
		}
	}
}

// saveLayout writes the frame geometry and dock state under the given keys.
func (w *Window) saveLayout(geometryKey, stateKey string) error {
	geometry, err := w.frame.SaveGeometry()
	if err != nil {
		return fmt.Errorf("encode geometry: %w", err)
	}
	state, err := w.dock.SaveState()
	if err != nil {
		return err
	}
	if err := w.hub.Settings.SetValue(geometryKey, geometry); err != nil {
		return err
	}
	if err := w.hub.Settings.SetValue(stateKey, state); err != nil {
		return err
	}
	return w.hub.Settings.Sync()
}

// restoreLayout applies stored geometry and dock state. Absent keys are
// skipped; corrupt blobs are logged and leave the current layout alone.
func (w *Window) restoreLayout(geometryKey, stateKey string) {
	if data := w.hub.Settings.Value(geometryKey); data != nil {
		if err := w.frame.RestoreGeometry(data); err != nil {
			w.log.WithField("key", geometryKey).WithError(err).Warn("ignoring stored geometry")
		}
	}
	if data := w.hub.Settings.Value(stateKey); data != nil {
		if err := w.dock.RestoreState(data); err != nil {
			w.log.WithField("key", stateKey).WithError(err).Warn("ignoring stored window state")
		}
	}
}
