package window

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dshills/stormdbg/internal/editor"
	"github.com/dshills/stormdbg/internal/settings"
	"github.com/dshills/stormdbg/internal/ui"
)

// Menu ids.
const (
	MenuFile    = "file"
	MenuView    = "view"
	MenuDebug   = "debug"
	MenuPlugins = "plugins"
	MenuHelp    = "help"
)

// Action ids.
const (
	ActionOpen           = "file.open"
	ActionSave           = "file.save"
	ActionExit           = "file.exit"
	ActionRestoreSession = "session.restore"
	ActionSaveSession    = "session.save"
	ActionLoadPlugins    = "plugins.load"
	ActionSavePlugins    = "plugins.save"
	ActionRestoreLayout  = "view.restore_layout"
	ActionAbout          = "help.about"

	ActionRun         = "debug.run"
	ActionContinue    = "debug.continue"
	ActionInterrupt   = "debug.interrupt"
	ActionNext        = "debug.next"
	ActionStep        = "debug.step"
	ActionRecord      = "debug.record"
	ActionReverseNext = "debug.reverse_next"
	ActionReverseStep = "debug.reverse_step"
	ActionFinish      = "debug.finish"
	ActionRunToCursor = "debug.run_to_cursor"
)

// pluginConfigFilter is the dialog filter for activation descriptors.
const pluginConfigFilter = "Plugin configuration (*.yaml *.yml)"

// cursorEditor is implemented by editors that track a cursor position.
type cursorEditor interface {
	Cursor() (path string, line int, ok bool)
}

func (w *Window) add(a *ui.Action) *ui.Action {
	w.actions[a.ID()] = a
	return a
}

// buildSkeleton creates the menus, the toolbar and their actions.
func (w *Window) buildSkeleton() {
	b := w.hub.Backend

	open := w.add(ui.NewAction(ActionOpen, "&Open...", ui.WithIcon("open.png"), ui.WithShortcut("Ctrl+O"),
		ui.WithTrigger(w.openExecutable)))
	save := w.add(ui.NewAction(ActionSave, "&Save", ui.WithIcon("save.png"), ui.WithShortcut("Ctrl+S"),
		ui.WithTrigger(w.saveFile)))
	exit := w.add(ui.NewAction(ActionExit, "E&xit", ui.WithIcon("exit.png"), ui.WithShortcut("Ctrl+Q"),
		ui.WithTrigger(func(ctx context.Context) error {
			w.Close(ctx)
			return nil
		})))

	restoreSession := w.add(ui.NewAction(ActionRestoreSession, "&Restore Session...",
		ui.WithEnabled(w.hub.Sessions != nil),
		ui.WithTrigger(func(ctx context.Context) error {
			w.hub.Sessions.ShowRestoreSessionDialog(ctx)
			return nil
		})))
	// Enabled once an executable is open.
	saveSession := w.add(ui.NewAction(ActionSaveSession, "Save &Session...",
		ui.WithEnabled(false),
		ui.WithTrigger(func(ctx context.Context) error {
			w.hub.Sessions.ShowSaveSessionDialog(ctx)
			return nil
		})))

	loadPlugins := w.add(ui.NewAction(ActionLoadPlugins, "&Load Plugin Configuration...",
		ui.WithTrigger(w.loadPluginConfig)))
	savePlugins := w.add(ui.NewAction(ActionSavePlugins, "Save Plugin &Configuration...",
		ui.WithTrigger(w.savePluginConfig)))

	restoreLayout := w.add(ui.NewAction(ActionRestoreLayout, "Restore &Initial Layout",
		ui.WithTrigger(func(context.Context) error {
			w.restoreLayout(settings.KeyInitialGeometry, settings.KeyInitialWindowState)
			return nil
		})))
	about := w.add(ui.NewAction(ActionAbout, "&About", ui.WithTrigger(func(context.Context) error {
		w.hub.Dialogs.Message("About "+AppName, fmt.Sprintf("%s %s\nA debugger front-end.", AppName, w.version))
		return nil
	})))

	run := w.add(w.debugAction(ActionRun, "&Run", "run.png", "F5", b.Run))
	cont := w.add(w.debugAction(ActionContinue, "&Continue", "continue.png", "F6", b.Continue))
	interrupt := w.add(w.debugAction(ActionInterrupt, "&Interrupt", "interrupt.png", "Ctrl+C", b.Interrupt))
	next := w.add(w.debugAction(ActionNext, "&Next", "next.png", "F10", b.Next))
	step := w.add(w.debugAction(ActionStep, "&Step", "step.png", "F11", b.Step))
	record := w.add(ui.NewAction(ActionRecord, "Rec&ord", ui.WithIcon("record.png"), ui.WithCheckable(false)))
	record.SetTrigger(w.toggleRecord(record))
	reverseNext := w.add(w.debugAction(ActionReverseNext, "Reverse N&ext", "reverse_next.png", "Shift+F10", b.ReverseNext))
	reverseStep := w.add(w.debugAction(ActionReverseStep, "Reverse S&tep", "reverse_step.png", "Shift+F11", b.ReverseStep))
	finish := w.add(w.debugAction(ActionFinish, "&Finish", "finish.png", "Shift+F6", b.Finish))
	runToCursor := w.add(w.debugAction(ActionRunToCursor, "Run to C&ursor", "run_to_cursor.png", "Ctrl+F10", w.runToCursor))

	debugGroup := []*ui.Action{run, cont, interrupt, next, step, reverseNext, reverseStep, finish, runToCursor, record}

	file := ui.NewMenu(MenuFile, "&File")
	file.AddAction(open)
	file.AddAction(save)
	file.AddSeparator()
	file.AddAction(restoreSession)
	file.AddAction(saveSession)
	file.AddSeparator()
	file.AddAction(loadPlugins)
	file.AddAction(savePlugins)
	file.AddSeparator()
	for _, slot := range w.recent.Slots() {
		file.AddAction(slot)
	}
	file.AddSeparator()
	file.AddAction(exit)

	view := ui.NewMenu(MenuView, "&View")
	view.AddAction(restoreLayout)
	view.AddSeparator()

	debug := ui.NewMenu(MenuDebug, "&Debug")
	for _, a := range debugGroup {
		debug.AddAction(a)
	}

	plugins := ui.NewMenu(MenuPlugins, "&Plugins")

	help := ui.NewMenu(MenuHelp, "&Help")
	help.AddAction(about)

	for _, m := range []*ui.Menu{file, view, debug, plugins, help} {
		w.menuBar.Add(m)
		w.menus[m.ID()] = m
	}

	w.toolbar = ui.NewMenu("toolbar", "Toolbar")
	w.toolbar.AddAction(open)
	w.toolbar.AddAction(save)
	w.toolbar.AddSeparator()
	for _, a := range debugGroup {
		w.toolbar.AddAction(a)
	}
	w.toolbar.AddSeparator()
	w.toolbar.AddAction(exit)
}

// debugAction wraps a backend command. Backend failures are logged and never
// surface to the caller; the backend reports state through lifecycle events.
func (w *Window) debugAction(id, text, icon, shortcut string, fn func(context.Context) error) *ui.Action {
	return ui.NewAction(id, text, ui.WithIcon(icon), ui.WithShortcut(shortcut),
		ui.WithTrigger(func(ctx context.Context) error {
			if err := fn(ctx); err != nil {
				w.log.WithField("action", id).WithError(err).Warn("debugger command failed")
			}
			return nil
		}))
}

// toggleRecord keeps the checked state of record in step with the backend.
// Trigger has already flipped it; a failure flips it back.
func (w *Window) toggleRecord(record *ui.Action) ui.TriggerFunc {
	return func(ctx context.Context) error {
		if err := w.hub.Backend.ToggleRecord(ctx); err != nil {
			record.SetChecked(!record.Checked())
			w.log.WithField("action", ActionRecord).WithError(err).Warn("debugger command failed")
		}
		return nil
	}
}

func (w *Window) runToCursor(ctx context.Context) error {
	ce, ok := w.hub.Editor.(cursorEditor)
	if !ok {
		return errors.New("editor has no cursor")
	}
	path, line, ok := ce.Cursor()
	if !ok {
		return editor.ErrNoFile
	}
	return w.hub.Backend.RunToCursor(ctx, path, line)
}

// openExecutable asks for an executable, starting in the last directory used.
func (w *Window) openExecutable(ctx context.Context) error {
	dir := string(w.hub.Settings.Value(settings.KeyLastDirectory))
	w.hub.Dialogs.OpenFile("Open Executable", dir, "", func(path string, ok bool) {
		if !ok {
			return
		}
		if err := w.hub.Settings.SetValue(settings.KeyLastDirectory, []byte(filepath.Dir(path))); err != nil {
			w.log.WithError(err).Warn("remembering directory")
		}
		if err := w.hub.Backend.OpenExecutable(ctx, path); err != nil {
			w.log.WithField("path", path).WithError(err).Warn("open executable failed")
			w.hub.Dialogs.Message("Open Executable", err.Error())
		}
	})
	return nil
}

func (w *Window) saveFile(context.Context) error {
	err := w.hub.Editor.SaveCurrentFile()
	switch {
	case err == nil:
	case errors.Is(err, editor.ErrNoFile):
		w.log.Debug("nothing to save")
	default:
		w.log.WithError(err).Warn("save failed")
		w.hub.Dialogs.Message("Save", err.Error())
	}
	return nil
}

func (w *Window) loadPluginConfig(ctx context.Context) error {
	dir := filepath.Dir(w.registry.DescriptorPath())
	w.hub.Dialogs.OpenFile("Load Plugin Configuration", dir, pluginConfigFilter, func(path string, ok bool) {
		if !ok {
			return
		}
		if err := w.registry.LoadActivationSet(ctx, path); err != nil {
			w.log.WithField("path", path).WithError(err).Warn("loading plugin configuration")
		}
	})
	return nil
}

func (w *Window) savePluginConfig(context.Context) error {
	dir := filepath.Dir(w.registry.DescriptorPath())
	w.hub.Dialogs.SaveFile("Save Plugin Configuration", dir, pluginConfigFilter, func(path string, ok bool) {
		if !ok {
			return
		}
		if err := w.registry.SaveActivationSet(path); err != nil {
			w.log.WithField("path", path).WithError(err).Warn("saving plugin configuration")
			w.hub.Dialogs.Message("Save Plugin Configuration", err.Error())
		}
	})
	return nil
}
