package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/stormdbg/internal/ui"
)

type fakeTarget struct {
	path   string
	opened []string
}

func (f *fakeTarget) Executable() string { return f.path }

func (f *fakeTarget) OpenExecutable(_ context.Context, path string) error {
	f.path = path
	f.opened = append(f.opened, path)
	return nil
}

type fakeWorkspace struct {
	paths []string
}

func (w *fakeWorkspace) Paths() []string { return w.paths }

func (w *fakeWorkspace) Open(path string) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	w.paths = append(w.paths, path)
	return nil
}

func TestFiles_SaveRestoreThroughDialogs(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "main.c")
	require.NoError(t, os.WriteFile(src, nil, 0o644))
	sessionPath := filepath.Join(dir, "debug.yaml")

	dialogs := &ui.ScriptedDialogs{}
	dialogs.Queue(
		ui.DialogAnswer{Path: sessionPath, OK: true},
		ui.DialogAnswer{Path: sessionPath, OK: true},
	)

	target := &fakeTarget{path: "/usr/bin/prog"}
	ws := &fakeWorkspace{paths: []string{src, filepath.Join(dir, "gone.c")}}
	m := NewFiles(dialogs, target, ws, nil)
	m.ShowSaveSessionDialog(context.Background())

	s, err := Read(sessionPath)
	require.NoError(t, err)
	assert.Equal(t, "/usr/bin/prog", s.Executable)
	assert.Len(t, s.OpenFiles, 2)
	assert.False(t, s.Saved.IsZero())

	target2 := &fakeTarget{}
	ws2 := &fakeWorkspace{}
	m2 := NewFiles(dialogs, target2, ws2, nil)
	m2.ShowRestoreSessionDialog(context.Background())

	assert.Equal(t, []string{"/usr/bin/prog"}, target2.opened)
	assert.Equal(t, []string{src}, ws2.paths, "missing files are skipped")
	assert.Equal(t, []string{"Save Session", "Restore Session"}, dialogs.Asked)
}

func TestFiles_CancelIsNoop(t *testing.T) {
	dialogs := &ui.ScriptedDialogs{}
	target := &fakeTarget{}
	m := NewFiles(dialogs, target, nil, nil)

	m.ShowRestoreSessionDialog(context.Background())
	m.ShowSaveSessionDialog(context.Background())

	assert.Empty(t, target.opened)
	assert.Equal(t, []string{"Restore Session", "Save Session"}, dialogs.Asked)
}

func TestFiles_SaveWithoutExecutable(t *testing.T) {
	dialogs := &ui.ScriptedDialogs{}
	dialogs.Queue(ui.DialogAnswer{Path: filepath.Join(t.TempDir(), "s.yaml"), OK: true})
	m := NewFiles(dialogs, &fakeTarget{}, nil, nil)

	m.ShowSaveSessionDialog(context.Background())
	assert.Equal(t, []string{"Save Session", "Save Session"}, dialogs.Asked, "error is reported in a message")
	assert.ErrorIs(t, m.Save(filepath.Join(t.TempDir(), "x.yaml")), ErrNoExecutable)
}

func TestRead_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("executable: [unterminated"), 0o644))
	_, err := Read(path)
	assert.Error(t, err)
}
