// Package editor tracks the source files open in the central editor region.
package editor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/dshills/stormdbg/internal/ui"
)

// ErrNoFile is returned when saving with no file open.
var ErrNoFile = errors.New("no file open")

// Editor is the collaborator the main window hosts in its central region.
type Editor interface {
	// CloseOpenedFiles closes every open file. It returns false if the user
	// chose to keep the window open.
	CloseOpenedFiles() bool

	// View is the content shown in the central region.
	View() ui.View

	// SaveCurrentFile writes the focused file.
	SaveCurrentFile() error
}

// ConfirmFunc asks whether unsaved files may be discarded.
type ConfirmFunc func(unsaved []string) bool

type file struct {
	path     string
	content  []byte
	modified bool
	line     int
}

// Files is an Editor holding file contents in memory.
type Files struct {
	files   []*file
	current int
	confirm ConfirmFunc
}

// NewFiles returns an empty editor. confirm decides whether unsaved changes
// may be discarded on close; nil keeps the window open whenever something is
// unsaved.
func NewFiles(confirm ConfirmFunc) *Files {
	return &Files{current: -1, confirm: confirm}
}

// SetConfirm replaces the discard confirmation.
func (f *Files) SetConfirm(fn ConfirmFunc) { f.confirm = fn }

// Open reads path and makes it the current file. Opening an already open
// file only focuses it.
func (f *Files) Open(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	if i := f.index(abs); i >= 0 {
		f.current = i
		return nil
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	f.files = append(f.files, &file{path: abs, content: data, line: 1})
	f.current = len(f.files) - 1
	return nil
}

// Edit replaces the content of the current file and marks it modified.
func (f *Files) Edit(content []byte) error {
	cur := f.cur()
	if cur == nil {
		return ErrNoFile
	}
	cur.content = slices.Clone(content)
	cur.modified = true
	return nil
}

// Current returns the focused file path, or "".
func (f *Files) Current() string {
	if cur := f.cur(); cur != nil {
		return cur.path
	}
	return ""
}

// SetCursor moves the cursor of the current file to line.
func (f *Files) SetCursor(line int) error {
	cur := f.cur()
	if cur == nil {
		return ErrNoFile
	}
	cur.line = max(line, 1)
	return nil
}

// Cursor returns the current file and its cursor line. ok is false when no
// file is open.
func (f *Files) Cursor() (path string, line int, ok bool) {
	cur := f.cur()
	if cur == nil {
		return "", 0, false
	}
	return cur.path, cur.line, true
}

// Paths returns the open file paths in open order.
func (f *Files) Paths() []string {
	out := make([]string, len(f.files))
	for i, fl := range f.files {
		out[i] = fl.path
	}
	return out
}

// Unsaved returns the paths with unsaved changes.
func (f *Files) Unsaved() []string {
	var out []string
	for _, fl := range f.files {
		if fl.modified {
			out = append(out, fl.path)
		}
	}
	return out
}

// SaveCurrentFile implements Editor.
func (f *Files) SaveCurrentFile() error {
	cur := f.cur()
	if cur == nil {
		return ErrNoFile
	}
	if err := os.WriteFile(cur.path, cur.content, 0o644); err != nil {
		return fmt.Errorf("save %s: %w", cur.path, err)
	}
	cur.modified = false
	return nil
}

// CloseOpenedFiles implements Editor.
func (f *Files) CloseOpenedFiles() bool {
	if unsaved := f.Unsaved(); len(unsaved) > 0 {
		if f.confirm == nil || !f.confirm(unsaved) {
			return false
		}
	}
	f.files = nil
	f.current = -1
	return true
}

// View implements Editor.
func (f *Files) View() ui.View { return (*filesView)(f) }

type filesView Files

func (v *filesView) Title() string {
	f := (*Files)(v)
	cur := f.cur()
	if cur == nil {
		return "Editor"
	}
	name := filepath.Base(cur.path)
	if cur.modified {
		name += " *"
	}
	return name
}

func (f *Files) cur() *file {
	if f.current < 0 || f.current >= len(f.files) {
		return nil
	}
	return f.files[f.current]
}

func (f *Files) index(path string) int {
	return slices.IndexFunc(f.files, func(fl *file) bool { return fl.path == path })
}
