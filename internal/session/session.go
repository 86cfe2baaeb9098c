// Package session saves and restores debugging sessions as YAML files.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/dshills/stormdbg/internal/logging"
	"github.com/dshills/stormdbg/internal/ui"
)

// FileFilter is the dialog filter for session files.
const FileFilter = "Session files (*.yaml *.yml)"

// ErrNoExecutable is returned when saving a session before anything is open.
var ErrNoExecutable = errors.New("session has no executable")

// Manager is the session collaborator used by the main window.
type Manager interface {
	ShowRestoreSessionDialog(ctx context.Context)
	ShowSaveSessionDialog(ctx context.Context)
}

// Session is the persisted form of a debugging session.
type Session struct {
	Executable string    `yaml:"executable"`
	OpenFiles  []string  `yaml:"open_files,omitempty"`
	Saved      time.Time `yaml:"saved"`
}

// Target is the debugger side of a session.
type Target interface {
	Executable() string
	OpenExecutable(ctx context.Context, path string) error
}

// Workspace is the editor side of a session.
type Workspace interface {
	Paths() []string
	Open(path string) error
}

// Files is a Manager storing sessions in YAML files chosen through dialogs.
type Files struct {
	dialogs   ui.Dialogs
	target    Target
	workspace Workspace
	log       logrus.FieldLogger
	lastDir   string
}

// NewFiles returns a session manager. workspace may be nil.
func NewFiles(dialogs ui.Dialogs, target Target, workspace Workspace, log logrus.FieldLogger) *Files {
	if log == nil {
		log = logging.Discard()
	}
	return &Files{dialogs: dialogs, target: target, workspace: workspace, log: log}
}

// ShowSaveSessionDialog asks for a file and saves the session there.
func (f *Files) ShowSaveSessionDialog(ctx context.Context) {
	f.dialogs.SaveFile("Save Session", f.lastDir, FileFilter, func(path string, ok bool) {
		if !ok {
			return
		}
		f.lastDir = filepath.Dir(path)
		if err := f.Save(path); err != nil {
			f.log.WithError(err).Warn("save session failed")
			f.dialogs.Message("Save Session", err.Error())
		}
	})
}

// ShowRestoreSessionDialog asks for a file and restores the session in it.
func (f *Files) ShowRestoreSessionDialog(ctx context.Context) {
	f.dialogs.OpenFile("Restore Session", f.lastDir, FileFilter, func(path string, ok bool) {
		if !ok {
			return
		}
		f.lastDir = filepath.Dir(path)
		if err := f.Restore(ctx, path); err != nil {
			f.log.WithError(err).Warn("restore session failed")
			f.dialogs.Message("Restore Session", err.Error())
		}
	})
}

// Save writes the current session to path.
func (f *Files) Save(path string) error {
	s := Session{
		Executable: f.target.Executable(),
		Saved:      time.Now().UTC().Truncate(time.Second),
	}
	if s.Executable == "" {
		return ErrNoExecutable
	}
	if f.workspace != nil {
		s.OpenFiles = f.workspace.Paths()
	}

	data, err := yaml.Marshal(&s)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	f.log.WithField("path", path).Info("session saved")
	return nil
}

// Restore loads the session at path, opening its executable and files.
// Files that no longer exist are skipped.
func (f *Files) Restore(ctx context.Context, path string) error {
	s, err := Read(path)
	if err != nil {
		return err
	}
	if s.Executable == "" {
		return ErrNoExecutable
	}
	if err := f.target.OpenExecutable(ctx, s.Executable); err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	if f.workspace != nil {
		for _, p := range s.OpenFiles {
			if err := f.workspace.Open(p); err != nil {
				f.log.WithField("file", p).WithError(err).Warn("skipping session file")
			}
		}
	}
	f.log.WithField("path", path).Info("session restored")
	return nil
}

// Read decodes a session file.
func Read(path string) (Session, error) {
	var s Session
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("read session: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("decode session %s: %w", path, err)
	}
	return s, nil
}
