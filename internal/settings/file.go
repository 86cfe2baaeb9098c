package settings

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"

	"github.com/dshills/stormdbg/internal/logging"
)

// FileStore is a Store backed by a JSON file.
type FileStore struct {
	mu    sync.Mutex
	path  string
	doc   string
	dirty bool
	log   logrus.FieldLogger
}

// Open loads the settings file at path. A missing file yields an empty
// store. A corrupt file is logged, set aside as path+".corrupt", and also
// yields an empty store.
func Open(path string, log logrus.FieldLogger) (*FileStore, error) {
	if log == nil {
		log = logging.Discard()
	}
	s := &FileStore{path: path, doc: "{}", log: log}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return s, nil
	case err != nil:
		return nil, fmt.Errorf("read settings %s: %w", path, err)
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return s, nil
	}
	if !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsObject() {
		log.WithField("path", path).WithError(ErrCorrupt).Warn("ignoring settings file")
		if err := os.Rename(path, path+".corrupt"); err != nil {
			log.WithError(err).Debug("could not set aside corrupt settings")
		}
		return s, nil
	}
	s.doc = string(data)
	return s, nil
}

// Path returns the backing file path.
func (s *FileStore) Path() string { return s.path }

// Contains implements Store.
func (s *FileStore) Contains(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return gjson.Get(s.doc, escapeKey(key)).Exists()
}

// Value implements Store.
func (s *FileStore) Value(key string) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := gjson.Get(s.doc, escapeKey(key))
	if !res.Exists() || res.Type != gjson.String {
		return nil
	}
	data, err := base64.StdEncoding.DecodeString(res.Str)
	if err != nil {
		s.log.WithField("key", key).WithError(err).Warn("ignoring undecodable setting")
		return nil
	}
	return data
}

// SetValue implements Store.
func (s *FileStore) SetValue(key string, value []byte) error {
	return s.set(key, base64.StdEncoding.EncodeToString(value))
}

// Strings implements Store.
func (s *FileStore) Strings(key string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	res := gjson.Get(s.doc, escapeKey(key))
	if !res.Exists() || !res.IsArray() {
		return nil
	}
	var out []string
	res.ForEach(func(_, v gjson.Result) bool {
		if v.Type == gjson.String {
			out = append(out, v.Str)
		}
		return true
	})
	if out == nil {
		out = []string{}
	}
	return out
}

// SetStrings implements Store.
func (s *FileStore) SetStrings(key string, values []string) error {
	if values == nil {
		values = []string{}
	}
	return s.set(key, values)
}

func (s *FileStore) set(key string, value any) error {
	if key == "" {
		return ErrEmptyKey
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := sjson.Set(s.doc, escapeKey(key), value)
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	s.doc = doc
	s.dirty = true
	return nil
}

// Sync writes the document if anything changed since the last Sync.
func (s *FileStore) Sync() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.dirty {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create settings dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".settings-*")
	if err != nil {
		return fmt.Errorf("create temp settings: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(s.doc); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write settings: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace settings: %w", err)
	}
	s.dirty = false
	return nil
}

// escapeKey turns a settings key into a literal gjson/sjson path.
func escapeKey(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\', ':':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
