package plugin

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dshills/stormdbg/internal/logging"
	plua "github.com/dshills/stormdbg/internal/plugin/lua"
)

// LuaSource discovers Lua script plugins in a list of directories.
type LuaSource struct {
	// Search paths for plugins (checked in order)
	paths []string

	timeout time.Duration
	log     logrus.FieldLogger
}

// LuaOption configures a LuaSource.
type LuaOption func(*LuaSource)

// WithLuaTimeout bounds every call into a script.
func WithLuaTimeout(d time.Duration) LuaOption {
	return func(s *LuaSource) { s.timeout = d }
}

// WithLuaLogger sets the logger used while scanning.
func WithLuaLogger(l logrus.FieldLogger) LuaOption {
	return func(s *LuaSource) { s.log = l }
}

// NewLuaSource creates a source scanning paths in order.
func NewLuaSource(paths []string, opts ...LuaOption) *LuaSource {
	s := &LuaSource{
		paths:   paths,
		timeout: plua.DefaultExecutionTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logging.Discard()
	}
	return s
}

// Name implements Source.
func (s *LuaSource) Name() string { return "lua" }

// Paths returns the configured search paths.
func (s *LuaSource) Paths() []string {
	return s.paths
}

type script struct {
	name string
	path string
}

// Discover finds every script plugin. Missing directories are skipped; when
// two directories hold a plugin of the same name the earlier one wins.
// Results are sorted by name.
func (s *LuaSource) Discover(ctx context.Context) ([]Candidate, error) {
	discovered := make(map[string]script)
	var errs []error

	for _, basePath := range s.paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := s.discoverInPath(basePath, discovered); err != nil {
			errs = append(errs, err)
		}
	}

	scripts := make([]script, 0, len(discovered))
	for _, sc := range discovered {
		scripts = append(scripts, sc)
	}
	sort.Slice(scripts, func(i, j int) bool {
		return scripts[i].name < scripts[j].name
	})

	candidates := make([]Candidate, 0, len(scripts))
	for _, sc := range scripts {
		candidates = append(candidates, Candidate{
			Key: sc.path,
			New: func(ctx context.Context) (Plugin, error) {
				return loadLuaPlugin(ctx, sc.name, sc.path, s.timeout)
			},
		})
	}
	return candidates, errors.Join(errs...)
}

// discoverInPath finds plugins in a single directory.
func (s *LuaSource) discoverInPath(basePath string, found map[string]script) error {
	entries, err := os.ReadDir(basePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return &LoadError{Source: basePath, Err: err}
	}

	for _, entry := range entries {
		var sc script
		switch {
		case !entry.IsDir() && filepath.Ext(entry.Name()) == ".lua":
			sc = script{
				name: strings.TrimSuffix(entry.Name(), ".lua"),
				path: filepath.Join(basePath, entry.Name()),
			}
		case entry.IsDir():
			initPath := filepath.Join(basePath, entry.Name(), "init.lua")
			if _, err := os.Stat(initPath); err != nil {
				s.log.WithField("dir", entry.Name()).Debug(ErrNoEntryPoint.Error())
				continue
			}
			sc = script{name: entry.Name(), path: initPath}
		default:
			continue
		}

		if _, exists := found[sc.name]; !exists {
			found[sc.name] = sc
		}
	}
	return nil
}

// IsPluginFile reports whether a file system path looks like a plugin entry
// point that LuaSource would discover.
func IsPluginFile(path string) bool {
	return filepath.Ext(path) == ".lua"
}
