// Package logging builds the structured loggers used across stormdbg.
//
// Every component receives a logrus.FieldLogger scoped with a "component"
// field rather than reaching for a package-level logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Config configures the root logger.
type Config struct {
	// Level is the minimum level (debug, info, warn, error).
	Level string
	// Format is "text" or "json".
	Format string
	// File is an optional log file. When empty, Output is used.
	File string
	// Output is used when File is empty. Defaults to os.Stderr.
	Output io.Writer
}

// New creates the root logger. The returned closer releases the log file,
// if one was opened, and is never nil.
func New(cfg Config) (*logrus.Logger, io.Closer, error) {
	logger := logrus.New()

	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, nopCloser{}, err
	}
	logger.SetLevel(level)

	switch cfg.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&TextFormatter{})
	}

	var closer io.Closer = nopCloser{}
	switch {
	case cfg.File != "":
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, closer, fmt.Errorf("creating log directory: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, closer, fmt.Errorf("opening log file: %w", err)
		}
		logger.SetOutput(f)
		closer = f
	case cfg.Output != nil:
		logger.SetOutput(cfg.Output)
	default:
		logger.SetOutput(os.Stderr)
	}

	return logger, closer, nil
}

// ParseLevel parses a level name. An empty name means info.
func ParseLevel(s string) (logrus.Level, error) {
	if s == "" {
		return logrus.InfoLevel, nil
	}
	level, err := logrus.ParseLevel(s)
	if err != nil {
		return logrus.InfoLevel, fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", s)
	}
	return level, nil
}

// Component returns a logger scoped to the named component.
func Component(l logrus.FieldLogger, name string) logrus.FieldLogger {
	if l == nil {
		l = Discard()
	}
	return l.WithField("component", name)
}

// Discard returns a logger that drops everything.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
