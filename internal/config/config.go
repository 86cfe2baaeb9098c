package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config is the complete stormdbg configuration.
type Config struct {
	Log      LogConfig      `toml:"log"`
	Settings SettingsConfig `toml:"settings"`
	Plugins  PluginsConfig  `toml:"plugins"`
	Recent   RecentConfig   `toml:"recent"`
	Bus      BusConfig      `toml:"bus"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"`
}

// SettingsConfig locates the persisted key/value store.
type SettingsConfig struct {
	Path string `toml:"path"`
}

// PluginsConfig configures plugin discovery and the activation descriptor.
type PluginsConfig struct {
	// Paths are directories searched for Lua plugins, in order.
	Paths []string `toml:"paths"`
	// Descriptor is the default activation descriptor location.
	Descriptor string `toml:"descriptor"`
	// Watch enables rescanning when plugin files appear.
	Watch bool `toml:"watch"`
}

// RecentConfig configures the recent executables list.
type RecentConfig struct {
	Capacity int `toml:"capacity"`
}

// BusConfig configures the event bus.
type BusConfig struct {
	// QueueSize bounds the number of events waiting for the UI loop.
	QueueSize int `toml:"queue_size"`
}

// Default returns the built-in configuration.
func Default() Config {
	dir := DefaultDir()
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Settings: SettingsConfig{
			Path: filepath.Join(dir, "settings.json"),
		},
		Plugins: PluginsConfig{
			Paths:      DefaultPluginPaths(),
			Descriptor: filepath.Join(dir, "plugins.yaml"),
			Watch:      true,
		},
		Recent: RecentConfig{
			Capacity: 5,
		},
		Bus: BusConfig{
			QueueSize: 10000,
		},
	}
}

// DefaultDir returns the per-user configuration directory.
func DefaultDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "stormdbg")
	}
	return ".stormdbg"
}

// DefaultPath returns the default configuration file path.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.toml")
}

// DefaultPluginPaths returns the default plugin search paths.
func DefaultPluginPaths() []string {
	paths := make([]string, 0, 2)

	// User plugins: ~/.config/stormdbg/plugins/
	paths = append(paths, filepath.Join(DefaultDir(), "plugins"))

	// Project plugins: .stormdbg/plugins/
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".stormdbg", "plugins"))
	}

	return paths
}

// Load reads the configuration file at path over the defaults, then applies
// STORMDBG_* environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, fmt.Errorf("reading config file %s: %w", path, err)
	default:
		if err := Parse(path, data, &cfg); err != nil {
			return Default(), err
		}
	}

	if err := ApplyEnv(&cfg, os.LookupEnv); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// Parse decodes TOML data into cfg, keeping values the data does not set.
func Parse(source string, data []byte, cfg *Config) error {
	if err := toml.Unmarshal(data, cfg); err != nil {
		perr := &ParseError{Path: source, Message: err.Error(), Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		return perr
	}
	cfg.expand()
	return cfg.Validate()
}

// Validate checks values that have no usable interpretation.
func (c *Config) Validate() error {
	if c.Recent.Capacity < 1 {
		return fmt.Errorf("recent.capacity %d: %w", c.Recent.Capacity, ErrInvalidValue)
	}
	if c.Bus.QueueSize < 1 {
		return fmt.Errorf("bus.queue_size %d: %w", c.Bus.QueueSize, ErrInvalidValue)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format %q: %w", c.Log.Format, ErrInvalidValue)
	}
	return nil
}

// expand resolves "~/" prefixes in every path setting.
func (c *Config) expand() {
	c.Log.File = ExpandHome(c.Log.File)
	c.Settings.Path = ExpandHome(c.Settings.Path)
	c.Plugins.Descriptor = ExpandHome(c.Plugins.Descriptor)
	for i, p := range c.Plugins.Paths {
		c.Plugins.Paths[i] = ExpandHome(p)
	}
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
