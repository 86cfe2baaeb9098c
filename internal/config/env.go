package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "STORMDBG_"

// LookupFunc reads an environment variable. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// envSetter applies one variable's value to a Config.
type envSetter func(c *Config, value string) error

// envMapping maps environment variables to the settings they override.
var envMapping = map[string]envSetter{
	"STORMDBG_LOG_LEVEL":  func(c *Config, v string) error { c.Log.Level = v; return nil },
	"STORMDBG_LOG_FORMAT": func(c *Config, v string) error { c.Log.Format = v; return nil },
	"STORMDBG_LOG_FILE":   func(c *Config, v string) error { c.Log.File = v; return nil },

	"STORMDBG_SETTINGS_PATH": func(c *Config, v string) error { c.Settings.Path = v; return nil },

	"STORMDBG_PLUGINS_PATHS": func(c *Config, v string) error {
		c.Plugins.Paths = filepath.SplitList(v)
		return nil
	},
	"STORMDBG_PLUGINS_DESCRIPTOR": func(c *Config, v string) error { c.Plugins.Descriptor = v; return nil },
	"STORMDBG_PLUGINS_WATCH": func(c *Config, v string) (err error) {
		c.Plugins.Watch, err = parseBool(v)
		return err
	},

	"STORMDBG_RECENT_CAPACITY": func(c *Config, v string) (err error) {
		c.Recent.Capacity, err = strconv.Atoi(v)
		return err
	},
	"STORMDBG_BUS_QUEUE_SIZE": func(c *Config, v string) (err error) {
		c.Bus.QueueSize, err = strconv.Atoi(v)
		return err
	},
}

// ApplyEnv overrides cfg with the STORMDBG_* variables lookup finds.
// Unknown STORMDBG_ variables are ignored. Empty values count as set.
func ApplyEnv(cfg *Config, lookup LookupFunc) error {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	for name, set := range envMapping {
		val, ok := lookup(name)
		if !ok {
			continue
		}
		if err := set(cfg, strings.TrimSpace(val)); err != nil {
			return fmt.Errorf("%s=%q: %w", name, val, ErrInvalidValue)
		}
	}
	cfg.expand()
	return cfg.Validate()
}

// parseBool accepts the spellings commonly found in shell environments.
func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "on":
		return true, nil
	case "0", "false", "no", "off", "":
		return false, nil
	}
	return false, fmt.Errorf("not a boolean: %q", s)
}
