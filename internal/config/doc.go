// Package config loads the stormdbg configuration.
//
// Configuration is read from a single TOML file layered over built-in
// defaults, then STORMDBG_* environment variables. Command line flags are
// applied on top by the caller:
//
//	┌─────────────────────────────┐
//	│  4. Command Line Flags      │  ← Highest priority
//	├─────────────────────────────┤
//	│  3. Environment (STORMDBG_) │  ← STORMDBG_LOG_LEVEL, ...
//	├─────────────────────────────┤
//	│  2. config.toml             │  ← ~/.config/stormdbg/config.toml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// A missing configuration file is not an error; Load returns the defaults.
// Paths may start with "~/" and are expanded against the user's home
// directory.
//
// # File Format
//
//	[log]
//	level = "info"      # debug, info, warn, error
//	format = "text"     # text or json
//	file = ""           # optional log file; headless runs log to stderr,
//	                    # terminal runs to stormdbg.log beside this file
//
//	[settings]
//	path = "~/.config/stormdbg/settings.json"
//
//	[plugins]
//	paths = ["~/.config/stormdbg/plugins"]
//	descriptor = "~/.config/stormdbg/plugins.yaml"
//	watch = true
//
//	[recent]
//	capacity = 5
//
//	[bus]
//	queue_size = 10000
package config
