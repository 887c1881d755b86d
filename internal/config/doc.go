// Package config provides the configuration system for stackcalc.
//
// Configuration is organized in layers with higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  4. Command Line Flags      │  ← Highest priority (Set)
//	├─────────────────────────────┤
//	│  3. Environment Variables   │  ← STACKCALC_*
//	├─────────────────────────────┤
//	│  2. Config File             │  ← TOML, or YAML by extension
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// # Settings
//
//	history.strategy     stack | list | vector
//	plugins.manifest     plugin manifest path (plugins.pdp)
//	plugins.watch        post a notice when the manifest changes
//	plugins.lua_timeout  per-call limit for Lua plugin code
//	logging.level        debug | info | warn | error
//	logging.file         log file path, stderr when empty
//	display.precision    significant digits shown for stack values
//	display.rows         stack rows shown after each change
//	cli.history_file     line editor history file
//	cli.prompt           interactive prompt
//
// Typed access goes through the section accessors (History, Plugins,
// Logging, Display, CLI). Values that have the wrong type fall back to
// the default and are reported by Errors and Validate.
package config
