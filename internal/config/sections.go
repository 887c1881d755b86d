package config

import (
	"errors"
	"fmt"
	"time"
)

// HistoryConfig holds undo/redo settings.
type HistoryConfig struct {
	// Strategy is the history container ("stack", "list", "vector").
	Strategy string
}

// PluginsConfig holds plugin loading settings.
type PluginsConfig struct {
	// Manifest is the plugin manifest path.
	Manifest string

	// Watch posts a notice when the manifest changes.
	Watch bool

	// LuaTimeout bounds each call into Lua plugin code.
	LuaTimeout time.Duration
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the logging verbosity level ("debug", "info", "warn", "error").
	Level string

	// File is the log file path (empty for stderr).
	File string
}

// DisplayConfig holds stack display settings.
type DisplayConfig struct {
	Precision int
	Rows      int
}

// CLIConfig holds interactive front end settings.
type CLIConfig struct {
	HistoryFile string
	Prompt      string
}

// History returns the history settings.
func (c *Config) History() HistoryConfig {
	return HistoryConfig{
		Strategy: c.getStringOr("history.strategy", "stack"),
	}
}

// Plugins returns the plugin settings.
func (c *Config) Plugins() PluginsConfig {
	return PluginsConfig{
		Manifest:   c.getStringOr("plugins.manifest", "plugins.pdp"),
		Watch:      c.getBoolOr("plugins.watch", false),
		LuaTimeout: c.getDurationOr("plugins.lua_timeout", 5*time.Second),
	}
}

// Logging returns the logging settings.
func (c *Config) Logging() LoggingConfig {
	return LoggingConfig{
		Level: c.getStringOr("logging.level", "warn"),
		File:  c.getStringOr("logging.file", ""),
	}
}

// Display returns the display settings.
func (c *Config) Display() DisplayConfig {
	return DisplayConfig{
		Precision: c.getIntOr("display.precision", 12),
		Rows:      c.getIntOr("display.rows", 4),
	}
}

// CLI returns the front end settings.
func (c *Config) CLI() CLIConfig {
	return CLIConfig{
		HistoryFile: c.getStringOr("cli.history_file", ""),
		Prompt:      c.getStringOr("cli.prompt", "> "),
	}
}

// Validate checks every setting and returns all problems joined.
func (c *Config) Validate() error {
	var errs []error

	if s := c.History().Strategy; !oneOf(s, "stack", "list", "vector") {
		errs = append(errs, &ValidationError{Path: "history.strategy", Message: "must be stack, list or vector", Value: s})
	}
	if l := c.Logging().Level; !oneOf(l, "debug", "info", "warn", "warning", "error") {
		errs = append(errs, &ValidationError{Path: "logging.level", Message: "unknown level", Value: l})
	}
	if d := c.Plugins().LuaTimeout; d <= 0 {
		errs = append(errs, &ValidationError{Path: "plugins.lua_timeout", Message: "must be positive", Value: d})
	}

	display := c.Display()
	if display.Precision < 1 || display.Precision > 17 {
		errs = append(errs, &ValidationError{Path: "display.precision", Message: "must be between 1 and 17", Value: display.Precision})
	}
	if display.Rows < 1 {
		errs = append(errs, &ValidationError{Path: "display.rows", Message: "must be at least 1", Value: display.Rows})
	}

	if err := c.Errors(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrValidationFailed, errors.Join(errs...))
}

func oneOf(s string, allowed ...string) bool {
	for _, a := range allowed {
		if s == a {
			return true
		}
	}
	return false
}

func (c *Config) getStringOr(path string, defaultValue string) string {
	v, err := c.GetString(path)
	if err != nil {
		if !errors.Is(err, ErrSettingNotFound) {
			c.recordConfigError(path, err)
		}
		return defaultValue
	}
	return v
}

func (c *Config) getIntOr(path string, defaultValue int) int {
	v, err := c.GetInt(path)
	if err != nil {
		if !errors.Is(err, ErrSettingNotFound) {
			c.recordConfigError(path, err)
		}
		return defaultValue
	}
	return v
}

func (c *Config) getBoolOr(path string, defaultValue bool) bool {
	v, err := c.GetBool(path)
	if err != nil {
		if !errors.Is(err, ErrSettingNotFound) {
			c.recordConfigError(path, err)
		}
		return defaultValue
	}
	return v
}

func (c *Config) getDurationOr(path string, defaultValue time.Duration) time.Duration {
	v, err := c.GetDuration(path)
	if err != nil {
		if !errors.Is(err, ErrSettingNotFound) {
			c.recordConfigError(path, err)
		}
		return defaultValue
	}
	return v
}
