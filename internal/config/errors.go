package config

import (
	"errors"
	"fmt"

	"github.com/dshills/stackcalc/internal/config/loader"
)

// Sentinel errors for settings lookups and validation.
var (
	// ErrSettingNotFound is returned by Get for a path with no value.
	ErrSettingNotFound = errors.New("setting not found")

	// ErrTypeMismatch is matched by every *TypeError.
	ErrTypeMismatch = errors.New("type mismatch")

	// ErrValidationFailed is matched by every *ValidationError.
	ErrValidationFailed = errors.New("validation failed")

	// ErrInvalidPath is returned for an empty or malformed dotted path.
	ErrInvalidPath = errors.New("invalid setting path")
)

// ParseError reports a malformed TOML or YAML settings file.
type ParseError = loader.ParseError

// ValidationError reports a setting whose value is out of range,
// e.g. display.rows = 0.
type ValidationError struct {
	Path    string
	Message string
	Value   any
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("setting %s: %s (got %v)", e.Path, e.Message, e.Value)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}

// TypeError is returned when a setting cannot be read as the requested
// type, such as display.rows = "many".
type TypeError struct {
	Path     string
	Expected string
	Actual   string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("setting %s: want %s, have %s", e.Path, e.Expected, e.Actual)
}

func (e *TypeError) Is(target error) bool {
	return target == ErrTypeMismatch
}
