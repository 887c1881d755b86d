package plugin

import (
	"errors"
	"fmt"
)

// Plugin system errors.
var (
	// ErrUnsupportedPlatform is returned when native plugins cannot be
	// loaded on this platform or build.
	ErrUnsupportedPlatform = errors.New("native plugins are not supported on this platform")

	// ErrLoaderClosed is returned when using a closed Loader.
	ErrLoaderClosed = errors.New("plugin loader is closed")

	// ErrLiveCommands is matched by *LiveCommandsError.
	ErrLiveCommands = errors.New("plugin closed with live commands")
)

// LiveCommandsError reports a library closed while commands it allocated
// were still held by the registry or history.
type LiveCommandsError struct {
	Plugin string
	Live   int64
}

// Error implements the error interface.
func (e *LiveCommandsError) Error() string {
	return fmt.Sprintf("plugin %s closed with %d live commands", e.Plugin, e.Live)
}

// Is reports whether target is ErrLiveCommands.
func (e *LiveCommandsError) Is(target error) bool {
	return target == ErrLiveCommands
}
