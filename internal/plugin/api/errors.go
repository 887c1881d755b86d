package api

import "errors"

// Errors reported by dynamic loaders for ABI violations.
var (
	// ErrMissingSymbol is returned when a library lacks a required entry point.
	ErrMissingSymbol = errors.New("plugin entry point not found")

	// ErrBadSymbol is returned when an entry point has the wrong signature.
	ErrBadSymbol = errors.New("plugin entry point has wrong type")

	// ErrInvalidPlugin is returned when AllocPlugin yields an unusable object.
	ErrInvalidPlugin = errors.New("invalid plugin")

	// ErrForeignPlugin is returned when a loader is asked to deallocate a
	// plugin it did not allocate.
	ErrForeignPlugin = errors.New("plugin was not allocated by this loader")

	// ErrAlreadyOpen is returned when a single-library loader is asked to
	// open a second library.
	ErrAlreadyOpen = errors.New("loader already holds a library")
)
