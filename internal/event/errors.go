package event

import (
	"errors"
	"fmt"
)

// Sentinel errors for the event bus.
var (
	// ErrEventExists is returned when an event name is registered twice.
	ErrEventExists = errors.New("event already registered")

	// ErrUnknownEvent is returned when an operation names an unregistered event.
	ErrUnknownEvent = errors.New("publisher does not support event")

	// ErrObserverExists is returned when an observer name is already attached to an event.
	ErrObserverExists = errors.New("observer already attached to publisher")

	// ErrObserverNotFound is returned when detaching an observer that is not attached.
	ErrObserverNotFound = errors.New("cannot detach observer because observer not found")

	// ErrNilObserver is returned when a nil observer is attached.
	ErrNilObserver = errors.New("observer cannot be nil")

	// ErrPayloadType is returned by observers when a payload has an unexpected type.
	ErrPayloadType = errors.New("unexpected payload type")
)

// ObserverError wraps an error returned by an observer during Raise.
type ObserverError struct {
	// Event is the event being raised.
	Event string

	// Observer is the name of the observer that failed.
	Observer string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ObserverError) Error() string {
	return fmt.Sprintf("observer %s failed on event %s: %v", e.Observer, e.Event, e.Err)
}

// Unwrap returns the underlying error.
func (e *ObserverError) Unwrap() error {
	return e.Err
}

func unknownEvent(name string) error {
	return fmt.Errorf("%w '%s'", ErrUnknownEvent, name)
}
