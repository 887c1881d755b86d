package event

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// timeNow is a variable to allow testing with fixed timestamps.
var timeNow = time.Now

// Metadata describes where and when an event payload was produced.
type Metadata struct {
	// ID uniquely identifies the raise.
	ID string

	// Source names the component that raised the event.
	Source string

	// Timestamp is when the envelope was created.
	Timestamp time.Time
}

// Envelope wraps a payload with metadata. Observers that do not care about
// metadata can use PayloadAs, which unwraps envelopes transparently.
type Envelope struct {
	Payload  any
	Metadata Metadata
}

// NewEnvelope wraps a payload with a fresh ID and timestamp.
func NewEnvelope(source string, payload any) Envelope {
	return Envelope{
		Payload: payload,
		Metadata: Metadata{
			ID:        uuid.NewString(),
			Source:    source,
			Timestamp: timeNow(),
		},
	}
}

// Payload returns the payload of data, unwrapping an Envelope if present.
func Payload(data any) any {
	switch env := data.(type) {
	case Envelope:
		return env.Payload
	case *Envelope:
		if env == nil {
			return nil
		}
		return env.Payload
	default:
		return data
	}
}

// PayloadAs returns the payload of data as a T.
// It returns an error wrapping ErrPayloadType if the payload is not a T.
func PayloadAs[T any](data any) (T, error) {
	v, ok := Payload(data).(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: want %T, got %T", ErrPayloadType, zero, Payload(data))
	}
	return v, nil
}
