package event

// Observer receives notifications for the events it is attached to.
type Observer interface {
	// Name identifies the observer within an event.
	Name() string

	// Notify handles one raised event. The data is whatever the publisher
	// raised and may be nil.
	Notify(data any) error
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc struct {
	name string
	fn   func(data any) error
}

// NewObserver creates an observer with the given name backed by fn.
func NewObserver(name string, fn func(data any) error) *ObserverFunc {
	return &ObserverFunc{name: name, fn: fn}
}

// Name returns the observer name.
func (o *ObserverFunc) Name() string {
	return o.name
}

// Notify calls the wrapped function.
func (o *ObserverFunc) Notify(data any) error {
	if o.fn == nil {
		return nil
	}
	return o.fn(data)
}
