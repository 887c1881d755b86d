package event

import (
	"sort"
	"sync"
)

// channel holds the observers of one event in attach order.
type channel struct {
	order     []string
	observers map[string]Observer
}

// Publisher owns a set of named events and their observers.
// It is safe for concurrent use, but observers always run on the goroutine
// that calls Raise.
type Publisher struct {
	mu     sync.RWMutex
	events map[string]*channel
}

// NewPublisher creates a publisher with no events.
func NewPublisher() *Publisher {
	return &Publisher{
		events: make(map[string]*channel),
	}
}

// RegisterEvent declares a new event channel.
func (p *Publisher) RegisterEvent(name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.events == nil {
		p.events = make(map[string]*channel)
	}
	if _, exists := p.events[name]; exists {
		return ErrEventExists
	}

	p.events[name] = &channel{observers: make(map[string]Observer)}
	return nil
}

// RegisterEvents declares several event channels, stopping at the first failure.
func (p *Publisher) RegisterEvents(names ...string) error {
	for _, name := range names {
		if err := p.RegisterEvent(name); err != nil {
			return err
		}
	}
	return nil
}

// Attach binds an observer to an event.
func (p *Publisher) Attach(eventName string, obs Observer) error {
	if obs == nil {
		return ErrNilObserver
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, ok := p.events[eventName]
	if !ok {
		return unknownEvent(eventName)
	}
	if _, exists := ch.observers[obs.Name()]; exists {
		return ErrObserverExists
	}

	ch.observers[obs.Name()] = obs
	ch.order = append(ch.order, obs.Name())
	return nil
}

// Detach removes an observer from an event and hands it back to the caller.
func (p *Publisher) Detach(eventName, observerName string) (Observer, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ch, ok := p.events[eventName]
	if !ok {
		return nil, unknownEvent(eventName)
	}

	obs, exists := ch.observers[observerName]
	if !exists {
		return nil, ErrObserverNotFound
	}

	delete(ch.observers, observerName)
	for i, name := range ch.order {
		if name == observerName {
			ch.order = append(ch.order[:i], ch.order[i+1:]...)
			break
		}
	}

	return obs, nil
}

// Raise notifies every observer of an event, in attach order.
// The first observer error stops delivery and is returned as an *ObserverError.
func (p *Publisher) Raise(eventName string, data any) error {
	p.mu.RLock()
	ch, ok := p.events[eventName]
	if !ok {
		p.mu.RUnlock()
		return unknownEvent(eventName)
	}

	// Copy so observers may attach or detach while being notified
	observers := make([]Observer, 0, len(ch.order))
	for _, name := range ch.order {
		observers = append(observers, ch.observers[name])
	}
	p.mu.RUnlock()

	for _, obs := range observers {
		if err := obs.Notify(data); err != nil {
			return &ObserverError{Event: eventName, Observer: obs.Name(), Err: err}
		}
	}
	return nil
}

// HasEvent reports whether an event has been registered.
func (p *Publisher) HasEvent(name string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.events[name]
	return ok
}

// ListEvents returns the registered event names, sorted.
func (p *Publisher) ListEvents() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	names := make([]string, 0, len(p.events))
	for name := range p.events {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ListObservers returns the names of the observers attached to an event, sorted.
func (p *Publisher) ListObservers(eventName string) ([]string, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	ch, ok := p.events[eventName]
	if !ok {
		return nil, unknownEvent(eventName)
	}

	names := make([]string, len(ch.order))
	copy(names, ch.order)
	sort.Strings(names)
	return names, nil
}
