package event

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func newRecorder(name string, log *[]string) *ObserverFunc {
	return NewObserver(name, func(data any) error {
		*log = append(*log, name)
		return nil
	})
}

func TestPublisher_RegisterEvent(t *testing.T) {
	p := NewPublisher()

	if err := p.RegisterEvent("stackChanged"); err != nil {
		t.Fatalf("RegisterEvent() error = %v", err)
	}
	if err := p.RegisterEvent("stackChanged"); !errors.Is(err, ErrEventExists) {
		t.Errorf("duplicate RegisterEvent() error = %v, want ErrEventExists", err)
	}
	if !p.HasEvent("stackChanged") {
		t.Error("HasEvent(stackChanged) = false")
	}
}

func TestPublisher_RegisterEvents(t *testing.T) {
	p := NewPublisher()

	if err := p.RegisterEvents("b", "a"); err != nil {
		t.Fatalf("RegisterEvents() error = %v", err)
	}
	if got := p.ListEvents(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("ListEvents() = %v", got)
	}
	if err := p.RegisterEvents("c", "a"); !errors.Is(err, ErrEventExists) {
		t.Errorf("RegisterEvents() with duplicate error = %v", err)
	}
}

func TestPublisher_AttachErrors(t *testing.T) {
	p := NewPublisher()
	_ = p.RegisterEvent("ev")

	if err := p.Attach("missing", NewObserver("o", nil)); !errors.Is(err, ErrUnknownEvent) {
		t.Errorf("Attach to unknown event error = %v", err)
	}
	if err := p.Attach("ev", nil); !errors.Is(err, ErrNilObserver) {
		t.Errorf("Attach(nil) error = %v", err)
	}
	if err := p.Attach("ev", NewObserver("o", nil)); err != nil {
		t.Fatalf("Attach() error = %v", err)
	}
	if err := p.Attach("ev", NewObserver("o", nil)); !errors.Is(err, ErrObserverExists) {
		t.Errorf("duplicate Attach() error = %v", err)
	}
}

func TestPublisher_RaiseOrder(t *testing.T) {
	p := NewPublisher()
	_ = p.RegisterEvent("ev")

	var log []string
	for _, name := range []string{"c", "a", "b"} {
		if err := p.Attach("ev", newRecorder(name, &log)); err != nil {
			t.Fatal(err)
		}
	}

	for i := 0; i < 3; i++ {
		log = nil
		if err := p.Raise("ev", nil); err != nil {
			t.Fatalf("Raise() error = %v", err)
		}
		if !reflect.DeepEqual(log, []string{"c", "a", "b"}) {
			t.Errorf("notification order = %v, want attach order", log)
		}
	}
}

func TestPublisher_RaiseUnknown(t *testing.T) {
	p := NewPublisher()
	if err := p.Raise("nope", nil); !errors.Is(err, ErrUnknownEvent) {
		t.Errorf("Raise(unknown) error = %v", err)
	}
}

func TestPublisher_RaisePayload(t *testing.T) {
	p := NewPublisher()
	_ = p.RegisterEvent("ev")

	var got any
	_ = p.Attach("ev", NewObserver("o", func(data any) error {
		got = data
		return nil
	}))

	if err := p.Raise("ev", "hello"); err != nil {
		t.Fatal(err)
	}
	if got != "hello" {
		t.Errorf("payload = %v, want hello", got)
	}
}

func TestPublisher_ObserverErrorPropagates(t *testing.T) {
	p := NewPublisher()
	_ = p.RegisterEvent("ev")

	var log []string
	_ = p.Attach("ev", NewObserver("typed", func(data any) error {
		_, err := PayloadAs[string](data)
		return err
	}))
	_ = p.Attach("ev", newRecorder("after", &log))

	err := p.Raise("ev", 42)
	var obsErr *ObserverError
	if !errors.As(err, &obsErr) {
		t.Fatalf("Raise() error = %v, want *ObserverError", err)
	}
	if obsErr.Event != "ev" || obsErr.Observer != "typed" {
		t.Errorf("ObserverError = %+v", obsErr)
	}
	if !errors.Is(err, ErrPayloadType) {
		t.Error("error should wrap ErrPayloadType")
	}
	if len(log) != 0 {
		t.Error("delivery should stop at the failing observer")
	}
}

func TestPublisher_Detach(t *testing.T) {
	p := NewPublisher()
	_ = p.RegisterEvent("ev")

	var log []string
	a := newRecorder("a", &log)
	_ = p.Attach("ev", a)
	_ = p.Attach("ev", newRecorder("b", &log))

	obs, err := p.Detach("ev", "a")
	if err != nil {
		t.Fatalf("Detach() error = %v", err)
	}
	if obs != Observer(a) {
		t.Error("Detach() should return the attached observer")
	}

	_ = p.Raise("ev", nil)
	if !reflect.DeepEqual(log, []string{"b"}) {
		t.Errorf("after detach, notified %v", log)
	}

	if _, err := p.Detach("ev", "a"); !errors.Is(err, ErrObserverNotFound) {
		t.Errorf("second Detach() error = %v", err)
	}
	if _, err := p.Detach("nope", "b"); !errors.Is(err, ErrUnknownEvent) {
		t.Errorf("Detach(unknown event) error = %v", err)
	}

	// The name is free again
	if err := p.Attach("ev", a); err != nil {
		t.Errorf("re-Attach() error = %v", err)
	}
}

func TestPublisher_DetachDuringRaise(t *testing.T) {
	p := NewPublisher()
	_ = p.RegisterEvent("ev")

	var log []string
	_ = p.Attach("ev", NewObserver("self", func(any) error {
		_, err := p.Detach("ev", "self")
		return err
	}))
	_ = p.Attach("ev", newRecorder("next", &log))

	if err := p.Raise("ev", nil); err != nil {
		t.Fatalf("Raise() error = %v", err)
	}
	if len(log) != 1 {
		t.Errorf("observers snapshotted at raise time should all run, got %v", log)
	}
	names, _ := p.ListObservers("ev")
	if !reflect.DeepEqual(names, []string{"next"}) {
		t.Errorf("ListObservers() = %v", names)
	}
}

func TestPayloadAs_Envelope(t *testing.T) {
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	old := timeNow
	timeNow = func() time.Time { return fixed }
	defer func() { timeNow = old }()

	env := NewEnvelope("cli", "3")
	if env.Metadata.ID == "" {
		t.Error("envelope ID not set")
	}
	if !env.Metadata.Timestamp.Equal(fixed) {
		t.Errorf("Timestamp = %v", env.Metadata.Timestamp)
	}

	s, err := PayloadAs[string](env)
	if err != nil || s != "3" {
		t.Errorf("PayloadAs(envelope) = %q, %v", s, err)
	}
	s, err = PayloadAs[string](&env)
	if err != nil || s != "3" {
		t.Errorf("PayloadAs(*envelope) = %q, %v", s, err)
	}
	if _, err := PayloadAs[int](env); !errors.Is(err, ErrPayloadType) {
		t.Errorf("PayloadAs mismatch error = %v", err)
	}
}
