// Package event provides the publish/subscribe bus for stackcalc.
//
// The bus decouples the calculator core from whatever presents it. The numeric
// stack announces mutations, a front end announces entered commands, and any
// number of observers react without the publisher knowing who they are.
//
// # Events
//
// A Publisher owns a set of named events. Each event must be declared once
// before it can be used:
//
//	pub := event.NewPublisher()
//	if err := pub.RegisterEvents("stackChanged", "error"); err != nil {
//	    return err
//	}
//
// Raising an event that was never registered is a programming error and is
// reported as ErrUnknownEvent.
//
// # Observers
//
// Observers are identified by name. A name may be attached to a given event
// only once; attaching it again fails with ErrObserverExists. Detach returns
// the observer to the caller:
//
//	obs := event.NewObserver("display", func(data any) error {
//	    return redraw()
//	})
//	_ = pub.Attach("stackChanged", obs)
//	...
//	obs, err := pub.Detach("stackChanged", "display")
//
// # Delivery
//
// Raise is synchronous. Observers run on the caller's goroutine in the order
// they were attached. The first observer error stops the fan-out and is
// returned as an *ObserverError; it is never swallowed.
//
// # Payloads
//
// Payloads are dynamically typed. Observers that expect a particular type use
// PayloadAs, which unwraps an Envelope if one was raised and reports
// ErrPayloadType on a mismatch:
//
//	text, err := event.PayloadAs[string](data)
package event
