// SPDX-License-Identifier: Unlicense OR MIT

// Package event contains types for event handling.
package event

// Event is the marker interface for events.
type Event interface {
	ImplementsEvent()
}

// Serial identifies a queued event. Serials increase
// monotonically in queue order; consumers may rely on
// them to sequence events.
type Serial uint32

// Queued is an Event in the input queue of a frame.
type Queued struct {
	Serial Serial
	Event  Event
}

// Serials returns the serials of q in order.
func Serials(q []Queued) []Serial {
	s := make([]Serial, len(q))
	for i, e := range q {
		s[i] = e.Serial
	}
	return s
}

// Events returns the events of q in order.
func Events(q []Queued) []Event {
	evts := make([]Event, len(q))
	for i, e := range q {
		evts[i] = e.Event
	}
	return evts
}

// Sequence wraps evts in Queued entries numbered from first.
func Sequence(first Serial, evts ...Event) []Queued {
	q := make([]Queued, len(evts))
	for i, e := range evts {
		q[i] = Queued{Serial: first + Serial(i), Event: e}
	}
	return q
}
