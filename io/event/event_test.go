// SPDX-License-Identifier: Unlicense OR MIT

package event

import (
	"reflect"
	"testing"
)

type tick int

func (tick) ImplementsEvent() {}

func TestSequence(t *testing.T) {
	q := Sequence(7, tick(1), tick(2), tick(3))
	if got, want := Serials(q), []Serial{7, 8, 9}; !reflect.DeepEqual(got, want) {
		t.Errorf("got serials %v; want %v", got, want)
	}
	if got, want := Events(q), []Event{tick(1), tick(2), tick(3)}; !reflect.DeepEqual(got, want) {
		t.Errorf("got events %v; want %v", got, want)
	}
}

func TestSequenceEmpty(t *testing.T) {
	if q := Sequence(1); len(q) != 0 {
		t.Errorf("got %d entries for no events", len(q))
	}
}
