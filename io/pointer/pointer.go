// SPDX-License-Identifier: Unlicense OR MIT

/*
Package pointer implements pointer events as delivered by the
windowing layer.

A pointer event is one of a Move of the pointer, a Press of a button
or a Release of a button. Touch and pen input arrive as emulated
primary button presses; the Source field tells them apart from a
mouse.
*/
package pointer

import (
	"strings"

	"github.com/imtouch/imtouch/f32"
)

// Event is a pointer event.
type Event struct {
	Kind   Kind
	Source Source
	// Buttons are the buttons pressed or released by a Press
	// or Release event.
	Buttons Buttons
	// Position is the window coordinates of a Move event.
	// Press and Release events apply at the position of
	// the most recent Move.
	Position f32.Point
}

// Kind of an Event.
type Kind uint8

// Source of an Event.
type Source uint8

// Buttons is a set of mouse buttons
type Buttons uint8

const (
	// Move of a pointer.
	Move Kind = 1 << iota
	// Press of a pointer button.
	Press
	// Release of a pointer button.
	Release
)

const (
	// Mouse generated event.
	Mouse Source = iota
	// Pen generated event.
	Pen
	// Touch generated event.
	Touch
)

const (
	// ButtonPrimary is the primary button, usually the left button for a
	// right-handed user. Touch contacts and pen tips report it.
	ButtonPrimary Buttons = 1 << iota
	// ButtonSecondary is the secondary button, usually the right button for a
	// right-handed user.
	ButtonSecondary
	// ButtonTertiary is the tertiary button, usually the middle button.
	ButtonTertiary
)

// MoveTo returns a Move event at p.
func MoveTo(src Source, p f32.Point) Event {
	return Event{Kind: Move, Source: src, Position: p}
}

// Down returns a Press event of b.
func Down(src Source, b Buttons) Event {
	return Event{Kind: Press, Source: src, Buttons: b}
}

// Up returns a Release event of b.
func Up(src Source, b Buttons) Event {
	return Event{Kind: Release, Source: src, Buttons: b}
}

func (e Event) String() string {
	switch e.Kind {
	case Move:
		return e.Source.String() + " " + e.Kind.String() + " " + e.Position.String()
	default:
		return e.Source.String() + " " + e.Kind.String() + " " + e.Buttons.String()
	}
}

func (t Kind) String() string {
	var buf strings.Builder
	for tt := Kind(1); tt > 0; tt <<= 1 {
		if t&tt > 0 {
			if buf.Len() > 0 {
				buf.WriteByte('|')
			}
			buf.WriteString((t & tt).string())
		}
	}
	return buf.String()
}

func (t Kind) string() string {
	switch t {
	case Press:
		return "Press"
	case Release:
		return "Release"
	case Move:
		return "Move"
	default:
		panic("unknown Type")
	}
}

func (s Source) String() string {
	switch s {
	case Mouse:
		return "Mouse"
	case Pen:
		return "Pen"
	case Touch:
		return "Touch"
	default:
		panic("unknown source")
	}
}

// Contain reports whether the set b contains
// all of the buttons.
func (b Buttons) Contain(buttons Buttons) bool {
	return b&buttons == buttons
}

func (b Buttons) String() string {
	var strs []string
	if b.Contain(ButtonPrimary) {
		strs = append(strs, "ButtonPrimary")
	}
	if b.Contain(ButtonSecondary) {
		strs = append(strs, "ButtonSecondary")
	}
	if b.Contain(ButtonTertiary) {
		strs = append(strs, "ButtonTertiary")
	}
	return strings.Join(strs, "|")
}

func (Event) ImplementsEvent() {}
