// SPDX-License-Identifier: Unlicense OR MIT

/*
Package capture describes the input capture and hover state of an
immediate-mode user interface, as seen by input filters that run
before the interface consumes the frame's events.

The interface owns the state. Filters receive a read-only Snapshot
each frame and may change the state only through a Controller.
*/
package capture

import "github.com/imtouch/imtouch/f32"

// Category describes what holds input capture.
type Category uint8

// SurfaceID identifies a scrollable surface (a window or a
// child region) of the user interface.
type SurfaceID string

// Surface is the scroll state of a surface.
type Surface struct {
	ID SurfaceID
	// Pos is the top left corner of the surface in window
	// coordinates.
	Pos f32.Point
	// Scroll is the current scroll offset.
	Scroll f32.Point
	// ScrollMax is the largest valid scroll offset in each axis.
	// The smallest valid offset is zero.
	ScrollMax f32.Point
}

// Snapshot is the capture and hover state of one frame.
type Snapshot struct {
	Category Category
	// Moving reports whether a MoveHandle capture actually
	// moves its container. A MoveHandle of a fixed container
	// has no effect.
	Moving bool
	// Hovered is the surface under the pointer, valid if
	// HasHovered is set.
	Hovered    Surface
	HasHovered bool
}

// Inspector exposes the live capture and hover state of a
// user interface.
type Inspector interface {
	// Capture returns the category of the element that holds
	// input capture, or None. The moving result reports whether
	// a MoveHandle capture moves its container.
	Capture() (c Category, moving bool)
	// Hovered returns the surface under the pointer, if any.
	Hovered() (Surface, bool)
}

// Controller is the capability to change the user interface state
// from an input filter.
type Controller interface {
	// ClearCapture releases the current input capture.
	ClearCapture()
	// SetScroll sets the scroll offset of the surface identified
	// by id. The offset is within [0, ScrollMax].
	SetScroll(id SurfaceID, offset f32.Point)
}

const (
	// None means nothing holds capture.
	None Category = iota
	// MoveHandle is the affordance for dragging a container,
	// such as a window title bar.
	MoveHandle
	// ScrollbarX is a horizontal scrollbar.
	ScrollbarX
	// ScrollbarY is a vertical scrollbar.
	ScrollbarY
	// ResizeCorner is a resize grip in a container corner.
	ResizeCorner
	// ResizeBorder is a resizable container border.
	ResizeBorder
	// BodyNoMove is the body of a container whose move is
	// disabled. Grabbing it has no effect.
	BodyNoMove
	// OtherWidget is any other interactive element, such as a
	// button or a slider.
	OtherWidget
)

// Take returns the current snapshot of in.
func Take(in Inspector) Snapshot {
	var s Snapshot
	s.Category, s.Moving = in.Capture()
	s.Hovered, s.HasHovered = in.Hovered()
	return s
}

// Blocked reports whether the capture owns the contact outright:
// scrollbars, resize grips and borders, and move handles that
// actually move their container. Gestures never hijack a blocked
// capture.
func (s Snapshot) Blocked() bool {
	switch s.Category {
	case MoveHandle:
		return s.Moving
	case ScrollbarX, ScrollbarY, ResizeCorner, ResizeBorder:
		return true
	default:
		return false
	}
}

func (c Category) String() string {
	switch c {
	case None:
		return "None"
	case MoveHandle:
		return "MoveHandle"
	case ScrollbarX:
		return "ScrollbarX"
	case ScrollbarY:
		return "ScrollbarY"
	case ResizeCorner:
		return "ResizeCorner"
	case ResizeBorder:
		return "ResizeBorder"
	case BodyNoMove:
		return "BodyNoMove"
	case OtherWidget:
		return "OtherWidget"
	default:
		panic("invalid Category")
	}
}
