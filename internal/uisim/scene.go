// SPDX-License-Identifier: Unlicense OR MIT

// Package uisim simulates the input handling of an immediate-mode
// user interface: windows with title bars, scrollbars and resize
// grips, holding buttons and sliders. It consumes rewritten event
// queues and exposes capture and hover state the way a real
// interface does, for replaying and testing gestures.
package uisim

import (
	"github.com/imtouch/imtouch/capture"
	"github.com/imtouch/imtouch/f32"
	"golang.org/x/exp/constraints"
)

// Window geometry, in pixels.
const (
	ScrollbarSize = 10
	GripSize      = 12
	BorderSize    = 4
	minWindowSize = 2 * GripSize
)

// Window is a scrollable surface.
type Window struct {
	ID capture.SurfaceID
	// Rect is the window frame in window coordinates.
	Rect f32.Rectangle
	// TitleBar is the height of the title bar, or zero.
	TitleBar float32
	// Movable windows move when their title bar or body
	// is dragged.
	Movable bool
	// Resizable windows have a resize corner and borders.
	Resizable bool
	// Content is the size of the window contents.
	Content f32.Point
	// Scroll is the scroll offset of the contents.
	Scroll  f32.Point
	Widgets []*Widget
}

// WidgetKind is the kind of a Widget.
type WidgetKind uint8

// Widget is an interactive element of a window.
type Widget struct {
	ID   string
	Kind WidgetKind
	// Rect is in content coordinates.
	Rect f32.Rectangle
	// Value of a Slider, in [0, 1].
	Value float32
}

// part is the element of a window under a point.
type part struct {
	cat    capture.Category
	widget *Widget
	// edges of a ResizeBorder.
	edges edges
}

type edges uint8

const (
	// Button is clicked by a primary press and release.
	Button WidgetKind = iota
	// Slider is dragged horizontally.
	Slider
)

const (
	edgeLeft edges = 1 << iota
	edgeTop
	edgeRight
	edgeBottom
)

// Body returns the area below the title bar.
func (w *Window) Body() f32.Rectangle {
	b := w.Rect
	b.Min.Y += w.TitleBar
	if b.Min.Y > b.Max.Y {
		b.Min.Y = b.Max.Y
	}
	return b
}

// View returns the part of the body showing contents.
func (w *Window) View() f32.Rectangle {
	v := w.Body()
	m := w.overflow(v)
	if m.Y > 0 {
		v.Max.X -= ScrollbarSize
	}
	if m.X > 0 {
		v.Max.Y -= ScrollbarSize
	}
	return v.Canon()
}

// ScrollMax returns the largest scroll offset.
func (w *Window) ScrollMax() f32.Point {
	v := w.View()
	return f32.Pt(max(w.Content.X-v.Dx(), 0), max(w.Content.Y-v.Dy(), 0))
}

// SetScroll sets the scroll offset, clamped to the valid range.
func (w *Window) SetScroll(off f32.Point) {
	w.Scroll = off.Clamp(f32.Point{}, w.ScrollMax())
}

// Surface returns the scroll state of w.
func (w *Window) Surface() capture.Surface {
	return capture.Surface{
		ID:        w.ID,
		Pos:       w.Rect.Min,
		Scroll:    w.Scroll,
		ScrollMax: w.ScrollMax(),
	}
}

// WidgetRect returns the window coordinates of wd.
func (w *Window) WidgetRect(wd *Widget) f32.Rectangle {
	return wd.Rect.Add(w.View().Min).Sub(w.Scroll)
}

// overflow reports the content overflow of body b, without
// accounting for scrollbars.
func (w *Window) overflow(b f32.Rectangle) f32.Point {
	return f32.Pt(w.Content.X-b.Dx(), w.Content.Y-b.Dy())
}

func (w *Window) scrollbarY() (f32.Rectangle, bool) {
	if w.ScrollMax().Y <= 0 {
		return f32.Rectangle{}, false
	}
	v := w.View()
	return f32.Rect(v.Max.X, v.Min.Y, v.Max.X+ScrollbarSize, v.Max.Y), true
}

func (w *Window) scrollbarX() (f32.Rectangle, bool) {
	if w.ScrollMax().X <= 0 {
		return f32.Rectangle{}, false
	}
	v := w.View()
	return f32.Rect(v.Min.X, v.Max.Y, v.Max.X, v.Max.Y+ScrollbarSize), true
}

// hit returns the part of w under p, which must be inside
// w.Rect.
func (w *Window) hit(p f32.Point) part {
	if w.Resizable {
		r := w.Rect
		if p.In(f32.Rect(r.Max.X-GripSize, r.Max.Y-GripSize, r.Max.X, r.Max.Y)) {
			return part{cat: capture.ResizeCorner}
		}
		var e edges
		if p.X < r.Min.X+BorderSize {
			e |= edgeLeft
		}
		if p.Y < r.Min.Y+BorderSize {
			e |= edgeTop
		}
		if p.X >= r.Max.X-BorderSize {
			e |= edgeRight
		}
		if p.Y >= r.Max.Y-BorderSize {
			e |= edgeBottom
		}
		if e != 0 {
			return part{cat: capture.ResizeBorder, edges: e}
		}
	}
	if sb, ok := w.scrollbarY(); ok && p.In(sb) {
		return part{cat: capture.ScrollbarY}
	}
	if sb, ok := w.scrollbarX(); ok && p.In(sb) {
		return part{cat: capture.ScrollbarX}
	}
	if !p.In(w.Body()) {
		return part{cat: capture.MoveHandle}
	}
	if p.In(w.View()) {
		// Later widgets are drawn on top.
		for i := len(w.Widgets) - 1; i >= 0; i-- {
			wd := w.Widgets[i]
			if p.In(w.WidgetRect(wd)) {
				return part{cat: capture.OtherWidget, widget: wd}
			}
		}
	}
	if w.Movable {
		return part{cat: capture.MoveHandle}
	}
	return part{cat: capture.BodyNoMove}
}

// resize moves the edges of r by d, keeping a minimum size.
func (e edges) resize(r f32.Rectangle, d f32.Point) f32.Rectangle {
	if e&edgeLeft != 0 {
		r.Min.X = min(r.Min.X+d.X, r.Max.X-minWindowSize)
	}
	if e&edgeTop != 0 {
		r.Min.Y = min(r.Min.Y+d.Y, r.Max.Y-minWindowSize)
	}
	if e&edgeRight != 0 {
		r.Max.X = max(r.Max.X+d.X, r.Min.X+minWindowSize)
	}
	if e&edgeBottom != 0 {
		r.Max.Y = max(r.Max.Y+d.Y, r.Min.Y+minWindowSize)
	}
	return r
}

func clamp[T constraints.Ordered](v, lo, hi T) T {
	return max(lo, min(v, hi))
}

func (k WidgetKind) String() string {
	switch k {
	case Button:
		return "Button"
	case Slider:
		return "Slider"
	default:
		panic("invalid WidgetKind")
	}
}
