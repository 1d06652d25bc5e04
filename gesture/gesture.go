// SPDX-License-Identifier: Unlicense OR MIT

/*
Package gesture implements touch gesture disambiguation for
immediate-mode user interfaces.

An Engine sits between the windowing layer and the user interface.
Once per frame it consumes the raw event queue and returns a
rewritten queue in which a touch drag scrolls the surface under the
contact and a sustained press becomes a right click, instead of the
literal drag and click reported by the hardware.

The engine tracks a single contact. It consults a read-only
capture.Snapshot of the interface each frame and changes interface
state only through the capture.Controller passed to Frame.
*/
package gesture

import (
	"log/slog"
	"time"

	"github.com/imtouch/imtouch/capture"
	"github.com/imtouch/imtouch/f32"
	"github.com/imtouch/imtouch/io/event"
	"github.com/imtouch/imtouch/io/pointer"
	"github.com/imtouch/imtouch/unit"
)

// Config selects the gestures an Engine recognizes.
type Config struct {
	// AcceptAnySource treats every pointer source as touch.
	// It is meant for debugging touch gestures with a mouse.
	AcceptAnySource bool
	// AcceptPen enables gestures for pen contacts.
	AcceptPen bool
	// HoldDuration is how long a stationary contact is held
	// before it turns into a right click. Zero disables hold
	// to right click.
	HoldDuration time.Duration
	// HoldOnPen enables hold to right click for pens.
	HoldOnPen bool
	// DragThreshold is the distance a contact travels before
	// it is considered a drag.
	DragThreshold unit.Dp
}

// Frame is the per-frame input of an Engine besides the
// event queue.
type Frame struct {
	// Now is the frame time, relative to an undefined base.
	Now time.Duration
	// Metric converts DragThreshold to pixels.
	Metric unit.Metric
	// UI is the capture and hover state computed by the
	// user interface in the previous frame.
	UI capture.Snapshot
}

// Engine rewrites pointer event queues. The zero value is an engine
// that recognizes touch drags only; set Config before the first
// Frame.
type Engine struct {
	Config Config
	// Logger, if set, receives mode transitions at debug level.
	Logger *slog.Logger

	mode Mode
	// active is set while the tracked contact is down.
	active bool
	source pointer.Source
	// pos is the last position reported by an accepted source.
	pos     f32.Point
	origin  f32.Point
	current f32.Point
	pressed time.Duration
	// hlock is set when horizontal movement won the
	// disambiguation of a widget capture.
	hlock  bool
	hijack *hijack

	// next is the serial of the next queued event.
	next event.Serial
}

// Mode is the decision state of an Engine.
type Mode uint8

// hijack is a surface scrolled by a contact.
type hijack struct {
	surface capture.SurfaceID
	// corner is where the interface believes the pointer
	// is during the scroll.
	corner f32.Point
	// origin is the surface scroll offset at the start
	// of the scroll.
	origin f32.Point
	max    f32.Point
	offset f32.Point
	dirty  bool
}

const (
	// Idle is the state without a contact under consideration.
	Idle Mode = iota
	// Undecided is reported for a contact that has neither
	// traveled past the drag threshold nor been held long
	// enough to become a right click.
	Undecided
	// Forwarding is reported for a contact whose events reach
	// the interface unchanged.
	Forwarding
	// Scrolling is reported while a contact scrolls a surface.
	// The interface sees the pointer pinned to the surface
	// corner.
	Scrolling
	// Restoring is reported for the frame after a scroll,
	// before the true pointer position is announced to the
	// interface.
	Restoring
)

// DefaultConfig returns the configuration for touch screens.
func DefaultConfig() Config {
	return Config{
		AcceptPen:     true,
		HoldDuration:  500 * time.Millisecond,
		DragThreshold: 10,
	}
}

// Mode reports the decision state.
func (e *Engine) Mode() Mode {
	return e.mode
}

// ShouldKeepRedrawing reports whether a gesture is in progress. Hosts
// that skip frames to save power must keep delivering frames while it
// returns true, or holds and scroll restoration stall.
func (e *Engine) ShouldKeepRedrawing() bool {
	return e.active || e.mode != Idle
}

// Rewrite replaces the queue q with its rewritten version.
func (e *Engine) Rewrite(f Frame, ctl capture.Controller, q *[]event.Queued) {
	*q = e.Frame(f, ctl, *q)
}

// Frame processes the event queue of a frame and returns the queue to
// deliver to the user interface in its place. The input queue is not
// modified. A queue left unchanged keeps its serials when they follow
// the serials delivered before.
func (e *Engine) Frame(f Frame, ctl capture.Controller, q []event.Queued) []event.Queued {
	out := make([]event.Event, 0, len(q)+3)
	switch e.mode {
	case Restoring:
		out = e.restore(out)
	case Scrolling:
		if h := e.hijack; f.UI.HasHovered && f.UI.Hovered.ID == h.surface {
			h.corner = f.UI.Hovered.Pos
			h.max = f.UI.Hovered.ScrollMax
		} else {
			// The surface is gone; hand the contact back to the interface.
			e.hijack = nil
			out = append(out, pointer.MoveTo(e.source, e.current))
			e.setMode(Forwarding)
		}
	case Undecided:
		if e.holdExpired(f) {
			out = e.rightClick(ctl, out)
		}
	}
	// rewritten is set when out differs from the events of q.
	rewritten := len(out) > 0
	for _, qe := range q {
		pe, ok := qe.Event.(pointer.Event)
		if !ok || !e.accepts(pe.Source) {
			out = append(out, qe.Event)
			continue
		}
		n := len(out)
		out = e.pointerEvent(f, ctl, out, pe)
		if len(out) != n+1 || out[n] != event.Event(pe) {
			rewritten = true
		}
	}
	if h := e.hijack; h != nil && h.dirty {
		h.dirty = false
		ctl.SetScroll(h.surface, h.offset)
	}
	if !rewritten && e.follows(q) {
		e.next = q[len(q)-1].Serial + 1
		return append([]event.Queued(nil), q...)
	}
	return e.sequence(q, out)
}

func (e *Engine) accepts(src pointer.Source) bool {
	switch {
	case e.Config.AcceptAnySource:
		return true
	case src == pointer.Touch:
		return true
	case src == pointer.Pen:
		return e.Config.AcceptPen
	default:
		return false
	}
}

func (e *Engine) pointerEvent(f Frame, ctl capture.Controller, out []event.Event, pe pointer.Event) []event.Event {
	switch pe.Kind {
	case pointer.Press:
		if e.active || pe.Buttons != pointer.ButtonPrimary {
			// Only one contact is tracked.
			return append(out, pe)
		}
		if e.mode == Restoring {
			out = e.restore(out)
		}
		e.active = true
		e.source = pe.Source
		e.origin = e.pos
		e.current = e.pos
		e.pressed = f.Now
		e.hlock = false
		e.setMode(Undecided)
		return append(out, pe)
	case pointer.Move:
		e.pos = pe.Position
		if e.mode == Restoring && pe.Source == e.source {
			// Announced by the next frame.
			e.current = pe.Position
			return out
		}
		if !e.active || pe.Source != e.source {
			return append(out, pe)
		}
		e.current = pe.Position
		switch e.mode {
		case Undecided:
			return e.decide(f, ctl, out, pe)
		case Scrolling:
			return append(out, e.scroll(pe))
		default:
			return append(out, pe)
		}
	case pointer.Release:
		if !e.active || pe.Source != e.source || !pe.Buttons.Contain(pointer.ButtonPrimary) {
			return append(out, pe)
		}
		e.active = false
		switch e.mode {
		case Idle:
			// The right click already released the primary button.
			return out
		case Scrolling:
			e.hijack = nil
			e.setMode(Restoring)
		default:
			e.setMode(Idle)
		}
		return append(out, pe)
	default:
		return append(out, pe)
	}
}

// decide resolves an undecided contact that moved.
func (e *Engine) decide(f Frame, ctl capture.Controller, out []event.Event, pe pointer.Event) []event.Event {
	if f.UI.Blocked() {
		e.setMode(Forwarding)
		return append(out, pe)
	}
	d := e.current.Sub(e.origin)
	thr := f.Metric.Px(e.Config.DragThreshold)
	if d.Len2() <= thr*thr {
		return append(out, pe)
	}
	if f.UI.Category == capture.OtherWidget && abs(d.X) > abs(d.Y) {
		e.hlock = true
		e.setMode(Forwarding)
		return append(out, pe)
	}
	if !f.UI.HasHovered {
		e.setMode(Forwarding)
		return append(out, pe)
	}
	ctl.ClearCapture()
	s := f.UI.Hovered
	e.hijack = &hijack{
		surface: s.ID,
		corner:  s.Pos,
		origin:  s.Scroll,
		max:     s.ScrollMax,
		offset:  s.Scroll,
	}
	e.setMode(Scrolling)
	return append(out, e.scroll(pe))
}

// scroll updates the hijacked surface offset from the contact
// position and returns the move to deliver in place of pe.
// Content follows the contact: moving up scrolls down.
func (e *Engine) scroll(pe pointer.Event) pointer.Event {
	h := e.hijack
	off := h.origin.Add(e.origin.Sub(e.current)).Clamp(f32.Point{}, h.max)
	if off != h.offset {
		h.offset = off
		h.dirty = true
	}
	pe.Position = h.corner
	return pe
}

func (e *Engine) holdExpired(f Frame) bool {
	switch {
	case e.Config.HoldDuration <= 0, e.hlock:
		return false
	case f.Now-e.pressed < e.Config.HoldDuration:
		return false
	case e.source == pointer.Pen && !e.Config.HoldOnPen:
		return false
	default:
		return !f.UI.Blocked()
	}
}

// rightClick replaces the held primary button with a complete right
// click. The contact stays active until its release, which is
// consumed.
func (e *Engine) rightClick(ctl capture.Controller, out []event.Event) []event.Event {
	ctl.ClearCapture()
	e.setMode(Idle)
	return append(out,
		pointer.Up(e.source, pointer.ButtonPrimary),
		pointer.Down(e.source, pointer.ButtonSecondary),
		pointer.Up(e.source, pointer.ButtonSecondary),
	)
}

func (e *Engine) restore(out []event.Event) []event.Event {
	e.setMode(Idle)
	return append(out, pointer.MoveTo(e.source, e.current))
}

// follows reports whether the serials of q can be delivered as they
// are: q is non-empty and starts after every serial delivered so far.
func (e *Engine) follows(q []event.Queued) bool {
	return len(q) > 0 && q[0].Serial >= e.next
}

// sequence numbers out contiguously after the serials already
// delivered. The first serial follows the input queue unless that
// would repeat a serial. Gaps in the input serials are closed: once
// events are inserted or removed, input serials no longer identify
// output events, so only their order is kept. Queues that come out
// unchanged keep their serials instead, see Frame.
func (e *Engine) sequence(in []event.Queued, out []event.Event) []event.Queued {
	first := e.next
	if len(in) > 0 && in[0].Serial > first {
		first = in[0].Serial
	}
	e.next = first + event.Serial(len(out))
	return event.Sequence(first, out...)
}

func (e *Engine) setMode(m Mode) {
	if e.Logger != nil && m != e.mode {
		e.Logger.Debug("gesture mode",
			slog.String("from", e.mode.String()),
			slog.String("to", m.String()),
			slog.String("source", e.source.String()),
			slog.String("pos", e.current.String()),
		)
	}
	e.mode = m
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func (m Mode) String() string {
	switch m {
	case Idle:
		return "Idle"
	case Undecided:
		return "Undecided"
	case Forwarding:
		return "Forwarding"
	case Scrolling:
		return "Scrolling"
	case Restoring:
		return "Restoring"
	default:
		panic("invalid Mode")
	}
}
