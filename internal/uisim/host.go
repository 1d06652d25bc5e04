// SPDX-License-Identifier: Unlicense OR MIT

package uisim

import (
	"fmt"

	"github.com/imtouch/imtouch/capture"
	"github.com/imtouch/imtouch/f32"
	"github.com/imtouch/imtouch/gesture"
	"github.com/imtouch/imtouch/io/event"
	"github.com/imtouch/imtouch/io/pointer"
	"golang.org/x/exp/slices"
)

// Host is a simulated user interface. It implements
// capture.Inspector and capture.Controller.
type Host struct {
	// windows in z-order; the last window is on top.
	windows []*Window
	pos     f32.Point
	down    pointer.Buttons
	grab    *grab
	// menu is the target of a pending secondary press.
	menu *target

	lastSerial event.Serial
	fed        bool

	Clicks        []Click
	ContextClicks []Click
	// SerialErrors records serials that did not increase.
	SerialErrors []event.Serial
}

// Click is a completed click.
type Click struct {
	Window capture.SurfaceID
	// Widget is empty for clicks on the window itself.
	Widget string
}

type target struct {
	win    *Window
	widget *Widget
}

// grab is the element holding capture.
type grab struct {
	part
	win         *Window
	start       f32.Point
	startRect   f32.Rectangle
	startScroll f32.Point
}

var (
	_ capture.Inspector  = (*Host)(nil)
	_ capture.Controller = (*Host)(nil)
)

// NewHost returns a Host showing windows, bottom first.
func NewHost(windows ...*Window) *Host {
	return &Host{windows: slices.Clone(windows)}
}

// Window returns the window identified by id, or nil.
func (h *Host) Window(id capture.SurfaceID) *Window {
	for _, w := range h.windows {
		if w.ID == id {
			return w
		}
	}
	return nil
}

// Windows returns the windows in z-order, bottom first.
func (h *Host) Windows() []*Window {
	return h.windows
}

// Close removes the window identified by id.
func (h *Host) Close(id capture.SurfaceID) {
	i := slices.IndexFunc(h.windows, func(w *Window) bool { return w.ID == id })
	if i == -1 {
		return
	}
	w := h.windows[i]
	h.windows = slices.Delete(h.windows, i, i+1)
	if h.grab != nil && h.grab.win == w {
		h.grab = nil
	}
	if h.menu != nil && h.menu.win == w {
		h.menu = nil
	}
}

// Pointer returns the pointer position as seen by the interface.
func (h *Host) Pointer() f32.Point {
	return h.pos
}

// Down returns the buttons the interface believes are pressed.
func (h *Host) Down() pointer.Buttons {
	return h.down
}

// Capture implements capture.Inspector.
func (h *Host) Capture() (capture.Category, bool) {
	if h.grab == nil {
		return capture.None, false
	}
	return h.grab.cat, h.grab.cat == capture.MoveHandle && h.grab.win.Movable
}

// Hovered implements capture.Inspector.
func (h *Host) Hovered() (capture.Surface, bool) {
	w := h.windowAt(h.pos)
	if w == nil {
		return capture.Surface{}, false
	}
	return w.Surface(), true
}

// ClearCapture implements capture.Controller.
func (h *Host) ClearCapture() {
	h.grab = nil
}

// SetScroll implements capture.Controller.
func (h *Host) SetScroll(id capture.SurfaceID, off f32.Point) {
	if w := h.Window(id); w != nil {
		w.SetScroll(off)
	}
}

// Step runs one frame: e rewrites q against the current state of
// the interface, and the interface consumes the result, which is
// returned. The UI field of f is ignored.
func (h *Host) Step(e *gesture.Engine, f gesture.Frame, q []event.Queued) []event.Queued {
	f.UI = capture.Take(h)
	out := e.Frame(f, h, q)
	h.Feed(out)
	return out
}

// Feed delivers a frame's queue to the interface.
func (h *Host) Feed(q []event.Queued) {
	for _, qe := range q {
		if h.fed && qe.Serial <= h.lastSerial {
			h.SerialErrors = append(h.SerialErrors, qe.Serial)
		}
		h.fed = true
		h.lastSerial = qe.Serial
		if e, ok := qe.Event.(pointer.Event); ok {
			h.pointerEvent(e)
		}
	}
}

func (h *Host) pointerEvent(e pointer.Event) {
	switch e.Kind {
	case pointer.Move:
		h.pos = e.Position
		if h.grab != nil && h.down.Contain(pointer.ButtonPrimary) {
			h.drag()
		}
	case pointer.Press:
		if e.Buttons.Contain(pointer.ButtonPrimary) && !h.down.Contain(pointer.ButtonPrimary) {
			h.press()
		}
		if e.Buttons.Contain(pointer.ButtonSecondary) && !h.down.Contain(pointer.ButtonSecondary) {
			if w := h.windowAt(h.pos); w != nil {
				h.menu = &target{win: w, widget: w.hit(h.pos).widget}
			}
		}
		h.down |= e.Buttons
	case pointer.Release:
		if e.Buttons.Contain(pointer.ButtonPrimary) && h.down.Contain(pointer.ButtonPrimary) {
			h.release()
		}
		if e.Buttons.Contain(pointer.ButtonSecondary) && h.down.Contain(pointer.ButtonSecondary) {
			if m := h.menu; m != nil && h.windowAt(h.pos) == m.win {
				h.ContextClicks = append(h.ContextClicks, m.click())
			}
			h.menu = nil
		}
		h.down &^= e.Buttons
	}
}

func (h *Host) press() {
	w := h.windowAt(h.pos)
	if w == nil {
		return
	}
	h.raise(w)
	h.grab = &grab{
		part:        w.hit(h.pos),
		win:         w,
		start:       h.pos,
		startRect:   w.Rect,
		startScroll: w.Scroll,
	}
	h.drag()
}

func (h *Host) release() {
	g := h.grab
	h.grab = nil
	if g == nil || g.widget == nil || g.widget.Kind != Button {
		return
	}
	if h.pos.In(g.win.WidgetRect(g.widget)) {
		h.Clicks = append(h.Clicks, target{win: g.win, widget: g.widget}.click())
	}
}

// drag applies the pointer motion to the grabbed element.
func (h *Host) drag() {
	g := h.grab
	w := g.win
	d := h.pos.Sub(g.start)
	switch g.cat {
	case capture.MoveHandle:
		if w.Movable {
			w.Rect = g.startRect.Add(d)
		}
	case capture.ResizeCorner:
		w.Rect = (edgeRight | edgeBottom).resize(g.startRect, d)
		w.SetScroll(w.Scroll)
	case capture.ResizeBorder:
		w.Rect = g.edges.resize(g.startRect, d)
		w.SetScroll(w.Scroll)
	case capture.ScrollbarY:
		v := w.View()
		w.SetScroll(f32.Pt(w.Scroll.X, g.startScroll.Y+d.Y*w.Content.Y/v.Dy()))
	case capture.ScrollbarX:
		v := w.View()
		w.SetScroll(f32.Pt(g.startScroll.X+d.X*w.Content.X/v.Dx(), w.Scroll.Y))
	case capture.OtherWidget:
		if g.widget.Kind == Slider {
			r := w.WidgetRect(g.widget)
			g.widget.Value = clamp((h.pos.X-r.Min.X)/r.Dx(), 0, 1)
		}
	}
}

// raise brings w to the top of the z-order.
func (h *Host) raise(w *Window) {
	i := slices.Index(h.windows, w)
	h.windows = append(slices.Delete(h.windows, i, i+1), w)
}

func (h *Host) windowAt(p f32.Point) *Window {
	for i := len(h.windows) - 1; i >= 0; i-- {
		if w := h.windows[i]; p.In(w.Rect) {
			return w
		}
	}
	return nil
}

func (t target) click() Click {
	c := Click{Window: t.win.ID}
	if t.widget != nil {
		c.Widget = t.widget.ID
	}
	return c
}

func (c Click) String() string {
	if c.Widget == "" {
		return string(c.Window)
	}
	return fmt.Sprintf("%s/%s", c.Window, c.Widget)
}
