// SPDX-License-Identifier: Unlicense OR MIT

package uisim

import (
	"reflect"
	"testing"
	"time"

	"github.com/imtouch/imtouch/capture"
	"github.com/imtouch/imtouch/f32"
	"github.com/imtouch/imtouch/gesture"
	"github.com/imtouch/imtouch/io/event"
	"github.com/imtouch/imtouch/io/pointer"
)

const frameTime = 16 * time.Millisecond

// newList returns a fixed 200x300 window whose content scrolls 720px
// vertically. Its button covers (10,30)-(100,60) and its slider
// (10,80)-(180,100) in window coordinates.
func newList() *Window {
	return &Window{
		ID:       "list",
		Rect:     f32.Rect(0, 0, 200, 300),
		TitleBar: 20,
		Content:  f32.Pt(190, 1000),
		Widgets: []*Widget{
			{ID: "ok", Kind: Button, Rect: f32.Rect(10, 10, 100, 40)},
			{ID: "volume", Kind: Slider, Rect: f32.Rect(10, 60, 180, 80)},
		},
	}
}

func newTools() *Window {
	return &Window{
		ID:        "tools",
		Rect:      f32.Rect(300, 0, 400, 100),
		TitleBar:  20,
		Movable:   true,
		Resizable: true,
		Content:   f32.Pt(80, 60),
	}
}

type rig struct {
	t      *testing.T
	e      *gesture.Engine
	h      *Host
	now    time.Duration
	serial event.Serial
}

func newRig(t *testing.T, windows ...*Window) *rig {
	cfg := gesture.DefaultConfig()
	return &rig{t: t, e: &gesture.Engine{Config: cfg}, h: NewHost(windows...)}
}

func (r *rig) frame(evts ...event.Event) []event.Event {
	r.now += frameTime
	in := event.Sequence(r.serial, evts...)
	r.serial += event.Serial(len(evts))
	return event.Events(r.h.Step(r.e, gesture.Frame{Now: r.now}, in))
}

func (r *rig) assertClean() {
	r.t.Helper()
	if d := r.h.Down(); d != 0 {
		r.t.Errorf("buttons stuck down: %v", d)
	}
	if errs := r.h.SerialErrors; len(errs) > 0 {
		r.t.Errorf("serials did not increase: %v", errs)
	}
	if m := r.e.Mode(); m != gesture.Idle {
		r.t.Errorf("engine mode %v; want Idle", m)
	}
}

func touchAt(x, y float32) pointer.Event {
	return pointer.MoveTo(pointer.Touch, f32.Pt(x, y))
}

var (
	touchDown = pointer.Down(pointer.Touch, pointer.ButtonPrimary)
	touchUp   = pointer.Up(pointer.Touch, pointer.ButtonPrimary)
)

func TestWindowGeometry(t *testing.T) {
	w := newList()
	if got, want := w.View(), f32.Rect(0, 20, 190, 300); got != want {
		t.Errorf("View() = %v; want %v", got, want)
	}
	if got, want := w.ScrollMax(), f32.Pt(0, 720); got != want {
		t.Errorf("ScrollMax() = %v; want %v", got, want)
	}
	w.SetScroll(f32.Pt(50, 900))
	if got, want := w.Scroll, f32.Pt(0, 720); got != want {
		t.Errorf("SetScroll clamped to %v; want %v", got, want)
	}
	w.Scroll = f32.Pt(0, 20)
	if got, want := w.WidgetRect(w.Widgets[0]), f32.Rect(10, 10, 100, 40); got != want {
		t.Errorf("WidgetRect() = %v; want %v", got, want)
	}
}

func TestHitParts(t *testing.T) {
	list, tools := newList(), newTools()
	for _, tc := range []struct {
		w      *Window
		p      f32.Point
		cat    capture.Category
		widget string
	}{
		{list, f32.Pt(50, 10), capture.MoveHandle, ""},
		{list, f32.Pt(195, 100), capture.ScrollbarY, ""},
		{list, f32.Pt(50, 45), capture.OtherWidget, "ok"},
		{list, f32.Pt(100, 90), capture.OtherWidget, "volume"},
		{list, f32.Pt(100, 200), capture.BodyNoMove, ""},
		{tools, f32.Pt(395, 95), capture.ResizeCorner, ""},
		{tools, f32.Pt(301, 50), capture.ResizeBorder, ""},
		{tools, f32.Pt(350, 10), capture.MoveHandle, ""},
		{tools, f32.Pt(350, 60), capture.MoveHandle, ""},
	} {
		t.Run(tc.p.String(), func(t *testing.T) {
			pt := tc.w.hit(tc.p)
			if pt.cat != tc.cat {
				t.Errorf("got %v; want %v", pt.cat, tc.cat)
			}
			var id string
			if pt.widget != nil {
				id = pt.widget.ID
			}
			if id != tc.widget {
				t.Errorf("got widget %q; want %q", id, tc.widget)
			}
		})
	}
}

func TestMouseDragMovesWindow(t *testing.T) {
	tools := newTools()
	h := NewHost(newList(), tools)
	h.Feed(event.Sequence(1,
		pointer.MoveTo(pointer.Mouse, f32.Pt(350, 10)),
		pointer.Down(pointer.Mouse, pointer.ButtonPrimary),
	))
	if cat, moving := h.Capture(); cat != capture.MoveHandle || !moving {
		t.Errorf("got capture %v moving %v; want moving MoveHandle", cat, moving)
	}
	h.Feed(event.Sequence(3,
		pointer.MoveTo(pointer.Mouse, f32.Pt(370, 30)),
		pointer.Up(pointer.Mouse, pointer.ButtonPrimary),
	))
	if got, want := tools.Rect, f32.Rect(320, 20, 420, 120); got != want {
		t.Errorf("got %v; want %v", got, want)
	}
	if cat, _ := h.Capture(); cat != capture.None {
		t.Errorf("capture %v after release", cat)
	}
}

func TestPressRaisesWindow(t *testing.T) {
	back := newList()
	front := newTools()
	front.Rect = f32.Rect(100, 100, 250, 250)
	h := NewHost(back, front)
	h.Feed(event.Sequence(1,
		pointer.MoveTo(pointer.Mouse, f32.Pt(50, 200)),
		pointer.Down(pointer.Mouse, pointer.ButtonPrimary),
		pointer.Up(pointer.Mouse, pointer.ButtonPrimary),
	))
	if got := h.Windows(); got[len(got)-1] != back {
		t.Errorf("pressed window not raised")
	}
}

func TestSerialErrors(t *testing.T) {
	h := NewHost(newList())
	h.Feed(event.Sequence(5, touchAt(1, 1)))
	h.Feed(event.Sequence(5, touchAt(2, 2)))
	if got, want := h.SerialErrors, []event.Serial{5}; !reflect.DeepEqual(got, want) {
		t.Errorf("got %v; want %v", got, want)
	}
}

func TestTouchScrollsList(t *testing.T) {
	list := newList()
	r := newRig(t, list)
	r.frame(touchAt(100, 250), touchDown)
	out := r.frame(touchAt(100, 200))
	if got, want := out, []event.Event{touchAt(0, 0)}; !reflect.DeepEqual(got, want) {
		t.Errorf("got %v; want pointer pinned to the corner", got)
	}
	r.frame(touchAt(100, 100))
	if got, want := list.Scroll, f32.Pt(0, 150); got != want {
		t.Errorf("got scroll %v; want %v", got, want)
	}
	r.frame(touchUp)
	if got, want := r.h.Pointer(), f32.Pt(0, 0); got != want {
		t.Errorf("pointer moved to %v before restoration", got)
	}
	r.frame()
	if got, want := r.h.Pointer(), f32.Pt(100, 100); got != want {
		t.Errorf("got pointer %v; want %v", got, want)
	}
	if len(r.h.Clicks) > 0 || len(r.h.ContextClicks) > 0 {
		t.Errorf("scroll clicked: %v %v", r.h.Clicks, r.h.ContextClicks)
	}
	r.assertClean()
}

func TestTouchTapClicksButton(t *testing.T) {
	r := newRig(t, newList())
	r.frame(touchAt(50, 45), touchDown)
	r.frame(touchAt(52, 47))
	r.frame(touchUp)
	if got, want := r.h.Clicks, []Click{{Window: "list", Widget: "ok"}}; !reflect.DeepEqual(got, want) {
		t.Errorf("got clicks %v; want %v", got, want)
	}
	r.assertClean()
}

func TestTouchHoldOpensContextMenu(t *testing.T) {
	r := newRig(t, newList())
	r.frame(touchAt(50, 45), touchDown)
	for i := 0; i < 40; i++ {
		r.frame()
	}
	r.frame(touchUp)
	if got, want := r.h.ContextClicks, []Click{{Window: "list", Widget: "ok"}}; !reflect.DeepEqual(got, want) {
		t.Errorf("got context clicks %v; want %v", got, want)
	}
	if len(r.h.Clicks) > 0 {
		t.Errorf("hold also clicked: %v", r.h.Clicks)
	}
	r.assertClean()
}

func TestTouchDragsScrollbar(t *testing.T) {
	list := newList()
	r := newRig(t, list)
	r.frame(touchAt(195, 50), touchDown)
	r.frame(touchAt(195, 120))
	if got, want := r.e.Mode(), gesture.Forwarding; got != want {
		t.Errorf("got mode %v; want %v", got, want)
	}
	if got, want := list.Scroll, f32.Pt(0, 250); got != want {
		t.Errorf("got scroll %v; want %v", got, want)
	}
	r.frame(touchUp)
	r.assertClean()
}

func TestTouchDragsSlider(t *testing.T) {
	list := newList()
	r := newRig(t, list)
	r.frame(touchAt(20, 90), touchDown)
	r.frame(touchAt(150, 95))
	r.frame(touchAt(150, 200))
	if got, want := r.e.Mode(), gesture.Forwarding; got != want {
		t.Errorf("got mode %v; want %v", got, want)
	}
	if got, want := list.Widgets[1].Value, float32(150-10)/170; got != want {
		t.Errorf("got slider value %v; want %v", got, want)
	}
	if list.Scroll != (f32.Point{}) {
		t.Errorf("slider drag scrolled to %v", list.Scroll)
	}
	r.frame(touchUp)
	r.assertClean()
}

func TestTouchMovesWindow(t *testing.T) {
	tools := newTools()
	r := newRig(t, newList(), tools)
	r.frame(touchAt(350, 60), touchDown)
	r.frame(touchAt(360, 100))
	r.frame(touchUp)
	if got, want := tools.Rect, f32.Rect(310, 40, 410, 140); got != want {
		t.Errorf("got %v; want %v", got, want)
	}
	r.assertClean()
}

func TestWindowClosedDuringScroll(t *testing.T) {
	r := newRig(t, newList())
	r.frame(touchAt(100, 250), touchDown)
	r.frame(touchAt(100, 200))
	r.h.Close("list")
	out := r.frame(touchAt(100, 150))
	if got, want := out, []event.Event{touchAt(100, 200), touchAt(100, 150)}; !reflect.DeepEqual(got, want) {
		t.Errorf("got %v; want %v", got, want)
	}
	if got, want := r.e.Mode(), gesture.Forwarding; got != want {
		t.Errorf("got mode %v; want %v", got, want)
	}
	r.frame(touchUp)
	r.assertClean()
}
