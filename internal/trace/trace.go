// SPDX-License-Identifier: Unlicense OR MIT

// Package trace reads recorded input traces and replays them through
// a gesture engine against a simulated user interface.
//
// A trace is YAML:
//
//	scene:
//	  px_per_dp: 1
//	  windows:
//	    - id: list
//	      rect: [0, 0, 200, 300]
//	      title_bar: 20
//	      content: [190, 1000]
//	      widgets:
//	        - {id: ok, kind: button, rect: [10, 10, 100, 40]}
//	frames:
//	  - dt: 16ms
//	    events:
//	      - {kind: move, x: 100, y: 250}
//	      - {kind: press}
//	  - dt: 16ms
//	    close: [list]
//	    events:
//	      - {kind: release, source: touch, button: left}
//	      - {kind: key, key: Escape}
//
// Event sources default to touch and buttons to left.
package trace

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/imtouch/imtouch/capture"
	"github.com/imtouch/imtouch/f32"
	"github.com/imtouch/imtouch/internal/uisim"
	"github.com/imtouch/imtouch/io/event"
	"github.com/imtouch/imtouch/io/pointer"
	"github.com/imtouch/imtouch/unit"
)

// Trace is a scene and the frames of input replayed over it.
type Trace struct {
	Scene  Scene   `yaml:"scene"`
	Frames []Frame `yaml:"frames"`
}

// Scene is the initial state of the interface.
type Scene struct {
	// PxPerDp is the display density. Zero means 1.
	PxPerDp float32  `yaml:"px_per_dp"`
	Windows []Window `yaml:"windows"`
}

// Window describes a uisim.Window.
type Window struct {
	ID        string    `yaml:"id"`
	Rect      []float32 `yaml:"rect"`
	TitleBar  float32   `yaml:"title_bar"`
	Movable   bool      `yaml:"movable"`
	Resizable bool      `yaml:"resizable"`
	Content   []float32 `yaml:"content"`
	Scroll    []float32 `yaml:"scroll"`
	Widgets   []Widget  `yaml:"widgets"`
}

// Widget describes a uisim.Widget.
type Widget struct {
	ID   string    `yaml:"id"`
	Kind string    `yaml:"kind"`
	Rect []float32 `yaml:"rect"`
}

// Frame is the input of one frame.
type Frame struct {
	DT time.Duration `yaml:"dt"`
	// Close lists windows closed before the frame.
	Close  []string `yaml:"close"`
	Events []Event  `yaml:"events"`
}

// Event is a raw input event.
type Event struct {
	Kind   string  `yaml:"kind"`
	Source string  `yaml:"source"`
	Button string  `yaml:"button"`
	X      float32 `yaml:"x"`
	Y      float32 `yaml:"y"`
	Key    string  `yaml:"key"`
}

// Key is a keyboard event. Gestures pass it through.
type Key struct {
	Name string
}

// Load reads the trace file at path.
func Load(path string) (*Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}
	defer f.Close()
	tr, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("trace: %s: %w", path, err)
	}
	return tr, nil
}

// Decode reads and validates a trace.
func Decode(r io.Reader) (*Trace, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	tr := new(Trace)
	if err := dec.Decode(tr); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty trace")
		}
		return nil, err
	}
	if tr.Scene.PxPerDp < 0 {
		return nil, fmt.Errorf("negative px_per_dp %v", tr.Scene.PxPerDp)
	}
	if _, err := tr.Scene.Build(); err != nil {
		return nil, err
	}
	for i, f := range tr.Frames {
		if f.DT < 0 {
			return nil, fmt.Errorf("frame %d: negative dt %v", i, f.DT)
		}
		for j, e := range f.Events {
			if _, err := e.Event(); err != nil {
				return nil, fmt.Errorf("frame %d: event %d: %w", i, j, err)
			}
		}
	}
	return tr, nil
}

// Metric returns the display metric of the scene.
func (s Scene) Metric() unit.Metric {
	return unit.Metric{PxPerDp: s.PxPerDp}
}

// Build returns fresh windows for the scene, bottom first.
func (s Scene) Build() ([]*uisim.Window, error) {
	seen := make(map[string]bool)
	var wins []*uisim.Window
	for i, w := range s.Windows {
		if w.ID == "" {
			return nil, fmt.Errorf("window %d: missing id", i)
		}
		if seen[w.ID] {
			return nil, fmt.Errorf("window %d: duplicate id %q", i, w.ID)
		}
		seen[w.ID] = true
		win, err := w.window()
		if err != nil {
			return nil, fmt.Errorf("window %q: %w", w.ID, err)
		}
		wins = append(wins, win)
	}
	return wins, nil
}

func (w Window) window() (*uisim.Window, error) {
	r, err := rect(w.Rect)
	if err != nil {
		return nil, fmt.Errorf("rect: %w", err)
	}
	content, err := point(w.Content, r.Size())
	if err != nil {
		return nil, fmt.Errorf("content: %w", err)
	}
	scroll, err := point(w.Scroll, f32.Point{})
	if err != nil {
		return nil, fmt.Errorf("scroll: %w", err)
	}
	win := &uisim.Window{
		ID:        capture.SurfaceID(w.ID),
		Rect:      r,
		TitleBar:  w.TitleBar,
		Movable:   w.Movable,
		Resizable: w.Resizable,
		Content:   content,
	}
	win.SetScroll(scroll)
	for i, wd := range w.Widgets {
		r, err := rect(wd.Rect)
		if err != nil {
			return nil, fmt.Errorf("widget %d: rect: %w", i, err)
		}
		var kind uisim.WidgetKind
		switch strings.ToLower(wd.Kind) {
		case "", "button":
			kind = uisim.Button
		case "slider":
			kind = uisim.Slider
		default:
			return nil, fmt.Errorf("widget %d: unknown kind %q", i, wd.Kind)
		}
		win.Widgets = append(win.Widgets, &uisim.Widget{ID: wd.ID, Kind: kind, Rect: r})
	}
	return win, nil
}

// Event converts e to the event it describes.
func (e Event) Event() (event.Event, error) {
	kind := strings.ToLower(e.Kind)
	if kind == "key" {
		if e.Key == "" {
			return nil, errors.New("key event without key")
		}
		return Key{Name: e.Key}, nil
	}
	var src pointer.Source
	switch strings.ToLower(e.Source) {
	case "", "touch":
		src = pointer.Touch
	case "pen":
		src = pointer.Pen
	case "mouse":
		src = pointer.Mouse
	default:
		return nil, fmt.Errorf("unknown source %q", e.Source)
	}
	var btn pointer.Buttons
	switch strings.ToLower(e.Button) {
	case "", "left":
		btn = pointer.ButtonPrimary
	case "right":
		btn = pointer.ButtonSecondary
	case "middle":
		btn = pointer.ButtonTertiary
	default:
		return nil, fmt.Errorf("unknown button %q", e.Button)
	}
	switch kind {
	case "move":
		return pointer.MoveTo(src, f32.Pt(e.X, e.Y)), nil
	case "press":
		return pointer.Down(src, btn), nil
	case "release":
		return pointer.Up(src, btn), nil
	default:
		return nil, fmt.Errorf("unknown kind %q", e.Kind)
	}
}

func rect(v []float32) (f32.Rectangle, error) {
	if len(v) != 4 {
		return f32.Rectangle{}, fmt.Errorf("want [x0, y0, x1, y1], got %d values", len(v))
	}
	r := f32.Rect(v[0], v[1], v[2], v[3])
	if r.Empty() {
		return f32.Rectangle{}, fmt.Errorf("empty rectangle %v", r)
	}
	return r, nil
}

func point(v []float32, def f32.Point) (f32.Point, error) {
	switch len(v) {
	case 0:
		return def, nil
	case 2:
		return f32.Pt(v[0], v[1]), nil
	default:
		return f32.Point{}, fmt.Errorf("want [x, y], got %d values", len(v))
	}
}

func (k Key) String() string {
	return "Key " + k.Name
}

func (Key) ImplementsEvent() {}
