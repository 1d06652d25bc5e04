// SPDX-License-Identifier: Unlicense OR MIT

package trace

import (
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"

	"github.com/imtouch/imtouch/capture"
	"github.com/imtouch/imtouch/gesture"
	"github.com/imtouch/imtouch/internal/log"
	"github.com/imtouch/imtouch/internal/uisim"
	"github.com/imtouch/imtouch/io/event"
)

// Options configure Replay.
type Options struct {
	// Logger receives per-frame records at debug level. Nil
	// discards them.
	Logger *slog.Logger
	// RunID identifies the replay in logs and the report. A
	// random id is generated when empty.
	RunID string
	// RedrawFrames is the number of frames drawn after input, after
	// which frames without input are skipped until the next input
	// arrives, as a power saving host does. Frames are never skipped
	// while the engine reports ShouldKeepRedrawing. Zero draws every
	// frame.
	RedrawFrames int
}

// Report is the outcome of a replay.
type Report struct {
	Run    string        `json:"run"`
	Frames []FrameReport `json:"frames"`
	// Clicks and ContextClicks are formatted as window or
	// window/widget.
	Clicks        []string `json:"clicks"`
	ContextClicks []string `json:"context_clicks"`
	// Stuck lists buttons the interface believes are pressed
	// at the end of the replay.
	Stuck string `json:"stuck,omitempty"`
	// SerialErrors lists serials that did not increase.
	SerialErrors []event.Serial `json:"serial_errors,omitempty"`
	// Skipped counts the frames the host did not draw.
	Skipped int `json:"skipped"`
}

// FrameReport is the outcome of a single frame.
type FrameReport struct {
	Index int           `json:"index"`
	Time  time.Duration `json:"time_ns"`
	Mode  string        `json:"mode"`
	// Skipped frames were not drawn; the engine did not run.
	Skipped bool     `json:"skipped,omitempty"`
	Events  []Output `json:"events"`
	// Scroll holds the scroll offset of every window after the
	// frame.
	Scroll map[capture.SurfaceID][2]float32 `json:"scroll"`
}

// Output is a rewritten event delivered to the interface.
type Output struct {
	Serial event.Serial `json:"serial"`
	Event  string       `json:"event"`
}

// Replay feeds the frames of tr through e into a simulated interface
// built from the trace scene.
func Replay(tr *Trace, e *gesture.Engine, opts Options) (Report, error) {
	wins, err := tr.Scene.Build()
	if err != nil {
		return Report{}, fmt.Errorf("trace: %w", err)
	}
	run := opts.RunID
	if run == "" {
		run = uuid.NewString()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.With("run", run)
	if e.Logger == nil {
		e.Logger = logger
	}
	h := uisim.NewHost(wins...)
	rep := Report{Run: run, Frames: make([]FrameReport, 0, len(tr.Frames))}
	var (
		now    time.Duration
		serial event.Serial
		budget = opts.RedrawFrames
	)
	for i, f := range tr.Frames {
		now += f.DT
		if len(f.Events) > 0 || len(f.Close) > 0 || e.ShouldKeepRedrawing() {
			budget = opts.RedrawFrames
		}
		if opts.RedrawFrames > 0 {
			if budget == 0 {
				rep.Frames = append(rep.Frames, report(i, now, e, h, nil, true))
				rep.Skipped++
				logger.Debug("frame skipped", slog.Int("index", i), slog.Duration("time", now))
				continue
			}
			budget--
		}
		for _, id := range f.Close {
			if h.Window(capture.SurfaceID(id)) == nil {
				return rep, fmt.Errorf("trace: frame %d: close of unknown window %q", i, id)
			}
			h.Close(capture.SurfaceID(id))
		}
		evts := make([]event.Event, len(f.Events))
		for j, fe := range f.Events {
			if evts[j], err = fe.Event(); err != nil {
				return rep, fmt.Errorf("trace: frame %d: event %d: %w", i, j, err)
			}
		}
		in := event.Sequence(serial, evts...)
		serial += event.Serial(len(in))
		out := h.Step(e, gesture.Frame{Now: now, Metric: tr.Scene.Metric()}, in)
		fr := report(i, now, e, h, out, false)
		logger.Debug("frame",
			slog.Int("index", i),
			slog.Duration("time", now),
			slog.Int("in", len(in)),
			slog.Int("out", len(out)),
			slog.String("mode", fr.Mode))
		rep.Frames = append(rep.Frames, fr)
	}
	rep.Clicks = clicks(h.Clicks)
	rep.ContextClicks = clicks(h.ContextClicks)
	if d := h.Down(); d != 0 {
		rep.Stuck = d.String()
	}
	rep.SerialErrors = h.SerialErrors
	logger.Info("replay done",
		slog.Int("frames", len(rep.Frames)),
		slog.Int("skipped", rep.Skipped),
		slog.Int("clicks", len(rep.Clicks)),
		slog.Int("context_clicks", len(rep.ContextClicks)))
	return rep, nil
}

// WriteText writes a human readable rendition of r to w.
func (r Report) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "run %s\n", r.Run)
	for _, f := range r.Frames {
		if f.Skipped {
			fmt.Fprintf(tw, "frame %d\t%v\tskipped\n", f.Index, f.Time)
			continue
		}
		fmt.Fprintf(tw, "frame %d\t%v\t%s\n", f.Index, f.Time, f.Mode)
		for _, o := range f.Events {
			fmt.Fprintf(tw, "\t#%d\t%s\n", o.Serial, o.Event)
		}
	}
	fmt.Fprintf(tw, "clicks\t%v\n", r.Clicks)
	fmt.Fprintf(tw, "context clicks\t%v\n", r.ContextClicks)
	if r.Stuck != "" {
		fmt.Fprintf(tw, "stuck\t%s\n", r.Stuck)
	}
	if r.Skipped > 0 {
		fmt.Fprintf(tw, "skipped frames\t%d\n", r.Skipped)
	}
	if len(r.SerialErrors) > 0 {
		fmt.Fprintf(tw, "serial errors\t%v\n", r.SerialErrors)
	}
	return tw.Flush()
}

func report(i int, now time.Duration, e *gesture.Engine, h *uisim.Host, out []event.Queued, skipped bool) FrameReport {
	fr := FrameReport{
		Index:   i,
		Time:    now,
		Mode:    e.Mode().String(),
		Skipped: skipped,
		Events:  make([]Output, len(out)),
		Scroll:  make(map[capture.SurfaceID][2]float32),
	}
	for j, qe := range out {
		fr.Events[j] = Output{Serial: qe.Serial, Event: fmt.Sprint(qe.Event)}
	}
	for _, w := range h.Windows() {
		fr.Scroll[w.ID] = [2]float32{w.Scroll.X, w.Scroll.Y}
	}
	return fr
}

func clicks(cs []uisim.Click) []string {
	s := make([]string, len(cs))
	for i, c := range cs {
		s[i] = c.String()
	}
	return s
}
