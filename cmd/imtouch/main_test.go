// SPDX-License-Identifier: Unlicense OR MIT

package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/imtouch/imtouch/internal/config"
	"github.com/imtouch/imtouch/internal/trace"
)

const tapTrace = `
scene:
  windows:
    - id: list
      rect: [0, 0, 200, 300]
      title_bar: 20
      content: [190, 1000]
      widgets:
        - {id: ok, kind: button, rect: [10, 10, 100, 40]}
frames:
  - dt: 16ms
    events:
      - {kind: move, x: 50, y: 45}
      - {kind: press}
  - dt: 16ms
    events:
      - {kind: release}
`

func run(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := newRootCommand(&out, &errOut)
	root.SetArgs(args)
	err = root.Execute()
	return out.String(), errOut.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out, "imtouch ") {
		t.Errorf("got %q", out)
	}
}

func TestConfigDefaults(t *testing.T) {
	out, _, err := run(t, "config")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`hold_duration_to_right_click = "500ms"`,
		`accept_pen = true`,
		`level = "info"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestConfigFileAndFlags(t *testing.T) {
	path := writeFile(t, "imtouch.toml", "hold_duration_to_right_click = \"1s\"\n")
	out, _, err := run(t, "config", "--config", path, "--log-level", "debug")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`hold_duration_to_right_click = "1s"`, `level = "debug"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
}

func TestConfigInvalid(t *testing.T) {
	_, _, err := run(t, "config", "--log-format", "xml")
	if !errors.Is(err, config.ErrInvalid) {
		t.Errorf("got %v; want %v", err, config.ErrInvalid)
	}
	if _, _, err := run(t, "config", "--config", filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("missing configuration file accepted")
	}
}

func TestReplayText(t *testing.T) {
	path := writeFile(t, "tap.yaml", tapTrace)
	out, stderr, err := run(t, "replay", path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Touch Press ButtonPrimary", "Touch Release ButtonPrimary", "[list/ok]"} {
		if !strings.Contains(out, want) {
			t.Errorf("output lacks %q:\n%s", want, out)
		}
	}
	if !strings.Contains(stderr, "replay done") {
		t.Errorf("missing log record:\n%s", stderr)
	}
}

func TestReplayJSON(t *testing.T) {
	path := writeFile(t, "tap.yaml", tapTrace)
	out, _, err := run(t, "replay", "--json", "--log-format", "json", path)
	if err != nil {
		t.Fatal(err)
	}
	var rep trace.Report
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if got, want := rep.Clicks, []string{"list/ok"}; !reflect.DeepEqual(got, want) {
		t.Errorf("got clicks %v; want %v", got, want)
	}
	if got, want := len(rep.Frames), 2; got != want {
		t.Errorf("got %d frames; want %d", got, want)
	}
	if rep.Run == "" {
		t.Error("report has no run id")
	}
}

func TestReplaySkipsIdleFrames(t *testing.T) {
	path := writeFile(t, "tap.yaml", tapTrace+"  - dt: 16ms\n  - dt: 16ms\n  - dt: 16ms\n")
	out, _, err := run(t, "replay", "--json", "--redraw-frames", "1", path)
	if err != nil {
		t.Fatal(err)
	}
	var rep trace.Report
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if got, want := rep.Skipped, 3; got != want {
		t.Errorf("got %d skipped frames; want %d", got, want)
	}
	out, _, err = run(t, "replay", "--json", "--redraw-frames", "0", path)
	if err != nil {
		t.Fatal(err)
	}
	rep = trace.Report{}
	if err := json.Unmarshal([]byte(out), &rep); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if rep.Skipped != 0 {
		t.Errorf("got %d skipped frames with redrawing forced", rep.Skipped)
	}
}

func TestReplayErrors(t *testing.T) {
	if _, _, err := run(t, "replay"); err == nil {
		t.Error("replay without a trace succeeded")
	}
	if _, _, err := run(t, "replay", "--redraw-frames", "-1", writeFile(t, "tap.yaml", tapTrace)); err == nil {
		t.Error("negative redraw budget accepted")
	}
	bad := writeFile(t, "bad.yaml", "frames: [{events: [{kind: wheel}]}]")
	if _, _, err := run(t, "replay", bad); err == nil {
		t.Error("invalid trace accepted")
	}
}
