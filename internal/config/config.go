// SPDX-License-Identifier: Unlicense OR MIT

// Package config loads the gesture configuration file.
//
// The file is TOML. Keys left out keep their default value:
//
//	accept_any_input_source = false
//	accept_pen = true
//	hold_duration_to_right_click = "500ms"
//	allow_hold_to_right_click_on_pen = false
//	drag_threshold = 10.0
//
//	[log]
//	level = "info"
//	format = "text"
package config

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/imtouch/imtouch/gesture"
	"github.com/imtouch/imtouch/internal/log"
	"github.com/imtouch/imtouch/unit"
)

// Config mirrors the configuration file.
type Config struct {
	AcceptAnyInputSource       bool     `toml:"accept_any_input_source"`
	AcceptPen                  bool     `toml:"accept_pen"`
	HoldDurationToRightClick   Duration `toml:"hold_duration_to_right_click"`
	AllowHoldToRightClickOnPen bool     `toml:"allow_hold_to_right_click_on_pen"`
	// DragThreshold is in dp.
	DragThreshold float32 `toml:"drag_threshold"`
	Log           Log     `toml:"log"`
}

// Log configures logging.
type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Duration is a time.Duration written as a Go duration string
// such as "500ms".
type Duration time.Duration

// ErrInvalid is wrapped by validation errors.
var ErrInvalid = errors.New("invalid configuration")

// Default returns the configuration used when no file is given.
func Default() Config {
	g := gesture.DefaultConfig()
	return Config{
		AcceptAnyInputSource:       g.AcceptAnySource,
		AcceptPen:                  g.AcceptPen,
		HoldDurationToRightClick:   Duration(g.HoldDuration),
		AllowHoldToRightClickOnPen: g.HoldOnPen,
		DragThreshold:              float32(g.DragThreshold),
		Log:                        Log{Level: "info", Format: "text"},
	}
}

// Load reads the configuration file at path. An empty path
// selects the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	defer f.Close()
	c, err := Decode(f)
	if err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return c, nil
}

// Decode reads a configuration file from r over the defaults and
// validates the result.
func Decode(r io.Reader) (Config, error) {
	c := Default()
	md, err := toml.NewDecoder(r).Decode(&c)
	if err != nil {
		return Config{}, err
	}
	if undec := md.Undecoded(); len(undec) > 0 {
		keys := make([]string, len(undec))
		for i, k := range undec {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Config{}, fmt.Errorf("%w: unknown keys %s", ErrInvalid, strings.Join(keys, ", "))
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.HoldDurationToRightClick < 0 {
		return fmt.Errorf("%w: hold_duration_to_right_click must not be negative", ErrInvalid)
	}
	if t := float64(c.DragThreshold); math.IsNaN(t) || math.IsInf(t, 0) {
		return fmt.Errorf("%w: drag_threshold must be finite", ErrInvalid)
	}
	if c.DragThreshold < 0 {
		return fmt.Errorf("%w: drag_threshold must not be negative", ErrInvalid)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log.level: %v", ErrInvalid, err)
	}
	if _, err := log.ParseFormat(c.Log.Format); err != nil {
		return fmt.Errorf("%w: log.format: %v", ErrInvalid, err)
	}
	return nil
}

// Gesture returns the engine configuration.
func (c Config) Gesture() gesture.Config {
	return gesture.Config{
		AcceptAnySource: c.AcceptAnyInputSource,
		AcceptPen:       c.AcceptPen,
		HoldDuration:    time.Duration(c.HoldDurationToRightClick),
		HoldOnPen:       c.AllowHoldToRightClickOnPen,
		DragThreshold:   unit.Dp(c.DragThreshold),
	}
}

// LogOptions returns the logger options, writing to w.
func (c Config) LogOptions(w io.Writer) log.Options {
	return log.Options{Level: c.Log.Level, Format: c.Log.Format, Output: w}
}

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}
