// SPDX-License-Identifier: Unlicense OR MIT

package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/imtouch/imtouch/gesture"
	"github.com/imtouch/imtouch/internal/trace"
)

func newReplayCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <trace.yaml>",
		Short: "Replay a trace and print the rewritten event stream",
		Args:  cobra.ExactArgs(1),
		RunE:  runReplay,
	}
	cmd.Flags().Bool("json", false, "print the report as JSON")
	cmd.Flags().Int("redraw-frames", 4, "frames drawn after input before idle frames are skipped; 0 draws every frame")
	return cmd
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cmd, cfg)
	if err != nil {
		return err
	}
	redraw, _ := cmd.Flags().GetInt("redraw-frames")
	if redraw < 0 {
		return fmt.Errorf("--redraw-frames must not be negative, got %d", redraw)
	}
	tr, err := trace.Load(args[0])
	if err != nil {
		return err
	}
	logger.Debug("trace loaded", "path", args[0], "frames", len(tr.Frames))
	e := &gesture.Engine{Config: cfg.Gesture()}
	rep, err := trace.Replay(tr, e, trace.Options{Logger: logger, RedrawFrames: redraw})
	if err != nil {
		return err
	}
	if jsonMode, _ := cmd.Flags().GetBool("json"); jsonMode {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(rep); err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return nil
	}
	return rep.WriteText(cmd.OutOrStdout())
}
