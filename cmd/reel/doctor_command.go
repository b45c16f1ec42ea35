package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"reel/internal/config"
	"reel/internal/deps"
	"reel/internal/preflight"
)

// doctorEncoders are the encoders sentences commonly compile to; a
// missing one means some verbs will fail at runtime.
var doctorEncoders = []string{"libx264", "libvpx-vp9", "libmp3lame", "aac"}

func newDoctorCommand(cc *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check the environment reel depends on",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cc.ensureConfig()
			if err != nil {
				return err
			}
			return runDoctor(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}
}

func runDoctor(ctx context.Context, cfg *config.Config, out io.Writer) error {
	colorize := shouldColorize(out)
	failed := false

	fmt.Fprintln(out, "Environment checks:")
	for _, result := range preflight.RunAll(ctx, cfg) {
		kind := statusOK
		if !result.Passed {
			kind = statusError
			failed = true
		}
		fmt.Fprintln(out, renderStatusLine(result.Name, kind, result.Detail, colorize))
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Tool versions:")
	for _, status := range deps.Check(ctx, []deps.Requirement{
		{Name: "ffmpeg", Command: cfg.Tools.FFmpeg},
		{Name: "ffprobe", Command: cfg.Tools.FFprobe},
	}) {
		kind := statusOK
		detail := status.Version
		if !status.Available {
			kind = statusError
			detail = status.Detail
			failed = true
		}
		fmt.Fprintln(out, renderStatusLine(status.Name, kind, detail, colorize))
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Encoders:")
	for _, encoder := range doctorEncoders {
		kind := statusOK
		detail := ""
		if !deps.HasEncoder(ctx, cfg.Tools.FFmpeg, encoder) {
			kind = statusWarn
			detail = "not available; commands needing it will fail"
		}
		fmt.Fprintln(out, renderStatusLine(encoder, kind, detail, colorize))
	}

	if failed {
		return fmt.Errorf("doctor found problems; fix the items marked ERROR above")
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "All checks passed")
	return nil
}
