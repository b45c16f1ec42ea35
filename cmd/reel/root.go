package main

import (
	"errors"

	"github.com/spf13/cobra"

	"reel/internal/engine"
)

func newRootCommand() *cobra.Command {
	cc := newCommandContext()

	rootCmd := &cobra.Command{
		Use:   "reel [sentence]",
		Short: "Media conversion in plain words",
		Long: `Reel interprets near-English media commands and runs them with ffmpeg.

Examples:
  reel convert video.mov to mp4
  reel compress video.mp4 to 10mb --two-pass
  reel trim video.mp4 from 0:30 to 1:45
  reel batch compress *.mp4 to 5mb --if "duration > 60s"
  reel watch folder ./incoming convert to mp4

Append --dry-run to print the ffmpeg commands without running them, or
--explain to see how the sentence was understood.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		// The sentence grammar owns flag handling; cobra only routes
		// the management subcommands below.
		DisableFlagParsing: true,
		Args:               cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			switch args[0] {
			case "help", "-h", "--help":
				return cmd.Help()
			case "--version", "-v":
				return newVersionCommand().RunE(cmd, nil)
			}
			return runSentence(cmd.Context(), cc, cmd.OutOrStdout(), args)
		},
	}

	rootCmd.AddCommand(newDoctorCommand(cc))
	rootCmd.AddCommand(newConfigCommand(cc))
	rootCmd.AddCommand(newHistoryCommand(cc))
	rootCmd.AddCommand(newVersionCommand())

	return rootCmd
}

// exitCode maps the failure taxonomy onto distinct shell exit codes so
// scripts can tell a bad sentence from a failed encode.
func exitCode(err error) int {
	switch {
	case errors.Is(err, engine.ErrGrammar), errors.Is(err, engine.ErrValidation):
		return 2
	case errors.Is(err, engine.ErrCompilation), errors.Is(err, engine.ErrPlan):
		return 3
	case errors.Is(err, engine.ErrEnvironment):
		return 4
	default:
		return 1
	}
}
