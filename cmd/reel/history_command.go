package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"reel/internal/history"
)

func newHistoryCommand(cc *commandContext) *cobra.Command {
	var limit int
	var pruneDays int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent invocations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cc.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg.Paths.HistoryPath)
			if err != nil {
				return fmt.Errorf("open history: %w", err)
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			if pruneDays > 0 {
				cutoff := time.Now().AddDate(0, 0, -pruneDays)
				removed, err := store.Prune(cmd.Context(), cutoff)
				if err != nil {
					return fmt.Errorf("prune history: %w", err)
				}
				fmt.Fprintf(out, "Removed %d entries older than %d days\n", removed, pruneDays)
				return nil
			}

			entries, err := store.Recent(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("read history: %w", err)
			}
			if len(entries) == 0 {
				fmt.Fprintln(out, "No history yet")
				return nil
			}

			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				took := entry.Duration.Round(100 * time.Millisecond).String()
				rows = append(rows, []string{
					humanize.Time(entry.StartedAt),
					entry.Summary,
					entry.Status,
					took,
					entry.Output,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"When", "Command", "Status", "Took", "Output"},
				rows,
				4,
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Number of entries to show")
	cmd.Flags().IntVar(&pruneDays, "prune", 0, "Delete entries older than this many days instead of listing")
	return cmd
}
