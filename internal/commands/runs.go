package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/fedsheet/internal/runlog"
)

func newRunsCommand(opts *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List past fetch and export runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(cmd, opts)
			if err != nil {
				return err
			}
			return runRuns(cmd, p, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "number of most recent runs to list (0 for all)")

	return cmd
}

func runRuns(cmd *cobra.Command, p *project, limit int) error {
	entries, err := runlog.Read(p.root)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No runs recorded")
		return nil
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}

	for _, e := range entries {
		line := fmt.Sprintf("%s  %-6s", e.Timestamp.Format(time.RFC3339), e.Command)
		if e.LatestDate != "" {
			line += fmt.Sprintf("  %s..%s (%d dates, %d zeroed)", e.FirstDate, e.LatestDate, e.Dates, e.Zeroed)
		}
		if e.CommitHash != "" {
			line += "  " + e.CommitHash
		}
		fmt.Fprintln(out, line)
	}
	return nil
}
