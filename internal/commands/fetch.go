package commands

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/fedsheet/internal/fetch"
	"github.com/cleared-dev/fedsheet/internal/runlog"
)

func newFetchCommand(opts *rootOptions) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Download the latest H.4.1 release",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(cmd, opts)
			if err != nil {
				return err
			}
			return runFetch(cmd, p, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "download again even if the release is present")

	return cmd
}

func runFetch(cmd *cobra.Command, p *project, force bool) error {
	out := cmd.OutOrStdout()
	src := p.cfg.Source

	if _, err := os.Stat(p.dataFile()); err == nil && !force {
		fmt.Fprintf(out, "%s already present (use --force to download again)\n", p.dataFile())
		return nil
	}

	client := fetch.NewClient(p.path(src.CacheDir), &http.Client{Timeout: src.Timeout}, p.log)
	written, err := client.Fetch(cmd.Context(), src.URL, p.outputDir(), force, src.DataFile, src.StructFile)
	if err != nil {
		return err
	}

	for _, path := range written {
		fmt.Fprintf(out, "Extracted %s\n", path)
	}

	entry := runlog.NewEntry("fetch", src.URL, time.Now())
	if err := runlog.Append(p.root, []runlog.Entry{entry}); err != nil {
		return fmt.Errorf("writing run log: %w", err)
	}
	return nil
}
