package commands

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/fedsheet/internal/catalog"
	"github.com/cleared-dev/fedsheet/internal/export"
	"github.com/cleared-dev/fedsheet/internal/gitops"
	"github.com/cleared-dev/fedsheet/internal/model"
	"github.com/cleared-dev/fedsheet/internal/runlog"
)

type exportOptions struct {
	input  string
	output string
	units  string
	commit bool
}

func newExportCommand(opts *rootOptions) *cobra.Command {
	var eo exportOptions

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the balance sheets as JSON and CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(cmd, opts)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("units") {
				eo.units = p.cfg.Output.Units
			}
			if !cmd.Flags().Changed("commit") {
				eo.commit = p.cfg.Git.AutoCommit
			}
			return runExport(cmd, p, eo)
		},
	}

	cmd.Flags().StringVar(&eo.input, "input", "", "H.4.1 data file (default: the fetched release)")
	cmd.Flags().StringVar(&eo.output, "output", "", "output directory (default: from config)")
	cmd.Flags().StringVar(&eo.units, "units", "millions", "CSV units: millions, billions or trillions")
	cmd.Flags().BoolVar(&eo.commit, "commit", false, "commit the exported files to git")

	return cmd
}

func runExport(cmd *cobra.Command, p *project, eo exportOptions) error {
	unit, err := export.ParseUnit(eo.units)
	if err != nil {
		return err
	}

	rel, input, err := p.parse(eo.input)
	if err != nil {
		return err
	}

	outDir := p.outputDir()
	if eo.output != "" {
		outDir = p.path(eo.output)
	}
	if eo.commit {
		if err := checkCommittable(p, outDir); err != nil {
			return err
		}
	}

	cat := catalog.FromEntries(rel.Entries)
	if prev, err := catalog.Load(outDir); err == nil {
		added, removed := cat.Diff(prev)
		if len(added) > 0 || len(removed) > 0 {
			p.log.WithFields(logrus.Fields{"added": added, "removed": removed}).Warn("series catalog changed")
		}
	}
	catalogData, err := cat.Bytes()
	if err != nil {
		return err
	}

	written, err := export.WriteDir(outDir, rel.Observations, unit, export.File{Name: catalog.File, Data: catalogData})
	if err != nil {
		return fmt.Errorf("exporting: %w", err)
	}

	first, _, _ := rel.Observations.First()
	latest, _, _ := rel.Observations.Latest()

	entry := runlog.NewEntry("export", input, time.Now())
	entry.FirstDate = first.Format(model.DateFormat)
	entry.LatestDate = latest.Format(model.DateFormat)
	entry.Dates = rel.Observations.Len()
	entry.Zeroed = rel.Stats.Inactive + rel.Stats.Unparsable

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Exported %d dates (%s to %s) in %s to %s\n",
		entry.Dates, entry.FirstDate, entry.LatestDate, unit, outDir)

	if eo.commit {
		hash, err := commitExport(p, written, entry.LatestDate)
		switch {
		case errors.Is(err, gitops.ErrNothingToCommit):
			fmt.Fprintln(out, "No changes to commit")
		case err != nil:
			return err
		default:
			entry.CommitHash = hash
			fmt.Fprintf(out, "Committed %s\n", hash)
		}
	}

	if err := runlog.Append(p.root, []runlog.Entry{entry}); err != nil {
		return fmt.Errorf("writing run log: %w", err)
	}
	return nil
}

// checkCommittable rejects --commit before anything is written when the
// project is not a git repository or outDir lies outside it.
func checkCommittable(p *project, outDir string) error {
	if !gitops.IsRepo(p.root) {
		return fmt.Errorf("%s is not a git repository (run fedsheet init)", p.root)
	}
	rel, err := filepath.Rel(p.root, outDir)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("output directory %s is outside the project at %s; cannot commit", outDir, p.root)
	}
	return nil
}

func commitExport(p *project, files []string, latest string) (string, error) {
	author := gitops.Author{Name: p.cfg.Git.AuthorName, Email: p.cfg.Git.AuthorEmail}
	return gitops.CommitFiles(p.root, files, "export: H.4.1 through "+latest, author)
}
