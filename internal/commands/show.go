package commands

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/fedsheet/internal/catalog"
	"github.com/cleared-dev/fedsheet/internal/h41"
	"github.com/cleared-dev/fedsheet/internal/model"
)

type showOptions struct {
	input    string
	date     string
	category string
	series   string
}

func newShowCommand(opts *rootOptions) *cobra.Command {
	var so showOptions

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the balance sheet of one date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(cmd, opts)
			if err != nil {
				return err
			}
			return runShow(cmd, p, so)
		},
	}

	cmd.Flags().StringVar(&so.input, "input", "", "H.4.1 data file (default: the fetched release)")
	cmd.Flags().StringVar(&so.date, "date", "", "observation date YYYY-MM-DD (default: latest)")
	cmd.Flags().StringVar(&so.category, "category", "", "assets, liabilities or capital (default: all)")
	cmd.Flags().StringVar(&so.series, "series", "", "print only the concept fed by this series code")

	return cmd
}

func runShow(cmd *cobra.Command, p *project, so showOptions) error {
	var ct model.ConceptType
	if so.category != "" {
		var err error
		if ct, err = model.ParseConceptType(so.category); err != nil {
			return err
		}
	}

	rel, _, err := p.parse(so.input)
	if err != nil {
		return err
	}

	date, bs, err := pickSnapshot(rel, so.date)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	day := date.Format(model.DateFormat)

	if so.series != "" {
		s, ok := catalog.FromEntries(rel.Entries).Get(so.series)
		if !ok {
			return fmt.Errorf("series %s is not part of the balance sheet", so.series)
		}
		node, ok := bs.Concept(s.Type).Find(s.Path)
		if !ok {
			return fmt.Errorf("series %s: %w", so.series, model.ErrConceptNotFound)
		}
		fmt.Fprintf(out, "%s\t%s\t%s\t%d\n", day, s.Code, s.Path, node.Value)
		return nil
	}

	if ct != "" {
		fmt.Fprintf(out, "%s as of %s\n", ct.RootPath(), day)
		return bs.Concept(ct).Render(out)
	}
	fmt.Fprintf(out, "H.4.1 as of %s\n", day)
	_, err = fmt.Fprint(out, bs)
	return err
}

func pickSnapshot(rel *h41.Release, day string) (time.Time, *model.BalanceSheet, error) {
	if day == "" {
		date, bs, ok := rel.Observations.Latest()
		if !ok {
			return time.Time{}, nil, errors.New("release has no observations")
		}
		return date, bs, nil
	}

	date, err := time.Parse(model.DateFormat, day)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("parsing --date: %w", err)
	}
	bs, ok := rel.Observations.Get(date)
	if !ok {
		return time.Time{}, nil, fmt.Errorf("no observations on %s", day)
	}
	return date, bs, nil
}
