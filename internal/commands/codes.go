package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/fedsheet/internal/sdmx"
)

func newCodesCommand(opts *rootOptions) *cobra.Command {
	var input string
	var list string
	var code string

	cmd := &cobra.Command{
		Use:   "codes",
		Short: "List the code lists of the release structure file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(cmd, opts)
			if err != nil {
				return err
			}
			if input == "" {
				input = p.structFile()
			}
			if code != "" && list == "" {
				return errors.New("--code needs --list")
			}
			return runCodes(cmd, input, list, code)
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "H.4.1 structure file (default: the fetched release)")
	cmd.Flags().StringVar(&list, "list", "", "print only the code list with this id, e.g. CL_FREQ")
	cmd.Flags().StringVar(&code, "code", "", "print only the description of this code (needs --list)")

	return cmd
}

func runCodes(cmd *cobra.Command, input, id, code string) error {
	f, err := os.Open(input)
	if err != nil {
		return fmt.Errorf("opening structure file: %w", err)
	}
	defer f.Close()

	lists, err := sdmx.ReadCodeLists(f)
	if err != nil {
		return err
	}

	if id != "" {
		l, ok := sdmx.FindCodeList(lists, id)
		if !ok {
			return fmt.Errorf("code list %s not found in %s", id, input)
		}
		if code != "" {
			desc, ok := l.Lookup(code)
			if !ok {
				return fmt.Errorf("code %s not found in %s", code, id)
			}
			fmt.Fprintln(cmd.OutOrStdout(), desc)
			return nil
		}
		lists = []sdmx.CodeList{l}
	}

	out := cmd.OutOrStdout()
	for _, l := range lists {
		fmt.Fprintf(out, "%s  %s\n", l.ID, l.Name)
		for _, c := range l.Codes {
			fmt.Fprintf(out, "  %-12s %s\n", c.Value, c.Description)
		}
	}
	return nil
}
