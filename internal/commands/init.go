package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/fedsheet/internal/config"
	"github.com/cleared-dev/fedsheet/internal/gitops"
	"github.com/cleared-dev/fedsheet/internal/h41"
)

func newInitCommand() *cobra.Command {
	var force bool
	var git bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new fedsheet project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd, absDir, force, git)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing "+config.FileName)
	cmd.Flags().BoolVar(&git, "git", true, "initialize a git repository and commit the project files")

	return cmd
}

func runInit(cmd *cobra.Command, dir string, force, git bool) error {
	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", cfgPath)
	}

	cfg := config.Default()
	cfg.Feed = h41.DefaultRules()

	for _, d := range []string{cfg.Output.Dir, "logs"} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	// Write fedsheet.yaml.
	if err := config.Save(cfgPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// The release archive and its XML members are large and re-downloadable.
	gitignore := fmt.Sprintf("%s/\n%s/%s\n%s/%s\n.env\n",
		cfg.Source.CacheDir,
		cfg.Output.Dir, cfg.Source.DataFile,
		cfg.Output.Dir, cfg.Source.StructFile,
	)
	gitignorePath := filepath.Join(dir, ".gitignore")
	if err := os.WriteFile(gitignorePath, []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	if !git {
		fmt.Fprintf(cmd.OutOrStdout(), "Initialized fedsheet project at %s\n", dir)
		return nil
	}

	if !gitops.IsRepo(dir) {
		if err := gitops.Init(dir); err != nil {
			return err
		}
	}

	author := gitops.Author{Name: cfg.Git.AuthorName, Email: cfg.Git.AuthorEmail}
	hash, err := gitops.CommitFiles(dir, []string{cfgPath, gitignorePath}, "init: fedsheet project", author)
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized fedsheet project at %s (%s)\n", dir, hash)
	return nil
}
