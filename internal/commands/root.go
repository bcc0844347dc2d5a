package commands

import (
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/fedsheet/internal/buildinfo"
	"github.com/cleared-dev/fedsheet/internal/config"
	"github.com/cleared-dev/fedsheet/internal/h41"
	"github.com/cleared-dev/fedsheet/internal/logging"
)

type rootOptions struct {
	repoDir   string
	logLevel  string
	logFormat string
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:     "fedsheet",
		Short:   "Federal Reserve H.4.1 balance sheet exporter",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.repoDir, "repo", ".", "project directory holding "+config.FileName)
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (overrides config)")
	flags.StringVar(&opts.logFormat, "log-format", "", "log format: text or json (overrides config)")

	rootCmd.AddCommand(
		newInitCommand(),
		newFetchCommand(opts),
		newExportCommand(opts),
		newShowCommand(opts),
		newCodesCommand(opts),
		newRunsCommand(opts),
	)

	return rootCmd
}

// project is a loaded project directory: its configuration and logger.
type project struct {
	root string
	cfg  *config.Config
	log  *logrus.Logger
}

func openProject(cmd *cobra.Command, opts *rootOptions) (*project, error) {
	root, err := filepath.Abs(opts.repoDir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	cfg, err := config.LoadOrDefault(filepath.Join(root, config.FileName))
	if err != nil {
		return nil, err
	}
	if err := config.ApplyEnv(cfg, root); err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.logFormat != "" {
		cfg.Log.Format = opts.logFormat
	}

	log, err := logging.New(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	return &project{root: root, cfg: cfg, log: log}, nil
}

// path resolves a configured path against the project directory.
func (p *project) path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(p.root, rel)
}

func (p *project) outputDir() string {
	return p.path(p.cfg.Output.Dir)
}

func (p *project) dataFile() string {
	return filepath.Join(p.outputDir(), p.cfg.Source.DataFile)
}

func (p *project) structFile() string {
	return filepath.Join(p.outputDir(), p.cfg.Source.StructFile)
}

// parse reads the data file at input, or the fetched one when input is empty.
func (p *project) parse(input string) (*h41.Release, string, error) {
	if input == "" {
		input = p.dataFile()
	}
	parser, err := h41.NewParser(p.cfg.Rules(), p.log)
	if err != nil {
		return nil, "", err
	}
	rel, err := parser.ParseFile(input)
	if err != nil {
		return nil, "", err
	}
	return rel, input, nil
}
