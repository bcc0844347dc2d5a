package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/fedsheet/internal/h41"
)

// FileName is the configuration file looked up in the working directory.
const FileName = "fedsheet.yaml"

// Environment variables that override the configuration file.
const (
	EnvSourceURL = "FEDSHEET_SOURCE_URL"
	EnvOutputDir = "FEDSHEET_OUTPUT_DIR"
	EnvLogLevel  = "FEDSHEET_LOG_LEVEL"
)

// Config represents the top-level fedsheet.yaml configuration.
type Config struct {
	Source SourceConfig `yaml:"source"`
	Output OutputConfig `yaml:"output"`
	Log    LogConfig    `yaml:"log"`
	Git    GitConfig    `yaml:"git"`
	// Feed overrides the built-in H.4.1 rules when set.
	Feed *h41.Rules `yaml:"feed,omitempty"`
}

// SourceConfig locates the release archive and its members.
type SourceConfig struct {
	URL        string        `yaml:"url"`
	DataFile   string        `yaml:"data_file"`
	StructFile string        `yaml:"struct_file"`
	CacheDir   string        `yaml:"cache_dir"`
	Timeout    time.Duration `yaml:"timeout"`
}

// OutputConfig controls where and how exports are written.
type OutputConfig struct {
	Dir   string `yaml:"dir"`
	Units string `yaml:"units"` // millions, billions or trillions
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

// GitConfig controls git integration.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a fedsheet.yaml file from disk. Fields missing from the file
// keep their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Feed != nil {
		if err := cfg.Feed.Validate(); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}
	return cfg, nil
}

// LoadOrDefault loads path, falling back to Default when it does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// ApplyEnv loads the optional .env file in dir into the environment and
// applies the FEDSHEET_* overrides to cfg. Variables already set in the
// environment win over .env entries.
func ApplyEnv(cfg *Config, dir string) error {
	err := godotenv.Load(filepath.Join(dir, ".env"))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading .env: %w", err)
	}
	if v := os.Getenv(EnvSourceURL); v != "" {
		cfg.Source.URL = v
	}
	if v := os.Getenv(EnvOutputDir); v != "" {
		cfg.Output.Dir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
	return nil
}

// Rules returns the feed rules to parse with.
func (c *Config) Rules() *h41.Rules {
	if c.Feed != nil {
		return c.Feed
	}
	return h41.DefaultRules()
}

// Default returns a Config with sensible defaults for a new project.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			URL:        h41.SourceURL,
			DataFile:   h41.DataFile,
			StructFile: h41.StructFile,
			CacheDir:   ".fedsheet-cache",
			Timeout:    2 * time.Minute,
		},
		Output: OutputConfig{
			Dir:   "h41",
			Units: "millions",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Git: GitConfig{
			AutoCommit:  false,
			AuthorName:  "fedsheet",
			AuthorEmail: "fedsheet@localhost",
		},
	}
}
