package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/fedsheet/internal/h41"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Output.Units = "billions"
	cfg.Source.Timeout = 30 * time.Second

	path := filepath.Join(t.TempDir(), FileName)
	err := Save(path, cfg)
	require.NoError(t, err)

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, h41.SourceURL, cfg.Source.URL)
	assert.Equal(t, "H41_data.xml", cfg.Source.DataFile)
	assert.Equal(t, "H41_struct.xml", cfg.Source.StructFile)
	assert.Equal(t, 2*time.Minute, cfg.Source.Timeout)
	assert.Equal(t, "h41", cfg.Output.Dir)
	assert.Equal(t, "millions", cfg.Output.Units)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Git.AutoCommit)
	assert.Nil(t, cfg.Feed)
	assert.Equal(t, h41.DefaultRules(), cfg.Rules())
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("output:\n  dir: exports\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "exports", cfg.Output.Dir)
	assert.Equal(t, "millions", cfg.Output.Units)
	assert.Equal(t, h41.SourceURL, cfg.Source.URL)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadOrDefault(t *testing.T) {
	cfg, err := LoadOrDefault(filepath.Join(t.TempDir(), FileName))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("output: [\n"), 0o644))

	_, err := LoadOrDefault(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestFeedRules(t *testing.T) {
	cfg := Default()
	cfg.Feed = h41.DefaultRules()
	cfg.Feed.ExcludedSeries = append(cfg.Feed.ExcludedSeries, "RESPPACOIN_N.WW")

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, got.Feed)
	assert.True(t, got.Rules().IsExcluded("RESPPACOIN_N.WW"))
}

func TestFeedRulesInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("feed:\n  active_status: A\n"), 0o644))

	_, err := Load(path)
	require.ErrorIs(t, err, h41.ErrInvalidRules)
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "data_file: H41_data.xml")
	assert.Contains(t, contents, "timeout: 2m0s")
	assert.Contains(t, contents, "units: millions")
	assert.Contains(t, contents, "auto_commit: false")
	assert.NotContains(t, contents, "feed:")
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvSourceURL, "http://localhost/h41.zip")
	t.Setenv(EnvLogLevel, "")

	cfg := Default()
	require.NoError(t, ApplyEnv(cfg, t.TempDir()))
	assert.Equal(t, "http://localhost/h41.zip", cfg.Source.URL)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestApplyEnvDotEnv(t *testing.T) {
	// Restored when the test ends; godotenv only fills unset variables.
	t.Setenv(EnvOutputDir, "")
	require.NoError(t, os.Unsetenv(EnvOutputDir))

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(EnvOutputDir+"=from-dotenv\n"), 0o644))

	cfg := Default()
	require.NoError(t, ApplyEnv(cfg, dir))
	assert.Equal(t, "from-dotenv", cfg.Output.Dir)
}

func TestApplyEnvBadDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".env"), 0o755))

	err := ApplyEnv(Default(), dir)
	require.Error(t, err)
}
