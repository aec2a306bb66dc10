package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pdrpinto/dirsearch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	file := filepath.Join(t.TempDir(), "dirsearch.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
strategy: bfo
runTime: 30s
milestones: [5, 50]
forage:
  population: 4
results:
  sqlite: out/results.db
`), 0o644))

	cfg, err := Load(New(), file)
	require.NoError(t, err)
	assert.Equal(t, "bfo", cfg.Strategy)
	assert.Equal(t, 30*time.Second, cfg.RunTime)
	assert.Equal(t, []int{5, 50}, cfg.Milestones)
	assert.Equal(t, 4, cfg.Forage.Population)
	assert.Equal(t, 0.2, cfg.Forage.Exploration)
	assert.Equal(t, "out/results.db", cfg.Results.SQLite)
	assert.True(t, cfg.Results.Text)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "dirsearch.yaml")
	require.NoError(t, os.WriteFile(file, []byte("strategy: bfo\n"), 0o644))
	t.Setenv("DIRSEARCH_STRATEGY", "dijkstra")
	t.Setenv("DIRSEARCH_FORAGE_POPULATION", "7")
	t.Setenv("DIRSEARCH_LOGGING_LEVEL", "debug")
	t.Setenv("DIRSEARCH_COMPARE_CENSUS", "/srv/tree")

	cfg, err := Load(New(), file)
	require.NoError(t, err)
	assert.Equal(t, "dijkstra", cfg.Strategy)
	assert.Equal(t, 7, cfg.Forage.Population)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/srv/tree", cfg.Compare.Census)
}

func TestLoad_ExplicitMissingFileFails(t *testing.T) {
	_, err := Load(New(), filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestConfig_Params(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Strategy = "ebs"
	p, err := cfg.Params()
	require.NoError(t, err)
	assert.Equal(t, dirsearch.StrategyBidirectional, p.Strategy)

	cfg.Strategy = "bfo"
	cfg.Forage.Population = 0
	_, err = cfg.Params()
	assert.ErrorIs(t, err, dirsearch.ErrInvalidParams)

	cfg.Strategy = "greedy"
	_, err = cfg.Params()
	assert.ErrorIs(t, err, dirsearch.ErrUnknownStrategy)
}

func TestConfig_YAMLRoundTrip(t *testing.T) {
	data, err := DefaultConfig().YAML()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, "astar", decoded["strategy"])
	assert.Equal(t, "10m0s", decoded["runTime"])
	assert.Contains(t, decoded, "forage")
}

func TestConfig_ParamsRejectsSlowThrottle(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Namespace.ReadsPerSecond = 0.5
	_, err := cfg.Params()
	assert.ErrorIs(t, err, dirsearch.ErrInvalidParams)

	cfg.Namespace.ReadsPerSecond = 2
	_, err = cfg.Params()
	assert.NoError(t, err)
}

func TestForageConfig_MirrorsEngineParams(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, dirsearch.DefaultForageParams(), cfg.Forage.Params())

	cfg.Forage.MaxDepth = 12
	p, err := cfg.Params()
	require.NoError(t, err)
	assert.Equal(t, 12, p.Forage.MaxDepth)
}
