// Package config loads dirsearch settings from defaults, an optional config
// file, DIRSEARCH_* environment variables and bound command-line flags, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pdrpinto/dirsearch"
	"github.com/pdrpinto/dirsearch/namespace"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "DIRSEARCH"

// Config represents the complete dirsearch configuration.
type Config struct {
	Origin              string          `mapstructure:"origin" yaml:"origin"`
	Destination         string          `mapstructure:"destination" yaml:"destination"`
	Marker              string          `mapstructure:"marker" yaml:"marker"`
	Strategy            string          `mapstructure:"strategy" yaml:"strategy"`
	RunTime             time.Duration   `mapstructure:"runTime" yaml:"runTime"`
	Milestones          []int           `mapstructure:"milestones" yaml:"milestones"`
	Seed                uint64          `mapstructure:"seed" yaml:"seed"`
	Smooth              bool            `mapstructure:"smooth" yaml:"smooth"`
	GrandparentFallback bool            `mapstructure:"grandparentFallback" yaml:"grandparentFallback"`
	Forage              ForageConfig    `mapstructure:"forage" yaml:"forage"`
	Namespace           NamespaceConfig `mapstructure:"namespace" yaml:"namespace"`
	Results             ResultsConfig   `mapstructure:"results" yaml:"results"`
	Compare             CompareConfig   `mapstructure:"compare" yaml:"compare"`
	Logging             LoggingConfig   `mapstructure:"logging" yaml:"logging"`
}

// ForageConfig mirrors dirsearch.ForageParams for the config file.
type ForageConfig struct {
	Population           int     `mapstructure:"population" yaml:"population"`
	Exploration          float64 `mapstructure:"exploration" yaml:"exploration"`
	ReproductionEvery    int     `mapstructure:"reproductionEvery" yaml:"reproductionEvery"`
	DispersalEvery       int     `mapstructure:"dispersalEvery" yaml:"dispersalEvery"`
	DispersalProbability float64 `mapstructure:"dispersalProbability" yaml:"dispersalProbability"`
	HealthGain           float64 `mapstructure:"healthGain" yaml:"healthGain"`
	HealthDecrement      float64 `mapstructure:"healthDecrement" yaml:"healthDecrement"`
	MaxRounds            int     `mapstructure:"maxRounds" yaml:"maxRounds"`
	MaxDepth             int     `mapstructure:"maxDepth" yaml:"maxDepth"`
}

func forageConfigFrom(p dirsearch.ForageParams) ForageConfig {
	return ForageConfig(p)
}

// Params converts the section to engine parameters.
func (f ForageConfig) Params() dirsearch.ForageParams {
	return dirsearch.ForageParams(f)
}

// NamespaceConfig tunes filesystem access.
type NamespaceConfig struct {
	// ReadsPerSecond throttles directory reads; zero disables throttling and
	// anything else must be at least namespace.MinReadsPerSecond.
	ReadsPerSecond float64 `mapstructure:"readsPerSecond" yaml:"readsPerSecond"`
}

// ResultsConfig selects the sinks. Empty paths disable a sink.
type ResultsConfig struct {
	Dir    string `mapstructure:"dir" yaml:"dir"`
	Text   bool   `mapstructure:"text" yaml:"text"`
	JSONL  string `mapstructure:"jsonl" yaml:"jsonl"`
	SQLite string `mapstructure:"sqlite" yaml:"sqlite"`
}

// CompareConfig controls the compare command.
type CompareConfig struct {
	Strategies []string      `mapstructure:"strategies" yaml:"strategies"`
	Parallel   bool          `mapstructure:"parallel" yaml:"parallel"`
	Cooldown   time.Duration `mapstructure:"cooldown" yaml:"cooldown"`
	// Census is a root to walk once for coverage percentages; empty skips it.
	Census     string        `mapstructure:"census" yaml:"census"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	params := dirsearch.DefaultParams()
	strategies := make([]string, 0, len(dirsearch.Strategies()))
	for _, s := range dirsearch.Strategies() {
		strategies = append(strategies, string(s))
	}
	return &Config{
		Strategy:            string(params.Strategy),
		RunTime:             10 * time.Minute,
		Milestones:          []int{1000, 2000, 5000, 10000},
		Smooth:              params.Smooth,
		GrandparentFallback: params.GrandparentFallback,
		Forage:              forageConfigFrom(params.Forage),
		Results: ResultsConfig{
			Dir:  "results",
			Text: true,
		},
		Compare: CompareConfig{
			Strategies: strategies,
			Cooldown:   2 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// New returns a viper instance carrying every default and wired to the
// DIRSEARCH_ environment. Flags may be bound to it before Load.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("origin", d.Origin)
	v.SetDefault("destination", d.Destination)
	v.SetDefault("marker", d.Marker)
	v.SetDefault("strategy", d.Strategy)
	v.SetDefault("runTime", d.RunTime)
	v.SetDefault("milestones", d.Milestones)
	v.SetDefault("seed", d.Seed)
	v.SetDefault("smooth", d.Smooth)
	v.SetDefault("grandparentFallback", d.GrandparentFallback)

	v.SetDefault("forage.population", d.Forage.Population)
	v.SetDefault("forage.exploration", d.Forage.Exploration)
	v.SetDefault("forage.reproductionEvery", d.Forage.ReproductionEvery)
	v.SetDefault("forage.dispersalEvery", d.Forage.DispersalEvery)
	v.SetDefault("forage.dispersalProbability", d.Forage.DispersalProbability)
	v.SetDefault("forage.healthGain", d.Forage.HealthGain)
	v.SetDefault("forage.healthDecrement", d.Forage.HealthDecrement)
	v.SetDefault("forage.maxRounds", d.Forage.MaxRounds)
	v.SetDefault("forage.maxDepth", d.Forage.MaxDepth)

	v.SetDefault("namespace.readsPerSecond", d.Namespace.ReadsPerSecond)

	v.SetDefault("results.dir", d.Results.Dir)
	v.SetDefault("results.text", d.Results.Text)
	v.SetDefault("results.jsonl", d.Results.JSONL)
	v.SetDefault("results.sqlite", d.Results.SQLite)

	v.SetDefault("compare.strategies", d.Compare.Strategies)
	v.SetDefault("compare.parallel", d.Compare.Parallel)
	v.SetDefault("compare.cooldown", d.Compare.Cooldown)
	v.SetDefault("compare.census", d.Compare.Census)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
}

// Load reads configFile, or dirsearch.{yaml,json,toml} from the working
// directory and $HOME/.dirsearch when configFile is empty. A missing
// default file is not an error.
func Load(v *viper.Viper, configFile string) (*Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("dirsearch")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.dirsearch")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// Params converts the search section to engine parameters.
func (c *Config) Params() (dirsearch.Params, error) {
	strategy, err := dirsearch.ParseStrategy(c.Strategy)
	if err != nil {
		return dirsearch.Params{}, err
	}
	p := dirsearch.Params{
		Strategy:            strategy,
		RunTime:             c.RunTime,
		Milestones:          append([]int(nil), c.Milestones...),
		Seed:                c.Seed,
		Forage:              c.Forage.Params(),
		Smooth:              c.Smooth,
		GrandparentFallback: c.GrandparentFallback,
	}
	if r := c.Namespace.ReadsPerSecond; r > 0 && r < namespace.MinReadsPerSecond {
		return dirsearch.Params{}, fmt.Errorf("%w: reads per second %v is below %v",
			dirsearch.ErrInvalidParams, r, namespace.MinReadsPerSecond)
	}
	return p, p.Validate()
}

// YAML renders the effective configuration.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c)
}
