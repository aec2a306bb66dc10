package main

import (
	"fmt"

	"github.com/pdrpinto/dirsearch/internal/config"
	"github.com/pdrpinto/dirsearch/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

var (
	// Global flags
	cfgFile string
	verbose bool

	v      = config.New()
	cfg    *config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "dirsearch",
	Short: "Search a directory tree for a target using graph-search strategies",
	Long: `dirsearch treats a directory tree as a graph and searches it from an
origin directory for a destination directory or a marker file.

Strategies: astar, dijkstra, bidirectional, bfo (bacterial foraging) and
venom. Each run reports the path walked, the directories expanded and the
files observed, and can append results to text, JSON lines or SQLite.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(v, cfgFile)
		if err != nil {
			return err
		}
		cfg = loaded

		l, err := logging.New(cfg.Logging.Level, cfg.Logging.Format, verbose)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// bindFlag ties a flag to a config key so the flag wins over file and env.
func bindFlag(flags *pflag.FlagSet, key, name string) {
	if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", name, err))
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Config file (default: ./dirsearch.yaml or $HOME/.dirsearch/dirsearch.yaml)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	pf.String("origin", "", "Directory to start from")
	pf.String("destination", "", "Directory to reach")
	pf.String("marker", "", "File name whose presence marks a goal directory")
	pf.Duration("run-time", 0, "Run-time budget per strategy (0 = unlimited)")
	pf.IntSlice("milestones", nil, "Infected-file thresholds that trigger a progress record")
	pf.Uint64("seed", 0, "Random seed (0 = time-derived)")
	pf.Float64("reads-per-second", 0, "Throttle directory reads (0 = unthrottled)")
	pf.String("results-dir", "", "Directory for per-strategy text results")
	pf.Bool("text", true, "Append text results per strategy")
	pf.String("jsonl", "", "Append JSON-lines records to this file")
	pf.String("sqlite", "", "Store records in this SQLite database")
	pf.String("log-level", "", "Log level (debug, info, warn, error)")
	pf.String("log-format", "", "Log format (console or json)")

	bindFlag(pf, "origin", "origin")
	bindFlag(pf, "destination", "destination")
	bindFlag(pf, "marker", "marker")
	bindFlag(pf, "runTime", "run-time")
	bindFlag(pf, "milestones", "milestones")
	bindFlag(pf, "seed", "seed")
	bindFlag(pf, "namespace.readsPerSecond", "reads-per-second")
	bindFlag(pf, "results.dir", "results-dir")
	bindFlag(pf, "results.text", "text")
	bindFlag(pf, "results.jsonl", "jsonl")
	bindFlag(pf, "results.sqlite", "sqlite")
	bindFlag(pf, "logging.level", "log-level")
	bindFlag(pf, "logging.format", "log-format")

	rootCmd.AddCommand(runCmd, compareCmd, configCmd)
}
