package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/pdrpinto/dirsearch"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one search strategy",
	Long: `Run a single strategy from --origin until it reaches --destination or a
directory holding --marker, the run-time budget expires, or the tree is
exhausted.`,
	Args: cobra.NoArgs,
	RunE: runSearch,
}

func init() {
	runCmd.Flags().StringP("strategy", "s", "", "Strategy: astar, dijkstra, bidirectional, bfo or venom")
	bindFlag(runCmd.Flags(), "strategy", "strategy")
}

func runSearch(cmd *cobra.Command, args []string) error {
	params, err := cfg.Params()
	if err != nil {
		return err
	}
	out, closeSinks, err := openSinks(afero.NewOsFs(), cfg.Results)
	defer func() {
		if cerr := closeSinks(); cerr != nil {
			logger.Warn("closing sinks", zap.Error(cerr))
		}
	}()
	if err != nil {
		return err
	}

	res, err := dirsearch.Run(cmd.Context(), newNamespace(nil), cfg.Origin, cfg.Destination, cfg.Marker, params,
		dirsearch.WithSink(out), dirsearch.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("%s: %w", params.Strategy, err)
	}
	printResult(cmd.OutOrStdout(), res)
	return nil
}

func statusColor(s dirsearch.Status) *color.Color {
	switch s {
	case dirsearch.StatusFound:
		return color.New(color.FgGreen, color.Bold)
	case dirsearch.StatusCancelled:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}

func printResult(w io.Writer, res dirsearch.Result) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	fmt.Fprintf(w, "\n%s\n", cyan(fmt.Sprintf("=== %s ===", res.Strategy)))
	fmt.Fprintf(w, "Run ID:          %s\n", res.RunID)
	fmt.Fprintf(w, "Status:          %s\n", statusColor(res.Status).Sprint(res.Status))
	fmt.Fprintf(w, "Elapsed:         %s\n", res.Elapsed)
	fmt.Fprintf(w, "Path length:     %d\n", len(res.Path))
	fmt.Fprintf(w, "Infected nodes:  %s\n", humanize.Comma(int64(res.InfectedNodes)))
	fmt.Fprintf(w, "Infected files:  %s\n", humanize.Comma(int64(res.InfectedFiles)))
	if res.Strategy == dirsearch.StrategyVenom {
		fmt.Fprintf(w, "Toxins:          %d myotoxin (%d files bypassed), %d neurotoxin (%d files locked)\n",
			res.Toxins.Myotoxin, res.Toxins.Bypassed, res.Toxins.Neurotoxin, res.Toxins.Locked)
	}
	if len(res.Path) > 0 {
		fmt.Fprintf(w, "Path:\n  %s\n", strings.Join(res.Path, "\n  "))
	}
}
