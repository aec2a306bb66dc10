package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/pdrpinto/dirsearch"
	"github.com/pdrpinto/dirsearch/namespace"
	"github.com/pdrpinto/dirsearch/sink"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "Run several strategies on the same tree and compare them",
	Long: `Run every configured strategy from the same origin and print a comparison
table. Runs share a file-count cache. By default they run one after another
with a cooldown in between; --parallel runs them concurrently.

With --census the tree under the given directory is walked once to report
each strategy's share of visited directories and infected files.`,
	Args: cobra.NoArgs,
	RunE: runCompare,
}

func init() {
	f := compareCmd.Flags()
	f.StringSlice("strategies", nil, "Strategies to compare (default: all)")
	f.Bool("parallel", false, "Run strategies concurrently")
	f.Duration("cooldown", 0, "Pause between sequential runs")
	f.String("census", "", "Count directories and files under this root for coverage percentages")
	bindFlag(f, "compare.strategies", "strategies")
	bindFlag(f, "compare.parallel", "parallel")
	bindFlag(f, "compare.cooldown", "cooldown")
	bindFlag(f, "compare.census", "census")
}

func runCompare(cmd *cobra.Command, args []string) error {
	base, err := cfg.Params()
	if err != nil {
		return err
	}
	var strategies []dirsearch.Strategy
	for _, name := range cfg.Compare.Strategies {
		s, err := dirsearch.ParseStrategy(name)
		if err != nil {
			return err
		}
		if s == dirsearch.StrategyBidirectional && cfg.Destination == "" {
			logger.Warn("skipping bidirectional search without a destination")
			continue
		}
		strategies = append(strategies, s)
	}
	if len(strategies) == 0 {
		return fmt.Errorf("no strategies to compare")
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

	cache := namespace.NewFileCountCache()
	results := make([]dirsearch.Result, len(strategies))
	runOne := func(ctx context.Context, i int) error {
		params := base
		params.Strategy = strategies[i]
		if err := params.Validate(); err != nil {
			return err
		}
		res, err := dirsearch.Run(ctx, newNamespace(cache), cfg.Origin, cfg.Destination, cfg.Marker, params,
			dirsearch.WithSink(out), dirsearch.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("%s: %w", params.Strategy, err)
		}
		results[i] = res
		return nil
	}

	ctx := cmd.Context()
	if cfg.Compare.Parallel {
		g, gctx := errgroup.WithContext(ctx)
		for i := range strategies {
			g.Go(func() error { return runOne(gctx, i) })
		}
		if err := g.Wait(); err != nil {
			return err
		}
	} else {
		for i := range strategies {
			if i > 0 && cfg.Compare.Cooldown > 0 {
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(cfg.Compare.Cooldown):
				}
			}
			if err := runOne(ctx, i); err != nil {
				return err
			}
		}
	}

	var totals *treeCensus
	if census := cfg.Compare.Census; census != "" {
		c, err := takeCensus(afero.NewOsFs(), census)
		if err != nil {
			return err
		}
		totals = &c
	}
	hits, misses := cache.Stats()
	logger.Debug("file-count cache", zap.Int("hits", hits), zap.Int("misses", misses), zap.Int("entries", cache.Len()))

	printComparison(cmd.OutOrStdout(), results, totals)
	return nil
}

type treeCensus struct {
	Dirs  int
	Files int
}

// takeCensus counts directories and regular files under root. Unreadable
// entries are skipped.
func takeCensus(fsys afero.Fs, root string) (treeCensus, error) {
	var c treeCensus
	err := afero.Walk(fsys, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			c.Dirs++
		} else if info.Mode().IsRegular() {
			c.Files++
		}
		return nil
	})
	if err != nil {
		return treeCensus{}, fmt.Errorf("census of %s: %w", root, err)
	}
	return c, nil
}

// printComparison renders one row per strategy. Speed and node reduction
// are relative to the first row.
func printComparison(w io.Writer, results []dirsearch.Result, totals *treeCensus) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	gray := color.New(color.FgHiBlack).SprintFunc()

	fmt.Fprintf(w, "\n%s\n", cyan("=== Strategy comparison ==="))
	fmt.Fprintf(w, "%-14s %-10s %6s %10s %10s %12s %8s %8s",
		"STRATEGY", "STATUS", "PATH", "NODES", "FILES", "ELAPSED", "SPEED%", "NODES%")
	if totals != nil {
		fmt.Fprintf(w, " %8s %8s", "VISIT%", "EXPLOIT%")
	}
	fmt.Fprintln(w)

	baseline := results[0]
	for _, res := range results {
		status := statusColor(res.Status).Sprintf("%-10s", res.Status)
		fmt.Fprintf(w, "%-14s %s %6d %10s %10s %12s %8.1f %8.1f",
			res.Strategy,
			status,
			len(res.Path),
			humanize.Comma(int64(res.InfectedNodes)),
			humanize.Comma(int64(res.InfectedFiles)),
			res.Elapsed.Round(time.Microsecond),
			sink.SpeedPercent(baseline.Elapsed, res.Elapsed),
			sink.ReductionRate(res.InfectedNodes, baseline.InfectedNodes))
		if totals != nil {
			fmt.Fprintf(w, " %8.2f %8.2f",
				sink.VisitPercent(res.InfectedNodes, totals.Dirs),
				sink.ExploitationRate(res.InfectedFiles, totals.Files))
		}
		fmt.Fprintln(w)
	}
	if totals != nil {
		fmt.Fprintf(w, "%s\n", gray(fmt.Sprintf("census: %s directories, %s files",
			humanize.Comma(int64(totals.Dirs)), humanize.Comma(int64(totals.Files)))))
	}
}
