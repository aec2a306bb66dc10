package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/pdrpinto/dirsearch"
	"github.com/pdrpinto/dirsearch/internal/config"
	"github.com/pdrpinto/dirsearch/sink"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTakeCensus(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll("/r/a/b", 0o755))
	require.NoError(t, afero.WriteFile(fsys, "/r/one.txt", nil, 0o644))
	require.NoError(t, afero.WriteFile(fsys, "/r/a/b/two.txt", nil, 0o644))

	c, err := takeCensus(fsys, "/r")
	require.NoError(t, err)
	assert.Equal(t, treeCensus{Dirs: 3, Files: 2}, c)
}

func TestPrintComparison(t *testing.T) {
	color.NoColor = true
	results := []dirsearch.Result{
		{Strategy: dirsearch.StrategyAStar, Status: dirsearch.StatusFound, Path: []string{"/a", "/a/b"},
			InfectedNodes: 4, InfectedFiles: 1200, Elapsed: 2 * time.Second},
		{Strategy: dirsearch.StrategyDijkstra, Status: dirsearch.StatusExhausted,
			InfectedNodes: 2, InfectedFiles: 10, Elapsed: time.Second},
	}

	var buf bytes.Buffer
	printComparison(&buf, results, &treeCensus{Dirs: 8, Files: 2400})
	out := buf.String()
	assert.Contains(t, out, "astar")
	assert.Contains(t, out, "1,200")
	assert.Contains(t, out, "exhausted")
	assert.Contains(t, out, "50.0")
	assert.Contains(t, out, "census: 8 directories, 2,400 files")
}

func TestPrintResult_Venom(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	printResult(&buf, dirsearch.Result{
		Strategy: dirsearch.StrategyVenom,
		Status:   dirsearch.StatusCancelled,
		Path:     []string{"/o"},
		Toxins:   dirsearch.ToxinCounts{Myotoxin: 1, Bypassed: 3},
	})
	assert.Contains(t, buf.String(), "cancelled")
	assert.Contains(t, buf.String(), "1 myotoxin (3 files bypassed)")
}

func TestOpenSinks_WritesThroughFs(t *testing.T) {
	fsys := afero.NewMemMapFs()
	out, closeSinks, err := openSinks(fsys, config.ResultsConfig{
		Dir:   "/results",
		Text:  true,
		JSONL: "/results/jsonl/records.jsonl",
	})
	require.NoError(t, err)
	require.NoError(t, out.Emit(context.Background(), sink.Record{
		RunID:    "run-1",
		Strategy: "astar",
		Trigger:  sink.TriggerFinal,
		Path:     []string{"/a"},
	}))
	require.NoError(t, closeSinks())

	for _, name := range []string{"/results/astar.txt", "/results/jsonl/records.jsonl"} {
		data, err := afero.ReadFile(fsys, name)
		require.NoError(t, err, name)
		assert.Contains(t, string(data), "run-1", name)
	}
}
