package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdrpinto/dirsearch/internal/config"
	"github.com/pdrpinto/dirsearch/namespace"
	"github.com/pdrpinto/dirsearch/sink"
	"github.com/spf13/afero"
)

// openSinks builds every configured sink on fsys. The returned close
// function is always safe to call.
func openSinks(fsys afero.Fs, results config.ResultsConfig) (sink.Sink, func() error, error) {
	var (
		sinks   sink.Multi
		closers []io.Closer
	)
	closeAll := func() error {
		var errs []error
		for _, c := range closers {
			errs = append(errs, c.Close())
		}
		return errors.Join(errs...)
	}

	if results.Text {
		sinks = append(sinks, sink.NewTextSink(fsys, results.Dir))
	}
	if results.JSONL != "" {
		if err := fsys.MkdirAll(filepath.Dir(results.JSONL), 0o755); err != nil {
			return nil, closeAll, fmt.Errorf("create jsonl directory: %w", err)
		}
		f, err := fsys.OpenFile(results.JSONL, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, closeAll, fmt.Errorf("open jsonl output: %w", err)
		}
		closers = append(closers, f)
		sinks = append(sinks, sink.NewJSONLSink(f))
	}
	if results.SQLite != "" {
		db, err := sink.OpenSQLiteSink(fsys, results.SQLite)
		if err != nil {
			return nil, closeAll, err
		}
		closers = append(closers, db)
		sinks = append(sinks, db)
	}
	return sinks, closeAll, nil
}

func newNamespace(cache *namespace.FileCountCache) *namespace.FS {
	return namespace.NewOsFS(
		namespace.WithCache(cache),
		namespace.WithReadsPerSecond(cfg.Namespace.ReadsPerSecond),
	)
}
