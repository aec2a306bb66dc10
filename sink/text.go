package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/afero"
)

// TextSink appends a human readable block per record to <strategy>.txt in
// dir. Successive blocks in the same file are separated by a blank line.
type TextSink struct {
	fs  afero.Fs
	dir string

	mu sync.Mutex
}

// NewTextSink writes results files under dir on fsys.
func NewTextSink(fsys afero.Fs, dir string) *TextSink {
	return &TextSink{fs: fsys, dir: dir}
}

func (s *TextSink) Emit(_ context.Context, record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fs.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create results dir: %w", err)
	}
	name := filepath.Join(s.dir, record.Strategy+".txt")
	existed, err := afero.Exists(s.fs, name)
	if err != nil {
		return fmt.Errorf("stat %s: %w", name, err)
	}
	f, err := s.fs.OpenFile(name, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	block := formatBlock(record)
	if existed {
		block = "\n\n" + block
	}
	if _, err := f.WriteString(block); err != nil {
		return fmt.Errorf("append %s: %w", name, err)
	}
	return nil
}

func formatBlock(r Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s Results\n\n", r.Trigger)
	fmt.Fprintf(&b, "%s\n", r.Strategy)
	fmt.Fprintf(&b, "Run ID: %s\n", r.RunID)
	fmt.Fprintf(&b, "Time Recorded: %s\n", r.RecordedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Elapsed time: %s\n", r.Elapsed)
	fmt.Fprintf(&b, "Path: [%s]\n", strings.Join(r.Path, ", "))
	fmt.Fprintf(&b, "Path Length: %d\n", len(r.Path))
	if r.IsFinal() {
		fmt.Fprintf(&b, "Path Found: %t\n", r.Found)
	}
	fmt.Fprintf(&b, "Infected Files: %d\n", r.InfectedFiles)
	fmt.Fprintf(&b, "Infected Nodes: %d\n", r.InfectedNodes)
	return b.String()
}
