package dirsearch

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pdrpinto/dirsearch/namespace"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// buildTree creates an in-memory tree. Entries without an extension are
// directories, the rest are one-byte files. Every directory is stamped
// with a modification time in the future so recency scores are stable.
func buildTree(t *testing.T, entries ...string) *namespace.FS {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for _, e := range entries {
		if filepath.Ext(e) == "" {
			require.NoError(t, fsys.MkdirAll(e, 0o755))
			continue
		}
		require.NoError(t, fsys.MkdirAll(filepath.Dir(e), 0o755))
		require.NoError(t, afero.WriteFile(fsys, e, []byte("x"), 0o644))
	}
	future := time.Now().Add(48 * time.Hour)
	require.NoError(t, afero.Walk(fsys, "/", func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return fsys.Chtimes(path, future, future)
		}
		return nil
	}))
	return namespace.NewFS(fsys)
}

// denyAccessor refuses every read at or below denied.
type denyAccessor struct {
	namespace.Accessor
	denied string
}

func (d denyAccessor) blocked(path string) bool {
	return path == d.denied || namespace.IsAncestor(d.denied, path)
}

func (d denyAccessor) refuse(path string) error {
	return fmt.Errorf("%s: %w", path, namespace.ErrAccessDenied)
}

func (d denyAccessor) Children(path string) ([]string, error) {
	if d.blocked(path) {
		return nil, d.refuse(path)
	}
	return d.Accessor.Children(path)
}

func (d denyAccessor) FileCount(path string) (int, error) {
	if d.blocked(path) {
		return 0, d.refuse(path)
	}
	return d.Accessor.FileCount(path)
}

func (d denyAccessor) Files(path string) ([]string, error) {
	if d.blocked(path) {
		return nil, d.refuse(path)
	}
	return d.Accessor.Files(path)
}

func (d denyAccessor) ModTime(path string) (time.Time, error) {
	if d.blocked(path) {
		return time.Time{}, d.refuse(path)
	}
	return d.Accessor.ModTime(path)
}

func (d denyAccessor) HasItem(path, name string) bool {
	return !d.blocked(path) && d.Accessor.HasItem(path, name)
}

// slowAccessor makes every directory listing take delay.
type slowAccessor struct {
	namespace.Accessor
	delay time.Duration
}

func (s slowAccessor) Children(path string) ([]string, error) {
	time.Sleep(s.delay)
	return s.Accessor.Children(path)
}

// listingRecorder remembers, in order, every directory whose files were
// listed. Frontier engines list files exactly once per expansion.
type listingRecorder struct {
	namespace.Accessor
	listed []string
}

func (l *listingRecorder) Files(path string) ([]string, error) {
	l.listed = append(l.listed, path)
	return l.Accessor.Files(path)
}

func paramsFor(strategy Strategy) Params {
	p := DefaultParams()
	p.Strategy = strategy
	p.Seed = 42
	return p
}

// requireContiguous checks that every hop moves to a child or the parent.
func requireContiguous(t *testing.T, path []string) {
	t.Helper()
	for i := 1; i < len(path); i++ {
		a, b := path[i-1], path[i]
		require.Truef(t, namespace.Parent(b) == a || namespace.Parent(a) == b,
			"hop %d (%s -> %s) is not an edge", i, a, b)
	}
}
