package namespace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/spf13/afero"
	"golang.org/x/time/rate"
)

// FS is an Accessor backed by an afero filesystem.
type FS struct {
	fs      afero.Fs
	cache   *FileCountCache
	limiter *rate.Limiter
}

// FSOption configures an FS.
type FSOption func(*FS)

// WithCache shares an existing file-count cache, e.g. across runs.
func WithCache(cache *FileCountCache) FSOption {
	return func(f *FS) {
		if cache != nil {
			f.cache = cache
		}
	}
}

// MinReadsPerSecond is the slowest accepted throttle. A slower rate would
// let a single read outlast one expansion's worth of cancellation latency.
const MinReadsPerSecond = 1.0

// maxReadWait bounds one throttled read.
const maxReadWait = time.Second

// WithReadsPerSecond throttles directory reads. Rates below
// MinReadsPerSecond are raised to it; zero or negative disables throttling.
func WithReadsPerSecond(perSecond float64) FSOption {
	return func(f *FS) {
		if perSecond <= 0 {
			f.limiter = nil
			return
		}
		perSecond = max(perSecond, MinReadsPerSecond)
		f.limiter = rate.NewLimiter(rate.Limit(perSecond), int(perSecond))
	}
}

// NewFS wraps fsys. Use afero.NewOsFs() for the host filesystem.
func NewFS(fsys afero.Fs, options ...FSOption) *FS {
	f := &FS{fs: fsys, cache: NewFileCountCache()}
	for _, option := range options {
		option(f)
	}
	return f
}

// NewOsFS is NewFS over the host filesystem.
func NewOsFS(options ...FSOption) *FS {
	return NewFS(afero.NewOsFs(), options...)
}

// Cache exposes the file-count cache so it can be shared.
func (f *FS) Cache() *FileCountCache { return f.cache }

func (f *FS) throttle() {
	if f.limiter == nil {
		return
	}
	if d := f.limiter.Reserve().Delay(); d > 0 {
		time.Sleep(min(d, maxReadWait))
	}
}

func (f *FS) readDir(path string) ([]os.FileInfo, error) {
	f.throttle()
	infos, err := afero.ReadDir(f.fs, path)
	if err != nil {
		return nil, classify(path, err)
	}
	return infos, nil
}

// Children implements Accessor. Results are sorted by name.
func (f *FS) Children(path string) ([]string, error) {
	infos, err := f.readDir(path)
	if err != nil {
		return nil, err
	}
	var dirs []string
	for _, info := range infos {
		if info.IsDir() {
			dirs = append(dirs, filepath.Join(path, info.Name()))
		}
	}
	sort.Strings(dirs)
	return dirs, nil
}

// FileCount implements Accessor. Successful counts are cached.
func (f *FS) FileCount(path string) (int, error) {
	if n, ok := f.cache.Get(path); ok {
		return n, nil
	}
	infos, err := f.readDir(path)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, info := range infos {
		if info.Mode().IsRegular() {
			n++
		}
	}
	f.cache.Put(path, n)
	return n, nil
}

// Files implements Accessor.
func (f *FS) Files(path string) ([]string, error) {
	infos, err := f.readDir(path)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, info := range infos {
		if info.Mode().IsRegular() {
			files = append(files, filepath.Join(path, info.Name()))
		}
	}
	return files, nil
}

// HasItem implements Accessor.
func (f *FS) HasItem(path, name string) bool {
	if name == "" {
		return false
	}
	info, err := f.fs.Stat(filepath.Join(path, name))
	return err == nil && info.Mode().IsRegular()
}

// ModTime implements Accessor.
func (f *FS) ModTime(path string) (time.Time, error) {
	info, err := f.fs.Stat(path)
	if err != nil {
		return time.Time{}, classify(path, err)
	}
	return info.ModTime(), nil
}

// Exists implements Accessor.
func (f *FS) Exists(path string) bool {
	ok, err := afero.Exists(f.fs, path)
	return err == nil && ok
}

func classify(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %s: %w", ErrAccessDenied, path, err)
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s: %w", ErrVanished, path, err)
	default:
		return fmt.Errorf("namespace: read %s: %w", path, err)
	}
}
