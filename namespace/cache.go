package namespace

import "sync"

// FileCountCache memoises per-directory file counts. Entries are never
// invalidated: a count observed once is reused for the cache's lifetime,
// even if the directory changes afterwards.
type FileCountCache struct {
	mu     sync.RWMutex
	counts map[string]int
	hits   int
	misses int
}

func NewFileCountCache() *FileCountCache {
	return &FileCountCache{counts: make(map[string]int)}
}

// Get returns the cached count for path.
func (c *FileCountCache) Get(path string) (int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	n, ok := c.counts[path]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return n, ok
}

// Put stores a count unless one is already present.
func (c *FileCountCache) Put(path string, n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.counts[path]; !ok {
		c.counts[path] = n
	}
}

// Len is the number of cached directories.
func (c *FileCountCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.counts)
}

// Stats returns the hit and miss counters.
func (c *FileCountCache) Stats() (hits, misses int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits, c.misses
}
