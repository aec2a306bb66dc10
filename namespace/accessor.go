// Package namespace is the boundary between the search engines and the
// directory tree they walk.
//
// Engines only see the Accessor interface. FS implements it over an
// afero.Fs so the same code runs against the host filesystem or an
// in-memory tree.
package namespace

import (
	"errors"
	"time"
)

var (
	// ErrAccessDenied is returned when a path may not be read.
	ErrAccessDenied = errors.New("namespace: access denied")
	// ErrVanished is returned when a path no longer exists.
	ErrVanished = errors.New("namespace: path vanished")
)

// Accessor enumerates and inspects directories. Implementations must fail
// fast on denial or absence instead of blocking.
type Accessor interface {
	// Children lists child directory paths in a stable order.
	Children(path string) ([]string, error)
	// FileCount is the number of regular files directly inside path.
	FileCount(path string) (int, error)
	// Files lists the full paths of regular files directly inside path.
	Files(path string) ([]string, error)
	// HasItem reports whether a regular file called name sits in path.
	HasItem(path, name string) bool
	ModTime(path string) (time.Time, error)
	Exists(path string) bool
}

// Status marks whether a neighbour has been expanded by the caller.
type Status int

const (
	Unvisited Status = iota
	Visited
)

func (s Status) String() string {
	if s == Visited {
		return "visited"
	}
	return "unvisited"
}

// NeighborRecord describes one child directory at enumeration time.
// Records are built fresh on every call and are not meant to be kept.
type NeighborRecord struct {
	Path      string
	FileCount int
	Status    Status
}

// Neighbors enumerates the children of path with their file counts.
// visited may be nil. A failed enumeration yields no records and a child
// whose count cannot be read is dropped; neither is reported as an error.
func Neighbors(acc Accessor, path string, visited func(string) bool) []NeighborRecord {
	children, err := acc.Children(path)
	if err != nil {
		return nil
	}
	records := make([]NeighborRecord, 0, len(children))
	for _, child := range children {
		count, err := acc.FileCount(child)
		if err != nil {
			continue
		}
		status := Unvisited
		if visited != nil && visited(child) {
			status = Visited
		}
		records = append(records, NeighborRecord{Path: child, FileCount: count, Status: status})
	}
	return records
}
