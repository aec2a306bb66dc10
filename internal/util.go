package internal

import (
	"errors"
	"fmt"
)

// Root is the predecessor recorded for a search root.
const Root = ""

// ErrBrokenChain means a predecessor walk did not reach Root. It always
// indicates a bookkeeping bug in the caller.
var ErrBrokenChain = errors.New("broken predecessor chain")

// ReconstructPath rebuilds the path ending at terminal from the cameFrom map.
// The returned slice starts at the root whose predecessor is Root.
func ReconstructPath(cameFrom map[string]string, terminal string) ([]string, error) {
	path := []string{terminal}
	current := terminal
	for steps := 0; ; steps++ {
		previous, exists := cameFrom[current]
		if !exists {
			return nil, fmt.Errorf("%w: no predecessor for %q", ErrBrokenChain, current)
		}
		if previous == Root {
			break
		}
		if steps > len(cameFrom) {
			return nil, fmt.Errorf("%w: cycle through %q", ErrBrokenChain, current)
		}
		path = append(path, previous)
		current = previous
	}
	Reverse(path)
	return path, nil
}

// Reverse reverses path in place.
func Reverse(path []string) {
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
}

// EraseLoops removes cycles from a walk while keeping it contiguous: when a
// node reappears, everything after its first occurrence is dropped.
func EraseLoops(path []string) []string {
	out := make([]string, 0, len(path))
	index := make(map[string]int, len(path))
	for _, node := range path {
		if i, seen := index[node]; seen {
			for _, dropped := range out[i+1:] {
				delete(index, dropped)
			}
			out = out[:i+1]
			continue
		}
		index[node] = len(out)
		out = append(out, node)
	}
	return out
}
