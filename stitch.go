package dirsearch

import (
	"fmt"

	"github.com/pdrpinto/dirsearch/internal"
	"github.com/pdrpinto/dirsearch/namespace"
)

// stitch joins the forward chain origin..meet with the reversed backward
// chain meet..destination and erases any loops the join introduced.
func stitch(forward, backward *Stepper, meet string) ([]string, error) {
	head, err := forward.PathTo(meet)
	if err != nil {
		return nil, fmt.Errorf("forward chain to %s: %w", meet, err)
	}
	tail, err := backward.PathTo(meet)
	if err != nil {
		return nil, fmt.Errorf("backward chain to %s: %w", meet, err)
	}
	internal.Reverse(tail)

	path := make([]string, 0, len(head)+len(tail))
	path = append(path, head...)
	path = append(path, tail[1:]...)
	return internal.EraseLoops(path), nil
}

// validateStitch rejects paths with the wrong endpoints, single-node paths
// between distinct directories, and endpoints with no common ancestor.
func validateStitch(ns namespace.Accessor, path []string, origin, destination string) error {
	if len(path) == 0 {
		return fmt.Errorf("%w: empty path", errInvalidStitch)
	}
	if path[0] != origin {
		return fmt.Errorf("%w: starts at %s", errInvalidStitch, path[0])
	}
	if path[len(path)-1] != destination {
		return fmt.Errorf("%w: ends at %s", errInvalidStitch, path[len(path)-1])
	}
	if origin != destination && len(path) < 2 {
		return fmt.Errorf("%w: single node between distinct endpoints", errInvalidStitch)
	}
	ancestor, ok := namespace.CommonAncestor(origin, destination)
	if !ok || !ns.Exists(ancestor) {
		return fmt.Errorf("%w: no shared ancestor", errInvalidStitch)
	}
	return nil
}

// smoothPath greedily jumps from each kept node to the farthest later node
// within two levels of it. Endpoints are always kept and every jump moves
// forward by at least one position.
func smoothPath(path []string) []string {
	if len(path) <= 2 {
		return append([]string(nil), path...)
	}
	smoothed := []string{path[0]}
	for i := 0; i < len(path)-1; {
		j := i + 1
		for j+1 < len(path) && namespace.WithinTwoLevels(path[i], path[j+1]) {
			j++
		}
		smoothed = append(smoothed, path[j])
		i = j
	}
	return smoothed
}
