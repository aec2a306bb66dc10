// Package dirsearch searches a directory tree for a target item and reports
// how much of the tree each search strategy had to touch on the way.
//
// A directory is a node, a child directory is an edge priced by its file
// count, and a synthetic edge to the parent keeps the walk out of dead ends.
// The strategies share that substrate:
//
//   - informed best-first search (astar) and its zero-heuristic form (dijkstra);
//   - bidirectional search (bidirectional) that meets in the middle and
//     stitches the two predecessor chains;
//   - bacterial foraging (bfo), a seeded population search;
//   - venom, frontier search priced by diffusion flux, with an inline toxin
//     side effect per expansion.
//
// Run is the entry point for all of them. Stepper exposes one expansion at a
// time for tools that want to watch the frontier move. Every strategy polls a
// cooperative stop signal between expansions and reports file-count
// milestones to a sink.Sink at most once each.
package dirsearch
