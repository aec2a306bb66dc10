package dirsearch

import (
	"fmt"

	"go.uber.org/zap"
)

// bidirectional alternates a forward stepper (origin towards destination)
// and a backward stepper (destination towards origin) one expansion at a
// time, and stitches their chains once the two sides touch.
func (r *run) bidirectional() (Result, error) {
	if r.destination == "" {
		return Result{}, fmt.Errorf("%w: bidirectional search needs a destination", ErrInvalidParams)
	}

	h := FileCountHeuristic(r.ns)
	stepOpts := []StepperOption{WithTracker(r.tracker), withStepLogger(r.log)}
	if r.params.GrandparentFallback {
		stepOpts = append(stepOpts, WithGrandparentFallback())
	}
	forward := NewStepper(r.ns, r.origin, r.destination, h, stepOpts...)
	backward := NewStepper(r.ns, r.destination, r.origin, h, stepOpts...)

	status := StatusExhausted
	var path []string
search:
	for {
		for _, side := range [2]struct {
			self, other *Stepper
			name        string
		}{
			{forward, backward, "forward"},
			{backward, forward, "backward"},
		} {
			if r.stop.Stopped() {
				status = StatusCancelled
				break search
			}
			outcome := side.self.Step()
			if outcome.Node == "" {
				// either frontier running dry ends the search
				break search
			}
			r.log.Debug("expanded",
				zap.String("side", side.name),
				zap.String("dir", outcome.Node),
				zap.Float64("g", side.self.Cost(outcome.Node)))
			if err := r.checkMilestones(forward.Path); err != nil {
				return Result{}, fmt.Errorf("milestone path: %w", err)
			}

			for _, meet := range meetingPoints(side.self, side.other, outcome.Node) {
				stitched, err := stitch(forward, backward, meet)
				if err != nil {
					return Result{}, err
				}
				if err := validateStitch(r.ns, stitched, r.origin, r.destination); err != nil {
					r.log.Debug("stitch rejected", zap.String("meet", meet), zap.Error(err))
					continue
				}
				if r.params.Smooth {
					stitched = smoothPath(stitched)
				}
				path = stitched
				status = StatusFound
				r.log.Debug("frontiers met", zap.String("meet", meet), zap.Int("path_length", len(path)))
				break search
			}
		}
	}

	res := Result{Status: status}
	if status == StatusFound {
		res.Path = path
		return res, nil
	}
	partial, err := forward.Path()
	if err != nil {
		return Result{}, fmt.Errorf("reconstruct path: %w", err)
	}
	res.Path = partial
	if last := forward.Last(); last != "" {
		res.TotalCost = forward.Cost(last)
	}
	return res, nil
}

// meetingPoints lists the nodes where the side that just expanded node
// touches the other side, in the order they should be tried: the node
// itself when the other side has closed it or roots there, then any node
// both sides offered on their latest expansions.
func meetingPoints(self, other *Stepper, node string) []string {
	var points []string
	if other.Closed(node) || node == other.origin {
		points = append(points, node)
	}
	offered := make(map[string]struct{}, len(other.LastOffered()))
	for _, n := range other.LastOffered() {
		offered[n] = struct{}{}
	}
	for _, n := range self.LastOffered() {
		if _, ok := offered[n]; ok && n != node {
			points = append(points, n)
		}
	}
	return points
}
