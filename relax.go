package dirsearch

// relaxProposal is a candidate improvement to a node's best known path.
type relaxProposal struct {
	FromNode string
	ToNode   string
	GScore   float64
	FCost    float64
}

// propose prices the edge from -> to. It does not touch search state.
func (s *Stepper) propose(from, to string, edgeCost float64) relaxProposal {
	tentativeG := s.gScore[from] + edgeCost
	return relaxProposal{
		FromNode: from,
		ToNode:   to,
		GScore:   tentativeG,
		FCost:    tentativeG + s.heuristic(to, s.goal),
	}
}

// apply commits a proposal if it improves on the known g score. Closed
// nodes never re-enter the frontier.
func (s *Stepper) apply(p relaxProposal) bool {
	if s.closed[p.ToNode] {
		return false
	}
	if gPrev, ok := s.gScore[p.ToNode]; ok && p.GScore >= gPrev {
		return false
	}
	s.gScore[p.ToNode] = p.GScore
	s.fScore[p.ToNode] = p.FCost
	s.cameFrom[p.ToNode] = p.FromNode
	s.open.Upsert(p.ToNode, p.GScore, p.FCost)
	return true
}
