package rank

import (
	"fmt"
)

// embeddingStrategy fuses positions from the embedding-graph neighbor
// search with weighted reciprocal rank. Tool nodes contribute directly;
// domain nodes lift every tool in the matching category, pulling in the
// rest of a domain when the query names its theme.
type embeddingStrategy struct {
	tun Tunables
}

func (s *embeddingStrategy) contribute(e *scoredEntry, q *queryContext) {
	if rank, ok := q.toolRanks[e.doc.Name]; ok {
		points := s.tun.GraphToolWeight * s.tun.GraphScale / (s.tun.GraphRankConstant + float64(rank))
		e.add(points, q.explain, func() string {
			return fmt.Sprintf("graph:tool(rank=%d)", rank)
		})
	}
	if rank, ok := q.domainRanks[e.doc.Category]; ok {
		points := s.tun.GraphDomainWeight * s.tun.GraphScale / (s.tun.GraphRankConstant + float64(rank))
		e.add(points, q.explain, func() string {
			return fmt.Sprintf("graph:domain(%s,rank=%d)", e.doc.Category, rank)
		})
	}
}
