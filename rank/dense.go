package rank

import (
	"fmt"

	"github.com/poiesic/toolrank/catalog"
)

// denseStrategy scores the cosine similarity between the query's TF-IDF
// vector and each document's vector. Near-zero similarities are treated
// as noise and dropped.
type denseStrategy struct {
	vectors map[string]map[string]float64
	tun     Tunables
}

func (s *denseStrategy) contribute(e *scoredEntry, q *queryContext) {
	if q.vector == nil {
		return
	}
	cosine := catalog.CosineSparse(q.vector, s.vectors[e.doc.Name])
	if cosine < s.tun.DenseMinCosine {
		return
	}
	e.add(s.tun.DenseScale*cosine, q.explain, func() string {
		return fmt.Sprintf("dense:cosine(%.2f)", cosine)
	})
}
