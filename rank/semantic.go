package rank

import (
	"fmt"
	"strings"
)

// semanticStrategy expands query tokens through a synonym table and scores
// the expansions against tags, names, and descriptions at lower weight
// than literal matches. Expansion is single hop.
type semanticStrategy struct {
	synonyms map[string][]string
	tun      Tunables
}

func (s *semanticStrategy) contribute(e *scoredEntry, q *queryContext) {
	doc := e.doc
	original := make(map[string]bool, len(q.tokens))
	for _, token := range q.tokens {
		original[token] = true
	}

	seen := make(map[string]bool)
	for _, token := range q.tokens {
		for _, word := range s.synonyms[token] {
			if original[word] || seen[word] {
				continue
			}
			seen[word] = true

			if doc.TagSet[word] {
				e.add(s.tun.SynonymTagBonus, q.explain, func() string {
					return fmt.Sprintf("synonym:tag(%s)", word)
				})
			}
			if strings.Contains(doc.Name, word) {
				e.add(s.tun.SynonymNameBonus, q.explain, func() string {
					return fmt.Sprintf("synonym:name(%s)", word)
				})
			}
			if e.match != "" && strings.Contains(e.match, word) {
				e.add(s.tun.SynonymDescriptionBonus, q.explain, func() string {
					return fmt.Sprintf("synonym:description(%s)", word)
				})
			}
		}
	}
}
