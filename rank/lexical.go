// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package rank

import (
	"fmt"
	"strings"
)

// lexicalStrategy scores keyword, prefix, fuzzy, trigram, phrase, and
// coverage signals. In exact, prefix, and regex modes only the matching
// subset of signals runs.
type lexicalStrategy struct {
	idf map[string]float64
	tun Tunables
}

func (s *lexicalStrategy) contribute(e *scoredEntry, q *queryContext) {
	if q.regex != nil {
		s.contributeRegex(e, q)
		return
	}

	doc := e.doc
	exactOnly := q.mode == ModeExact
	prefixOnly := q.mode == ModePrefix

	for _, token := range q.tokens {
		if !prefixOnly {
			s.contributeKeyword(e, q, token, exactOnly)
		}
		if !exactOnly {
			s.contributePrefix(e, q, token)
		}
		if !exactOnly && !prefixOnly {
			s.contributeFuzzy(e, q, token)
			s.contributeTrigram(e, q, token)
		}
	}

	if exactOnly || prefixOnly {
		return
	}

	for _, phrase := range q.bigrams {
		if strings.Contains(doc.Combined, phrase) {
			e.add(s.tun.BigramPhraseBonus, q.explain, func() string {
				return fmt.Sprintf("phrase:%q", phrase)
			})
		}
	}

	s.contributeCoverage(e, q)
}

func (s *lexicalStrategy) contributeKeyword(e *scoredEntry, q *queryContext, token string, exactOnly bool) {
	doc := e.doc

	if token == doc.Name {
		e.add(s.tun.ExactNameBonus, q.explain, func() string {
			return "keyword:exact_name"
		})
	} else if !exactOnly && strings.Contains(doc.Name, token) {
		e.add(s.tun.NameSubstrBonus, q.explain, func() string {
			return fmt.Sprintf("keyword:name(%s)", token)
		})
	}

	if doc.TagSet[token] {
		idf := s.idf[token]
		e.add(s.tun.TagExactBonus*idf/s.tun.TagIDFBaseline, q.explain, func() string {
			return fmt.Sprintf("keyword:tag(%s,idf=%.2f)", token, idf)
		})
	}
	if exactOnly {
		return
	}

	for _, tag := range doc.Tags {
		if tag != token && strings.Contains(tag, token) {
			e.add(s.tun.TagPartialBonus, q.explain, func() string {
				return fmt.Sprintf("keyword:tag_part(%s~%s)", token, tag)
			})
			break
		}
	}

	if e.match != "" && strings.Contains(e.match, token) {
		e.add(s.tun.DescriptionBonus, q.explain, func() string {
			return fmt.Sprintf("keyword:description(%s)", token)
		})
	}

	if strings.Contains(doc.Category, token) {
		e.add(s.tun.CategoryBonus, q.explain, func() string {
			return fmt.Sprintf("keyword:category(%s)", token)
		})
	}
}

func (s *lexicalStrategy) contributePrefix(e *scoredEntry, q *queryContext, token string) {
	doc := e.doc

	if token != doc.Name && strings.HasPrefix(doc.Name, token) {
		e.add(s.tun.NamePrefixBonus, q.explain, func() string {
			return fmt.Sprintf("prefix:name(%s)", token)
		})
	}

	for _, segment := range doc.Segments {
		if segment != token && strings.HasPrefix(segment, token) {
			e.add(s.tun.SegmentPrefixBonus, q.explain, func() string {
				return fmt.Sprintf("prefix:segment(%s→%s)", token, segment)
			})
			break
		}
	}

	for _, tag := range doc.Tags {
		if tag != token && strings.HasPrefix(tag, token) {
			e.add(s.tun.TagPrefixBonus, q.explain, func() string {
				return fmt.Sprintf("prefix:tag(%s→%s)", token, tag)
			})
			break
		}
	}
}

func (s *lexicalStrategy) contributeFuzzy(e *scoredEntry, q *queryContext, token string) {
	if len(token) < s.tun.FuzzyMinTokenLen {
		return
	}

	if target, dist, ok := s.bestFuzzy(token, e.doc.Segments); ok {
		ratio := float64(dist) / float64(max(len(token), len(target)))
		e.add(s.tun.FuzzyScale*(1-ratio), q.explain, func() string {
			return fmt.Sprintf("fuzzy:name_part(%s→%s,d=%d)", token, target, dist)
		})
	}
	if target, dist, ok := s.bestFuzzy(token, e.doc.Tags); ok {
		ratio := float64(dist) / float64(max(len(token), len(target)))
		e.add(s.tun.FuzzyScale*(1-ratio), q.explain, func() string {
			return fmt.Sprintf("fuzzy:tag(%s→%s,d=%d)", token, target, dist)
		})
	}
}

// bestFuzzy returns the closest candidate within the edit-distance and
// length-ratio limits. A distance of zero means an exact match already
// scored elsewhere, so it does not count as fuzzy.
func (s *lexicalStrategy) bestFuzzy(token string, candidates []string) (string, int, bool) {
	best := ""
	bestDist := s.tun.FuzzyMaxDistance + 1
	for _, cand := range candidates {
		dist := levenshtein(token, cand)
		if dist == 0 || dist >= bestDist {
			continue
		}
		if float64(dist)/float64(max(len(token), len(cand))) >= s.tun.FuzzyMaxRatio {
			continue
		}
		best = cand
		bestDist = dist
	}
	return best, bestDist, best != ""
}

func (s *lexicalStrategy) contributeTrigram(e *scoredEntry, q *queryContext, token string) {
	if len(token) < s.tun.TrigramMinTokenLen {
		return
	}
	doc := e.doc

	// A token already contained in the name scored as a substring.
	if !strings.Contains(doc.Name, token) {
		if sim := trigramSimilarity(token, doc.Name); sim >= s.tun.TrigramNameMinSim {
			e.add(s.tun.TrigramScale*sim, q.explain, func() string {
				return fmt.Sprintf("trigram:name(%s,sim=%.2f)", token, sim)
			})
		}
	}

	bestSim := 0.0
	bestTag := ""
	for _, tag := range doc.Tags {
		if strings.Contains(tag, token) {
			continue
		}
		if sim := trigramSimilarity(token, tag); sim > bestSim {
			bestSim = sim
			bestTag = tag
		}
	}
	if bestSim >= s.tun.TrigramTagMinSim {
		e.add(s.tun.TrigramScale*bestSim, q.explain, func() string {
			return fmt.Sprintf("trigram:tag(%s~%s,sim=%.2f)", token, bestTag, bestSim)
		})
	}
}

func (s *lexicalStrategy) contributeCoverage(e *scoredEntry, q *queryContext) {
	if len(q.tokens) < s.tun.CoverageMinTokens {
		return
	}
	hits := 0
	for _, token := range q.tokens {
		if e.doc.TagSet[token] {
			hits++
		}
	}
	coverage := float64(hits) / float64(len(q.tokens))
	if coverage < s.tun.CoverageMinRatio {
		return
	}
	e.add(s.tun.CoverageScale*coverage*float64(hits), q.explain, func() string {
		return fmt.Sprintf("coverage:tags(%d/%d)", hits, len(q.tokens))
	})
}

func (s *lexicalStrategy) contributeRegex(e *scoredEntry, q *queryContext) {
	doc := e.doc

	if q.regex.MatchString(doc.Name) {
		e.add(s.tun.RegexNameBonus, q.explain, func() string {
			return fmt.Sprintf("regex:name(%s)", doc.Name)
		})
	}
	for _, tag := range doc.Tags {
		if q.regex.MatchString(tag) {
			e.add(s.tun.RegexTagBonus, q.explain, func() string {
				return fmt.Sprintf("regex:tag(%s)", tag)
			})
			break
		}
	}
	if e.match != "" && q.regex.MatchString(e.match) {
		e.add(s.tun.RegexDescriptionBonus, q.explain, func() string {
			return "regex:description"
		})
	}
}

// levenshtein computes the edit distance between two strings with a
// two-row dynamic programming table.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, min(curr[j-1]+1, prev[j-1]+cost))
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// trigramSimilarity computes the Jaccard similarity of two strings'
// character trigram sets.
func trigramSimilarity(a, b string) float64 {
	ta := trigrams(a)
	tb := trigrams(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}

	intersection := 0
	for gram := range ta {
		if tb[gram] {
			intersection++
		}
	}
	union := len(ta) + len(tb) - intersection
	return float64(intersection) / float64(union)
}

func trigrams(s string) map[string]bool {
	if len(s) < 3 {
		return nil
	}
	grams := make(map[string]bool, len(s)-2)
	for i := 0; i <= len(s)-3; i++ {
		grams[s[i:i+3]] = true
	}
	return grams
}
