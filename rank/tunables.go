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

// Tunables collects every scoring weight and threshold in one place so
// deployments can rebalance signals without code changes.
type Tunables struct {
	// Keyword bonuses.
	ExactNameBonus   float64
	NameSubstrBonus  float64
	TagExactBonus    float64
	TagIDFBaseline   float64
	TagPartialBonus  float64
	DescriptionBonus float64
	CategoryBonus    float64

	// Prefix bonuses.
	NamePrefixBonus    float64
	SegmentPrefixBonus float64
	TagPrefixBonus     float64

	// Fuzzy matching.
	FuzzyMinTokenLen int
	FuzzyMaxDistance int
	FuzzyMaxRatio    float64
	FuzzyScale       float64

	// Trigram similarity.
	TrigramMinTokenLen int
	TrigramNameMinSim  float64
	TrigramTagMinSim   float64
	TrigramScale       float64

	// Multi-token phrase and coverage signals.
	BigramPhraseBonus float64
	CoverageMinTokens int
	CoverageMinRatio  float64
	CoverageScale     float64

	// Regex mode bonuses.
	RegexNameBonus        float64
	RegexTagBonus         float64
	RegexDescriptionBonus float64

	// Synonym expansion bonuses.
	SynonymTagBonus         float64
	SynonymNameBonus        float64
	SynonymDescriptionBonus float64

	// Dense TF-IDF cosine.
	DenseScale     float64
	DenseMinCosine float64

	// Embedding-graph reciprocal-rank fusion.
	GraphToolWeight   float64
	GraphDomainWeight float64
	GraphRankConstant float64
	GraphScale        float64
	GraphFetchLimit   int

	// Relationship boosters.
	DomainClusterBoost float64
	TraceEdgeBoost     float64
	BoostTopSetSize    int
}

// DefaultTunables returns the stock weights. Keyword bonuses dominate,
// dense and graph signals refine ordering among keyword ties, and the
// boosters nudge related tools upward without reordering strong matches.
func DefaultTunables() Tunables {
	return Tunables{
		ExactNameBonus:   50,
		NameSubstrBonus:  15,
		TagExactBonus:    15,
		TagIDFBaseline:   3,
		TagPartialBonus:  5,
		DescriptionBonus: 3,
		CategoryBonus:    8,

		NamePrefixBonus:    20,
		SegmentPrefixBonus: 12,
		TagPrefixBonus:     8,

		FuzzyMinTokenLen: 4,
		FuzzyMaxDistance: 2,
		FuzzyMaxRatio:    0.4,
		FuzzyScale:       12,

		TrigramMinTokenLen: 4,
		TrigramNameMinSim:  0.2,
		TrigramTagMinSim:   0.3,
		TrigramScale:       20,

		BigramPhraseBonus: 15,
		CoverageMinTokens: 3,
		CoverageMinRatio:  0.6,
		CoverageScale:     5,

		RegexNameBonus:        40,
		RegexTagBonus:         12,
		RegexDescriptionBonus: 6,

		SynonymTagBonus:         6,
		SynonymNameBonus:        4,
		SynonymDescriptionBonus: 2,

		DenseScale:     40,
		DenseMinCosine: 0.05,

		GraphToolWeight:   1.0,
		GraphDomainWeight: 1.5,
		GraphRankConstant: 60,
		GraphScale:        1000,
		GraphFetchLimit:   50,

		DomainClusterBoost: 5,
		TraceEdgeBoost:     4,
		BoostTopSetSize:    5,
	}
}
