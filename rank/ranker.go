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
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/poiesic/toolrank/catalog"
	"github.com/poiesic/toolrank/core"
	"github.com/poiesic/toolrank/embed"
	"github.com/poiesic/toolrank/trace"
)

// Ranker scores tool candidates against free-text queries by fusing
// lexical, synonym, dense, embedding-graph, and usage-trace signals.
// Every signal is additive, so any subset of them can be disabled
// without affecting the others.
type Ranker struct {
	catalog      *catalog.Catalog
	tunables     Tunables
	synonyms     map[string][]string
	clusters     map[string][]string
	clusterOrder []string
	miner        *trace.Miner
	searcher     embed.NeighborSearcher
	logger       *slog.Logger
}

// Option configures a Ranker.
type Option func(*Ranker) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Ranker) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// WithTunables replaces the default scoring weights.
func WithTunables(tunables Tunables) Option {
	return func(r *Ranker) error {
		r.tunables = tunables
		return nil
	}
}

// WithSynonyms replaces the default synonym table.
func WithSynonyms(synonyms map[string][]string) Option {
	return func(r *Ranker) error {
		r.synonyms = synonyms
		return nil
	}
}

// WithClusters replaces the default domain clusters.
func WithClusters(clusters map[string][]string) Option {
	return func(r *Ranker) error {
		r.clusters = clusters
		return nil
	}
}

// WithMiner attaches a trace miner for co-occurrence boosting.
// Without one the trace signal contributes nothing.
func WithMiner(miner *trace.Miner) Option {
	return func(r *Ranker) error {
		r.miner = miner
		return nil
	}
}

// WithNeighborSearcher attaches an embedding-graph index.
// Without one the embedding signal contributes nothing.
func WithNeighborSearcher(searcher embed.NeighborSearcher) Option {
	return func(r *Ranker) error {
		r.searcher = searcher
		return nil
	}
}

// NewRanker creates a new ranker over a catalog.
func NewRanker(cat *catalog.Catalog, opts ...Option) (*Ranker, error) {
	if cat == nil {
		return nil, ErrCatalogRequired
	}

	r := &Ranker{
		catalog:  cat,
		tunables: DefaultTunables(),
		synonyms: DefaultSynonyms(),
		clusters: DefaultClusters(),
		logger:   slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}

	r.clusterOrder = make([]string, 0, len(r.clusters))
	for name := range r.clusters {
		r.clusterOrder = append(r.clusterOrder, name)
	}
	sort.Strings(r.clusterOrder)

	return r, nil
}

// Search ranks the candidate tools against the query.
// Returns up to opts.Limit results in descending score order; candidates
// that match nothing are omitted entirely.
func (r *Ranker) Search(ctx context.Context, query string, candidates []Candidate, opts Options) ([]core.RankedResult, error) {
	return r.SearchWithMonitor(ctx, query, candidates, opts, nil)
}

// SearchWithMonitor ranks the candidate tools against the query with
// monitoring. The monitor receives callbacks at each stage of ranking.
func (r *Ranker) SearchWithMonitor(ctx context.Context, query string, candidates []Candidate, opts Options, monitor RankMonitor) ([]core.RankedResult, error) {
	if opts.Limit < 0 {
		return nil, ErrInvalidLimit
	}
	opts = opts.normalized()

	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(query, opts.Mode)

	scored := r.collectCandidates(candidates, opts)
	names := make([]string, len(scored))
	for i, e := range scored {
		names[i] = e.doc.Name
	}
	monitor.AfterCandidateFilter(names)
	if len(scored) == 0 {
		monitor.Finish(nil)
		return nil, nil
	}

	q := newQueryContext(query, opts)
	r.prepareSignals(ctx, q, opts, monitor)

	for _, strat := range r.strategies(q, opts) {
		for _, e := range scored {
			strat.contribute(e, q)
		}
	}

	base := make(map[string]float64, len(scored))
	for _, e := range scored {
		base[e.doc.Name] = e.score
	}
	monitor.AfterBaseScores(base)

	// Boosters see all candidates so a co-occurring or clustered tool can
	// surface even without a direct query match. Candidates that still
	// score zero afterwards are dropped.
	if opts.Mode == ModeHybrid {
		r.applyBoosts(scored, q, opts, monitor)
	}
	scored = r.sortPositive(scored)

	if len(scored) > opts.Limit {
		scored = scored[:opts.Limit]
	}

	results := make([]core.RankedResult, len(scored))
	for i, e := range scored {
		results[i] = core.RankedResult{
			Name:        e.entry.Name,
			Description: e.display,
			Category:    e.entry.Category,
			Score:       e.score,
			Reasons:     e.reasons,
			Guidance:    e.entry.Guidance,
			Phase:       e.entry.Phase.String(),
			Tags:        e.entry.Tags,
		}
	}
	monitor.Finish(results)
	return results, nil
}

// collectCandidates resolves the caller's candidate set (or the full
// catalog) against catalog entries and applies category and phase
// filters. Unknown candidates are skipped.
func (r *Ranker) collectCandidates(candidates []Candidate, opts Options) []*scoredEntry {
	var scored []*scoredEntry

	include := func(entry *core.ToolEntry, description string) {
		if opts.Category != "" && entry.Category != opts.Category {
			return
		}
		if opts.Phase != "" && entry.Phase.String() != opts.Phase {
			return
		}
		doc := r.catalog.Document(entry.Name)
		display := entry.Description
		if description != "" {
			display = description
		}
		scored = append(scored, &scoredEntry{
			entry:   entry,
			doc:     doc,
			display: display,
			match:   strings.ToLower(display),
		})
	}

	if opts.FullCatalog {
		for _, entry := range r.catalog.Entries() {
			include(entry, "")
		}
		return scored
	}

	seen := make(map[string]bool, len(candidates))
	for _, cand := range candidates {
		entry, ok := r.catalog.Get(cand.Name)
		if !ok {
			r.logger.Debug("skipping unknown candidate", "name", cand.Name)
			continue
		}
		if seen[cand.Name] {
			continue
		}
		seen[cand.Name] = true
		include(entry, cand.Description)
	}
	return scored
}

// prepareSignals populates the query-shared state each enabled strategy
// needs. Failures degrade to an absent signal rather than an error.
func (r *Ranker) prepareSignals(ctx context.Context, q *queryContext, opts Options, monitor RankMonitor) {
	denseOn := !opts.Ablation.Dense && (opts.Mode == ModeHybrid || opts.Mode == ModeDense)
	if denseOn {
		q.vector = r.catalog.QueryVector(q.tokens)
	}

	graphOn := !opts.Ablation.Embedding &&
		(opts.Mode == ModeHybrid || opts.Mode == ModeEmbedding) &&
		r.searcher != nil && len(opts.QueryVector) > 0
	if graphOn {
		nodes, err := r.searcher.NearestNodes(ctx, opts.QueryVector, r.tunables.GraphFetchLimit)
		if err != nil {
			r.logger.Warn("embedding-graph search failed, continuing without it", "err", err)
		} else {
			q.toolRanks = make(map[string]int)
			q.domainRanks = make(map[string]int)
			for _, node := range nodes {
				switch node.Kind {
				case embed.NodeTool:
					q.toolRanks[node.Name] = len(q.toolRanks) + 1
				case embed.NodeDomain:
					q.domainRanks[node.Name] = len(q.domainRanks) + 1
				}
			}
			monitor.AfterGraphSearch(q.toolRanks, q.domainRanks)
		}
	}

	if opts.Mode == ModeHybrid && !opts.Ablation.TraceEdges && r.miner != nil {
		q.graph = r.miner.Neighbors(ctx)
	}
}

// strategies assembles the strategy pipeline for the query's mode and
// ablation settings.
func (r *Ranker) strategies(q *queryContext, opts Options) []strategy {
	var pipeline []strategy

	lexicalOn := !opts.Ablation.Lexical && opts.Mode != ModeDense && opts.Mode != ModeEmbedding
	if lexicalOn {
		pipeline = append(pipeline, &lexicalStrategy{idf: r.catalog.TagIDF(), tun: r.tunables})
	}

	semanticOn := !opts.Ablation.Semantic && (opts.Mode == ModeHybrid || opts.Mode == ModeSemantic)
	if semanticOn {
		pipeline = append(pipeline, &semanticStrategy{synonyms: r.synonyms, tun: r.tunables})
	}

	if q.vector != nil {
		pipeline = append(pipeline, &denseStrategy{vectors: r.catalog.Vectors(), tun: r.tunables})
	}

	if q.toolRanks != nil || q.domainRanks != nil {
		pipeline = append(pipeline, &embeddingStrategy{tun: r.tunables})
	}

	return pipeline
}

// sortPositive returns the positively scored entries ordered by score
// descending, breaking ties by catalog definition order. The input slice
// is left untouched.
func (r *Ranker) sortPositive(scored []*scoredEntry) []*scoredEntry {
	kept := make([]*scoredEntry, 0, len(scored))
	for _, e := range scored {
		if e.score > 0 {
			kept = append(kept, e)
		}
	}

	ranks := make(map[string]int, len(kept))
	for _, e := range kept {
		ranks[e.doc.Name] = r.catalog.DefinitionRank(e.entry.Name)
	}
	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].score != kept[j].score {
			return kept[i].score > kept[j].score
		}
		return ranks[kept[i].doc.Name] < ranks[kept[j].doc.Name]
	})
	return kept
}
