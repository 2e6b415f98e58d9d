package rank

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/toolrank/catalog"
	"github.com/poiesic/toolrank/core"
	"github.com/poiesic/toolrank/embed"
	badgerstore "github.com/poiesic/toolrank/storage/badger"
	"github.com/poiesic/toolrank/trace"
)

func testCatalog() *catalog.Catalog {
	return catalog.New([]core.ToolEntry{
		{
			Name:        "resolve_gap",
			Category:    "verification",
			Description: "Verify the fix closed the reported gap",
			Tags:        []string{"verify", "check", "gap"},
			Phase:       core.PhaseVerify,
			Guidance:    core.Guidance{NextAction: "Fix the gap then re-run tests"},
		},
		{
			Name:        "capture_screenshot",
			Category:    "ui_testing",
			Description: "Capture a screenshot of the current page",
			Tags:        []string{"screenshot", "ui", "capture"},
			Phase:       core.PhaseTest,
		},
		{
			Name:        "run_tests",
			Category:    "quality_gate",
			Description: "Run the project test suite",
			Tags:        []string{"test", "check", "quality"},
			Phase:       core.PhaseTest,
		},
		{
			Name:        "open_page",
			Category:    "navigation",
			Description: "Open a URL in the browser",
			Tags:        []string{"browse", "navigate", "url"},
			Phase:       core.PhaseResearch,
		},
	})
}

func allCandidates() []Candidate {
	return []Candidate{
		{Name: "resolve_gap"},
		{Name: "capture_screenshot"},
		{Name: "run_tests"},
		{Name: "open_page"},
	}
}

func newTestRanker(t *testing.T, opts ...Option) *Ranker {
	t.Helper()
	r, err := NewRanker(testCatalog(), opts...)
	require.NoError(t, err)
	return r
}

func resultFor(results []core.RankedResult, name string) (core.RankedResult, bool) {
	for _, r := range results {
		if r.Name == name {
			return r, true
		}
	}
	return core.RankedResult{}, false
}

func hasReasonPrefix(r core.RankedResult, prefix string) bool {
	for _, reason := range r.Reasons {
		if strings.HasPrefix(reason, prefix) {
			return true
		}
	}
	return false
}

func TestNewRanker(t *testing.T) {
	t.Run("requires a catalog", func(t *testing.T) {
		_, err := NewRanker(nil)
		assert.ErrorIs(t, err, ErrCatalogRequired)
	})

	t.Run("applies options", func(t *testing.T) {
		tun := DefaultTunables()
		tun.ExactNameBonus = 99
		r, err := NewRanker(testCatalog(), WithTunables(tun))
		require.NoError(t, err)
		assert.Equal(t, 99.0, r.tunables.ExactNameBonus)
	})
}

func TestSearch_HybridIntent(t *testing.T) {
	r := newTestRanker(t)

	results, err := r.Search(context.Background(), "verify the fix", allCandidates(), Options{Explain: true})
	require.NoError(t, err)
	require.NotEmpty(t, results)

	assert.Equal(t, "resolve_gap", results[0].Name)
	top := results[0]
	assert.True(t, hasReasonPrefix(top, "keyword:tag(verify"))
	assert.True(t, hasReasonPrefix(top, "phrase:"))
	assert.True(t, hasReasonPrefix(top, "synonym:"))

	if screenshot, ok := resultFor(results, "capture_screenshot"); ok {
		assert.Less(t, screenshot.Score, top.Score)
	}
}

func TestSearch_FuzzyTypo(t *testing.T) {
	r := newTestRanker(t)

	results, err := r.Search(context.Background(), "screenshto", allCandidates(),
		Options{Mode: ModeFuzzy, Explain: true})
	require.NoError(t, err)
	require.NotEmpty(t, results)

	assert.Equal(t, "capture_screenshot", results[0].Name)
	assert.True(t, hasReasonPrefix(results[0], "fuzzy:"))
	assert.True(t, hasReasonPrefix(results[0], "trigram:"))
}

func TestSearch_ExactMode(t *testing.T) {
	r := newTestRanker(t)
	ctx := context.Background()

	t.Run("exact name", func(t *testing.T) {
		results, err := r.Search(ctx, "resolve_gap", allCandidates(), Options{Mode: ModeExact})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "resolve_gap", results[0].Name)
		assert.Equal(t, DefaultTunables().ExactNameBonus, results[0].Score)
	})

	t.Run("exact tag weighted by rarity", func(t *testing.T) {
		results, err := r.Search(ctx, "verify", allCandidates(), Options{Mode: ModeExact})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "resolve_gap", results[0].Name)
	})

	t.Run("empty query matches nothing", func(t *testing.T) {
		results, err := r.Search(ctx, "", allCandidates(), Options{Mode: ModeExact})
		require.NoError(t, err)
		assert.Empty(t, results)
	})
}

func TestSearch_PrefixMode(t *testing.T) {
	r := newTestRanker(t)

	results, err := r.Search(context.Background(), "cap", allCandidates(),
		Options{Mode: ModePrefix, Explain: true})
	require.NoError(t, err)
	require.Len(t, results, 1)

	tun := DefaultTunables()
	assert.Equal(t, "capture_screenshot", results[0].Name)
	assert.Equal(t, tun.NamePrefixBonus+tun.SegmentPrefixBonus+tun.TagPrefixBonus, results[0].Score)
}

func TestSearch_RegexMode(t *testing.T) {
	r := newTestRanker(t)
	ctx := context.Background()

	t.Run("pattern match", func(t *testing.T) {
		results, err := r.Search(ctx, "^run_", allCandidates(), Options{Mode: ModeRegex, Explain: true})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "run_tests", results[0].Name)
		assert.True(t, hasReasonPrefix(results[0], "regex:name"))
	})

	t.Run("invalid pattern falls back to keywords", func(t *testing.T) {
		results, err := r.Search(ctx, "verify [", allCandidates(), Options{Mode: ModeRegex})
		require.NoError(t, err)
		require.NotEmpty(t, results)
		assert.Equal(t, "resolve_gap", results[0].Name)
	})
}

func TestSearch_Limits(t *testing.T) {
	r := newTestRanker(t)
	ctx := context.Background()

	t.Run("negative limit rejected", func(t *testing.T) {
		_, err := r.Search(ctx, "check", allCandidates(), Options{Limit: -1})
		assert.ErrorIs(t, err, ErrInvalidLimit)
	})

	t.Run("limit truncates", func(t *testing.T) {
		results, err := r.Search(ctx, "check", allCandidates(), Options{Limit: 1})
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})
}

func TestSearch_CandidateHandling(t *testing.T) {
	r := newTestRanker(t)
	ctx := context.Background()

	t.Run("unknown candidates skipped", func(t *testing.T) {
		candidates := []Candidate{{Name: "no_such_tool"}, {Name: "resolve_gap"}}
		results, err := r.Search(ctx, "verify", candidates, Options{})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "resolve_gap", results[0].Name)
	})

	t.Run("candidate description overrides catalog", func(t *testing.T) {
		candidates := []Candidate{
			{Name: "capture_screenshot", Description: "Verifies widget layout by image"},
		}
		results, err := r.Search(ctx, "widget", candidates, Options{Explain: true})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Verifies widget layout by image", results[0].Description)
		assert.True(t, hasReasonPrefix(results[0], "keyword:description"))
	})

	t.Run("full catalog ranks everything", func(t *testing.T) {
		results, err := r.Search(ctx, "check", nil, Options{FullCatalog: true})
		require.NoError(t, err)
		_, hasResolve := resultFor(results, "resolve_gap")
		_, hasTests := resultFor(results, "run_tests")
		assert.True(t, hasResolve)
		assert.True(t, hasTests)
	})
}

func TestSearch_Filters(t *testing.T) {
	r := newTestRanker(t)
	ctx := context.Background()

	t.Run("category filter", func(t *testing.T) {
		results, err := r.Search(ctx, "check", allCandidates(), Options{Category: "quality_gate"})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "run_tests", results[0].Name)
	})

	t.Run("phase filter", func(t *testing.T) {
		results, err := r.Search(ctx, "check", allCandidates(), Options{Phase: "verify"})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "resolve_gap", results[0].Name)
	})
}

func TestSearch_AblationIsolation(t *testing.T) {
	r := newTestRanker(t)
	ctx := context.Background()

	// The cluster booster is held off in both runs: dropping a synonym
	// match can change the top set, which would move the boost as well.
	full, err := r.Search(ctx, "verify", allCandidates(),
		Options{Explain: true, Ablation: Ablation{DomainCluster: true}})
	require.NoError(t, err)
	ablated, err := r.Search(ctx, "verify", allCandidates(),
		Options{Explain: true, Ablation: Ablation{Semantic: true, DomainCluster: true}})
	require.NoError(t, err)

	fullTop, ok := resultFor(full, "resolve_gap")
	require.True(t, ok)
	ablatedTop, ok := resultFor(ablated, "resolve_gap")
	require.True(t, ok)

	// Disabling synonym expansion removes exactly its contribution.
	assert.InDelta(t, DefaultTunables().SynonymTagBonus, fullTop.Score-ablatedTop.Score, 1e-9)
	assert.True(t, hasReasonPrefix(fullTop, "synonym:"))
	assert.False(t, hasReasonPrefix(ablatedTop, "synonym:"))
}

func TestSearch_ScoreMonotonicity(t *testing.T) {
	r := newTestRanker(t)
	ctx := context.Background()

	narrow, err := r.Search(ctx, "verify", allCandidates(), Options{})
	require.NoError(t, err)
	wide, err := r.Search(ctx, "verify resolve_gap", allCandidates(), Options{})
	require.NoError(t, err)

	before, ok := resultFor(narrow, "resolve_gap")
	require.True(t, ok)
	after, ok := resultFor(wide, "resolve_gap")
	require.True(t, ok)

	// Adding a matching token can only raise an additive score.
	assert.Greater(t, after.Score, before.Score)
}

func TestSearch_BlankQuery(t *testing.T) {
	r := newTestRanker(t)

	results, err := r.Search(context.Background(), "   ", allCandidates(), Options{})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_Idempotent(t *testing.T) {
	r := newTestRanker(t)
	ctx := context.Background()

	first, err := r.Search(ctx, "verify the fix", allCandidates(), Options{Explain: true})
	require.NoError(t, err)
	second, err := r.Search(ctx, "verify the fix", allCandidates(), Options{Explain: true})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSearch_DenseMode(t *testing.T) {
	r := newTestRanker(t)

	results, err := r.Search(context.Background(), "gap verification", allCandidates(),
		Options{Mode: ModeDense, Explain: true})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "resolve_gap", results[0].Name)
	assert.True(t, hasReasonPrefix(results[0], "dense:cosine"))
}

type stubSearcher struct {
	nodes []embed.RankedNode
	err   error
}

func (s *stubSearcher) NearestNodes(_ context.Context, _ []float32, _ int) ([]embed.RankedNode, error) {
	return s.nodes, s.err
}

func TestSearch_EmbeddingMode(t *testing.T) {
	searcher := &stubSearcher{nodes: []embed.RankedNode{
		{Name: "capture_screenshot", Kind: embed.NodeTool, Score: 0.9},
		{Name: "ui_testing", Kind: embed.NodeDomain, Score: 0.8},
		{Name: "resolve_gap", Kind: embed.NodeTool, Score: 0.7},
	}}
	r := newTestRanker(t, WithNeighborSearcher(searcher))

	results, err := r.Search(context.Background(), "show me the page", allCandidates(),
		Options{Mode: ModeEmbedding, QueryVector: []float32{1, 0}, Explain: true})
	require.NoError(t, err)
	require.Len(t, results, 2)

	tun := DefaultTunables()
	assert.Equal(t, "capture_screenshot", results[0].Name)
	wantTop := tun.GraphToolWeight*tun.GraphScale/(tun.GraphRankConstant+1) +
		tun.GraphDomainWeight*tun.GraphScale/(tun.GraphRankConstant+1)
	assert.InDelta(t, wantTop, results[0].Score, 1e-9)
	assert.True(t, hasReasonPrefix(results[0], "graph:tool"))
	assert.True(t, hasReasonPrefix(results[0], "graph:domain"))

	assert.Equal(t, "resolve_gap", results[1].Name)
	assert.InDelta(t, tun.GraphToolWeight*tun.GraphScale/(tun.GraphRankConstant+2), results[1].Score, 1e-9)
}

func TestSearch_GracefulDegradation(t *testing.T) {
	ctx := context.Background()

	plain := newTestRanker(t)
	degraded := newTestRanker(t,
		WithMiner(trace.NewMiner(nil)),
		WithNeighborSearcher(&stubSearcher{err: errors.New("index offline")}),
	)

	want, err := plain.Search(ctx, "verify the fix", allCandidates(), Options{})
	require.NoError(t, err)
	got, err := degraded.Search(ctx, "verify the fix", allCandidates(),
		Options{QueryVector: []float32{1, 0}})
	require.NoError(t, err)

	assert.Equal(t, want, got)
}

func TestSearch_ClusterBoost(t *testing.T) {
	r := newTestRanker(t)
	ctx := context.Background()

	boosted, err := r.Search(ctx, "verify", allCandidates(), Options{Explain: true})
	require.NoError(t, err)
	ablated, err := r.Search(ctx, "verify", allCandidates(),
		Options{Explain: true, Ablation: Ablation{DomainCluster: true}})
	require.NoError(t, err)

	// resolve_gap (verification) and run_tests (quality_gate) rank together,
	// and their categories share a cluster.
	for _, name := range []string{"resolve_gap", "run_tests"} {
		with, ok := resultFor(boosted, name)
		require.True(t, ok, name)
		without, ok := resultFor(ablated, name)
		require.True(t, ok, name)
		assert.True(t, hasReasonPrefix(with, "cluster:verification"), name)
		assert.InDelta(t, DefaultTunables().DomainClusterBoost, with.Score-without.Score, 1e-9, name)
	}
}

func TestSearch_TraceBoost(t *testing.T) {
	repo, backend, err := badgerstore.NewMemoryCallLog()
	require.NoError(t, err)
	defer backend.Close()

	ctx := context.Background()
	base := time.Now().Add(-time.Hour)
	var events []*core.CallEvent
	for i, session := range []string{"s1", "s2"} {
		start := base.Add(time.Duration(i) * time.Minute)
		events = append(events,
			&core.CallEvent{Session: session, Tool: "resolve_gap", Timestamp: start},
			&core.CallEvent{Session: session, Tool: "capture_screenshot", Timestamp: start.Add(time.Second)},
		)
	}
	_, err = repo.AppendCalls(ctx, events...)
	require.NoError(t, err)

	r := newTestRanker(t, WithMiner(trace.NewMiner(repo)))

	results, err := r.Search(ctx, "verify", allCandidates(), Options{Explain: true})
	require.NoError(t, err)

	// capture_screenshot matches nothing lexically but rode along with the
	// top-ranked resolve_gap in past sessions.
	screenshot, ok := resultFor(results, "capture_screenshot")
	require.True(t, ok)
	assert.Equal(t, DefaultTunables().TraceEdgeBoost, screenshot.Score)
	assert.Contains(t, screenshot.Reasons, "trace:cooccur(resolve_gap)")

	ablated, err := r.Search(ctx, "verify", allCandidates(),
		Options{Explain: true, Ablation: Ablation{TraceEdges: true}})
	require.NoError(t, err)
	_, ok = resultFor(ablated, "capture_screenshot")
	assert.False(t, ok)
}
