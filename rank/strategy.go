package rank

import (
	"regexp"
	"strings"

	"github.com/poiesic/toolrank/catalog"
	"github.com/poiesic/toolrank/core"
)

// queryContext carries query-derived state shared by all strategies for a
// single search.
type queryContext struct {
	mode    Mode
	explain bool
	tokens  []string
	bigrams []string

	// regex is set only in ModeRegex when the pattern compiles.
	regex *regexp.Regexp

	// vector is the sparse TF-IDF query vector, nil when no query token
	// appears in the corpus vocabulary.
	vector map[string]float64

	// toolRanks and domainRanks hold 1-based positions from the
	// embedding-graph neighbor search, split by node kind.
	toolRanks   map[string]int
	domainRanks map[string]int

	// graph maps tool names to trace co-occurrence neighbors.
	graph map[string][]string
}

// scoredEntry accumulates a candidate's score and explanations across
// strategies.
type scoredEntry struct {
	entry *core.ToolEntry
	doc   *catalog.Document

	// display is shown to the caller, match is the lowercased form used
	// for scoring. A candidate-supplied description overrides the
	// catalog's.
	display string
	match   string

	score   float64
	reasons []string
}

func (e *scoredEntry) add(points float64, explain bool, reason func() string) {
	if points <= 0 {
		return
	}
	e.score += points
	if explain {
		e.reasons = append(e.reasons, reason())
	}
}

// strategy contributes one additive scoring signal.
type strategy interface {
	contribute(entry *scoredEntry, q *queryContext)
}

func queryBigrams(tokens []string) []string {
	if len(tokens) < 2 {
		return nil
	}
	grams := make([]string, 0, len(tokens)-1)
	for i := 0; i < len(tokens)-1; i++ {
		grams = append(grams, tokens[i]+" "+tokens[i+1])
	}
	return grams
}

func newQueryContext(query string, opts Options) *queryContext {
	tokens := catalog.QueryTokens(query)
	q := &queryContext{
		mode:    opts.Mode,
		explain: opts.Explain,
		tokens:  tokens,
		bigrams: queryBigrams(tokens),
	}
	if opts.Mode == ModeRegex {
		if re, err := regexp.Compile(strings.TrimSpace(query)); err == nil {
			q.regex = re
		}
	}
	return q
}
