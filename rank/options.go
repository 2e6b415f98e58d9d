package rank

// Mode selects which scoring strategies run for a query.
type Mode string

const (
	// ModeHybrid runs every applicable strategy. This is the default.
	ModeHybrid Mode = "hybrid"
	// ModeFuzzy runs the full lexical scorer including typo tolerance.
	ModeFuzzy Mode = "fuzzy"
	// ModeRegex treats the query as a regular expression. Invalid patterns
	// silently fall back to plain keyword scoring.
	ModeRegex Mode = "regex"
	// ModePrefix matches only identifier, segment, and tag prefixes.
	ModePrefix Mode = "prefix"
	// ModeSemantic runs lexical scoring plus synonym expansion.
	ModeSemantic Mode = "semantic"
	// ModeExact awards only exact-name and exact-tag matches.
	ModeExact Mode = "exact"
	// ModeDense runs only TF-IDF cosine scoring.
	ModeDense Mode = "dense"
	// ModeEmbedding runs only embedding-graph fusion.
	ModeEmbedding Mode = "embedding"
)

// ParseMode converts a mode name to its Mode value.
// Unknown names return ModeHybrid.
func ParseMode(name string) Mode {
	switch Mode(name) {
	case ModeFuzzy, ModeRegex, ModePrefix, ModeSemantic, ModeExact, ModeDense, ModeEmbedding:
		return Mode(name)
	}
	return ModeHybrid
}

// Ablation disables individual strategies for controlled measurement of
// each signal's marginal contribution. The zero value enables everything.
type Ablation struct {
	Lexical       bool
	Semantic      bool
	Dense         bool
	Embedding     bool
	DomainCluster bool
	TraceEdges    bool
}

// Candidate is one entry of the caller's currently visible tool set.
// Candidates whose name is not in the catalog are silently skipped.
type Candidate struct {
	Name        string
	Description string
}

// Options configures a single search.
type Options struct {
	// Category filters results to an exact category match.
	Category string

	// Phase filters results to an exact workflow-phase match.
	Phase string

	// Limit caps the number of results. Zero means the default of 15;
	// negative values are rejected with ErrInvalidLimit.
	Limit int

	// Mode selects the strategy subset. Empty means ModeHybrid.
	Mode Mode

	// Explain attaches human-readable reason tags to each result.
	// Reasons are only materialized when this is set.
	Explain bool

	// QueryVector is an externally supplied embedding of the query.
	// When absent the embedding-graph signal contributes nothing.
	QueryVector []float32

	// Ablation disables individual strategies.
	Ablation Ablation

	// FullCatalog ranks the entire catalog instead of only the caller's
	// candidate subset, letting callers discover tools they have not
	// yet loaded.
	FullCatalog bool
}

const defaultLimit = 15

func (o Options) normalized() Options {
	if o.Limit == 0 {
		o.Limit = defaultLimit
	}
	if o.Mode == "" {
		o.Mode = ModeHybrid
	}
	return o
}
