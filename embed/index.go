package embed

import (
	"context"
	"log/slog"
	"math"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/toolrank/catalog"
)

// node is a single embedded point in the index.
type node struct {
	name   string
	kind   NodeKind
	vector []float32
}

// NodeIndex is an in-memory nearest-neighbor index over the catalog's
// embedding space: one node per tool and one hub node per category.
type NodeIndex struct {
	nodes  []node
	logger *slog.Logger
}

var _ NeighborSearcher = (*NodeIndex)(nil)

// IndexOption configures a NodeIndex build.
type IndexOption func(*indexOptions)

type indexOptions struct {
	poolSize int
	logger   *slog.Logger
}

// WithPoolSize sets the worker pool size used to embed nodes concurrently.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) IndexOption {
	return func(o *indexOptions) {
		if size >= 1 {
			o.poolSize = size
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) IndexOption {
	return func(o *indexOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// BuildNodeIndex embeds every tool and every category hub in the catalog
// and returns a cosine-ranked neighbor searcher over the result.
//
// Tool nodes embed the tool's combined text surface. Domain nodes embed the
// category name together with its member tool names, so a query that lands
// near a domain can lift all of that domain's tools.
func BuildNodeIndex(ctx context.Context, cat *catalog.Catalog, embedder Embedder, opts ...IndexOption) (*NodeIndex, error) {
	if cat == nil {
		return nil, ErrCatalogRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	options := &indexOptions{
		poolSize: max(runtime.NumCPU()/2, 1),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}
	logger := options.logger.With("component", "node-index")

	type pending struct {
		name string
		kind NodeKind
		text string
	}

	var work []pending
	domains := make(map[string][]string)
	for _, entry := range cat.Entries() {
		doc := cat.Document(entry.Name)
		work = append(work, pending{name: entry.Name, kind: NodeTool, text: doc.Combined})
		domains[entry.Category] = append(domains[entry.Category], entry.Name)
	}

	domainNames := make([]string, 0, len(domains))
	for category := range domains {
		domainNames = append(domainNames, category)
	}
	sort.Strings(domainNames)
	for _, category := range domainNames {
		text := category + " " + strings.ReplaceAll(strings.Join(domains[category], " "), "_", " ")
		work = append(work, pending{name: category, kind: NodeDomain, text: text})
	}

	pool, err := ants.NewPool(options.poolSize)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	nodes := make([]node, len(work))
	errs := make([]error, len(work))
	var wg sync.WaitGroup

	for i := range work {
		i := i
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			vec, err := embedder.EmbedText(ctx, work[i].text)
			if err != nil {
				errs[i] = err
				return
			}
			nodes[i] = node{name: work[i].name, kind: work[i].kind, vector: normalize(vec)}
		})
		if submitErr != nil {
			wg.Done()
			errs[i] = submitErr
		}
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	logger.Info("built embedding node index",
		"tools", cat.Len(),
		"domains", len(domainNames))

	return &NodeIndex{nodes: nodes, logger: logger}, nil
}

// NearestNodes returns up to limit nodes ranked by cosine similarity to the
// query vector, tool and domain nodes interleaved. Ties break by node name
// for determinism.
func (x *NodeIndex) NearestNodes(ctx context.Context, vector []float32, limit int) ([]RankedNode, error) {
	if len(vector) == 0 || limit <= 0 {
		return []RankedNode{}, nil
	}

	query := normalize(vector)
	ranked := make([]RankedNode, 0, len(x.nodes))
	for _, n := range x.nodes {
		ranked = append(ranked, RankedNode{
			Name:  n.name,
			Kind:  n.kind,
			Score: dotProduct(query, n.vector),
		})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Name < ranked[j].Name
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// normalize scales a vector to unit length. Zero vectors pass through.
func normalize(vec []float32) []float32 {
	var sumSquares float64
	for _, v := range vec {
		sumSquares += float64(v) * float64(v)
	}
	if sumSquares == 0 {
		return vec
	}
	norm := float32(math.Sqrt(sumSquares))
	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = v / norm
	}
	return out
}

// dotProduct of two vectors; with unit vectors this is cosine similarity.
func dotProduct(a, b []float32) float32 {
	var sum float32
	minLen := min(len(a), len(b))
	for i := 0; i < minLen; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
