package embed

import "context"

// Embedder generates vector embeddings from text for semantic similarity search.
// Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a batch.
	// Batch processing is more efficient than calling EmbedText multiple times.
	// The returned slice contains embeddings in the same order as the input texts.
	// Returns an error if any embedding generation fails.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// NodeKind distinguishes the two node types in the embedding space.
type NodeKind int

const (
	// NodeTool is an individual tool node.
	NodeTool NodeKind = iota + 1
	// NodeDomain is a category hub node aggregating its member tools.
	NodeDomain
)

// String returns "tool", "domain", or "" for unknown values.
func (k NodeKind) String() string {
	switch k {
	case NodeTool:
		return "tool"
	case NodeDomain:
		return "domain"
	}
	return ""
}

// RankedNode is one entry in a nearest-neighbor ranking.
type RankedNode struct {
	// Name is the tool identifier or category name.
	Name string

	// Kind is the node type.
	Kind NodeKind

	// Score is the similarity to the query vector.
	Score float32
}

// NeighborSearcher returns an ordered nearest-neighbor list over a
// precomputed node space containing both tool and domain nodes.
type NeighborSearcher interface {
	// NearestNodes returns up to limit nodes ranked by similarity to the
	// query vector, tool and domain nodes interleaved.
	NearestNodes(ctx context.Context, vector []float32, limit int) ([]RankedNode, error)
}
