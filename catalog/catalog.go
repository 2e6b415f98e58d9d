package catalog

import (
	"log/slog"
	"sync"

	"github.com/poiesic/toolrank/core"
)

// Catalog is the immutable index of tool entries, built once at startup.
// Derived structures (searchable documents, tag IDF weights, document
// vectors) are computed lazily and cached for the life of the process;
// the catalog itself never changes, so nothing is ever invalidated.
type Catalog struct {
	entries map[string]*core.ToolEntry
	order   []string
	logger  *slog.Logger

	docOnce sync.Once
	docs    map[string]*Document

	idfOnce sync.Once
	tagIDF  map[string]float64

	vecOnce sync.Once
	vectors map[string]map[string]float64
	idf     map[string]float64 // smoothed token IDF shared by document and query vectors
}

// Option configures a Catalog.
type Option func(*Catalog)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Catalog) {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
	}
}

// New builds a catalog from a static definition list. Malformed entries are
// excluded with a warning rather than aborting construction. Tags are
// normalized (lowercased, deduplicated).
func New(entries []core.ToolEntry, opts ...Option) *Catalog {
	c := &Catalog{
		entries: make(map[string]*core.ToolEntry, len(entries)),
		order:   make([]string, 0, len(entries)),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	for i := range entries {
		entry := entries[i]
		if entry.Phase == 0 && entry.PhaseName != "" {
			entry.Phase = core.ParsePhase(entry.PhaseName)
		}
		if err := core.ValidateToolEntry(&entry); err != nil {
			c.logger.Warn("skipping malformed catalog entry", "name", entry.Name, "err", err)
			continue
		}
		if _, exists := c.entries[entry.Name]; exists {
			c.logger.Warn("skipping duplicate catalog entry", "name", entry.Name)
			continue
		}
		entry.Tags = core.NormalizeTags(entry.Tags)
		c.entries[entry.Name] = &entry
		c.order = append(c.order, entry.Name)
	}

	return c
}

// Get returns the entry with the given name.
func (c *Catalog) Get(name string) (*core.ToolEntry, bool) {
	entry, ok := c.entries[name]
	return entry, ok
}

// Entries returns all entries in definition order.
func (c *Catalog) Entries() []*core.ToolEntry {
	out := make([]*core.ToolEntry, len(c.order))
	for i, name := range c.order {
		out[i] = c.entries[name]
	}
	return out
}

// Len returns the number of entries in the catalog.
func (c *Catalog) Len() int {
	return len(c.order)
}

// DefinitionRank returns the position of a tool in the definition list.
// Used as a deterministic tie-break when scores are equal.
// Unknown tools sort last.
func (c *Catalog) DefinitionRank(name string) int {
	for i, n := range c.order {
		if n == name {
			return i
		}
	}
	return len(c.order)
}

// Document returns the cached searchable document for a tool,
// or nil if the tool is not in the catalog.
func (c *Catalog) Document(name string) *Document {
	c.docOnce.Do(c.buildDocuments)
	return c.docs[name]
}

// TagIDF returns the cached tag IDF index: ln(N/df) per tag.
// Every tag carried by at least one tool has a finite, non-negative weight.
func (c *Catalog) TagIDF() map[string]float64 {
	c.idfOnce.Do(c.buildTagIDF)
	return c.tagIDF
}

func (c *Catalog) buildDocuments() {
	docs := make(map[string]*Document, len(c.order))
	for _, name := range c.order {
		docs[name] = newDocument(c.entries[name])
	}
	c.docs = docs
	c.logger.Debug("built searchable documents", "count", len(docs))
}
