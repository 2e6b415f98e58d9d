package trace

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/poiesic/toolrank/core"
	"github.com/poiesic/toolrank/storage"
)

const (
	defaultTTL          = 60 * time.Second
	defaultWindow       = 7 * 24 * time.Hour
	defaultSpan         = 5
	defaultMinCount     = 2
	defaultMaxNeighbors = 10
)

// Miner maintains a TTL-cached co-occurrence graph mined from the call log.
// Tools that are invoked close together within the same session become
// neighbors; the ranked list of neighbors per tool is used to boost
// historically related tools during search.
//
// A missing or failing log store degrades to an empty graph. The miner
// never returns an error to its callers.
type Miner struct {
	repo         storage.CallLogRepository
	ttl          time.Duration
	window       time.Duration
	span         int
	minCount     int
	maxNeighbors int
	now          func() time.Time
	logger       *slog.Logger

	mu      sync.Mutex
	graph   map[string][]string
	expires time.Time
}

// Option configures a Miner.
type Option func(*Miner)

// WithTTL sets how long a mined graph is served before it is refreshed.
// Default is 60 seconds.
func WithTTL(ttl time.Duration) Option {
	return func(m *Miner) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithWindow sets the trailing time window of call events to mine.
// Default is 7 days.
func WithWindow(window time.Duration) Option {
	return func(m *Miner) {
		if window > 0 {
			m.window = window
		}
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Miner) {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
	}
}

// withClock overrides the time source. Test hook.
func withClock(now func() time.Time) Option {
	return func(m *Miner) {
		m.now = now
	}
}

// NewMiner creates a miner over the given call log.
// A nil repository is allowed and always yields an empty graph.
func NewMiner(repo storage.CallLogRepository, opts ...Option) *Miner {
	m := &Miner{
		repo:         repo,
		ttl:          defaultTTL,
		window:       defaultWindow,
		span:         defaultSpan,
		minCount:     defaultMinCount,
		maxNeighbors: defaultMaxNeighbors,
		now:          time.Now,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Neighbors returns the cached co-occurrence graph, refreshing it from the
// call log if the TTL has expired. Stale-but-available data is preferred
// over blocking every query: the refresh happens inline but a store failure
// silently yields an empty graph rather than an error.
func (m *Miner) Neighbors(ctx context.Context) map[string][]string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.graph != nil && m.now().Before(m.expires) {
		return m.graph
	}

	m.graph = m.refresh(ctx)
	m.expires = m.now().Add(m.ttl)
	return m.graph
}

// Invalidate discards the cached graph so the next call re-mines.
func (m *Miner) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.graph = nil
	m.expires = time.Time{}
}

func (m *Miner) refresh(ctx context.Context) map[string][]string {
	if m.repo == nil {
		return map[string][]string{}
	}

	events, err := m.repo.GetCallsSince(ctx, m.now().Add(-m.window))
	if err != nil {
		m.logger.Warn("call log unavailable, serving empty co-occurrence graph", "err", err)
		return map[string][]string{}
	}

	graph := mineGraph(events, m.span, m.minCount, m.maxNeighbors)
	m.logger.Debug("mined co-occurrence graph", "events", len(events), "tools", len(graph))
	return graph
}

// pairKey is a canonical unordered tool pair.
type pairKey struct {
	a, b string
}

func makePair(x, y string) pairKey {
	if x < y {
		return pairKey{x, y}
	}
	return pairKey{y, x}
}

// mineGraph counts symmetric co-occurrences of distinct tools within a
// sliding window of span calls inside the same session, keeps pairs seen
// at least minCount times, and returns up to maxNeighbors neighbors per
// tool sorted by count descending.
//
// Events must be ordered by session and then by timestamp.
func mineGraph(events []*core.CallEvent, span, minCount, maxNeighbors int) map[string][]string {
	counts := make(map[pairKey]int)

	for i, event := range events {
		for j := i + 1; j < len(events) && j <= i+span; j++ {
			other := events[j]
			if other.Session != event.Session {
				break
			}
			if other.Tool == event.Tool {
				continue
			}
			counts[makePair(event.Tool, other.Tool)]++
		}
	}

	type neighbor struct {
		tool  string
		count int
	}
	adjacency := make(map[string][]neighbor)
	for pair, count := range counts {
		if count < minCount {
			continue
		}
		adjacency[pair.a] = append(adjacency[pair.a], neighbor{pair.b, count})
		adjacency[pair.b] = append(adjacency[pair.b], neighbor{pair.a, count})
	}

	graph := make(map[string][]string, len(adjacency))
	for tool, neighbors := range adjacency {
		sort.Slice(neighbors, func(i, j int) bool {
			if neighbors[i].count != neighbors[j].count {
				return neighbors[i].count > neighbors[j].count
			}
			return neighbors[i].tool < neighbors[j].tool
		})
		if len(neighbors) > maxNeighbors {
			neighbors = neighbors[:maxNeighbors]
		}
		names := make([]string, len(neighbors))
		for i, n := range neighbors {
			names[i] = n.tool
		}
		graph[tool] = names
	}

	return graph
}
