package trace

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/poiesic/toolrank/core"
	"github.com/poiesic/toolrank/storage"
	badgerstore "github.com/poiesic/toolrank/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func eventSeq(session string, start time.Time, tools ...string) []*core.CallEvent {
	events := make([]*core.CallEvent, len(tools))
	for i, tool := range tools {
		events[i] = &core.CallEvent{
			Session:   session,
			Tool:      tool,
			Timestamp: start.Add(time.Duration(i) * time.Second),
		}
	}
	return events
}

func TestMineGraph(t *testing.T) {
	base := time.Now().Add(-time.Hour)

	t.Run("pairs below min count are dropped", func(t *testing.T) {
		events := eventSeq("s1", base, "a", "b")
		graph := mineGraph(events, 5, 2, 10)
		assert.Empty(t, graph)
	})

	t.Run("repeated pairs become symmetric edges", func(t *testing.T) {
		events := eventSeq("s1", base, "a", "b", "a", "b")
		graph := mineGraph(events, 5, 2, 10)
		assert.Contains(t, graph["a"], "b")
		assert.Contains(t, graph["b"], "a")
	})

	t.Run("window limits pairing distance", func(t *testing.T) {
		// "a" and "z" are 6 calls apart both times, outside a span of 5.
		events := eventSeq("s1", base, "a", "x1", "x2", "x3", "x4", "x5", "z",
			"a", "x1", "x2", "x3", "x4", "x5", "z")
		graph := mineGraph(events, 5, 2, 10)
		assert.NotContains(t, graph["a"], "z")
	})

	t.Run("sessions do not bleed into each other", func(t *testing.T) {
		events := append(
			eventSeq("s1", base, "a"),
			eventSeq("s2", base.Add(time.Minute), "b", "a", "b")...)
		graph := mineGraph(events, 5, 2, 10)
		// The only qualifying pair comes from s2's a/b co-occurrence.
		assert.Equal(t, []string{"b"}, graph["a"])
	})

	t.Run("neighbors sorted by count and capped", func(t *testing.T) {
		var events []*core.CallEvent
		// hub co-occurs 3x with "big", 2x with "small".
		for i := 0; i < 3; i++ {
			events = append(events, eventSeq("s1", base.Add(time.Duration(i)*time.Minute), "hub", "big")...)
		}
		for i := 0; i < 2; i++ {
			events = append(events, eventSeq("s1", base.Add(time.Duration(10+i)*time.Minute), "hub", "small")...)
		}
		graph := mineGraph(events, 5, 2, 10)
		require.Len(t, graph["hub"], 2)
		assert.Equal(t, "big", graph["hub"][0])

		capped := mineGraph(events, 5, 2, 1)
		assert.Equal(t, []string{"big"}, capped["hub"])
	})

	t.Run("same tool repeated is not self-paired", func(t *testing.T) {
		events := eventSeq("s1", base, "a", "a", "a")
		graph := mineGraph(events, 5, 2, 10)
		assert.Empty(t, graph)
	})
}

func TestMiner_Neighbors(t *testing.T) {
	repo, backend, err := badgerstore.NewMemoryCallLog()
	require.NoError(t, err)
	defer func() {
		repo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	base := time.Now().UTC().Add(-time.Hour)
	_, err = repo.AppendCalls(ctx, eventSeq("s1", base, "resolve_gap", "run_tests", "resolve_gap", "run_tests")...)
	require.NoError(t, err)

	miner := NewMiner(repo)
	graph := miner.Neighbors(ctx)
	assert.Contains(t, graph["resolve_gap"], "run_tests")
}

func TestMiner_TTLCaching(t *testing.T) {
	repo, backend, err := badgerstore.NewMemoryCallLog()
	require.NoError(t, err)
	defer func() {
		repo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	base := time.Now().UTC().Add(-time.Hour)

	clock := base.Add(time.Hour)
	miner := NewMiner(repo, WithTTL(time.Minute), withClock(func() time.Time { return clock }))

	graph := miner.Neighbors(ctx)
	assert.Empty(t, graph)

	// New events arrive, but the cached (empty) graph is still served.
	_, err = repo.AppendCalls(ctx, eventSeq("s1", base, "a", "b", "a", "b")...)
	require.NoError(t, err)
	graph = miner.Neighbors(ctx)
	assert.Empty(t, graph)

	// After the TTL passes the graph is re-mined.
	clock = clock.Add(2 * time.Minute)
	graph = miner.Neighbors(ctx)
	assert.Contains(t, graph["a"], "b")
}

func TestMiner_NilRepo(t *testing.T) {
	miner := NewMiner(nil)
	graph := miner.Neighbors(context.Background())
	assert.NotNil(t, graph)
	assert.Empty(t, graph)
}

type failingRepo struct{}

func (failingRepo) AppendCalls(ctx context.Context, events ...*core.CallEvent) ([]*core.CallEvent, error) {
	return nil, errors.New("boom")
}

func (failingRepo) GetCallsSince(ctx context.Context, since time.Time) ([]*core.CallEvent, error) {
	return nil, errors.New("boom")
}

func (failingRepo) Close() error { return nil }

var _ storage.CallLogRepository = failingRepo{}

func TestMiner_StoreFailureDegradesToEmptyGraph(t *testing.T) {
	miner := NewMiner(failingRepo{})
	graph := miner.Neighbors(context.Background())
	assert.NotNil(t, graph)
	assert.Empty(t, graph)
}
