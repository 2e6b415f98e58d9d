package badger

import (
	"context"
	"testing"
	"time"

	"github.com/poiesic/toolrank/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallLogRepository_AppendAndRead(t *testing.T) {
	repo, backend, err := NewMemoryCallLog()
	require.NoError(t, err)
	defer func() {
		repo.Close()
		backend.Close()
	}()

	ctx := context.Background()
	base := time.Now().UTC().Add(-time.Hour)

	events := []*core.CallEvent{
		{Session: "s2", Tool: "run_tests", Timestamp: base.Add(3 * time.Minute)},
		{Session: "s1", Tool: "resolve_gap", Timestamp: base.Add(2 * time.Minute)},
		{Session: "s1", Tool: "capture_screenshot", Timestamp: base.Add(1 * time.Minute)},
	}

	appended, err := repo.AppendCalls(ctx, events...)
	require.NoError(t, err)
	for _, event := range appended {
		assert.NotZero(t, event.Id)
		assert.False(t, event.InsertedAt.IsZero())
	}

	t.Run("ordered by session then timestamp", func(t *testing.T) {
		got, err := repo.GetCallsSince(ctx, base)
		require.NoError(t, err)
		require.Len(t, got, 3)

		assert.Equal(t, "capture_screenshot", got[0].Tool)
		assert.Equal(t, "resolve_gap", got[1].Tool)
		assert.Equal(t, "run_tests", got[2].Tool)
	})

	t.Run("cutoff excludes older events", func(t *testing.T) {
		got, err := repo.GetCallsSince(ctx, base.Add(90*time.Second))
		require.NoError(t, err)
		require.Len(t, got, 2)
		for _, event := range got {
			assert.False(t, event.Timestamp.Before(base.Add(90*time.Second)))
		}
	})

	t.Run("empty window", func(t *testing.T) {
		got, err := repo.GetCallsSince(ctx, time.Now().Add(time.Hour))
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestCallLogRepository_RejectsInvalidEvent(t *testing.T) {
	repo, backend, err := NewMemoryCallLog()
	require.NoError(t, err)
	defer func() {
		repo.Close()
		backend.Close()
	}()

	_, err = repo.AppendCalls(context.Background(), &core.CallEvent{Tool: "x", Timestamp: time.Now()})
	assert.ErrorIs(t, err, core.ErrEmptySession)
}
