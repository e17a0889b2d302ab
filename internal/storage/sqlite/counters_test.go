package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catacomb-labs/delver/internal/storage/sqlite"
)

func TestStore_IncrementAndRead(t *testing.T) {
	store, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	defer func() { require.NoError(t, store.Close()) }()

	ctx := context.Background()

	count, err := store.Collected(ctx, "game-1")
	require.NoError(t, err)
	assert.Zero(t, count)

	require.NoError(t, store.IncrementCollected(ctx, "game-1"))
	require.NoError(t, store.IncrementCollected(ctx, "game-1"))
	require.NoError(t, store.IncrementCollected(ctx, "game-2"))

	count, err = store.Collected(ctx, "game-1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = store.Collected(ctx, "game-2")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counters.db")
	ctx := context.Background()

	store, err := sqlite.Open(path)
	require.NoError(t, err)
	require.NoError(t, store.IncrementCollected(ctx, "game-1"))
	require.NoError(t, store.Close())

	store, err = sqlite.Open(path)
	require.NoError(t, err)
	defer func() { require.NoError(t, store.Close()) }()

	count, err := store.Collected(ctx, "game-1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestStore_ConcurrentIncrements(t *testing.T) {
	store, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	defer func() { require.NoError(t, store.Close()) }()

	ctx := context.Background()
	done := make(chan error, 10)
	for i := 0; i < 10; i++ {
		go func() { done <- store.IncrementCollected(ctx, "game-1") }()
	}
	for i := 0; i < 10; i++ {
		require.NoError(t, <-done)
	}

	count, err := store.Collected(ctx, "game-1")
	require.NoError(t, err)
	assert.Equal(t, 10, count)
}
