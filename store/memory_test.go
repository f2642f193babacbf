package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreUpsertIdempotent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Upsert(ctx, "a", "first", []float32{1, 0}, nil))
	require.NoError(t, s.Upsert(ctx, "a", "second", []float32{1, 0}, nil))

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	results, err := s.Query(ctx, []float32{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "second", results[0].Document.Text)
}

func TestMemoryStoreQueryFewerThanK(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Upsert(ctx, "a", "only", []float32{1, 0}, nil))

	results, err := s.Query(ctx, []float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestMemoryStoreQueryTiesByInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	// Identical vectors, identical scores. Earlier insert wins.
	require.NoError(t, s.Upsert(ctx, "b", "inserted first", []float32{1, 0}, nil))
	require.NoError(t, s.Upsert(ctx, "a", "inserted second", []float32{1, 0}, nil))

	results, err := s.Query(ctx, []float32{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "b", results[0].Document.ID)
}

func TestMemoryStoreReplacementKeepsPosition(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Upsert(ctx, "b", "old", []float32{1, 0}, nil))
	require.NoError(t, s.Upsert(ctx, "a", "other", []float32{1, 0}, nil))
	// Re-upserting b must not move it behind a in tie ordering.
	require.NoError(t, s.Upsert(ctx, "b", "new", []float32{1, 0}, nil))

	results, err := s.Query(ctx, []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "b", results[0].Document.ID)
	assert.Equal(t, "new", results[0].Document.Text)
}

func TestMemoryStoreDimensionMismatch(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Upsert(ctx, "a", "x", []float32{1, 0, 0}, nil))
	err := s.Upsert(ctx, "b", "y", []float32{1, 0}, nil)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestMemoryStoreQueryInvalidK(t *testing.T) {
	_, err := NewMemoryStore().Query(context.Background(), []float32{1}, 0)
	assert.Error(t, err)
}

func TestMemoryStoreDeleteAll(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Upsert(ctx, "a", "x", []float32{1, 0}, nil))

	require.NoError(t, s.DeleteAll(ctx))

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// Dimension resets with the data.
	assert.NoError(t, s.Upsert(ctx, "b", "y", []float32{1, 0, 0}, nil))
}

func TestMemoryStoreRanksByCosine(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Upsert(ctx, "far", "unrelated", []float32{0, 1}, nil))
	require.NoError(t, s.Upsert(ctx, "near", "relevant", []float32{1, 0}, nil))

	results, err := s.Query(ctx, []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "near", results[0].Document.ID)
	assert.Greater(t, results[0].Score, results[1].Score)
}
