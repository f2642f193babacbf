package rag

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clinicagent/model"
	"clinicagent/store"
)

// stubEmbedder returns a fixed vector for every input.
type stubEmbedder struct {
	vector []float32
	err    error
}

func (e *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	return e.vector, nil
}

func (e *stubEmbedder) EmbedMany(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		v, err := e.Embed(ctx, texts[i])
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

var _ model.Embedder = (*stubEmbedder)(nil)

func TestRetrieveFiltersBelowThreshold(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	require.NoError(t, st.Upsert(ctx, "near", "relevant", []float32{1, 0}, nil))
	require.NoError(t, st.Upsert(ctx, "far", "irrelevant", []float32{0, 1}, nil))

	r := NewRetriever(&stubEmbedder{vector: []float32{1, 0}}, st, 3, 0.5)
	results, err := r.Retrieve(ctx, "clinic hours", 0)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "near", results[0].Document.ID)
}

func TestRetrieveAllBelowThresholdReturnsEmpty(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	require.NoError(t, st.Upsert(ctx, "far", "irrelevant", []float32{0, 1}, nil))

	r := NewRetriever(&stubEmbedder{vector: []float32{1, 0}}, st, 3, 0.5)
	results, err := r.Retrieve(ctx, "anything", 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRetrieveRespectsK(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	require.NoError(t, st.Upsert(ctx, "a", "one", []float32{1, 0}, nil))
	require.NoError(t, st.Upsert(ctx, "b", "two", []float32{1, 0}, nil))
	require.NoError(t, st.Upsert(ctx, "c", "three", []float32{1, 0}, nil))

	r := NewRetriever(&stubEmbedder{vector: []float32{1, 0}}, st, 3, 0)
	results, err := r.Retrieve(ctx, "q", 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestRetrieveEmbeddingFailure(t *testing.T) {
	r := NewRetriever(&stubEmbedder{err: &model.EmbeddingError{Err: assert.AnError}}, store.NewMemoryStore(), 3, 0.3)
	_, err := r.Retrieve(context.Background(), "q", 0)
	require.Error(t, err)

	var embErr *model.EmbeddingError
	assert.ErrorAs(t, err, &embErr)
}
