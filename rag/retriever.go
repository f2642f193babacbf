package rag

import (
	"context"
	"fmt"

	"clinicagent/model"
	"clinicagent/store"
	"clinicagent/types"
)

// Retriever turns a user question into a set of relevant FAQ documents:
// embed the query, run a k-NN search, drop everything below the
// relevance threshold. An empty result is a valid outcome and signals
// the caller to answer without FAQ grounding.
type Retriever struct {
	embedder model.Embedder
	store    store.KnowledgeStore
	topK     int
	minScore float64
}

func NewRetriever(embedder model.Embedder, st store.KnowledgeStore, topK int, minScore float64) *Retriever {
	if topK < 1 {
		topK = 3
	}
	return &Retriever{
		embedder: embedder,
		store:    st,
		topK:     topK,
		minScore: minScore,
	}
}

// Retrieve returns at most k documents scoring at or above the
// threshold, descending by score. k <= 0 uses the configured default.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]types.ScoredDocument, error) {
	if k <= 0 {
		k = r.topK
	}

	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	results, err := r.store.Query(ctx, vector, k)
	if err != nil {
		return nil, fmt.Errorf("searching store: %w", err)
	}

	filtered := results[:0]
	for _, res := range results {
		if res.Score >= r.minScore {
			filtered = append(filtered, res)
		}
	}
	return filtered, nil
}
