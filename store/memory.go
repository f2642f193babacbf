package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"clinicagent/types"
)

// MemoryStore keeps documents in memory. Used for tests and as the
// "memory" driver for throwaway environments. Nothing survives a
// restart.
type MemoryStore struct {
	mu   sync.RWMutex
	docs []types.Document // insertion order
	byID map[string]int
	dim  int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byID: make(map[string]int)}
}

func (s *MemoryStore) Upsert(ctx context.Context, id, text string, vector []float32, metadata map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dim == 0 {
		s.dim = len(vector)
	} else if len(vector) != s.dim {
		return fmt.Errorf("%w: got %d, store has %d", ErrDimensionMismatch, len(vector), s.dim)
	}

	doc := types.Document{ID: id, Text: text, Vector: vector, Metadata: metadata}
	if i, ok := s.byID[id]; ok {
		// Replacement keeps the original position.
		s.docs[i] = doc
		return nil
	}
	s.byID[id] = len(s.docs)
	s.docs = append(s.docs, doc)
	return nil
}

func (s *MemoryStore) Query(ctx context.Context, vector []float32, k int) ([]types.ScoredDocument, error) {
	if k < 1 {
		return nil, fmt.Errorf("k must be >= 1, got %d", k)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]types.ScoredDocument, 0, len(s.docs))
	for _, doc := range s.docs {
		results = append(results, types.ScoredDocument{
			Document: doc,
			Score:    cosineSimilarity(vector, doc.Vector),
		})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

func (s *MemoryStore) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs = nil
	s.byID = make(map[string]int)
	s.dim = 0
	return nil
}

func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs), nil
}

func (s *MemoryStore) Close() error {
	return nil
}
