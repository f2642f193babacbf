package store

import (
	"context"
	"errors"
	"math"

	"clinicagent/types"
)

// ErrUnavailable means the backing persistence layer cannot be
// reached. Callers treat this as non-fatal for a conversation and
// degrade to answering without retrieved context.
var ErrUnavailable = errors.New("knowledge store unavailable")

// ErrDimensionMismatch means a vector does not match the store's fixed
// dimensionality.
var ErrDimensionMismatch = errors.New("vector dimension mismatch")

// KnowledgeStore persists (text, vector, metadata) records and answers
// k-nearest-neighbor queries by cosine similarity. Reads are safe
// concurrently; Upsert and DeleteAll run only during offline ingestion.
type KnowledgeStore interface {
	// Upsert inserts or replaces the record with the given id.
	// Idempotent: repeating the call leaves exactly one record.
	Upsert(ctx context.Context, id, text string, vector []float32, metadata map[string]string) error

	// Query returns the k nearest stored documents, descending by
	// score. Ties break by insertion order, earlier wins. When the
	// store holds fewer than k documents, all of them are returned.
	// k must be >= 1.
	Query(ctx context.Context, vector []float32, k int) ([]types.ScoredDocument, error)

	// DeleteAll clears the store. Used only during re-ingestion.
	DeleteAll(ctx context.Context) error

	// Count reports the number of stored documents.
	Count(ctx context.Context) (int, error)

	Close() error
}

// cosineSimilarity between two vectors. Zero for mismatched or empty
// input so corrupted records rank last instead of failing the query.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
