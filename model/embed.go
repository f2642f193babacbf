package model

import (
	"context"
	"errors"
	"fmt"
)

// Embedder maps text to a fixed-length vector. Implementations must be
// deterministic for a fixed underlying model and must preserve input
// order and length in EmbedMany.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedMany(ctx context.Context, texts []string) ([][]float32, error)
}

// ErrEmptyInput is returned when the text to embed is empty.
var ErrEmptyInput = errors.New("empty input text")

// EmbeddingError wraps failures of the underlying embedding model,
// transport errors included.
type EmbeddingError struct {
	Err error
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("embedding failed: %v", e.Err)
}

func (e *EmbeddingError) Unwrap() error {
	return e.Err
}
