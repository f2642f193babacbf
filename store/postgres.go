package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"clinicagent/types"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// defaultVectorDim matches nomic-embed-text, the default embedding
// model.
const defaultVectorDim = 768

// PostgresStore backs the knowledge store with pgvector. Meant for
// server deployments where the FAQ collection is shared across
// instances; the embedded sqlite store is the default otherwise.
type PostgresStore struct {
	pool       *pgxpool.Pool
	collection string
	dim        int
}

// NewPostgresStore connects to the database. dim is the embedding
// dimensionality the documents table is created with and must match
// the configured embedder's output size; dim <= 0 selects the default.
func NewPostgresStore(ctx context.Context, connStr, collection string, dim int) (*PostgresStore, error) {
	if dim <= 0 {
		dim = defaultVectorDim
	}
	pool, err := pgxpool.New(ctx, connStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return &PostgresStore{pool: pool, collection: collection, dim: dim}, nil
}

func schemaDDL(dim int) string {
	return fmt.Sprintf(`
	CREATE EXTENSION IF NOT EXISTS vector;

	CREATE TABLE IF NOT EXISTS documents (
		seq BIGSERIAL PRIMARY KEY,
		collection TEXT NOT NULL,
		id TEXT NOT NULL,
		content TEXT NOT NULL,
		embedding vector(%d) NOT NULL,
		metadata JSONB,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
		UNIQUE(collection, id)
	);

	CREATE INDEX IF NOT EXISTS idx_documents_collection ON documents(collection);
	CREATE INDEX IF NOT EXISTS idx_documents_embedding ON documents
		USING ivfflat (embedding vector_cosine_ops) WITH (lists = 100);
	`, dim)
}

// Init creates the documents table and the vector index.
func (p *PostgresStore) Init(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, schemaDDL(p.dim)); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (p *PostgresStore) Upsert(ctx context.Context, id, text string, vector []float32, metadata map[string]string) error {
	if len(vector) != p.dim {
		return fmt.Errorf("%w: got %d, store has %d", ErrDimensionMismatch, len(vector), p.dim)
	}

	metaJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("encoding metadata: %w", err)
	}

	query := `
	INSERT INTO documents (collection, id, content, embedding, metadata)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (collection, id) DO UPDATE SET
		content = EXCLUDED.content,
		embedding = EXCLUDED.embedding,
		metadata = EXCLUDED.metadata
	`
	_, err = p.pool.Exec(ctx, query, p.collection, id, text, pgvector.NewVector(vector), metaJSON)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Query orders by cosine distance, then seq, so equal-distance rows
// keep insertion order.
func (p *PostgresStore) Query(ctx context.Context, vector []float32, k int) ([]types.ScoredDocument, error) {
	if k < 1 {
		return nil, fmt.Errorf("k must be >= 1, got %d", k)
	}

	query := `
	SELECT id, content, metadata, 1 - (embedding <=> $1) AS score
	FROM documents
	WHERE collection = $2
	ORDER BY embedding <=> $1, seq
	LIMIT $3
	`
	rows, err := p.pool.Query(ctx, query, pgvector.NewVector(vector), p.collection, k)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	var results []types.ScoredDocument
	for rows.Next() {
		var doc types.Document
		var metaJSON []byte
		var score float64
		if err := rows.Scan(&doc.ID, &doc.Text, &metaJSON, &score); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		if len(metaJSON) > 0 {
			_ = json.Unmarshal(metaJSON, &doc.Metadata)
		}
		results = append(results, types.ScoredDocument{Document: doc, Score: score})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return results, nil
}

func (p *PostgresStore) DeleteAll(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, "DELETE FROM documents WHERE collection = $1", p.collection)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (p *PostgresStore) Count(ctx context.Context) (int, error) {
	var count int
	err := p.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM documents WHERE collection = $1", p.collection,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return count, nil
}

func (p *PostgresStore) Close() error {
	if p.pool != nil {
		p.pool.Close()
		slog.Info("postgres connection pool closed")
	}
	return nil
}
