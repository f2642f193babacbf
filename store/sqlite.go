package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"clinicagent/types"

	_ "github.com/mattn/go-sqlite3"
)

// SqliteStore is the embedded, file-backed knowledge store. Search is
// brute-force cosine over all rows, which is fine for a clinic FAQ
// collection of a few hundred entries.
type SqliteStore struct {
	mu         sync.RWMutex
	db         *sql.DB
	collection string
	dim        int
}

// NewSqliteStore opens (creating if needed) the store at dataPath.
func NewSqliteStore(dataPath, collection string) (*SqliteStore, error) {
	if dataPath == "" {
		dataPath = "./vectordb"
	}
	if err := os.MkdirAll(dataPath, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := sql.Open("sqlite3", filepath.Join(dataPath, "vectors.db"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	s := &SqliteStore{db: db, collection: collection}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}
	if err := s.loadDimension(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SqliteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		collection TEXT NOT NULL,
		id TEXT NOT NULL,
		content TEXT NOT NULL,
		embedding BLOB NOT NULL,
		metadata TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(collection, id)
	);
	CREATE INDEX IF NOT EXISTS idx_documents_collection ON documents(collection);
	`
	_, err := s.db.Exec(schema)
	return err
}

// loadDimension fixes the store's dimensionality from an existing row,
// if any.
func (s *SqliteStore) loadDimension() error {
	var raw []byte
	err := s.db.QueryRow(
		"SELECT embedding FROM documents WHERE collection = ? ORDER BY seq LIMIT 1",
		s.collection,
	).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	var vec []float32
	if err := json.Unmarshal(raw, &vec); err == nil {
		s.dim = len(vec)
	}
	return nil
}

func (s *SqliteStore) Upsert(ctx context.Context, id, text string, vector []float32, metadata map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.dim == 0 {
		s.dim = len(vector)
	} else if len(vector) != s.dim {
		return fmt.Errorf("%w: got %d, store has %d", ErrDimensionMismatch, len(vector), s.dim)
	}

	embJSON, err := json.Marshal(vector)
	if err != nil {
		return fmt.Errorf("encoding embedding: %w", err)
	}
	metaJSON, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("encoding metadata: %w", err)
	}

	// The conflict path keeps the original seq so insertion-order tie
	// breaking survives a re-upsert of the same id.
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (collection, id, content, embedding, metadata)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(collection, id) DO UPDATE SET
			content = excluded.content,
			embedding = excluded.embedding,
			metadata = excluded.metadata
	`, s.collection, id, text, embJSON, metaJSON)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *SqliteStore) Query(ctx context.Context, vector []float32, k int) ([]types.ScoredDocument, error) {
	if k < 1 {
		return nil, fmt.Errorf("k must be >= 1, got %d", k)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, content, embedding, metadata
		FROM documents
		WHERE collection = ?
		ORDER BY seq
	`, s.collection)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	var results []types.ScoredDocument
	for rows.Next() {
		var doc types.Document
		var embJSON, metaJSON []byte
		if err := rows.Scan(&doc.ID, &doc.Text, &embJSON, &metaJSON); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		if err := json.Unmarshal(embJSON, &doc.Vector); err != nil {
			continue
		}
		if len(metaJSON) > 0 {
			_ = json.Unmarshal(metaJSON, &doc.Metadata)
		}
		results = append(results, types.ScoredDocument{
			Document: doc,
			Score:    cosineSimilarity(vector, doc.Vector),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	// Stable sort preserves seq order for equal scores.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

func (s *SqliteStore) DeleteAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE collection = ?", s.collection)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	s.dim = 0
	return nil
}

func (s *SqliteStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM documents WHERE collection = ?", s.collection,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return count, nil
}

func (s *SqliteStore) Close() error {
	return s.db.Close()
}
