package service

import (
	"context"
	"fmt"
	"log/slog"

	"clinicagent/model"
	"clinicagent/store"
	"clinicagent/types"
)

// Loader ingests FAQ entries into the knowledge store: one document per
// entry, embedded over "Question: ...\nAnswer: ...".
type Loader struct {
	embedder model.Embedder
	store    store.KnowledgeStore
	log      *slog.Logger
}

func New(embedder model.Embedder, st store.KnowledgeStore) *Loader {
	return &Loader{
		embedder: embedder,
		store:    st,
		log:      slog.Default(),
	}
}

// Load embeds and upserts the entries. When the store already holds
// documents and reset is false, ingestion is skipped; with reset the
// collection is cleared first. Re-running is idempotent because ids are
// derived from entry position.
func (l *Loader) Load(ctx context.Context, entries []types.FaqEntry, reset bool) error {
	count, err := l.store.Count(ctx)
	if err != nil {
		return fmt.Errorf("checking store: %w", err)
	}
	if count > 0 {
		if !reset {
			l.log.Info("store already populated, skipping ingestion", "documents", count)
			return nil
		}
		if err := l.store.DeleteAll(ctx); err != nil {
			return fmt.Errorf("resetting store: %w", err)
		}
		l.log.Info("store reset", "removed", count)
	}

	texts := make([]string, len(entries))
	for i, e := range entries {
		texts[i] = fmt.Sprintf("Question: %s\nAnswer: %s", e.Question, e.Answer)
	}

	vectors, err := l.embedder.EmbedMany(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding faq entries: %w", err)
	}

	for i, e := range entries {
		id := e.ID
		if id == "" {
			id = fmt.Sprintf("faq_%d", i)
		}
		metadata := map[string]string{
			"question": e.Question,
			"answer":   e.Answer,
		}
		if e.Category != "" {
			metadata["category"] = e.Category
		}
		if err := l.store.Upsert(ctx, id, texts[i], vectors[i], metadata); err != nil {
			return fmt.Errorf("storing entry %s: %w", id, err)
		}
	}

	l.log.Info("faq entries ingested", "count", len(entries))
	return nil
}
