package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"clinicagent/config"
	"clinicagent/loader/internal"
	"clinicagent/loader/service"
	"clinicagent/model"
	"clinicagent/store"
)

func main() {
	reset := flag.Bool("reset", false, "clear the collection before ingesting")
	flag.Parse()

	path := flag.Arg(0)
	if path == "" {
		path = "data/clinic_info.json"
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	st, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to open store", "error", err)
		os.Exit(1)
	}
	defer st.Close()

	entries, err := internal.ParseFaqFile(path)
	if err != nil {
		slog.Error("failed to parse faq file", "path", path, "error", err)
		os.Exit(1)
	}

	embedder := model.NewOllamaEmbedder(cfg.LLM.EmbedURL, cfg.LLM.EmbedModel)
	if err := service.New(embedder, st).Load(ctx, entries, *reset); err != nil {
		slog.Error("ingestion failed", "error", err)
		os.Exit(1)
	}
}

func openStore(ctx context.Context, cfg *config.Config) (store.KnowledgeStore, error) {
	switch cfg.Store.Driver {
	case "postgres":
		pg, err := store.NewPostgresStore(ctx, cfg.Store.DSN(), cfg.Store.Collection, cfg.Store.PGVectorDim)
		if err != nil {
			return nil, err
		}
		if err := pg.Init(ctx); err != nil {
			return nil, err
		}
		return pg, nil
	case "memory":
		return store.NewMemoryStore(), nil
	default:
		return store.NewSqliteStore(cfg.Store.Path, cfg.Store.Collection)
	}
}
