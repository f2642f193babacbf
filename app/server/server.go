package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"clinicagent/app/agent"
	"clinicagent/app/api"
	"clinicagent/app/middleware"
	"clinicagent/config"
	"clinicagent/model"
	"clinicagent/rag"
	"clinicagent/schedule"
	"clinicagent/store"
	"clinicagent/tools"
)

// Server wires the store, models, scheduling service and agent into a
// fiber application.
type Server struct {
	cfg *config.Config
	app *fiber.App
	st  store.KnowledgeStore
	log *slog.Logger
}

func New(cfg *config.Config) *Server {
	return &Server{
		cfg: cfg,
		log: slog.Default(),
	}
}

// Start builds the dependency graph and serves until Shutdown.
func (s *Server) Start(ctx context.Context) error {
	st, err := s.openStore(ctx)
	if err != nil {
		return fmt.Errorf("opening knowledge store: %w", err)
	}
	s.st = st

	embedder := model.NewOllamaEmbedder(s.cfg.LLM.EmbedURL, s.cfg.LLM.EmbedModel)
	llm := model.NewChatClient(s.cfg.LLM.ChatURL, s.cfg.LLM.ChatModel, s.cfg.LLM.APIKey, s.cfg.LLM.Timeout)

	retriever := rag.NewRetriever(embedder, st, s.cfg.Retrieval.TopK, s.cfg.Retrieval.MinScore)
	faq := rag.NewFAQService(retriever, llm, s.cfg.Retrieval.MaxContextTokens)

	scheduler := schedule.New()
	if path := s.cfg.Schedule.SchedulePath; path != "" {
		if err := scheduler.LoadFile(path); err != nil {
			return fmt.Errorf("loading doctor schedules: %w", err)
		}
	}

	availability := tools.NewAvailabilityTool(s.cfg.Schedule.BaseURL, s.cfg.Schedule.Token)
	booking := tools.NewBookingTool(s.cfg.Schedule.BaseURL, s.cfg.Schedule.Token)
	ag := agent.New(llm, faq, availability, booking)

	s.app = fiber.New(fiber.Config{
		ErrorHandler:          api.ErrorHandler,
		DisableStartupMessage: true,
	})
	s.registerRoutes(ag, faq, scheduler)

	s.log.Info("server listening",
		"addr", s.cfg.Server.ListenAddr,
		"store", s.cfg.Store.Driver,
		"chat_model", s.cfg.LLM.ChatModel)
	return s.app.Listen(s.cfg.Server.ListenAddr)
}

func (s *Server) registerRoutes(ag *agent.Agent, faq *rag.FAQService, scheduler *schedule.Service) {
	checkHandler := api.NewCheckHandler()
	chatHandler := api.NewChatHandler(ag, faq, api.NewSessionStore())
	scheduleHandler := api.NewScheduleHandler(scheduler)

	s.app.Get("/check/healthy", checkHandler.HandleHealthy)

	v1 := s.app.Group("/api/v1")
	v1.Post("/chat", chatHandler.HandleChat)
	v1.Post("/faq", chatHandler.HandleFAQ)
	v1.Get("/chat/:session/info", chatHandler.HandleSessionInfo)
	v1.Delete("/chat/:session", chatHandler.HandleClearSession)

	calendly := s.app.Group("/api/calendly")
	calendly.Get("/availability", scheduleHandler.HandleAvailability)
	calendly.Get("/bookings/:id", scheduleHandler.HandleGetBooking)
	calendly.Post("/book", middleware.BearerAuth(s.cfg.Schedule.Token), scheduleHandler.HandleBook)
	calendly.Delete("/bookings/:id", middleware.BearerAuth(s.cfg.Schedule.Token), scheduleHandler.HandleCancelBooking)
}

func (s *Server) openStore(ctx context.Context) (store.KnowledgeStore, error) {
	switch s.cfg.Store.Driver {
	case "postgres":
		pg, err := store.NewPostgresStore(ctx, s.cfg.Store.DSN(), s.cfg.Store.Collection, s.cfg.Store.PGVectorDim)
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
		return store.NewSqliteStore(s.cfg.Store.Path, s.cfg.Store.Collection)
	}
}

// Shutdown stops the HTTP server and closes the store.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			return err
		}
	}
	if s.st != nil {
		return s.st.Close()
	}
	return nil
}
