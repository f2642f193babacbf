package api

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"clinicagent/app/agent"
	"clinicagent/rag"
	"clinicagent/types"
)

// ChatHandler exposes the conversational agent and the FAQ pipeline
// over HTTP.
type ChatHandler struct {
	agent    *agent.Agent
	faq      *rag.FAQService
	sessions *SessionStore
	log      *slog.Logger
}

func NewChatHandler(ag *agent.Agent, faq *rag.FAQService, sessions *SessionStore) *ChatHandler {
	return &ChatHandler{
		agent:    ag,
		faq:      faq,
		sessions: sessions,
		log:      slog.Default(),
	}
}

type ChatResponse struct {
	SessionID string `json:"session_id"`
	Reply     string `json:"reply"`
}

// HandleChat runs one agent turn for the session and records both
// sides of the exchange in the session history.
func (h *ChatHandler) HandleChat(c *fiber.Ctx) error {
	var params types.ChatParams
	if err := c.BodyParser(&params); err != nil {
		return ErrBadRequest()
	}
	if errors := params.Validate(); len(errors) > 0 {
		return NewValidationError(errors)
	}

	history := h.sessions.History(params.SessionID)
	reply, err := h.agent.HandleTurn(c.Context(), params.Message, history)
	if err != nil {
		return err
	}

	h.sessions.Append(params.SessionID,
		types.ConversationTurn{Role: types.RoleUser, Content: params.Message},
		types.ConversationTurn{Role: types.RoleAgent, Content: reply},
	)

	h.log.Info("chat turn completed", "session", params.SessionID)
	return c.JSON(ChatResponse{SessionID: params.SessionID, Reply: reply})
}

type FAQResponse struct {
	Answer     string   `json:"answer"`
	Sources    []string `json:"sources,omitempty"`
	Confidence float64  `json:"confidence"`
	Grounded   bool     `json:"grounded"`
}

// HandleFAQ answers a one-off question through the retrieval pipeline,
// without touching any session.
func (h *ChatHandler) HandleFAQ(c *fiber.Ctx) error {
	var params types.FAQParams
	if err := c.BodyParser(&params); err != nil {
		return ErrBadRequest()
	}
	if errors := params.Validate(); len(errors) > 0 {
		return NewValidationError(errors)
	}

	ans, err := h.faq.Ask(c.Context(), params.Question, nil)
	if err != nil {
		return err
	}
	return c.JSON(FAQResponse{
		Answer:     ans.Text,
		Sources:    ans.Sources,
		Confidence: ans.Confidence,
		Grounded:   ans.Grounded,
	})
}

type SessionInfoResponse struct {
	SessionID string `json:"session_id"`
	TurnCount int    `json:"turn_count"`
}

// HandleSessionInfo reports how much history a session holds.
func (h *ChatHandler) HandleSessionInfo(c *fiber.Ctx) error {
	sessionID := c.Params("session")
	if sessionID == "" {
		return NewError(fiber.StatusBadRequest, "session id is required")
	}
	return c.JSON(SessionInfoResponse{
		SessionID: sessionID,
		TurnCount: len(h.sessions.History(sessionID)),
	})
}

// HandleClearSession drops the conversation history for a session.
func (h *ChatHandler) HandleClearSession(c *fiber.Ctx) error {
	sessionID := c.Params("session")
	if sessionID == "" {
		return NewError(fiber.StatusBadRequest, "session id is required")
	}
	h.sessions.Clear(sessionID)
	return c.JSON(fiber.Map{"result": "cleared", "session_id": sessionID})
}
