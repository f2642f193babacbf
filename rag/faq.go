package rag

import (
	"context"
	"fmt"
	"log/slog"

	"clinicagent/model"
	"clinicagent/types"
)

const faqSystemPrompt = `You are a helpful medical clinic assistant. Your role is to answer questions about the clinic using ONLY the provided context.

Guidelines:
- Answer questions accurately based on the context provided
- If the context doesn't contain relevant information, say so clearly
- Be friendly and professional
- Keep answers concise but complete
- Do not make up or infer information not in the context`

const ungroundedInstruction = `No clinic knowledge base entries matched this question. Answer from general knowledge only if appropriate, and do NOT state any clinic-specific facts (hours, prices, doctor names, policies) you were not given. If the question needs clinic-specific information, say you don't have it.`

// Answer is the result of one FAQ query.
type Answer struct {
	Text       string   `json:"answer"`
	Sources    []string `json:"sources"`
	Confidence float64  `json:"confidence"`
	Grounded   bool     `json:"grounded"`
}

// FAQService answers clinic questions with retrieval-augmented
// generation. An unreachable knowledge store degrades to an ungrounded
// answer rather than failing the turn.
type FAQService struct {
	retriever *Retriever
	llm       model.ChatCompleter
	maxTokens int
	log       *slog.Logger
}

func NewFAQService(retriever *Retriever, llm model.ChatCompleter, maxContextTokens int) *FAQService {
	return &FAQService{
		retriever: retriever,
		llm:       llm,
		maxTokens: maxContextTokens,
		log:       slog.Default(),
	}
}

// Ask retrieves grounding context for question and generates an
// answer. History, when given, is replayed into the prompt so
// follow-up questions keep their referents.
func (s *FAQService) Ask(ctx context.Context, question string, history []types.ConversationTurn) (*Answer, error) {
	results, err := s.retriever.Retrieve(ctx, question, 0)
	if err != nil {
		// Degrade: answer without grounding instead of aborting.
		s.log.Warn("retrieval unavailable, answering ungrounded", "error", err)
		results = nil
	}

	messages := []model.ChatMessage{{Role: "system", Content: faqSystemPrompt}}
	for _, turn := range history {
		messages = append(messages, model.ChatMessage{Role: chatRole(turn.Role), Content: turn.Content})
	}

	var userMessage string
	if len(results) > 0 {
		userMessage = fmt.Sprintf("Context from clinic knowledge base:\n%s\n\nQuestion: %s\n\nPlease provide a helpful answer based on the context above.",
			BuildContext(results, s.maxTokens), question)
	} else {
		userMessage = fmt.Sprintf("%s\n\nQuestion: %s", ungroundedInstruction, question)
	}
	messages = append(messages, model.ChatMessage{Role: "user", Content: userMessage})

	reply, err := s.llm.Complete(ctx, messages, nil)
	if err != nil {
		return nil, fmt.Errorf("generating answer: %w", err)
	}

	answer := &Answer{
		Text:     reply.Content,
		Grounded: len(results) > 0,
		Sources:  make([]string, 0, len(results)),
	}
	var sum float64
	for _, res := range results {
		sum += res.Score
		if q := res.Document.Metadata["question"]; q != "" {
			answer.Sources = append(answer.Sources, q)
		} else {
			answer.Sources = append(answer.Sources, res.Document.ID)
		}
	}
	if len(results) > 0 {
		answer.Confidence = min(sum/float64(len(results)), 1.0)
	}
	return answer, nil
}

// chatRole maps conversation roles onto the chat API's role names.
func chatRole(r types.Role) string {
	switch r {
	case types.RoleAgent:
		return "assistant"
	case types.RoleTool:
		return "tool"
	default:
		return "user"
	}
}
