package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"clinicagent/model"
	"clinicagent/rag"
	"clinicagent/tools"
	"clinicagent/types"
)

// faqConfidenceFloor is the minimum grounded-answer confidence at
// which an FAQ reply short-circuits the tool loop.
const faqConfidenceFloor = 0.5

// AvailabilityChecker is the availability tool contract the agent
// depends on.
type AvailabilityChecker interface {
	CheckAvailability(ctx context.Context, doctorID, from, to string, apptType types.AppointmentType) ([]types.AvailabilitySlot, error)
}

// Booker is the booking tool contract the agent depends on.
type Booker interface {
	BookAppointment(ctx context.Context, req tools.BookingRequest) (*types.Appointment, error)
}

// Agent runs one conversational turn: classify the user's intent via
// the language model, optionally invoke a tool or the FAQ pipeline,
// and produce a natural-language reply. All steps within a turn are
// sequential; no state is kept between turns beyond the history the
// caller supplies.
type Agent struct {
	llm          model.ChatCompleter
	faq          *rag.FAQService
	availability AvailabilityChecker
	booking      Booker
	log          *slog.Logger

	// now supplies the date context injected into prompts.
	now func() time.Time
}

func New(llm model.ChatCompleter, faq *rag.FAQService, availability AvailabilityChecker, booking Booker) *Agent {
	return &Agent{
		llm:          llm,
		faq:          faq,
		availability: availability,
		booking:      booking,
		log:          slog.Default(),
		now:          time.Now,
	}
}

// HandleTurn processes one user message against the supplied
// conversation history and returns the agent's reply.
func (a *Agent) HandleTurn(ctx context.Context, userText string, history []types.ConversationTurn) (string, error) {
	// FAQ-looking questions go through retrieval first; a confident
	// grounded answer needs no tool loop.
	if a.faq != nil && looksLikeFAQ(userText) {
		ans, err := a.faq.Ask(ctx, userText, history)
		if err == nil && ans.Grounded && ans.Confidence >= faqConfidenceFloor {
			return ans.Text, nil
		}
		if err != nil {
			a.log.Warn("faq pipeline failed, falling through to tool loop", "error", err)
		}
	}

	messages := a.buildMessages(userText, history)
	reply, err := a.llm.Complete(ctx, messages, []model.Tool{
		tools.AvailabilityToolSchema(),
		tools.BookingToolSchema(),
	})
	if err != nil {
		return "", fmt.Errorf("classifying intent: %w", err)
	}

	decision, err := decide(reply)
	if err != nil {
		return "", err
	}

	switch decision.Kind {
	case DecideAnswer:
		return decision.Answer, nil

	case DecideClarify:
		return clarificationReply(decision.Missing), nil

	case DecideCheckAvailability:
		return a.runAvailability(ctx, messages, reply, decision)

	case DecideBook:
		return a.runBooking(ctx, messages, reply, decision)

	default:
		return "", fmt.Errorf("unhandled decision kind %q", decision.Kind)
	}
}

func (a *Agent) runAvailability(ctx context.Context, messages []model.ChatMessage, assistant *model.ChatMessage, d *Decision) (string, error) {
	args := d.Availability
	slots, err := a.availability.CheckAvailability(ctx, args.Doctor, args.Date, args.Date, types.AppointmentType(args.AppointmentType))
	if err != nil {
		// No availability information is not the same as no slots;
		// tell the user we could not check.
		a.log.Warn("availability check failed", "doctor", args.Doctor, "date", args.Date, "error", err)
		return availabilityApology, nil
	}

	result := map[string]any{
		"doctor": args.Doctor,
		"date":   args.Date,
		"slots":  slots,
	}
	if len(slots) == 0 {
		result["message"] = "no open slots for this doctor on this date; suggest trying another date or doctor"
	}
	return a.phraseToolResult(ctx, messages, assistant, d.ToolCall, result)
}

func (a *Agent) runBooking(ctx context.Context, messages []model.ChatMessage, assistant *model.ChatMessage, d *Decision) (string, error) {
	args := d.Booking
	appt, err := a.booking.BookAppointment(ctx, tools.BookingRequest{
		PatientName:     args.PatientName,
		Contact:         args.Contact,
		DoctorID:        args.Doctor,
		Date:            args.Date,
		Time:            args.Time,
		AppointmentType: types.AppointmentType(args.AppointmentType),
		Notes:           args.Notes,
	})
	if err != nil {
		a.log.Error("booking call failed", "doctor", args.Doctor, "date", args.Date, "error", err)
		return bookingApology, nil
	}

	return a.phraseToolResult(ctx, messages, assistant, d.ToolCall, appt)
}

// phraseToolResult feeds the tool output back to the model for a
// natural-language rendering of the outcome.
func (a *Agent) phraseToolResult(ctx context.Context, messages []model.ChatMessage, assistant *model.ChatMessage, tc *model.ToolCall, result any) (string, error) {
	payload, err := json.Marshal(result)
	if err != nil {
		return "", fmt.Errorf("encoding tool result: %w", err)
	}

	messages = append(messages, *assistant)
	messages = append(messages, model.ChatMessage{
		Role:       "tool",
		Name:       tc.Function.Name,
		ToolCallID: tc.ID,
		Content:    string(payload),
	})

	reply, err := a.llm.Complete(ctx, messages, nil)
	if err != nil {
		return "", fmt.Errorf("phrasing tool result: %w", err)
	}
	return reply.Content, nil
}

func (a *Agent) buildMessages(userText string, history []types.ConversationTurn) []model.ChatMessage {
	messages := make([]model.ChatMessage, 0, len(history)+2)
	messages = append(messages, model.ChatMessage{Role: "system", Content: systemPrompt})
	for _, turn := range history {
		messages = append(messages, model.ChatMessage{Role: chatRole(turn.Role), Content: turn.Content})
	}
	messages = append(messages, model.ChatMessage{
		Role:    "user",
		Content: fmt.Sprintf("[Today's date: %s]\n\nUser message: %s", a.now().Format(types.DateLayout), userText),
	})
	return messages
}

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

var questionWords = []string{"what", "where", "when", "how", "who", "why", "?"}

var bookingKeywords = []string{
	"book", "schedule", "appointment", "reserve",
	"available", "availability", "slot",
}

// looksLikeFAQ is a cheap pre-filter: question-shaped messages without
// booking intent are worth a retrieval pass before the tool loop.
func looksLikeFAQ(message string) bool {
	lower := strings.ToLower(message)
	isQuestion := false
	for _, q := range questionWords {
		if strings.Contains(lower, q) {
			isQuestion = true
			break
		}
	}
	if !isQuestion {
		return false
	}
	for _, kw := range bookingKeywords {
		if strings.Contains(lower, kw) {
			return false
		}
	}
	return true
}
