package agent

import (
	"encoding/json"
	"fmt"

	"clinicagent/model"
	"clinicagent/tools"
)

// DecisionKind tags the agent's next action for one turn.
type DecisionKind string

const (
	DecideAnswer            DecisionKind = "answer"
	DecideCheckAvailability DecisionKind = "check_availability"
	DecideBook              DecisionKind = "book"
	DecideClarify           DecisionKind = "clarify"
)

// AvailabilityArgs are the model-extracted arguments for an
// availability check.
type AvailabilityArgs struct {
	Date            string `json:"date"`
	Doctor          string `json:"doctor"`
	AppointmentType string `json:"appointment_type"`
}

func (a AvailabilityArgs) missingFields() []string {
	var missing []string
	if a.Date == "" {
		missing = append(missing, "date")
	}
	if a.Doctor == "" {
		missing = append(missing, "doctor")
	}
	return missing
}

// BookingArgs are the model-extracted arguments for a booking.
type BookingArgs struct {
	PatientName     string `json:"patient_name"`
	Contact         string `json:"contact"`
	Doctor          string `json:"doctor"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	AppointmentType string `json:"appointment_type"`
	Notes           string `json:"notes"`
}

// missingFields lists required booking fields the model did not
// extract. A booking with any of these missing never reaches the
// booking tool.
func (a BookingArgs) missingFields() []string {
	var missing []string
	if a.PatientName == "" {
		missing = append(missing, "patient name")
	}
	if a.Contact == "" {
		missing = append(missing, "contact (email or phone)")
	}
	if a.Doctor == "" {
		missing = append(missing, "doctor")
	}
	if a.Date == "" {
		missing = append(missing, "date")
	}
	if a.Time == "" {
		missing = append(missing, "time")
	}
	return missing
}

// Decision is the normalized outcome of the intent classification
// call: either a direct answer, a fully-argued tool invocation, or a
// request for clarification.
type Decision struct {
	Kind         DecisionKind
	Answer       string
	ToolCall     *model.ToolCall
	Availability *AvailabilityArgs
	Booking      *BookingArgs
	Missing      []string
}

// decide maps the model's reply onto a Decision. Free-form content
// becomes an answer; tool calls are parsed and argument-checked, with
// incomplete bookings downgraded to a clarification.
func decide(msg *model.ChatMessage) (*Decision, error) {
	if len(msg.ToolCalls) == 0 {
		return &Decision{Kind: DecideAnswer, Answer: msg.Content}, nil
	}

	tc := msg.ToolCalls[0]
	switch tc.Function.Name {
	case tools.ToolCheckAvailability:
		var args AvailabilityArgs
		if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
			return nil, fmt.Errorf("parsing %s arguments: %w", tc.Function.Name, err)
		}
		if missing := args.missingFields(); len(missing) > 0 {
			return &Decision{Kind: DecideClarify, Missing: missing}, nil
		}
		return &Decision{Kind: DecideCheckAvailability, ToolCall: &tc, Availability: &args}, nil

	case tools.ToolBookAppointment:
		var args BookingArgs
		if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
			return nil, fmt.Errorf("parsing %s arguments: %w", tc.Function.Name, err)
		}
		if missing := args.missingFields(); len(missing) > 0 {
			return &Decision{Kind: DecideClarify, Missing: missing}, nil
		}
		return &Decision{Kind: DecideBook, ToolCall: &tc, Booking: &args}, nil

	default:
		return nil, fmt.Errorf("model requested unknown tool %q", tc.Function.Name)
	}
}
