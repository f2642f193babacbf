package types

import "time"

// Role of a conversation turn.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
	RoleTool  Role = "tool"
)

// ConversationTurn is one entry of a chat session. Sessions are
// append-only sequences of turns owned by the chat boundary.
type ConversationTurn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// FaqEntry is one question/answer pair from the clinic knowledge file.
type FaqEntry struct {
	ID       string `json:"id"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Category string `json:"category"`
}

// Document is a stored knowledge record: the embedded text plus its
// vector and metadata. Vector dimensionality is constant across all
// documents of one store instance.
type Document struct {
	ID       string            `json:"id"`
	Text     string            `json:"text"`
	Vector   []float32         `json:"-"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// ScoredDocument is a retrieval hit. Score is cosine similarity,
// higher is more relevant.
type ScoredDocument struct {
	Document Document `json:"document"`
	Score    float64  `json:"score"`
}

// AppointmentType selects the visit kind and its slot duration.
type AppointmentType string

const (
	Consultation AppointmentType = "Consultation"
	FollowUp     AppointmentType = "Follow-up"
	CheckUp      AppointmentType = "Check-up"
	Vaccination  AppointmentType = "Vaccination"
)

// DurationMinutes returns the slot length for the appointment type.
// Unknown types fall back to the consultation length.
func (t AppointmentType) DurationMinutes() int {
	switch t {
	case FollowUp:
		return 15
	case CheckUp:
		return 20
	case Vaccination:
		return 10
	default:
		return 30
	}
}

// Valid reports whether t is one of the known appointment types.
func (t AppointmentType) Valid() bool {
	switch t {
	case Consultation, FollowUp, CheckUp, Vaccination:
		return true
	}
	return false
}

// AvailabilitySlot is one bookable interval in a doctor's schedule.
// Dates use YYYY-MM-DD, times HH:MM (24h).
type AvailabilitySlot struct {
	DoctorID        string `json:"doctor_id"`
	Date            string `json:"date"`
	StartTime       string `json:"start_time"`
	EndTime         string `json:"end_time"`
	Open            bool   `json:"open"`
	DurationMinutes int    `json:"duration_minutes"`
}

// AppointmentStatus tracks the booking lifecycle. Pending transitions
// to confirmed on scheduler success and to failed on an explicit
// scheduler rejection. Transport failures never produce a failed
// appointment; they surface as errors instead.
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusFailed    AppointmentStatus = "failed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// Appointment is a booking result. The remote scheduling service is
// authoritative; nothing here is persisted locally.
type Appointment struct {
	ID              string            `json:"id,omitempty"`
	PatientName     string            `json:"patient_name"`
	Contact         string            `json:"contact"`
	DoctorID        string            `json:"doctor_id"`
	Date            string            `json:"date"`
	Time            string            `json:"time"`
	AppointmentType AppointmentType   `json:"appointment_type"`
	Status          AppointmentStatus `json:"status"`
	Reason          string            `json:"reason,omitempty"`
	CreatedAt       time.Time         `json:"created_at,omitempty"`
}

const (
	// DateLayout is the wire format for dates.
	DateLayout = "2006-01-02"
	// TimeLayout is the wire format for times of day.
	TimeLayout = "15:04"
)
