package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"clinicagent/types"
)

// BookingTool creates appointments via the scheduling service. Each
// call hits the remote service exactly once; retries are a caller
// decision and must never happen without re-checking availability
// first, since the remote call is not idempotent.
type BookingTool struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewBookingTool(baseURL, token string) *BookingTool {
	return &BookingTool{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// BookingRequest carries everything the scheduler needs. Contact is a
// free-form email or phone string.
type BookingRequest struct {
	PatientName     string
	Contact         string
	DoctorID        string
	Date            string
	Time            string
	AppointmentType types.AppointmentType
	Notes           string
}

type bookingWireResponse struct {
	Success     bool               `json:"success"`
	BookingID   string             `json:"booking_id,omitempty"`
	Message     string             `json:"message"`
	Appointment *types.Appointment `json:"appointment,omitempty"`
}

// BookAppointment books the slot. On an explicit scheduler rejection
// the returned appointment has status=failed and a reason; a transport
// failure returns a *BookingError instead, because the outcome on the
// scheduler side is unknown.
func (t *BookingTool) BookAppointment(ctx context.Context, req BookingRequest) (*types.Appointment, error) {
	if req.AppointmentType == "" {
		req.AppointmentType = types.Consultation
	}

	appt := &types.Appointment{
		PatientName:     req.PatientName,
		Contact:         req.Contact,
		DoctorID:        req.DoctorID,
		Date:            req.Date,
		Time:            req.Time,
		AppointmentType: req.AppointmentType,
		Status:          types.StatusPending,
		CreatedAt:       time.Now(),
	}

	params := types.BookingParams{
		PatientName:     req.PatientName,
		Date:            req.Date,
		Time:            req.Time,
		AppointmentType: string(req.AppointmentType),
		Doctor:          req.DoctorID,
		Notes:           req.Notes,
	}
	if strings.Contains(req.Contact, "@") {
		params.Email = req.Contact
	} else {
		params.Phone = req.Contact
	}

	body, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal booking: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		t.baseURL+"/api/calendly/book", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if t.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+t.token)
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, &BookingError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &BookingError{Err: err}
	}

	// 5xx means we don't know what happened on the scheduler side.
	if resp.StatusCode >= 500 {
		return nil, &BookingError{Err: fmt.Errorf("scheduler status %d: %s", resp.StatusCode, string(respBody))}
	}
	// Auth failures are a configuration problem between us and the
	// scheduler, not a scheduler decision about this booking.
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, &BookingError{Err: fmt.Errorf("scheduler rejected credentials (status %d): %s", resp.StatusCode, string(respBody))}
	}

	var wire bookingWireResponse
	if err := json.Unmarshal(respBody, &wire); err != nil {
		// 4xx without a parseable body: the scheduler said no.
		if resp.StatusCode != http.StatusOK {
			appt.Status = types.StatusFailed
			appt.Reason = fmt.Sprintf("scheduler rejected the booking (status %d)", resp.StatusCode)
			return appt, nil
		}
		return nil, &BookingError{Err: fmt.Errorf("decoding response: %w", err)}
	}

	if !wire.Success {
		appt.Status = types.StatusFailed
		appt.Reason = wire.Message
		// A rejection must carry a reason; an error envelope that is
		// not the booking wire shape decodes to an empty one.
		if appt.Reason == "" {
			appt.Reason = fmt.Sprintf("scheduler rejected the booking (status %d)", resp.StatusCode)
		}
		return appt, nil
	}

	appt.Status = types.StatusConfirmed
	appt.ID = wire.BookingID
	if wire.Appointment != nil && wire.Appointment.ID != "" {
		appt.ID = wire.Appointment.ID
	}
	return appt, nil
}
