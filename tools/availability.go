package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"time"

	"clinicagent/types"
)

// AvailabilityTool reads open slots from the scheduling service.
type AvailabilityTool struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewAvailabilityTool(baseURL, token string) *AvailabilityTool {
	return &AvailabilityTool{
		baseURL: baseURL,
		token:   token,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

type availabilityResponse struct {
	Slots   []types.AvailabilitySlot `json:"slots"`
	Message string                   `json:"message,omitempty"`
}

// CheckAvailability returns the open slots for doctorID between from
// and to (inclusive, YYYY-MM-DD), ordered chronologically. apptType
// selects the slot duration and defaults to Consultation.
func (t *AvailabilityTool) CheckAvailability(ctx context.Context, doctorID, from, to string, apptType types.AppointmentType) ([]types.AvailabilitySlot, error) {
	if doctorID == "" {
		return nil, fmt.Errorf("doctor id is required")
	}
	fromDate, err := time.Parse(types.DateLayout, from)
	if err != nil {
		return nil, fmt.Errorf("invalid from date %q: %w", from, err)
	}
	toDate, err := time.Parse(types.DateLayout, to)
	if err != nil {
		return nil, fmt.Errorf("invalid to date %q: %w", to, err)
	}
	if toDate.Before(fromDate) {
		return nil, fmt.Errorf("invalid date range: %s after %s", from, to)
	}
	if apptType == "" {
		apptType = types.Consultation
	}

	q := url.Values{}
	q.Set("doctor", doctorID)
	q.Set("from", from)
	q.Set("to", to)
	q.Set("appointment_type", string(apptType))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		t.baseURL+"/api/calendly/availability?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if t.token != "" {
		req.Header.Set("Authorization", "Bearer "+t.token)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScheduleUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrScheduleUnavailable, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: unknown doctor %q", ErrScheduleUnavailable, doctorID)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", ErrScheduleUnavailable, resp.StatusCode, string(body))
	}

	var availResp availabilityResponse
	if err := json.Unmarshal(body, &availResp); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrScheduleUnavailable, err)
	}

	open := make([]types.AvailabilitySlot, 0, len(availResp.Slots))
	for _, slot := range availResp.Slots {
		if slot.Open {
			open = append(open, slot)
		}
	}
	sort.SliceStable(open, func(i, j int) bool {
		if open[i].Date != open[j].Date {
			return open[i].Date < open[j].Date
		}
		return open[i].StartTime < open[j].StartTime
	})
	return open, nil
}
