package tools

import (
	"errors"
	"fmt"
)

// Tool names as exposed to the language model.
const (
	ToolCheckAvailability = "check_availability"
	ToolBookAppointment   = "book_appointment"
)

// ErrScheduleUnavailable means availability information could not be
// obtained: the doctor is unknown or the schedule source cannot be
// read. This is distinct from an empty (but successful) result and the
// agent must surface it as "no availability information", not as "no
// slots".
var ErrScheduleUnavailable = errors.New("schedule unavailable")

// BookingError is a transport-level booking failure: the request may
// or may not have reached the scheduler, so the outcome is unknown.
// An explicit scheduler rejection is NOT a BookingError; it comes back
// as an Appointment with status=failed.
type BookingError struct {
	Err error
}

func (e *BookingError) Error() string {
	return fmt.Sprintf("booking failed: %v", e.Err)
}

func (e *BookingError) Unwrap() error {
	return e.Err
}
