package api

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"clinicagent/schedule"
	"clinicagent/types"
)

// ScheduleHandler exposes the scheduling service over its Calendly-like
// HTTP surface.
type ScheduleHandler struct {
	svc *schedule.Service
	log *slog.Logger
}

func NewScheduleHandler(svc *schedule.Service) *ScheduleHandler {
	return &ScheduleHandler{
		svc: svc,
		log: slog.Default(),
	}
}

type AvailabilityResponse struct {
	Slots []types.AvailabilitySlot `json:"slots"`
}

// HandleAvailability lists slots for a date range. With no doctor
// specified it aggregates across all doctors; an unknown doctor is a
// 404, an empty day is an empty list.
func (h *ScheduleHandler) HandleAvailability(c *fiber.Ctx) error {
	var params types.AvailabilityParams
	if err := c.QueryParser(&params); err != nil {
		return ErrBadRequest()
	}
	if errs := params.Validate(); len(errs) > 0 {
		return NewValidationError(errs)
	}

	fromStr := params.From
	if fromStr == "" {
		fromStr = params.Date
	}
	toStr := params.To
	if toStr == "" {
		toStr = fromStr
	}
	from, _ := time.Parse(types.DateLayout, fromStr)
	to, _ := time.Parse(types.DateLayout, toStr)
	if to.Before(from) {
		return NewError(fiber.StatusBadRequest, "'to' date is before 'from' date")
	}
	apptType := types.AppointmentType(params.AppointmentType)

	var slots []types.AvailabilitySlot
	if params.Doctor == "" {
		slots = h.svc.AvailabilityAll(from, to, apptType)
	} else {
		var err error
		slots, err = h.svc.Availability(params.Doctor, from, to, apptType)
		if errors.Is(err, schedule.ErrUnknownDoctor) {
			return ErrNotFound(params.Doctor, "doctor")
		}
		if err != nil {
			return err
		}
	}

	if slots == nil {
		slots = []types.AvailabilitySlot{}
	}
	return c.JSON(AvailabilityResponse{Slots: slots})
}

type BookingResponse struct {
	Success     bool               `json:"success"`
	BookingID   string             `json:"booking_id,omitempty"`
	Message     string             `json:"message"`
	Appointment *types.Appointment `json:"appointment,omitempty"`
}

// HandleBook records a booking. Business rejections come back as a 200
// with success=false so the caller can relay the reason; only malformed
// requests are HTTP errors.
func (h *ScheduleHandler) HandleBook(c *fiber.Ctx) error {
	var params types.BookingParams
	if err := c.BodyParser(&params); err != nil {
		return ErrBadRequest()
	}
	if errs := params.Validate(); len(errs) > 0 {
		return NewValidationError(errs)
	}

	appt := h.svc.Book(params)
	if appt.Status == types.StatusFailed {
		h.log.Info("booking rejected", "doctor", params.Doctor, "date", params.Date, "reason", appt.Reason)
		return c.JSON(BookingResponse{
			Success:     false,
			Message:     appt.Reason,
			Appointment: appt,
		})
	}

	return c.JSON(BookingResponse{
		Success:     true,
		BookingID:   appt.ID,
		Message:     "appointment confirmed",
		Appointment: appt,
	})
}

// HandleGetBooking returns one booking by id.
func (h *ScheduleHandler) HandleGetBooking(c *fiber.Ctx) error {
	id := c.Params("id")
	appt, ok := h.svc.Booking(id)
	if !ok {
		return ErrNotFound(id, "booking")
	}
	return c.JSON(appt)
}

// HandleCancelBooking marks a booking cancelled and frees its slot.
func (h *ScheduleHandler) HandleCancelBooking(c *fiber.Ctx) error {
	id := c.Params("id")
	appt, ok := h.svc.Cancel(id)
	if !ok {
		return ErrNotFound(id, "booking")
	}
	return c.JSON(BookingResponse{
		Success:     true,
		BookingID:   id,
		Message:     "booking " + id + " has been cancelled",
		Appointment: appt,
	})
}
