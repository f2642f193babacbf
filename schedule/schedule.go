package schedule

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"clinicagent/types"

	"github.com/google/uuid"
)

// ErrUnknownDoctor is returned when availability is requested for a
// doctor that has no schedule.
var ErrUnknownDoctor = errors.New("unknown doctor")

// DoctorSchedule describes one doctor's recurring weekly schedule.
type DoctorSchedule struct {
	DoctorID   string   `json:"doctor_id"`
	Name       string   `json:"name"`
	Days       []string `json:"days"`
	Start      string   `json:"start"`
	End        string   `json:"end"`
	LunchStart string   `json:"lunch_start"`
	LunchEnd   string   `json:"lunch_end"`
}

func (d DoctorSchedule) worksOn(day time.Weekday) bool {
	for _, name := range d.Days {
		if name == day.String() {
			return true
		}
	}
	return false
}

// Service is a Calendly-style scheduling backend: doctor schedules,
// slot generation, and an in-memory booking ledger. The chat tools
// talk to it over HTTP, the same way they would talk to a hosted
// scheduler.
type Service struct {
	mu       sync.RWMutex
	doctors  map[string]DoctorSchedule
	bookings map[string]types.Appointment

	// Now is the clock used for past-date checks. Overridable in tests.
	Now func() time.Time

	log *slog.Logger
}

func New() *Service {
	s := &Service{
		doctors:  make(map[string]DoctorSchedule),
		bookings: make(map[string]types.Appointment),
		Now:      time.Now,
		log:      slog.Default(),
	}
	for _, d := range defaultDoctors() {
		s.doctors[d.DoctorID] = d
	}
	return s
}

func defaultDoctors() []DoctorSchedule {
	weekdays := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}
	return []DoctorSchedule{
		{DoctorID: "dr_smith", Name: "Dr. Smith", Days: weekdays,
			Start: "09:00", End: "17:00", LunchStart: "12:00", LunchEnd: "13:00"},
		{DoctorID: "dr_johnson", Name: "Dr. Johnson", Days: weekdays,
			Start: "10:00", End: "18:00", LunchStart: "13:00", LunchEnd: "14:00"},
		{DoctorID: "dr_williams", Name: "Dr. Williams", Days: []string{"Tuesday", "Wednesday", "Thursday", "Friday"},
			Start: "09:00", End: "16:00", LunchStart: "12:30", LunchEnd: "13:30"},
	}
}

type scheduleFile struct {
	Doctors []DoctorSchedule `json:"doctors"`
}

// LoadFile merges doctor schedules from a JSON file over the defaults.
func (s *Service) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading schedule file: %w", err)
	}
	var file scheduleFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing schedule file: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range file.Doctors {
		if d.DoctorID == "" {
			continue
		}
		s.doctors[d.DoctorID] = d
	}
	s.log.Info("doctor schedules loaded", "path", path, "doctors", len(s.doctors))
	return nil
}

// HasDoctor reports whether id has a schedule.
func (s *Service) HasDoctor(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.doctors[id]
	return ok
}

// DoctorIDs lists all scheduled doctors.
func (s *Service) DoctorIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, 0, len(s.doctors))
	for id := range s.doctors {
		ids = append(ids, id)
	}
	return ids
}

// Availability generates every slot for doctorID between from and to
// (inclusive), marking booked ones as not open. Days in the past and
// days the doctor does not work produce no slots; a fully closed range
// yields an empty slice, not an error.
func (s *Service) Availability(doctorID string, from, to time.Time, apptType types.AppointmentType) ([]types.AvailabilitySlot, error) {
	s.mu.RLock()
	doc, ok := s.doctors[doctorID]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDoctor, doctorID)
	}

	if apptType == "" {
		apptType = types.Consultation
	}
	duration := apptType.DurationMinutes()
	today := s.Now().Truncate(24 * time.Hour)

	var slots []types.AvailabilitySlot
	for day := from; !day.After(to); day = day.AddDate(0, 0, 1) {
		if day.Before(today) {
			continue
		}
		if !doc.worksOn(day.Weekday()) {
			continue
		}
		date := day.Format(types.DateLayout)
		for _, w := range generateSlots(doc.Start, doc.End, duration, doc.LunchStart, doc.LunchEnd) {
			slots = append(slots, types.AvailabilitySlot{
				DoctorID:        doctorID,
				Date:            date,
				StartTime:       w.start,
				EndTime:         w.end,
				Open:            !s.slotTaken(date, w.start, doctorID),
				DurationMinutes: duration,
			})
		}
	}
	return slots, nil
}

// AvailabilityAll runs Availability for every doctor.
func (s *Service) AvailabilityAll(from, to time.Time, apptType types.AppointmentType) []types.AvailabilitySlot {
	var all []types.AvailabilitySlot
	for _, id := range s.DoctorIDs() {
		slots, err := s.Availability(id, from, to, apptType)
		if err != nil {
			continue
		}
		all = append(all, slots...)
	}
	return all
}

// Book records an appointment. Business rejections (past date, unknown
// doctor, closed day, outside working hours, slot conflict) come back
// as a failed appointment with a reason, never as an error; the caller
// relays the scheduler's explicit "no".
func (s *Service) Book(p types.BookingParams) *types.Appointment {
	contact := p.Email
	if contact == "" {
		contact = p.Phone
	}
	appt := &types.Appointment{
		PatientName:     p.PatientName,
		Contact:         contact,
		DoctorID:        p.Doctor,
		Date:            p.Date,
		Time:            p.Time,
		AppointmentType: types.AppointmentType(p.AppointmentType),
		Status:          types.StatusPending,
		CreatedAt:       s.Now(),
	}

	day, err := time.Parse(types.DateLayout, p.Date)
	if err != nil {
		return rejected(appt, "date must be in YYYY-MM-DD format")
	}
	at, err := time.Parse(types.TimeLayout, p.Time)
	if err != nil {
		return rejected(appt, "time must be in HH:MM format")
	}
	if day.Before(s.Now().Truncate(24 * time.Hour)) {
		return rejected(appt, "cannot book appointments in the past")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.doctors[p.Doctor]
	if !ok {
		return rejected(appt, fmt.Sprintf("doctor %q not found", p.Doctor))
	}
	if !doc.worksOn(day.Weekday()) {
		return rejected(appt, fmt.Sprintf("%s does not work on %s", doc.Name, day.Weekday()))
	}

	start, _ := time.Parse(types.TimeLayout, doc.Start)
	end, _ := time.Parse(types.TimeLayout, doc.End)
	if at.Before(start) || !at.Before(end) {
		return rejected(appt, fmt.Sprintf("selected time is outside %s's working hours (%s - %s)", doc.Name, doc.Start, doc.End))
	}
	if s.slotTakenLocked(p.Date, p.Time, p.Doctor) {
		return rejected(appt, "this time slot is already booked, please choose another time")
	}

	appt.ID = uuid.NewString()
	appt.Status = types.StatusConfirmed
	s.bookings[appt.ID] = *appt
	s.log.Info("appointment booked",
		"booking_id", appt.ID, "doctor", p.Doctor, "date", p.Date, "time", p.Time)
	return appt
}

// Booking looks up a booking by id.
func (s *Service) Booking(id string) (*types.Appointment, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	appt, ok := s.bookings[id]
	if !ok {
		return nil, false
	}
	return &appt, true
}

// Cancel marks a booking cancelled, freeing its slot. Cancelling an
// already cancelled booking is a no-op.
func (s *Service) Cancel(id string) (*types.Appointment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	appt, ok := s.bookings[id]
	if !ok {
		return nil, false
	}
	appt.Status = types.StatusCancelled
	s.bookings[id] = appt
	s.log.Info("booking cancelled", "booking_id", id, "doctor", appt.DoctorID, "date", appt.Date)
	return &appt, true
}

func rejected(appt *types.Appointment, reason string) *types.Appointment {
	appt.Status = types.StatusFailed
	appt.Reason = reason
	return appt
}

func (s *Service) slotTaken(date, startTime, doctorID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.slotTakenLocked(date, startTime, doctorID)
}

func (s *Service) slotTakenLocked(date, startTime, doctorID string) bool {
	for _, b := range s.bookings {
		if b.Status == types.StatusCancelled {
			continue
		}
		if b.Date == date && b.Time == startTime && b.DoctorID == doctorID {
			return true
		}
	}
	return false
}

type window struct {
	start string
	end   string
}

// generateSlots cuts the working hours into consecutive windows of the
// given duration, skipping anything that overlaps the lunch break or
// would run past the end of the day.
func generateSlots(startTime, endTime string, duration int, lunchStart, lunchEnd string) []window {
	start, err := time.Parse(types.TimeLayout, startTime)
	if err != nil {
		return nil
	}
	end, err := time.Parse(types.TimeLayout, endTime)
	if err != nil {
		return nil
	}

	var lunchS, lunchE time.Time
	hasLunch := false
	if lunchStart != "" && lunchEnd != "" {
		ls, err1 := time.Parse(types.TimeLayout, lunchStart)
		le, err2 := time.Parse(types.TimeLayout, lunchEnd)
		if err1 == nil && err2 == nil {
			lunchS, lunchE, hasLunch = ls, le, true
		}
	}

	step := time.Duration(duration) * time.Minute
	var slots []window
	for cur := start; cur.Before(end); cur = cur.Add(step) {
		if hasLunch && !cur.Before(lunchS) && cur.Before(lunchE) {
			continue
		}
		slotEnd := cur.Add(step)
		if slotEnd.After(end) {
			break
		}
		slots = append(slots, window{
			start: cur.Format(types.TimeLayout),
			end:   slotEnd.Format(types.TimeLayout),
		})
	}
	return slots
}
