package types

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Validater is implemented by request params that know how to validate
// themselves. A nil/empty map means the params are valid.
type Validater interface {
	Validate() map[string]string
}

func Validate(v Validater) map[string]string {
	return v.Validate()
}

var validate = validator.New()

func validateStruct(s any) map[string]string {
	if err := validate.Struct(s); err != nil {
		errs := err.(validator.ValidationErrors)
		errors := make(map[string]string)
		for _, e := range errs {
			errors[e.Field()] = fmt.Sprintf("failed on '%s' tag", e.Tag())
		}
		return errors
	}
	return nil
}

// ChatParams is the body of POST /api/v1/chat.
type ChatParams struct {
	Message   string `json:"message" validate:"required"`
	SessionID string `json:"session_id" validate:"required"`
}

func (p *ChatParams) Validate() map[string]string {
	return validateStruct(p)
}

// FAQParams is the body of POST /api/v1/faq.
type FAQParams struct {
	Question string `json:"question" validate:"required"`
}

func (p *FAQParams) Validate() map[string]string {
	return validateStruct(p)
}

// AvailabilityParams are the query params of the scheduling service
// availability endpoint. From/To default to Date when empty.
type AvailabilityParams struct {
	Date            string `json:"date" query:"date" validate:"omitempty,datetime=2006-01-02"`
	From            string `json:"from" query:"from" validate:"omitempty,datetime=2006-01-02"`
	To              string `json:"to" query:"to" validate:"omitempty,datetime=2006-01-02"`
	AppointmentType string `json:"appointment_type" query:"appointment_type" validate:"omitempty,oneof=Consultation Follow-up Check-up Vaccination"`
	Doctor          string `json:"doctor" query:"doctor"`
}

func (p *AvailabilityParams) Validate() map[string]string {
	errs := validateStruct(p)
	if p.Date == "" && p.From == "" {
		if errs == nil {
			errs = make(map[string]string)
		}
		errs["Date"] = "failed on 'required' tag"
	}
	return errs
}

// BookingParams is the body of the scheduling service booking endpoint.
type BookingParams struct {
	PatientName     string `json:"patient_name" validate:"required"`
	Email           string `json:"email" validate:"omitempty,email"`
	Phone           string `json:"phone" validate:"omitempty,min=7"`
	Date            string `json:"date" validate:"required,datetime=2006-01-02"`
	Time            string `json:"time" validate:"required,datetime=15:04"`
	AppointmentType string `json:"appointment_type" validate:"required,oneof=Consultation Follow-up Check-up Vaccination"`
	Doctor          string `json:"doctor" validate:"required"`
	Notes           string `json:"notes"`
}

func (p *BookingParams) Validate() map[string]string {
	errs := validateStruct(p)
	if p.Email == "" && p.Phone == "" {
		if errs == nil {
			errs = make(map[string]string)
		}
		errs["Email"] = "failed on 'required_without' tag"
	}
	return errs
}
