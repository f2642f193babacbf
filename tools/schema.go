package tools

import "clinicagent/model"

// Tool schemas handed to the language model for function calling.

func AvailabilityToolSchema() model.Tool {
	return model.Tool{
		Type: "function",
		Function: model.ToolFunction{
			Name:        ToolCheckAvailability,
			Description: "Check available appointment slots for a doctor on a specific date. Use this when the user wants to know available times for booking.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"date": map[string]any{
						"type":        "string",
						"description": "Date in YYYY-MM-DD format (e.g., 2024-12-15)",
					},
					"doctor": map[string]any{
						"type":        "string",
						"description": "Doctor identifier, e.g. dr_smith",
					},
					"appointment_type": map[string]any{
						"type":        "string",
						"enum":        []string{"Consultation", "Follow-up", "Check-up", "Vaccination"},
						"description": "Type of appointment",
					},
				},
				"required": []string{"date", "doctor"},
			},
		},
	}
}

func BookingToolSchema() model.Tool {
	return model.Tool{
		Type: "function",
		Function: model.ToolFunction{
			Name:        ToolBookAppointment,
			Description: "Book an appointment with the clinic. Only use this after ALL required information has been collected from the user.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"patient_name": map[string]any{
						"type":        "string",
						"description": "Patient's full name",
					},
					"contact": map[string]any{
						"type":        "string",
						"description": "Patient's email address or phone number",
					},
					"doctor": map[string]any{
						"type":        "string",
						"description": "Doctor identifier, e.g. dr_smith",
					},
					"date": map[string]any{
						"type":        "string",
						"description": "Appointment date in YYYY-MM-DD format",
					},
					"time": map[string]any{
						"type":        "string",
						"description": "Appointment time in HH:MM format (24-hour)",
					},
					"appointment_type": map[string]any{
						"type":        "string",
						"enum":        []string{"Consultation", "Follow-up", "Check-up", "Vaccination"},
						"description": "Type of appointment",
					},
					"notes": map[string]any{
						"type":        "string",
						"description": "Optional notes or special requirements",
					},
				},
				"required": []string{"patient_name", "contact", "doctor", "date", "time"},
			},
		},
	}
}
