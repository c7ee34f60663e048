package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

type Patient struct {
	Base
	FirstName             string          `db:"first_name" json:"first_name"`
	LastName              string          `db:"last_name" json:"last_name"`
	DateOfBirth           string          `db:"date_of_birth" json:"date_of_birth"` // YYYY-MM-DD
	Gender                Gender          `db:"gender" json:"gender"`
	Email                 string          `db:"email" json:"email"`
	Phone                 string          `db:"phone" json:"phone"`
	Address               string          `db:"address" json:"address,omitempty"`
	EmergencyName         string          `db:"emergency_contact_name" json:"emergency_contact_name,omitempty"`
	EmergencyPhone        string          `db:"emergency_contact_phone" json:"emergency_contact_phone,omitempty"`
	EmergencyRelationship string          `db:"emergency_contact_relationship" json:"emergency_contact_relationship,omitempty"`
	AllergiesJSON         json.RawMessage `db:"allergies" json:"-"`
	Allergies             []string        `db:"-" json:"allergies"`
	BloodType             string          `db:"blood_type" json:"blood_type,omitempty"`
	Status                EntityStatus    `db:"status" json:"status"`
}

type CreatePatientRequest struct {
	FirstName             string   `json:"first_name" binding:"required,max=100"`
	LastName              string   `json:"last_name" binding:"required,max=100"`
	DateOfBirth           string   `json:"date_of_birth" binding:"required"`
	Gender                Gender   `json:"gender" binding:"required,oneof=male female other"`
	Email                 string   `json:"email" binding:"required,email"`
	Phone                 string   `json:"phone" binding:"required,max=20"`
	Address               string   `json:"address"`
	EmergencyName         string   `json:"emergency_contact_name"`
	EmergencyPhone        string   `json:"emergency_contact_phone"`
	EmergencyRelationship string   `json:"emergency_contact_relationship"`
	Allergies             []string `json:"allergies"`
	BloodType             string   `json:"blood_type"`
}

type UpdatePatientRequest struct {
	FirstName             *string  `json:"first_name"`
	LastName              *string  `json:"last_name"`
	DateOfBirth           *string  `json:"date_of_birth"`
	Gender                *Gender  `json:"gender"`
	Email                 *string  `json:"email" binding:"omitempty,email"`
	Phone                 *string  `json:"phone"`
	Address               *string  `json:"address"`
	EmergencyName         *string  `json:"emergency_contact_name"`
	EmergencyPhone        *string  `json:"emergency_contact_phone"`
	EmergencyRelationship *string  `json:"emergency_contact_relationship"`
	Allergies             []string `json:"allergies"`
	BloodType             *string  `json:"blood_type"`
}

type PatientFilters struct {
	SearchTerm string `form:"search"`
	Pagination
}

// PatientStatistics aggregates a patient's activity for the profile view.
type PatientStatistics struct {
	PatientID             uuid.UUID  `json:"patient_id"`
	Age                   int        `json:"age"`
	TotalAppointments     int        `json:"total_appointments"`
	CompletedAppointments int        `json:"completed_appointments"`
	UpcomingAppointments  int        `json:"upcoming_appointments"`
	TotalHealthRecords    int        `json:"total_health_records"`
	TotalMedicalRecords   int        `json:"total_medical_records"`
	CompletionRate        float64    `json:"completion_rate"`
	LastActivity          *time.Time `json:"last_activity,omitempty"`
	RegisteredAt          time.Time  `json:"registered_at"`
}
