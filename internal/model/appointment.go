package model

import (
	"fmt"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
)

// CanTransitionTo enforces the appointment lifecycle:
// scheduled -> confirmed -> completed, with cancellation allowed from any
// non-terminal state. Cancelled and completed are terminal.
func (s AppointmentStatus) CanTransitionTo(next AppointmentStatus) bool {
	switch s {
	case AppointmentStatusScheduled:
		return next == AppointmentStatusConfirmed || next == AppointmentStatusCancelled
	case AppointmentStatusConfirmed:
		return next == AppointmentStatusCompleted || next == AppointmentStatusCancelled
	default:
		return false
	}
}

func ParseAppointmentStatus(s string) (AppointmentStatus, error) {
	switch AppointmentStatus(s) {
	case AppointmentStatusScheduled, AppointmentStatusConfirmed,
		AppointmentStatusCompleted, AppointmentStatusCancelled:
		return AppointmentStatus(s), nil
	}
	return "", fmt.Errorf("unknown appointment status %q", s)
}

type AppointmentType string

const (
	AppointmentTypeConsultation AppointmentType = "consultation"
	AppointmentTypeCheckup      AppointmentType = "checkup"
	AppointmentTypeFollowUp     AppointmentType = "follow-up"
	AppointmentTypeEmergency    AppointmentType = "emergency"
)

type Appointment struct {
	Base
	PatientID uuid.UUID         `db:"patient_id" json:"patient_id"`
	DoctorID  uuid.UUID         `db:"doctor_id" json:"doctor_id"`
	Date      string            `db:"date" json:"date"` // YYYY-MM-DD
	Time      string            `db:"time" json:"time"` // HH:MM
	Duration  int               `db:"duration" json:"duration"`
	Type      AppointmentType   `db:"type" json:"type"`
	Status    AppointmentStatus `db:"status" json:"status"`
	Notes     string            `db:"notes" json:"notes,omitempty"`
}

type CreateAppointmentRequest struct {
	PatientID uuid.UUID       `json:"patient_id" binding:"required"`
	DoctorID  uuid.UUID       `json:"doctor_id" binding:"required"`
	Date      string          `json:"date" binding:"required"`
	Time      string          `json:"time" binding:"required"`
	Duration  int             `json:"duration"`
	Type      AppointmentType `json:"type" binding:"required,oneof=consultation checkup follow-up emergency"`
	Notes     string          `json:"notes" binding:"max=1000"`
}

type UpdateAppointmentRequest struct {
	Date     *string            `json:"date"`
	Time     *string            `json:"time"`
	Duration *int               `json:"duration"`
	Type     *AppointmentType   `json:"type"`
	Status   *AppointmentStatus `json:"status"`
	Notes    *string            `json:"notes"`
}

type AppointmentFilters struct {
	PatientID uuid.UUID
	DoctorID  uuid.UUID
	Status    AppointmentStatus
	DateFrom  string
	DateTo    string
	Pagination
}

// TimeSlot is one bookable interval within a doctor's working day.
type TimeSlot struct {
	Time      string `json:"time"`
	Available bool   `json:"available"`
}

// ScheduleConflict flags two active appointments occupying the same
// doctor/date/time slot.
type ScheduleConflict struct {
	Date         string               `json:"date"`
	Time         string               `json:"time"`
	Appointments []ConflictingBooking `json:"appointments"`
}

type ConflictingBooking struct {
	ID        uuid.UUID       `json:"id"`
	PatientID uuid.UUID       `json:"patient_id"`
	Type      AppointmentType `json:"type"`
}

// Daily schedule entry for a doctor's day view.
type ScheduleEntry struct {
	AppointmentID uuid.UUID         `json:"appointment_id"`
	Time          string            `json:"time"`
	PatientID     uuid.UUID         `json:"patient_id"`
	PatientName   string            `json:"patient_name"`
	Type          AppointmentType   `json:"type"`
	Status        AppointmentStatus `json:"status"`
	Notes         string            `json:"notes,omitempty"`
}

// AppointmentStatistics summarises a doctor's bookings over a date range.
type AppointmentStatistics struct {
	Total            int                       `json:"total_appointments"`
	ByStatus         map[AppointmentStatus]int `json:"status_distribution"`
	CompletionRate   float64                   `json:"completion_rate"`
	CancellationRate float64                   `json:"cancellation_rate"`
	DateFrom         string                    `json:"date_from,omitempty"`
	DateTo           string                    `json:"date_to,omitempty"`
}
