package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type MedicalRecord struct {
	Base
	PatientID       uuid.UUID       `db:"patient_id" json:"patient_id"`
	DoctorID        uuid.UUID       `db:"doctor_id" json:"doctor_id"`
	Date            time.Time       `db:"date" json:"date"`
	Diagnosis       string          `db:"diagnosis" json:"diagnosis"`
	SymptomsJSON    json.RawMessage `db:"symptoms" json:"-"`
	Symptoms        []string        `db:"-" json:"symptoms"`
	Treatment       string          `db:"treatment" json:"treatment,omitempty"`
	MedicationsJSON json.RawMessage `db:"medications" json:"-"`
	Medications     []string        `db:"-" json:"medications"`
	FollowUp        string          `db:"follow_up" json:"follow_up,omitempty"`
}

type CreateMedicalRecordRequest struct {
	PatientID   uuid.UUID `json:"patient_id" binding:"required"`
	DoctorID    uuid.UUID `json:"doctor_id" binding:"required"`
	Date        time.Time `json:"date" binding:"required"`
	Diagnosis   string    `json:"diagnosis" binding:"required"`
	Symptoms    []string  `json:"symptoms"`
	Treatment   string    `json:"treatment"`
	Medications []string  `json:"medications"`
	FollowUp    string    `json:"follow_up"`
}
