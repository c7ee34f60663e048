package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/medtrack/medrecord-api/internal/model"
)

// All repository interfaces in one file
type (
	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
		GetByEmail(ctx context.Context, email string) (*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
		Deactivate(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error)
		ListActive(ctx context.Context) ([]*model.Patient, error)
		CountActive(ctx context.Context) (int, error)
		CountCreatedSince(ctx context.Context, since time.Time) (int, error)
		GenderDistribution(ctx context.Context) (map[model.Gender]int, error)

		AddMedicalRecord(ctx context.Context, record *model.MedicalRecord) error
		ListMedicalRecords(ctx context.Context, patientID uuid.UUID) ([]*model.MedicalRecord, error)
		CountMedicalRecords(ctx context.Context, patientID uuid.UUID) (int, error)
	}

	DoctorRepository interface {
		Create(ctx context.Context, doctor *model.Doctor) error
		Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
		GetByEmail(ctx context.Context, email string) (*model.Doctor, error)
		GetByLicense(ctx context.Context, license string) (*model.Doctor, error)
		Update(ctx context.Context, doctor *model.Doctor) error
		Deactivate(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.DoctorFilters) ([]*model.Doctor, error)
		CountActive(ctx context.Context) (int, error)
	}

	AppointmentRepository interface {
		// CreateIfSlotFree inserts the appointment inside one transaction,
		// re-checking the slot; the partial unique index on
		// (doctor_id, date, time) WHERE status IN ('scheduled','confirmed')
		// backs it against concurrent bookings.
		CreateIfSlotFree(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error)

		IsSlotTaken(ctx context.Context, doctorID uuid.UUID, date, clock string, excludeID *uuid.UUID) (bool, error)
		ListForDoctorDay(ctx context.Context, doctorID uuid.UUID, date string) ([]*model.Appointment, error)
		ListActiveBetween(ctx context.Context, doctorID uuid.UUID, dateFrom, dateTo string) ([]*model.Appointment, error)
		ListUpcomingForPatient(ctx context.Context, patientID uuid.UUID, fromDate string, limit int) ([]*model.Appointment, error)
		ListSince(ctx context.Context, fromDate string) ([]*model.Appointment, error)

		CountOnDateWithStatuses(ctx context.Context, date string, statuses []model.AppointmentStatus) (int, error)
		CountSince(ctx context.Context, fromDate string) (int, error)
		CountForPatient(ctx context.Context, patientID uuid.UUID) (int, error)
		CountForPatientWithStatus(ctx context.Context, patientID uuid.UUID, status model.AppointmentStatus) (int, error)
		CountUpcomingForPatient(ctx context.Context, patientID uuid.UUID, fromDate string) (int, error)
		LastForPatient(ctx context.Context, patientID uuid.UUID) (*model.Appointment, error)
		StatusCountsForDoctor(ctx context.Context, doctorID uuid.UUID, dateFrom, dateTo string) (map[model.AppointmentStatus]int, error)
	}

	HealthDataRepository interface {
		Create(ctx context.Context, reading *model.HealthReading) error
		Get(ctx context.Context, id uuid.UUID) (*model.HealthReading, error)
		Update(ctx context.Context, reading *model.HealthReading) error
		Delete(ctx context.Context, id uuid.UUID) error

		Latest(ctx context.Context, patientID uuid.UUID) (*model.HealthReading, error)
		ListSince(ctx context.Context, patientID uuid.UUID, since time.Time, limit int) ([]*model.HealthReading, error)
		ListWindowAsc(ctx context.Context, patientID uuid.UUID, from time.Time) ([]*model.HealthReading, error)
		ListAllSince(ctx context.Context, since time.Time) ([]*model.HealthReading, error)
		CountForPatient(ctx context.Context, patientID uuid.UUID) (int, error)
		CountWithAnyMetricSince(ctx context.Context, kinds []model.MetricKind, since time.Time) (int, error)
		CountPatientsWithAnyMetric(ctx context.Context, kinds []model.MetricKind) (int, error)
	}

	NotificationRepository interface {
		Create(ctx context.Context, notification *model.Notification) error
		Get(ctx context.Context, id uuid.UUID) (*model.Notification, error)
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, recipientID uuid.UUID, filters *model.NotificationFilters) ([]*model.Notification, error)
		MarkRead(ctx context.Context, id uuid.UUID) error
		MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int, error)
		CountUnread(ctx context.Context, recipientID uuid.UUID) (int, error)
		Counts(ctx context.Context, recipientID uuid.UUID) (*model.NotificationCounts, error)
	}

	OrganRepository interface {
		Create(ctx context.Context, organ *model.Organ) error
		Get(ctx context.Context, id uuid.UUID) (*model.Organ, error)
		GetByName(ctx context.Context, name string) (*model.Organ, error)
		Update(ctx context.Context, organ *model.Organ) error
		Deactivate(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, p *model.Pagination) ([]*model.Organ, error)
	}
)
