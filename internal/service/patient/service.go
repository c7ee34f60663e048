package patient

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medtrack/medrecord-api/internal/model"
	"github.com/medtrack/medrecord-api/internal/repository"
	apperrors "github.com/medtrack/medrecord-api/pkg/errors"
	"github.com/medtrack/medrecord-api/pkg/logger"
	"github.com/medtrack/medrecord-api/pkg/validator"
)

type Service struct {
	repo            repository.PatientRepository
	appointmentRepo repository.AppointmentRepository
	healthRepo      repository.HealthDataRepository
	doctorRepo      repository.DoctorRepository
	logger          *logger.Logger
}

func NewService(
	repo repository.PatientRepository,
	appointmentRepo repository.AppointmentRepository,
	healthRepo repository.HealthDataRepository,
	doctorRepo repository.DoctorRepository,
	log *logger.Logger,
) *Service {
	return &Service{
		repo:            repo,
		appointmentRepo: appointmentRepo,
		healthRepo:      healthRepo,
		doctorRepo:      doctorRepo,
		logger:          log,
	}
}

func (s *Service) Create(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error) {
	if err := validator.Date(req.DateOfBirth); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperrors.Conflict("patient with this email already exists")
	} else if !apperrors.IsNotFound(err) {
		return nil, err
	}

	now := time.Now()
	patient := &model.Patient{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		FirstName:             req.FirstName,
		LastName:              req.LastName,
		DateOfBirth:           req.DateOfBirth,
		Gender:                req.Gender,
		Email:                 req.Email,
		Phone:                 req.Phone,
		Address:               req.Address,
		EmergencyName:         req.EmergencyName,
		EmergencyPhone:        req.EmergencyPhone,
		EmergencyRelationship: req.EmergencyRelationship,
		Allergies:             req.Allergies,
		BloodType:             req.BloodType,
		Status:                model.EntityStatusActive,
	}
	if err := encodeAllergies(patient); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, err
	}
	s.logger.Info("patient created", "patient_id", patient.ID.String())
	return patient, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := decodeAllergies(patient); err != nil {
		return nil, err
	}
	return patient, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdatePatientRequest) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := decodeAllergies(patient); err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		patient.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		patient.LastName = *req.LastName
	}
	if req.DateOfBirth != nil {
		if err := validator.Date(*req.DateOfBirth); err != nil {
			return nil, apperrors.Validation(err.Error())
		}
		patient.DateOfBirth = *req.DateOfBirth
	}
	if req.Gender != nil {
		patient.Gender = *req.Gender
	}
	if req.Email != nil {
		patient.Email = *req.Email
	}
	if req.Phone != nil {
		patient.Phone = *req.Phone
	}
	if req.Address != nil {
		patient.Address = *req.Address
	}
	if req.EmergencyName != nil {
		patient.EmergencyName = *req.EmergencyName
	}
	if req.EmergencyPhone != nil {
		patient.EmergencyPhone = *req.EmergencyPhone
	}
	if req.EmergencyRelationship != nil {
		patient.EmergencyRelationship = *req.EmergencyRelationship
	}
	if req.Allergies != nil {
		patient.Allergies = req.Allergies
	}
	if req.BloodType != nil {
		patient.BloodType = *req.BloodType
	}

	patient.UpdatedAt = time.Now()
	if err := encodeAllergies(patient); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, patient); err != nil {
		return nil, err
	}
	return patient, nil
}

// Deactivate soft-deletes the patient; their records stay in place.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.repo.Deactivate(ctx, id)
}

func (s *Service) List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error) {
	filters.Normalize(50, 200)
	patients, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, err
	}
	for _, patient := range patients {
		if err := decodeAllergies(patient); err != nil {
			return nil, err
		}
	}
	return patients, nil
}

// Statistics assembles the patient profile activity block.
func (s *Service) Statistics(ctx context.Context, id uuid.UUID) (*model.PatientStatistics, error) {
	patient, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	total, err := s.appointmentRepo.CountForPatient(ctx, id)
	if err != nil {
		return nil, err
	}
	completed, err := s.appointmentRepo.CountForPatientWithStatus(ctx, id, model.AppointmentStatusCompleted)
	if err != nil {
		return nil, err
	}
	today := time.Now().Format("2006-01-02")
	upcoming, err := s.appointmentRepo.CountUpcomingForPatient(ctx, id, today)
	if err != nil {
		return nil, err
	}
	healthRecords, err := s.healthRepo.CountForPatient(ctx, id)
	if err != nil {
		return nil, err
	}
	medicalRecords, err := s.repo.CountMedicalRecords(ctx, id)
	if err != nil {
		return nil, err
	}

	stats := &model.PatientStatistics{
		PatientID:             id,
		TotalAppointments:     total,
		CompletedAppointments: completed,
		UpcomingAppointments:  upcoming,
		TotalHealthRecords:    healthRecords,
		TotalMedicalRecords:   medicalRecords,
		RegisteredAt:          patient.CreatedAt,
	}
	if age, err := ageFromDOB(patient.DateOfBirth); err == nil {
		stats.Age = age
	}
	if total > 0 {
		stats.CompletionRate = float64(completed) / float64(total) * 100
	}
	if last, err := s.appointmentRepo.LastForPatient(ctx, id); err == nil {
		if at, err := time.Parse("2006-01-02 15:04", last.Date+" "+last.Time); err == nil {
			stats.LastActivity = &at
		}
	}
	return stats, nil
}

// AddMedicalRecord files a record against the patient after verifying both
// parties exist.
func (s *Service) AddMedicalRecord(ctx context.Context, req *model.CreateMedicalRecordRequest) (*model.MedicalRecord, error) {
	if _, err := s.repo.Get(ctx, req.PatientID); err != nil {
		return nil, err
	}
	if _, err := s.doctorRepo.Get(ctx, req.DoctorID); err != nil {
		return nil, err
	}

	now := time.Now()
	record := &model.MedicalRecord{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		PatientID:   req.PatientID,
		DoctorID:    req.DoctorID,
		Date:        req.Date,
		Diagnosis:   req.Diagnosis,
		Symptoms:    req.Symptoms,
		Treatment:   req.Treatment,
		Medications: req.Medications,
		FollowUp:    req.FollowUp,
	}
	if err := encodeRecordLists(record); err != nil {
		return nil, err
	}
	if err := s.repo.AddMedicalRecord(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *Service) ListMedicalRecords(ctx context.Context, patientID uuid.UUID) ([]*model.MedicalRecord, error) {
	if _, err := s.repo.Get(ctx, patientID); err != nil {
		return nil, err
	}
	records, err := s.repo.ListMedicalRecords(ctx, patientID)
	if err != nil {
		return nil, err
	}
	for _, record := range records {
		if err := decodeRecordLists(record); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func encodeAllergies(patient *model.Patient) error {
	if patient.Allergies == nil {
		patient.Allergies = []string{}
	}
	data, err := json.Marshal(patient.Allergies)
	if err != nil {
		return fmt.Errorf("failed to encode allergies: %w", err)
	}
	patient.AllergiesJSON = data
	return nil
}

func decodeAllergies(patient *model.Patient) error {
	patient.Allergies = []string{}
	if len(patient.AllergiesJSON) == 0 {
		return nil
	}
	if err := json.Unmarshal(patient.AllergiesJSON, &patient.Allergies); err != nil {
		return fmt.Errorf("failed to decode allergies: %w", err)
	}
	return nil
}

func encodeRecordLists(record *model.MedicalRecord) error {
	if record.Symptoms == nil {
		record.Symptoms = []string{}
	}
	if record.Medications == nil {
		record.Medications = []string{}
	}
	symptoms, err := json.Marshal(record.Symptoms)
	if err != nil {
		return fmt.Errorf("failed to encode symptoms: %w", err)
	}
	medications, err := json.Marshal(record.Medications)
	if err != nil {
		return fmt.Errorf("failed to encode medications: %w", err)
	}
	record.SymptomsJSON = symptoms
	record.MedicationsJSON = medications
	return nil
}

func decodeRecordLists(record *model.MedicalRecord) error {
	record.Symptoms = []string{}
	record.Medications = []string{}
	if len(record.SymptomsJSON) > 0 {
		if err := json.Unmarshal(record.SymptomsJSON, &record.Symptoms); err != nil {
			return fmt.Errorf("failed to decode symptoms: %w", err)
		}
	}
	if len(record.MedicationsJSON) > 0 {
		if err := json.Unmarshal(record.MedicationsJSON, &record.Medications); err != nil {
			return fmt.Errorf("failed to decode medications: %w", err)
		}
	}
	return nil
}

func ageFromDOB(dob string) (int, error) {
	born, err := time.Parse("2006-01-02", dob)
	if err != nil {
		return 0, err
	}
	now := time.Now()
	age := now.Year() - born.Year()
	if now.YearDay() < born.YearDay() {
		age--
	}
	return age, nil
}
