package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/medtrack/medrecord-api/internal/model"
	"github.com/medtrack/medrecord-api/internal/repository"
	apperrors "github.com/medtrack/medrecord-api/pkg/errors"
)

type patientRepository struct {
	BaseRepository
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{BaseRepository: NewBaseRepository(db)}
}

const patientColumns = `
	id, first_name, last_name, date_of_birth, gender, email, phone, address,
	emergency_contact_name, emergency_contact_phone, emergency_contact_relationship,
	allergies, blood_type, status, created_at, updated_at
`

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patients (` + patientColumns + `)
		VALUES (:id, :first_name, :last_name, :date_of_birth, :gender, :email, :phone, :address,
		        :emergency_contact_name, :emergency_contact_phone, :emergency_contact_relationship,
		        :allergies, :blood_type, :status, :created_at, :updated_at)
	`
	_, err := r.db.NamedExecContext(ctx, query, patient)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("patient with this email already exists")
		}
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE id = $1 AND status = 'active'`
	var patient model.Patient
	if err := r.db.GetContext(ctx, &patient, query, id); err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("patient")
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) GetByEmail(ctx context.Context, email string) (*model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE email = $1 AND status = 'active'`
	var patient model.Patient
	if err := r.db.GetContext(ctx, &patient, query, email); err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("patient")
		}
		return nil, fmt.Errorf("failed to get patient by email: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	query := `
		UPDATE patients
		SET first_name = :first_name, last_name = :last_name, date_of_birth = :date_of_birth,
		    gender = :gender, email = :email, phone = :phone, address = :address,
		    emergency_contact_name = :emergency_contact_name,
		    emergency_contact_phone = :emergency_contact_phone,
		    emergency_contact_relationship = :emergency_contact_relationship,
		    allergies = :allergies, blood_type = :blood_type, updated_at = :updated_at
		WHERE id = :id AND status = 'active'
	`
	result, err := r.db.NamedExecContext(ctx, query, patient)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("patient with this email already exists")
		}
		return fmt.Errorf("failed to update patient: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("patient")
	}
	return nil
}

func (r *patientRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE patients SET status = 'inactive', updated_at = $1 WHERE id = $2 AND status = 'active'`
	result, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to deactivate patient: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("patient")
	}
	return nil
}

func (r *patientRepository) List(ctx context.Context, filters *model.PatientFilters) ([]*model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE status = 'active'`
	args := []interface{}{}
	argCount := 1

	if filters.SearchTerm != "" {
		query += fmt.Sprintf(" AND (first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d)", argCount, argCount, argCount)
		args = append(args, "%"+filters.SearchTerm+"%")
		argCount++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, filters.Limit, filters.Offset)

	patients := []*model.Patient{}
	if err := r.db.SelectContext(ctx, &patients, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

func (r *patientRepository) ListActive(ctx context.Context) ([]*model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE status = 'active'`
	patients := []*model.Patient{}
	if err := r.db.SelectContext(ctx, &patients, query); err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

func (r *patientRepository) CountActive(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM patients WHERE status = 'active'`)
	if err != nil {
		return 0, fmt.Errorf("failed to count patients: %w", err)
	}
	return count, nil
}

func (r *patientRepository) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM patients WHERE status = 'active' AND created_at >= $1`
	if err := r.db.GetContext(ctx, &count, query, since); err != nil {
		return 0, fmt.Errorf("failed to count recent patients: %w", err)
	}
	return count, nil
}

func (r *patientRepository) GenderDistribution(ctx context.Context) (map[model.Gender]int, error) {
	query := `SELECT gender, COUNT(*) AS count FROM patients WHERE status = 'active' GROUP BY gender`
	rows := []struct {
		Gender model.Gender `db:"gender"`
		Count  int          `db:"count"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to get gender distribution: %w", err)
	}
	dist := make(map[model.Gender]int, len(rows))
	for _, row := range rows {
		dist[row.Gender] = row.Count
	}
	return dist, nil
}

func (r *patientRepository) AddMedicalRecord(ctx context.Context, record *model.MedicalRecord) error {
	query := `
		INSERT INTO medical_records (id, patient_id, doctor_id, date, diagnosis, symptoms,
		                             treatment, medications, follow_up, created_at, updated_at)
		VALUES (:id, :patient_id, :doctor_id, :date, :diagnosis, :symptoms,
		        :treatment, :medications, :follow_up, :created_at, :updated_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("failed to create medical record: %w", err)
	}
	return nil
}

func (r *patientRepository) ListMedicalRecords(ctx context.Context, patientID uuid.UUID) ([]*model.MedicalRecord, error) {
	query := `
		SELECT id, patient_id, doctor_id, date, diagnosis, symptoms,
		       treatment, medications, follow_up, created_at, updated_at
		FROM medical_records
		WHERE patient_id = $1
		ORDER BY date DESC
	`
	records := []*model.MedicalRecord{}
	if err := r.db.SelectContext(ctx, &records, query, patientID); err != nil {
		return nil, fmt.Errorf("failed to list medical records: %w", err)
	}
	return records, nil
}

func (r *patientRepository) CountMedicalRecords(ctx context.Context, patientID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM medical_records WHERE patient_id = $1`
	if err := r.db.GetContext(ctx, &count, query, patientID); err != nil {
		return 0, fmt.Errorf("failed to count medical records: %w", err)
	}
	return count, nil
}
