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

type doctorRepository struct {
	BaseRepository
}

func NewDoctorRepository(db *sqlx.DB) repository.DoctorRepository {
	return &doctorRepository{BaseRepository: NewBaseRepository(db)}
}

const doctorColumns = `
	id, first_name, last_name, specialization, email, phone, license_number,
	experience_years, rating, avatar, status, created_at, updated_at
`

func (r *doctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	query := `
		INSERT INTO doctors (` + doctorColumns + `)
		VALUES (:id, :first_name, :last_name, :specialization, :email, :phone, :license_number,
		        :experience_years, :rating, :avatar, :status, :created_at, :updated_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, doctor); err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("doctor with this email or license number already exists")
		}
		return fmt.Errorf("failed to create doctor: %w", err)
	}
	return nil
}

func (r *doctorRepository) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	query := `SELECT ` + doctorColumns + ` FROM doctors WHERE id = $1 AND status = 'active'`
	var doctor model.Doctor
	if err := r.db.GetContext(ctx, &doctor, query, id); err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("doctor")
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) GetByEmail(ctx context.Context, email string) (*model.Doctor, error) {
	query := `SELECT ` + doctorColumns + ` FROM doctors WHERE email = $1 AND status = 'active'`
	var doctor model.Doctor
	if err := r.db.GetContext(ctx, &doctor, query, email); err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("doctor")
		}
		return nil, fmt.Errorf("failed to get doctor by email: %w", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) GetByLicense(ctx context.Context, license string) (*model.Doctor, error) {
	query := `SELECT ` + doctorColumns + ` FROM doctors WHERE license_number = $1 AND status = 'active'`
	var doctor model.Doctor
	if err := r.db.GetContext(ctx, &doctor, query, license); err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("doctor")
		}
		return nil, fmt.Errorf("failed to get doctor by license: %w", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) Update(ctx context.Context, doctor *model.Doctor) error {
	query := `
		UPDATE doctors
		SET first_name = :first_name, last_name = :last_name, specialization = :specialization,
		    email = :email, phone = :phone, license_number = :license_number,
		    experience_years = :experience_years, rating = :rating, avatar = :avatar,
		    updated_at = :updated_at
		WHERE id = :id AND status = 'active'
	`
	result, err := r.db.NamedExecContext(ctx, query, doctor)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("doctor with this email or license number already exists")
		}
		return fmt.Errorf("failed to update doctor: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("doctor")
	}
	return nil
}

func (r *doctorRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE doctors SET status = 'inactive', updated_at = $1 WHERE id = $2 AND status = 'active'`
	result, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to deactivate doctor: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("doctor")
	}
	return nil
}

func (r *doctorRepository) List(ctx context.Context, filters *model.DoctorFilters) ([]*model.Doctor, error) {
	query := `SELECT ` + doctorColumns + ` FROM doctors WHERE status = 'active'`
	args := []interface{}{}
	argCount := 1

	if filters.SearchTerm != "" {
		query += fmt.Sprintf(" AND (first_name ILIKE $%d OR last_name ILIKE $%d OR specialization ILIKE $%d)", argCount, argCount, argCount)
		args = append(args, "%"+filters.SearchTerm+"%")
		argCount++
	}
	if filters.Specialization != "" {
		query += fmt.Sprintf(" AND specialization ILIKE $%d", argCount)
		args = append(args, filters.Specialization)
		argCount++
	}

	query += fmt.Sprintf(" ORDER BY last_name, first_name LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, filters.Limit, filters.Offset)

	doctors := []*model.Doctor{}
	if err := r.db.SelectContext(ctx, &doctors, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}

func (r *doctorRepository) CountActive(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM doctors WHERE status = 'active'`); err != nil {
		return 0, fmt.Errorf("failed to count doctors: %w", err)
	}
	return count, nil
}
