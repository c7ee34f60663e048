package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/medtrack/medrecord-api/internal/model"
	"github.com/medtrack/medrecord-api/internal/repository"
	apperrors "github.com/medtrack/medrecord-api/pkg/errors"
)

type appointmentRepository struct {
	BaseRepository
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{BaseRepository: NewBaseRepository(db)}
}

const appointmentColumns = `
	id, patient_id, doctor_id, date, time, duration, type, status, notes, created_at, updated_at
`

func (r *appointmentRepository) CreateIfSlotFree(ctx context.Context, appointment *model.Appointment) error {
	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		var taken bool
		check := `
			SELECT EXISTS (
				SELECT 1 FROM appointments
				WHERE doctor_id = $1 AND date = $2 AND time = $3
				  AND status IN ('scheduled', 'confirmed')
			)
		`
		if err := tx.GetContext(ctx, &taken, check, appointment.DoctorID, appointment.Date, appointment.Time); err != nil {
			return fmt.Errorf("failed to check slot availability: %w", err)
		}
		if taken {
			return apperrors.Conflict("time slot is already booked")
		}

		insert := `
			INSERT INTO appointments (` + appointmentColumns + `)
			VALUES (:id, :patient_id, :doctor_id, :date, :time, :duration, :type, :status, :notes, :created_at, :updated_at)
		`
		if _, err := tx.NamedExecContext(ctx, insert, appointment); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		// The partial unique index on (doctor_id, date, time) catches
		// the race the pre-check cannot.
		if isUniqueViolation(err) {
			return apperrors.Conflict("time slot is already booked")
		}
		if _, ok := apperrors.As(err); ok {
			return err
		}
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`
	var appointment model.Appointment
	if err := r.db.GetContext(ctx, &appointment, query, id); err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("appointment")
		}
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	query := `
		UPDATE appointments
		SET date = :date, time = :time, duration = :duration, type = :type,
		    status = :status, notes = :notes, updated_at = :updated_at
		WHERE id = :id
	`
	result, err := r.db.NamedExecContext(ctx, query, appointment)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("time slot is already booked")
		}
		return fmt.Errorf("failed to update appointment: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("appointment")
	}
	return nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("appointment")
	}
	return nil
}

func (r *appointmentRepository) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE 1=1`
	args := []interface{}{}
	argCount := 1

	if filters.PatientID != uuid.Nil {
		query += fmt.Sprintf(" AND patient_id = $%d", argCount)
		args = append(args, filters.PatientID)
		argCount++
	}
	if filters.DoctorID != uuid.Nil {
		query += fmt.Sprintf(" AND doctor_id = $%d", argCount)
		args = append(args, filters.DoctorID)
		argCount++
	}
	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filters.Status)
		argCount++
	}
	if filters.DateFrom != "" {
		query += fmt.Sprintf(" AND date >= $%d", argCount)
		args = append(args, filters.DateFrom)
		argCount++
	}
	if filters.DateTo != "" {
		query += fmt.Sprintf(" AND date <= $%d", argCount)
		args = append(args, filters.DateTo)
		argCount++
	}

	query += fmt.Sprintf(" ORDER BY date DESC, time DESC LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, filters.Limit, filters.Offset)

	appointments := []*model.Appointment{}
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) IsSlotTaken(ctx context.Context, doctorID uuid.UUID, date, clock string, excludeID *uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM appointments
			WHERE doctor_id = $1 AND date = $2 AND time = $3
			  AND status IN ('scheduled', 'confirmed')
	`
	args := []interface{}{doctorID, date, clock}
	if excludeID != nil {
		query += " AND id <> $4"
		args = append(args, *excludeID)
	}
	query += ")"

	var taken bool
	if err := r.db.GetContext(ctx, &taken, query, args...); err != nil {
		return false, fmt.Errorf("failed to check slot availability: %w", err)
	}
	return taken, nil
}

func (r *appointmentRepository) ListForDoctorDay(ctx context.Context, doctorID uuid.UUID, date string) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE doctor_id = $1 AND date = $2
		ORDER BY time
	`
	appointments := []*model.Appointment{}
	if err := r.db.SelectContext(ctx, &appointments, query, doctorID, date); err != nil {
		return nil, fmt.Errorf("failed to list doctor day appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListActiveBetween(ctx context.Context, doctorID uuid.UUID, dateFrom, dateTo string) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE doctor_id = $1 AND date >= $2 AND date <= $3
		  AND status IN ('scheduled', 'confirmed')
		ORDER BY date, time
	`
	appointments := []*model.Appointment{}
	if err := r.db.SelectContext(ctx, &appointments, query, doctorID, dateFrom, dateTo); err != nil {
		return nil, fmt.Errorf("failed to list active appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListUpcomingForPatient(ctx context.Context, patientID uuid.UUID, fromDate string, limit int) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE patient_id = $1 AND date >= $2
		  AND status IN ('scheduled', 'confirmed')
		ORDER BY date, time
		LIMIT $3
	`
	appointments := []*model.Appointment{}
	if err := r.db.SelectContext(ctx, &appointments, query, patientID, fromDate, limit); err != nil {
		return nil, fmt.Errorf("failed to list upcoming appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListSince(ctx context.Context, fromDate string) ([]*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE date >= $1
		ORDER BY date, time
	`
	appointments := []*model.Appointment{}
	if err := r.db.SelectContext(ctx, &appointments, query, fromDate); err != nil {
		return nil, fmt.Errorf("failed to list appointments since date: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) CountOnDateWithStatuses(ctx context.Context, date string, statuses []model.AppointmentStatus) (int, error) {
	query, args, err := sqlx.In(
		`SELECT COUNT(*) FROM appointments WHERE date = ? AND status IN (?)`,
		date, statuses,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}
	query = r.db.Rebind(query)

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("failed to count appointments on date: %w", err)
	}
	return count, nil
}

func (r *appointmentRepository) CountSince(ctx context.Context, fromDate string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM appointments WHERE date >= $1`
	if err := r.db.GetContext(ctx, &count, query, fromDate); err != nil {
		return 0, fmt.Errorf("failed to count appointments since date: %w", err)
	}
	return count, nil
}

func (r *appointmentRepository) CountForPatient(ctx context.Context, patientID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM appointments WHERE patient_id = $1`
	if err := r.db.GetContext(ctx, &count, query, patientID); err != nil {
		return 0, fmt.Errorf("failed to count patient appointments: %w", err)
	}
	return count, nil
}

func (r *appointmentRepository) CountForPatientWithStatus(ctx context.Context, patientID uuid.UUID, status model.AppointmentStatus) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM appointments WHERE patient_id = $1 AND status = $2`
	if err := r.db.GetContext(ctx, &count, query, patientID, status); err != nil {
		return 0, fmt.Errorf("failed to count patient appointments by status: %w", err)
	}
	return count, nil
}

func (r *appointmentRepository) CountUpcomingForPatient(ctx context.Context, patientID uuid.UUID, fromDate string) (int, error) {
	var count int
	query := `
		SELECT COUNT(*) FROM appointments
		WHERE patient_id = $1 AND date >= $2 AND status IN ('scheduled', 'confirmed')
	`
	if err := r.db.GetContext(ctx, &count, query, patientID, fromDate); err != nil {
		return 0, fmt.Errorf("failed to count upcoming appointments: %w", err)
	}
	return count, nil
}

func (r *appointmentRepository) LastForPatient(ctx context.Context, patientID uuid.UUID) (*model.Appointment, error) {
	query := `
		SELECT ` + appointmentColumns + `
		FROM appointments
		WHERE patient_id = $1
		ORDER BY date DESC, time DESC
		LIMIT 1
	`
	var appointment model.Appointment
	if err := r.db.GetContext(ctx, &appointment, query, patientID); err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("appointment")
		}
		return nil, fmt.Errorf("failed to get last appointment: %w", err)
	}
	return &appointment, nil
}

func (r *appointmentRepository) StatusCountsForDoctor(ctx context.Context, doctorID uuid.UUID, dateFrom, dateTo string) (map[model.AppointmentStatus]int, error) {
	query := `
		SELECT status, COUNT(*) AS count
		FROM appointments
		WHERE doctor_id = $1 AND date >= $2 AND date <= $3
		GROUP BY status
	`
	rows := []struct {
		Status model.AppointmentStatus `db:"status"`
		Count  int                     `db:"count"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query, doctorID, dateFrom, dateTo); err != nil {
		return nil, fmt.Errorf("failed to get status counts: %w", err)
	}
	counts := make(map[model.AppointmentStatus]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
