package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/medtrack/medrecord-api/internal/model"
	"github.com/medtrack/medrecord-api/internal/repository"
	apperrors "github.com/medtrack/medrecord-api/pkg/errors"
)

type healthDataRepository struct {
	BaseRepository
}

func NewHealthDataRepository(db *sqlx.DB) repository.HealthDataRepository {
	return &healthDataRepository{BaseRepository: NewBaseRepository(db)}
}

const healthDataColumns = `
	id, patient_id, heart_rate, blood_pressure_systolic, blood_pressure_diastolic,
	temperature, weight, height, blood_sugar, oxygen_saturation, notes, recorded_at, created_at
`

func (r *healthDataRepository) Create(ctx context.Context, reading *model.HealthReading) error {
	query := `
		INSERT INTO health_data (` + healthDataColumns + `)
		VALUES (:id, :patient_id, :heart_rate, :blood_pressure_systolic, :blood_pressure_diastolic,
		        :temperature, :weight, :height, :blood_sugar, :oxygen_saturation, :notes, :recorded_at, :created_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, reading); err != nil {
		return fmt.Errorf("failed to create health reading: %w", err)
	}
	return nil
}

func (r *healthDataRepository) Get(ctx context.Context, id uuid.UUID) (*model.HealthReading, error) {
	query := `SELECT ` + healthDataColumns + ` FROM health_data WHERE id = $1`
	var reading model.HealthReading
	if err := r.db.GetContext(ctx, &reading, query, id); err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("health reading")
		}
		return nil, fmt.Errorf("failed to get health reading: %w", err)
	}
	return &reading, nil
}

func (r *healthDataRepository) Update(ctx context.Context, reading *model.HealthReading) error {
	query := `
		UPDATE health_data
		SET heart_rate = :heart_rate, blood_pressure_systolic = :blood_pressure_systolic,
		    blood_pressure_diastolic = :blood_pressure_diastolic, temperature = :temperature,
		    weight = :weight, height = :height, blood_sugar = :blood_sugar,
		    oxygen_saturation = :oxygen_saturation, notes = :notes
		WHERE id = :id
	`
	result, err := r.db.NamedExecContext(ctx, query, reading)
	if err != nil {
		return fmt.Errorf("failed to update health reading: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("health reading")
	}
	return nil
}

func (r *healthDataRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM health_data WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete health reading: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("health reading")
	}
	return nil
}

func (r *healthDataRepository) Latest(ctx context.Context, patientID uuid.UUID) (*model.HealthReading, error) {
	query := `
		SELECT ` + healthDataColumns + `
		FROM health_data
		WHERE patient_id = $1
		ORDER BY recorded_at DESC
		LIMIT 1
	`
	var reading model.HealthReading
	if err := r.db.GetContext(ctx, &reading, query, patientID); err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("health reading")
		}
		return nil, fmt.Errorf("failed to get latest health reading: %w", err)
	}
	return &reading, nil
}

func (r *healthDataRepository) ListSince(ctx context.Context, patientID uuid.UUID, since time.Time, limit int) ([]*model.HealthReading, error) {
	query := `
		SELECT ` + healthDataColumns + `
		FROM health_data
		WHERE patient_id = $1 AND recorded_at >= $2
		ORDER BY recorded_at DESC
		LIMIT $3
	`
	readings := []*model.HealthReading{}
	if err := r.db.SelectContext(ctx, &readings, query, patientID, since, limit); err != nil {
		return nil, fmt.Errorf("failed to list health readings: %w", err)
	}
	return readings, nil
}

func (r *healthDataRepository) ListWindowAsc(ctx context.Context, patientID uuid.UUID, from time.Time) ([]*model.HealthReading, error) {
	query := `
		SELECT ` + healthDataColumns + `
		FROM health_data
		WHERE patient_id = $1 AND recorded_at >= $2
		ORDER BY recorded_at ASC
	`
	readings := []*model.HealthReading{}
	if err := r.db.SelectContext(ctx, &readings, query, patientID, from); err != nil {
		return nil, fmt.Errorf("failed to list health readings: %w", err)
	}
	return readings, nil
}

func (r *healthDataRepository) ListAllSince(ctx context.Context, since time.Time) ([]*model.HealthReading, error) {
	query := `
		SELECT ` + healthDataColumns + `
		FROM health_data
		WHERE recorded_at >= $1
		ORDER BY recorded_at DESC
	`
	readings := []*model.HealthReading{}
	if err := r.db.SelectContext(ctx, &readings, query, since); err != nil {
		return nil, fmt.Errorf("failed to list health readings: %w", err)
	}
	return readings, nil
}

func (r *healthDataRepository) CountForPatient(ctx context.Context, patientID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM health_data WHERE patient_id = $1`
	if err := r.db.GetContext(ctx, &count, query, patientID); err != nil {
		return 0, fmt.Errorf("failed to count health readings: %w", err)
	}
	return count, nil
}

func (r *healthDataRepository) CountWithAnyMetricSince(ctx context.Context, kinds []model.MetricKind, since time.Time) (int, error) {
	clause, err := anyMetricClause(kinds)
	if err != nil {
		return 0, err
	}
	query := `SELECT COUNT(*) FROM health_data WHERE recorded_at >= $1 AND (` + clause + `)`
	var count int
	if err := r.db.GetContext(ctx, &count, query, since); err != nil {
		return 0, fmt.Errorf("failed to count readings with metrics: %w", err)
	}
	return count, nil
}

func (r *healthDataRepository) CountPatientsWithAnyMetric(ctx context.Context, kinds []model.MetricKind) (int, error) {
	clause, err := anyMetricClause(kinds)
	if err != nil {
		return 0, err
	}
	query := `SELECT COUNT(DISTINCT patient_id) FROM health_data WHERE ` + clause
	var count int
	if err := r.db.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("failed to count patients with metrics: %w", err)
	}
	return count, nil
}

// anyMetricClause builds "col IS NOT NULL OR ..." for the given kinds. Only
// kinds backed by a health_data column are accepted; the column name is the
// metric kind itself, validated against ReadingMetrics so no caller input
// reaches the SQL text unchecked.
func anyMetricClause(kinds []model.MetricKind) (string, error) {
	if len(kinds) == 0 {
		return "", fmt.Errorf("no metric kinds given")
	}
	parts := make([]string, 0, len(kinds))
	for _, kind := range kinds {
		if _, err := model.ParseMetricKind(string(kind)); err != nil {
			return "", fmt.Errorf("metric %q has no health_data column", kind)
		}
		parts = append(parts, string(kind)+" IS NOT NULL")
	}
	return strings.Join(parts, " OR "), nil
}
