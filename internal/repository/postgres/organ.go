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

type organRepository struct {
	BaseRepository
}

func NewOrganRepository(db *sqlx.DB) repository.OrganRepository {
	return &organRepository{BaseRepository: NewBaseRepository(db)}
}

const organColumns = `
	id, name, description, function, related_metrics, status, created_at, updated_at
`

func (r *organRepository) Create(ctx context.Context, organ *model.Organ) error {
	query := `
		INSERT INTO organs (` + organColumns + `)
		VALUES (:id, :name, :description, :function, :related_metrics, :status, :created_at, :updated_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, organ); err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("organ with this name already exists")
		}
		return fmt.Errorf("failed to create organ: %w", err)
	}
	return nil
}

func (r *organRepository) Get(ctx context.Context, id uuid.UUID) (*model.Organ, error) {
	query := `SELECT ` + organColumns + ` FROM organs WHERE id = $1 AND status = 'active'`
	var organ model.Organ
	if err := r.db.GetContext(ctx, &organ, query, id); err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("organ")
		}
		return nil, fmt.Errorf("failed to get organ: %w", err)
	}
	return &organ, nil
}

func (r *organRepository) GetByName(ctx context.Context, name string) (*model.Organ, error) {
	query := `SELECT ` + organColumns + ` FROM organs WHERE LOWER(name) = LOWER($1) AND status = 'active'`
	var organ model.Organ
	if err := r.db.GetContext(ctx, &organ, query, name); err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("organ")
		}
		return nil, fmt.Errorf("failed to get organ by name: %w", err)
	}
	return &organ, nil
}

func (r *organRepository) Update(ctx context.Context, organ *model.Organ) error {
	query := `
		UPDATE organs
		SET name = :name, description = :description, function = :function,
		    related_metrics = :related_metrics, updated_at = :updated_at
		WHERE id = :id AND status = 'active'
	`
	result, err := r.db.NamedExecContext(ctx, query, organ)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Conflict("organ with this name already exists")
		}
		return fmt.Errorf("failed to update organ: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("organ")
	}
	return nil
}

func (r *organRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE organs SET status = 'inactive', updated_at = $1 WHERE id = $2 AND status = 'active'`
	result, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to deactivate organ: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("organ")
	}
	return nil
}

func (r *organRepository) List(ctx context.Context, p *model.Pagination) ([]*model.Organ, error) {
	query := `
		SELECT ` + organColumns + `
		FROM organs
		WHERE status = 'active'
		ORDER BY name
		LIMIT $1 OFFSET $2
	`
	organs := []*model.Organ{}
	if err := r.db.SelectContext(ctx, &organs, query, p.Limit, p.Offset); err != nil {
		return nil, fmt.Errorf("failed to list organs: %w", err)
	}
	return organs, nil
}
