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

type notificationRepository struct {
	BaseRepository
}

func NewNotificationRepository(db *sqlx.DB) repository.NotificationRepository {
	return &notificationRepository{BaseRepository: NewBaseRepository(db)}
}

const notificationColumns = `
	id, recipient_id, recipient_type, title, message, type, priority, is_read, read_at, created_at
`

func (r *notificationRepository) Create(ctx context.Context, notification *model.Notification) error {
	query := `
		INSERT INTO notifications (` + notificationColumns + `)
		VALUES (:id, :recipient_id, :recipient_type, :title, :message, :type, :priority, :is_read, :read_at, :created_at)
	`
	if _, err := r.db.NamedExecContext(ctx, query, notification); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (r *notificationRepository) Get(ctx context.Context, id uuid.UUID) (*model.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1`
	var notification model.Notification
	if err := r.db.GetContext(ctx, &notification, query, id); err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("notification")
		}
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}
	return &notification, nil
}

func (r *notificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return apperrors.NotFound("notification")
	}
	return nil
}

func (r *notificationRepository) List(ctx context.Context, recipientID uuid.UUID, filters *model.NotificationFilters) ([]*model.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE recipient_id = $1`
	args := []interface{}{recipientID}
	argCount := 2

	if filters.UnreadOnly {
		query += " AND is_read = FALSE"
	}
	if filters.Type != "" {
		query += fmt.Sprintf(" AND type = $%d", argCount)
		args = append(args, filters.Type)
		argCount++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, filters.Limit, filters.Offset)

	notifications := []*model.Notification{}
	if err := r.db.SelectContext(ctx, &notifications, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE notifications SET is_read = TRUE, read_at = $1 WHERE id = $2 AND is_read = FALSE`
	result, err := r.db.ExecContext(ctx, query, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		// Distinguish missing from already-read.
		var exists bool
		check := `SELECT EXISTS (SELECT 1 FROM notifications WHERE id = $1)`
		if err := r.db.GetContext(ctx, &exists, check, id); err != nil {
			return fmt.Errorf("failed to check notification: %w", err)
		}
		if !exists {
			return apperrors.NotFound("notification")
		}
	}
	return nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int, error) {
	query := `UPDATE notifications SET is_read = TRUE, read_at = $1 WHERE recipient_id = $2 AND is_read = FALSE`
	result, err := r.db.ExecContext(ctx, query, time.Now(), recipientID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(rows), nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, recipientID uuid.UUID) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM notifications WHERE recipient_id = $1 AND is_read = FALSE`
	if err := r.db.GetContext(ctx, &count, query, recipientID); err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

func (r *notificationRepository) Counts(ctx context.Context, recipientID uuid.UUID) (*model.NotificationCounts, error) {
	query := `
		SELECT type, priority, is_read, COUNT(*) AS count
		FROM notifications
		WHERE recipient_id = $1
		GROUP BY type, priority, is_read
	`
	rows := []struct {
		Type     model.NotificationType     `db:"type"`
		Priority model.NotificationPriority `db:"priority"`
		IsRead   bool                       `db:"is_read"`
		Count    int                        `db:"count"`
	}{}
	if err := r.db.SelectContext(ctx, &rows, query, recipientID); err != nil {
		return nil, fmt.Errorf("failed to get notification counts: %w", err)
	}

	counts := &model.NotificationCounts{
		ByType:     make(map[model.NotificationType]int),
		ByPriority: make(map[model.NotificationPriority]int),
	}
	for _, row := range rows {
		counts.Total += row.Count
		if row.IsRead {
			counts.Read += row.Count
		} else {
			counts.Unread += row.Count
		}
		counts.ByType[row.Type] += row.Count
		counts.ByPriority[row.Priority] += row.Count
	}
	return counts, nil
}
