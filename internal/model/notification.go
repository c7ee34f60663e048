package model

import (
	"time"

	"github.com/google/uuid"
)

type NotificationType string

const (
	NotificationTypeInfo                NotificationType = "info"
	NotificationTypeWarning             NotificationType = "warning"
	NotificationTypeAppointmentReminder NotificationType = "appointment_reminder"
	NotificationTypeHealthAlert         NotificationType = "health_alert"
	NotificationTypeMedicationReminder  NotificationType = "medication_reminder"
	NotificationTypeTestResults         NotificationType = "test_results"
	NotificationTypeSystem              NotificationType = "system"
)

type NotificationPriority string

const (
	NotificationPriorityLow    NotificationPriority = "low"
	NotificationPriorityMedium NotificationPriority = "medium"
	NotificationPriorityHigh   NotificationPriority = "high"
	NotificationPriorityUrgent NotificationPriority = "urgent"
)

type RecipientType string

const (
	RecipientPatient RecipientType = "patient"
	RecipientDoctor  RecipientType = "doctor"
)

type Notification struct {
	ID            uuid.UUID            `db:"id" json:"id"`
	RecipientID   uuid.UUID            `db:"recipient_id" json:"recipient_id"`
	RecipientType RecipientType        `db:"recipient_type" json:"recipient_type"`
	Title         string               `db:"title" json:"title"`
	Message       string               `db:"message" json:"message"`
	Type          NotificationType     `db:"type" json:"type"`
	Priority      NotificationPriority `db:"priority" json:"priority"`
	IsRead        bool                 `db:"is_read" json:"is_read"`
	ReadAt        *time.Time           `db:"read_at" json:"read_at,omitempty"`
	CreatedAt     time.Time            `db:"created_at" json:"created_at"`
}

type CreateNotificationRequest struct {
	RecipientID   uuid.UUID            `json:"recipient_id" binding:"required"`
	RecipientType RecipientType        `json:"recipient_type" binding:"required,oneof=patient doctor"`
	Title         string               `json:"title" binding:"required,max=200"`
	Message       string               `json:"message" binding:"required"`
	Type          NotificationType     `json:"type" binding:"required"`
	Priority      NotificationPriority `json:"priority" binding:"required,oneof=low medium high urgent"`
}

type NotificationFilters struct {
	UnreadOnly bool             `form:"unread_only"`
	Type       NotificationType `form:"type"`
	Pagination
}

// NotificationCounts breaks down a recipient's notifications.
type NotificationCounts struct {
	Total      int                          `json:"total"`
	Unread     int                          `json:"unread"`
	Read       int                          `json:"read"`
	ByType     map[NotificationType]int     `json:"by_type"`
	ByPriority map[NotificationPriority]int `json:"by_priority"`
}

// NotificationEvent is published to the message broker when a notification
// is created, for in-app delivery.
type NotificationEvent struct {
	ID             uuid.UUID            `json:"id"`
	NotificationID uuid.UUID            `json:"notification_id"`
	RecipientID    uuid.UUID            `json:"recipient_id"`
	Type           NotificationType     `json:"type"`
	Priority       NotificationPriority `json:"priority"`
	Title          string               `json:"title"`
	CreatedAt      time.Time            `json:"created_at"`
}
