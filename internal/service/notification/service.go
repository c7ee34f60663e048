package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medtrack/medrecord-api/internal/model"
	"github.com/medtrack/medrecord-api/internal/repository"
	apperrors "github.com/medtrack/medrecord-api/pkg/errors"
	"github.com/medtrack/medrecord-api/pkg/logger"
	"github.com/medtrack/medrecord-api/pkg/messaging"
	"github.com/medtrack/medrecord-api/pkg/metrics"
	"github.com/medtrack/medrecord-api/pkg/validator"
)

// Channel for in-app delivery over the message broker. Subscribers receive
// one NotificationEvent per created notification.
const eventChannel = "notifications"

// EmailSender delivers high-priority notifications out of band. Optional;
// a nil sender disables email delivery.
type EmailSender interface {
	Send(to, subject, body string) error
}

// RecipientResolver looks up a recipient's email address. The patient and
// doctor repositories both satisfy it through resolver funcs in main.
type RecipientResolver func(ctx context.Context, recipientType model.RecipientType, id uuid.UUID) (string, error)

type Service struct {
	repo     repository.NotificationRepository
	broker   messaging.Broker
	email    EmailSender
	resolver RecipientResolver
	metrics  *metrics.Metrics
	logger   *logger.Logger
}

func NewService(
	repo repository.NotificationRepository,
	broker messaging.Broker,
	email EmailSender,
	resolver RecipientResolver,
	m *metrics.Metrics,
	log *logger.Logger,
) *Service {
	return &Service{
		repo:     repo,
		broker:   broker,
		email:    email,
		resolver: resolver,
		metrics:  m,
		logger:   log,
	}
}

// Notify stores the notification, publishes an in-app event and, for high
// and urgent priorities, sends email. Delivery failures are logged; the
// stored notification is the source of truth.
func (s *Service) Notify(ctx context.Context, req *model.CreateNotificationRequest) (*model.Notification, error) {
	if err := validator.Struct(req); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	notification := &model.Notification{
		ID:            uuid.New(),
		RecipientID:   req.RecipientID,
		RecipientType: req.RecipientType,
		Title:         req.Title,
		Message:       req.Message,
		Type:          req.Type,
		Priority:      req.Priority,
		CreatedAt:     time.Now(),
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.NotificationsSent.WithLabelValues(string(req.Type), string(req.Priority)).Inc()
	}

	s.publish(ctx, notification)
	s.maybeEmail(ctx, notification)
	return notification, nil
}

// AppointmentReminder notifies a patient about an upcoming appointment.
func (s *Service) AppointmentReminder(ctx context.Context, patientID uuid.UUID, doctorName, date, clock string) (*model.Notification, error) {
	return s.Notify(ctx, &model.CreateNotificationRequest{
		RecipientID:   patientID,
		RecipientType: model.RecipientPatient,
		Title:         "Appointment Reminder",
		Message:       fmt.Sprintf("You have an appointment with Dr. %s on %s at %s", doctorName, date, clock),
		Type:          model.NotificationTypeAppointmentReminder,
		Priority:      model.NotificationPriorityMedium,
	})
}

// SystemNotice sends a low-priority system notification.
func (s *Service) SystemNotice(ctx context.Context, recipientID uuid.UUID, recipientType model.RecipientType, title, message string) (*model.Notification, error) {
	return s.Notify(ctx, &model.CreateNotificationRequest{
		RecipientID:   recipientID,
		RecipientType: recipientType,
		Title:         title,
		Message:       message,
		Type:          model.NotificationTypeSystem,
		Priority:      model.NotificationPriorityLow,
	})
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Notification, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, recipientID uuid.UUID, filters *model.NotificationFilters) ([]*model.Notification, error) {
	filters.Normalize(50, 200)
	return s.repo.List(ctx, recipientID, filters)
}

func (s *Service) MarkRead(ctx context.Context, id uuid.UUID) error {
	return s.repo.MarkRead(ctx, id)
}

// MarkAllRead returns how many notifications were newly marked.
func (s *Service) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int, error) {
	return s.repo.MarkAllRead(ctx, recipientID)
}

func (s *Service) CountUnread(ctx context.Context, recipientID uuid.UUID) (int, error) {
	return s.repo.CountUnread(ctx, recipientID)
}

func (s *Service) Counts(ctx context.Context, recipientID uuid.UUID) (*model.NotificationCounts, error) {
	return s.repo.Counts(ctx, recipientID)
}

func (s *Service) publish(ctx context.Context, notification *model.Notification) {
	if s.broker == nil {
		return
	}
	event := model.NotificationEvent{
		ID:             uuid.New(),
		NotificationID: notification.ID,
		RecipientID:    notification.RecipientID,
		Type:           notification.Type,
		Priority:       notification.Priority,
		Title:          notification.Title,
		CreatedAt:      notification.CreatedAt,
	}
	if err := s.broker.Publish(ctx, eventChannel, event); err != nil {
		s.logger.Error(err, "failed to publish notification event",
			"notification_id", notification.ID.String())
	}
}

func (s *Service) maybeEmail(ctx context.Context, notification *model.Notification) {
	if s.email == nil || s.resolver == nil {
		return
	}
	if notification.Priority != model.NotificationPriorityHigh &&
		notification.Priority != model.NotificationPriorityUrgent {
		return
	}

	address, err := s.resolver(ctx, notification.RecipientType, notification.RecipientID)
	if err != nil {
		s.logger.Error(err, "failed to resolve notification recipient",
			"recipient_id", notification.RecipientID.String())
		return
	}
	subject := fmt.Sprintf("[%s] %s", notification.Priority, notification.Title)
	if err := s.email.Send(address, subject, notification.Message); err != nil {
		s.logger.Error(err, "failed to email notification",
			"notification_id", notification.ID.String())
	}
}
