package notification

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medtrack/medrecord-api/internal/model"
	"github.com/medtrack/medrecord-api/internal/repository"
	apperrors "github.com/medtrack/medrecord-api/pkg/errors"
	"github.com/medtrack/medrecord-api/pkg/logger"
)

type fakeNotificationRepo struct {
	repository.NotificationRepository
	created []*model.Notification
}

func (f *fakeNotificationRepo) Create(_ context.Context, n *model.Notification) error {
	clone := *n
	f.created = append(f.created, &clone)
	return nil
}

type fakeBroker struct {
	published []interface{}
}

func (f *fakeBroker) Publish(_ context.Context, _ string, message interface{}) error {
	f.published = append(f.published, message)
	return nil
}

func (f *fakeBroker) Subscribe(_ context.Context, _ string) (<-chan []byte, error) {
	return nil, nil
}

func (f *fakeBroker) Close() error { return nil }

type fakeEmail struct {
	sent []string
}

func (f *fakeEmail) Send(to, subject, _ string) error {
	f.sent = append(f.sent, to+": "+subject)
	return nil
}

func staticResolver(_ context.Context, _ model.RecipientType, _ uuid.UUID) (string, error) {
	return "patient@example.com", nil
}

func TestNotifyStoresAndPublishes(t *testing.T) {
	repo := &fakeNotificationRepo{}
	broker := &fakeBroker{}
	s := NewService(repo, broker, nil, nil, nil, logger.New(nil))

	created, err := s.Notify(context.Background(), &model.CreateNotificationRequest{
		RecipientID:   uuid.New(),
		RecipientType: model.RecipientPatient,
		Title:         "Checkup reminder",
		Message:       "Your appointment is tomorrow",
		Type:          model.NotificationTypeAppointmentReminder,
		Priority:      model.NotificationPriorityMedium,
	})
	require.NoError(t, err)
	assert.False(t, created.IsRead)
	require.Len(t, repo.created, 1)
	require.Len(t, broker.published, 1)

	event, ok := broker.published[0].(model.NotificationEvent)
	require.True(t, ok)
	assert.Equal(t, created.ID, event.NotificationID)
}

func TestNotifyEmailsHighPriority(t *testing.T) {
	repo := &fakeNotificationRepo{}
	email := &fakeEmail{}
	s := NewService(repo, &fakeBroker{}, email, staticResolver, nil, logger.New(nil))

	_, err := s.Notify(context.Background(), &model.CreateNotificationRequest{
		RecipientID:   uuid.New(),
		RecipientType: model.RecipientPatient,
		Title:         "Critical Health Alert",
		Message:       "heart_rate at critical level",
		Type:          model.NotificationTypeHealthAlert,
		Priority:      model.NotificationPriorityHigh,
	})
	require.NoError(t, err)
	require.Len(t, email.sent, 1)
	assert.Contains(t, email.sent[0], "patient@example.com")
	assert.Contains(t, email.sent[0], "Critical Health Alert")
}

func TestNotifySkipsEmailForLowPriority(t *testing.T) {
	email := &fakeEmail{}
	s := NewService(&fakeNotificationRepo{}, &fakeBroker{}, email, staticResolver, nil, logger.New(nil))

	_, err := s.Notify(context.Background(), &model.CreateNotificationRequest{
		RecipientID:   uuid.New(),
		RecipientType: model.RecipientPatient,
		Title:         "FYI",
		Message:       "nothing urgent",
		Type:          model.NotificationTypeInfo,
		Priority:      model.NotificationPriorityLow,
	})
	require.NoError(t, err)
	assert.Empty(t, email.sent)
}

func TestAppointmentReminderHelper(t *testing.T) {
	repo := &fakeNotificationRepo{}
	email := &fakeEmail{}
	s := NewService(repo, &fakeBroker{}, email, staticResolver, nil, logger.New(nil))

	created, err := s.AppointmentReminder(context.Background(), uuid.New(), "Smith", "2026-09-10", "10:30")
	require.NoError(t, err)
	assert.Equal(t, model.NotificationTypeAppointmentReminder, created.Type)
	assert.Equal(t, model.NotificationPriorityMedium, created.Priority)
	assert.Contains(t, created.Message, "Dr. Smith")
	assert.Contains(t, created.Message, "10:30")
	assert.Empty(t, email.sent)
}

func TestSystemNoticeHelper(t *testing.T) {
	repo := &fakeNotificationRepo{}
	s := NewService(repo, &fakeBroker{}, nil, nil, nil, logger.New(nil))

	created, err := s.SystemNotice(context.Background(), uuid.New(), model.RecipientDoctor, "Maintenance", "Scheduled downtime tonight")
	require.NoError(t, err)
	assert.Equal(t, model.NotificationTypeSystem, created.Type)
	assert.Equal(t, model.NotificationPriorityLow, created.Priority)
	require.Len(t, repo.created, 1)
}

func TestNotifyValidatesRequest(t *testing.T) {
	repo := &fakeNotificationRepo{}
	s := NewService(repo, &fakeBroker{}, nil, nil, nil, logger.New(nil))

	_, err := s.Notify(context.Background(), &model.CreateNotificationRequest{
		RecipientID:   uuid.New(),
		RecipientType: model.RecipientPatient,
		Message:       "no title",
		Type:          model.NotificationTypeInfo,
		Priority:      model.NotificationPriorityLow,
	})
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeValidation, appErr.Code)
	assert.Empty(t, repo.created)
}
