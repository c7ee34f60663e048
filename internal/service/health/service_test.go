package health

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medtrack/medrecord-api/internal/model"
	"github.com/medtrack/medrecord-api/internal/repository"
	apperrors "github.com/medtrack/medrecord-api/pkg/errors"
	"github.com/medtrack/medrecord-api/pkg/logger"
)

type fakeHealthRepo struct {
	repository.HealthDataRepository
	readings map[uuid.UUID]*model.HealthReading
}

func newFakeHealthRepo() *fakeHealthRepo {
	return &fakeHealthRepo{readings: make(map[uuid.UUID]*model.HealthReading)}
}

func (f *fakeHealthRepo) Create(_ context.Context, r *model.HealthReading) error {
	clone := *r
	f.readings[r.ID] = &clone
	return nil
}

func (f *fakeHealthRepo) Get(_ context.Context, id uuid.UUID) (*model.HealthReading, error) {
	r, ok := f.readings[id]
	if !ok {
		return nil, apperrors.NotFound("health reading")
	}
	clone := *r
	return &clone, nil
}

func (f *fakeHealthRepo) Update(_ context.Context, r *model.HealthReading) error {
	if _, ok := f.readings[r.ID]; !ok {
		return apperrors.NotFound("health reading")
	}
	clone := *r
	f.readings[r.ID] = &clone
	return nil
}

func (f *fakeHealthRepo) Latest(_ context.Context, patientID uuid.UUID) (*model.HealthReading, error) {
	var latest *model.HealthReading
	for _, r := range f.readings {
		if r.PatientID != patientID {
			continue
		}
		if latest == nil || r.RecordedAt.After(latest.RecordedAt) {
			latest = r
		}
	}
	if latest == nil {
		return nil, apperrors.NotFound("health reading")
	}
	clone := *latest
	return &clone, nil
}

type fakePatientRepo struct {
	repository.PatientRepository
}

func (f *fakePatientRepo) Get(_ context.Context, id uuid.UUID) (*model.Patient, error) {
	return &model.Patient{Base: model.Base{ID: id}}, nil
}

type captureNotifier struct {
	requests []*model.CreateNotificationRequest
}

func (n *captureNotifier) Notify(_ context.Context, req *model.CreateNotificationRequest) (*model.Notification, error) {
	n.requests = append(n.requests, req)
	return &model.Notification{ID: uuid.New()}, nil
}

func newTestService(repo *fakeHealthRepo, notifier *captureNotifier) *Service {
	return NewService(repo, &fakePatientRepo{}, notifier, nil, logger.New(nil))
}

func ptr(v float64) *float64 { return &v }

func TestRecordReadingNormalDoesNotAlert(t *testing.T) {
	notifier := &captureNotifier{}
	s := newTestService(newFakeHealthRepo(), notifier)

	_, err := s.RecordReading(context.Background(), &model.CreateHealthReadingRequest{
		PatientID: uuid.New(),
		HeartRate: ptr(72),
	})
	require.NoError(t, err)
	assert.Empty(t, notifier.requests)
}

func TestRecordReadingCriticalAlertsOnce(t *testing.T) {
	notifier := &captureNotifier{}
	s := newTestService(newFakeHealthRepo(), notifier)
	patientID := uuid.New()

	_, err := s.RecordReading(context.Background(), &model.CreateHealthReadingRequest{
		PatientID:             patientID,
		HeartRate:             ptr(160),
		BloodPressureSystolic: ptr(190),
	})
	require.NoError(t, err)

	// One notification covering both critical metrics.
	require.Len(t, notifier.requests, 1)
	req := notifier.requests[0]
	assert.Equal(t, patientID, req.RecipientID)
	assert.Equal(t, model.RecipientPatient, req.RecipientType)
	assert.Equal(t, model.NotificationTypeHealthAlert, req.Type)
	assert.Equal(t, model.NotificationPriorityHigh, req.Priority)
	assert.Contains(t, req.Message, "heart_rate")
	assert.Contains(t, req.Message, "blood_pressure_systolic")
}

func TestRecordReadingWarningDoesNotAlert(t *testing.T) {
	notifier := &captureNotifier{}
	s := newTestService(newFakeHealthRepo(), notifier)

	_, err := s.RecordReading(context.Background(), &model.CreateHealthReadingRequest{
		PatientID:   uuid.New(),
		Temperature: ptr(38.0), // warning, not critical
	})
	require.NoError(t, err)
	assert.Empty(t, notifier.requests)
}

func TestUpdateReadingReevaluates(t *testing.T) {
	repo := newFakeHealthRepo()
	notifier := &captureNotifier{}
	s := newTestService(repo, notifier)

	reading, err := s.RecordReading(context.Background(), &model.CreateHealthReadingRequest{
		PatientID: uuid.New(),
		HeartRate: ptr(72),
	})
	require.NoError(t, err)
	require.Empty(t, notifier.requests)

	_, err = s.UpdateReading(context.Background(), reading.ID, &model.UpdateHealthReadingRequest{
		HeartRate: ptr(160),
	})
	require.NoError(t, err)
	assert.Len(t, notifier.requests, 1)
}

func TestStatusRollsUpWorstSeverity(t *testing.T) {
	repo := newFakeHealthRepo()
	s := newTestService(repo, &captureNotifier{})
	patientID := uuid.New()

	reading := &model.HealthReading{
		ID:          uuid.New(),
		PatientID:   patientID,
		HeartRate:   ptr(72),
		Temperature: ptr(38.0),
		BloodSugar:  ptr(260),
		RecordedAt:  time.Now(),
	}
	require.NoError(t, repo.Create(context.Background(), reading))

	status, err := s.Status(context.Background(), patientID)
	require.NoError(t, err)
	assert.Equal(t, "critical", status.Status)
	assert.Equal(t, 3, status.MetricsChecked)
	assert.Len(t, status.Alerts, 2)
}

func TestStatusNoData(t *testing.T) {
	s := newTestService(newFakeHealthRepo(), &captureNotifier{})

	status, err := s.Status(context.Background(), uuid.New())
	require.NoError(t, err)
	assert.Equal(t, "no_data", status.Status)
	assert.Nil(t, status.LastUpdate)
	assert.Zero(t, status.MetricsChecked)
}
