package health

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/medtrack/medrecord-api/internal/model"
	"github.com/medtrack/medrecord-api/internal/repository"
	apperrors "github.com/medtrack/medrecord-api/pkg/errors"
	"github.com/medtrack/medrecord-api/pkg/logger"
	"github.com/medtrack/medrecord-api/pkg/metrics"
)

// Notifier delivers health alerts to patients. Satisfied by the
// notification service.
type Notifier interface {
	Notify(ctx context.Context, req *model.CreateNotificationRequest) (*model.Notification, error)
}

type Service struct {
	repo        repository.HealthDataRepository
	patientRepo repository.PatientRepository
	notifier    Notifier
	metrics     *metrics.Metrics
	logger      *logger.Logger
}

func NewService(
	repo repository.HealthDataRepository,
	patientRepo repository.PatientRepository,
	notifier Notifier,
	m *metrics.Metrics,
	log *logger.Logger,
) *Service {
	return &Service{
		repo:        repo,
		patientRepo: patientRepo,
		notifier:    notifier,
		metrics:     m,
		logger:      log,
	}
}

// RecordReading stores a new reading and raises a health alert notification
// when any metric is at a critical level.
func (s *Service) RecordReading(ctx context.Context, req *model.CreateHealthReadingRequest) (*model.HealthReading, error) {
	if _, err := s.patientRepo.Get(ctx, req.PatientID); err != nil {
		return nil, err
	}

	recordedAt := time.Now()
	if req.RecordedAt != nil {
		recordedAt = *req.RecordedAt
	}

	reading := &model.HealthReading{
		ID:                     uuid.New(),
		PatientID:              req.PatientID,
		HeartRate:              req.HeartRate,
		BloodPressureSystolic:  req.BloodPressureSystolic,
		BloodPressureDiastolic: req.BloodPressureDiastolic,
		Temperature:            req.Temperature,
		Weight:                 req.Weight,
		Height:                 req.Height,
		BloodSugar:             req.BloodSugar,
		OxygenSaturation:       req.OxygenSaturation,
		Notes:                  req.Notes,
		RecordedAt:             recordedAt,
		CreatedAt:              time.Now(),
	}

	if err := s.repo.Create(ctx, reading); err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.ReadingsRecorded.Inc()
	}

	s.raiseCriticalAlerts(ctx, reading)
	return reading, nil
}

func (s *Service) GetReading(ctx context.Context, id uuid.UUID) (*model.HealthReading, error) {
	return s.repo.Get(ctx, id)
}

// UpdateReading applies partial changes and re-evaluates the reading for
// critical values.
func (s *Service) UpdateReading(ctx context.Context, id uuid.UUID, req *model.UpdateHealthReadingRequest) (*model.HealthReading, error) {
	reading, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.HeartRate != nil {
		reading.HeartRate = req.HeartRate
	}
	if req.BloodPressureSystolic != nil {
		reading.BloodPressureSystolic = req.BloodPressureSystolic
	}
	if req.BloodPressureDiastolic != nil {
		reading.BloodPressureDiastolic = req.BloodPressureDiastolic
	}
	if req.Temperature != nil {
		reading.Temperature = req.Temperature
	}
	if req.Weight != nil {
		reading.Weight = req.Weight
	}
	if req.Height != nil {
		reading.Height = req.Height
	}
	if req.BloodSugar != nil {
		reading.BloodSugar = req.BloodSugar
	}
	if req.OxygenSaturation != nil {
		reading.OxygenSaturation = req.OxygenSaturation
	}
	if req.Notes != nil {
		reading.Notes = *req.Notes
	}

	if err := s.repo.Update(ctx, reading); err != nil {
		return nil, err
	}

	s.raiseCriticalAlerts(ctx, reading)
	return reading, nil
}

func (s *Service) DeleteReading(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// History returns a patient's readings over the last `days` days, newest
// first, capped at `limit`.
func (s *Service) History(ctx context.Context, patientID uuid.UUID, days, limit int) ([]*model.HealthReading, error) {
	if _, err := s.patientRepo.Get(ctx, patientID); err != nil {
		return nil, err
	}
	if days <= 0 {
		days = 30
	}
	if limit <= 0 {
		limit = 100
	}
	since := time.Now().AddDate(0, 0, -days)
	return s.repo.ListSince(ctx, patientID, since, limit)
}

// Status rolls a patient's latest reading up to a single status:
// critical > warning > good, or no_data when nothing was ever recorded.
func (s *Service) Status(ctx context.Context, patientID uuid.UUID) (*model.HealthStatus, error) {
	if _, err := s.patientRepo.Get(ctx, patientID); err != nil {
		return nil, err
	}

	latest, err := s.repo.Latest(ctx, patientID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return &model.HealthStatus{Status: "no_data", Alerts: []string{}}, nil
		}
		return nil, err
	}

	status := "good"
	alerts := []string{}
	checked := 0
	for _, kind := range model.ReadingMetrics {
		value, ok := latest.Value(kind)
		if !ok {
			continue
		}
		severity := Classify(kind, value)
		if severity == model.SeverityUnknown {
			continue
		}
		checked++
		switch severity {
		case model.SeverityCritical:
			status = "critical"
			alerts = append(alerts, alertMessage(kind, value, severity))
		case model.SeverityWarning:
			if status != "critical" {
				status = "warning"
			}
			alerts = append(alerts, alertMessage(kind, value, severity))
		}
	}

	return &model.HealthStatus{
		Status:         status,
		LastUpdate:     &latest.RecordedAt,
		Alerts:         alerts,
		MetricsChecked: checked,
	}, nil
}

// Trends returns the dated series of one metric over the window, each point
// graded against the metric's bands.
func (s *Service) Trends(ctx context.Context, patientID uuid.UUID, kind model.MetricKind, days int) ([]model.TrendPoint, error) {
	if _, err := s.patientRepo.Get(ctx, patientID); err != nil {
		return nil, err
	}
	if days <= 0 {
		days = 30
	}
	from := time.Now().AddDate(0, 0, -days)
	readings, err := s.repo.ListWindowAsc(ctx, patientID, from)
	if err != nil {
		return nil, err
	}

	points := []model.TrendPoint{}
	for _, reading := range readings {
		value, ok := reading.Value(kind)
		if !ok {
			continue
		}
		points = append(points, model.TrendPoint{
			Date:   reading.RecordedAt,
			Value:  value,
			Status: Classify(kind, value),
		})
	}
	return points, nil
}

// Alerts re-evaluates the patient's readings over the window and returns
// every out-of-band observation, newest first.
func (s *Service) Alerts(ctx context.Context, patientID uuid.UUID, days int) ([]model.HealthAlert, error) {
	if _, err := s.patientRepo.Get(ctx, patientID); err != nil {
		return nil, err
	}
	if days <= 0 {
		days = 7
	}
	since := time.Now().AddDate(0, 0, -days)
	readings, err := s.repo.ListSince(ctx, patientID, since, 1000)
	if err != nil {
		return nil, err
	}

	alerts := []model.HealthAlert{}
	for _, reading := range readings {
		alerts = append(alerts, EvaluateReading(reading)...)
	}
	return alerts, nil
}

// Simulate seeds one reading per day over the window with values drawn
// around the normal bands. Intended for demo environments.
func (s *Service) Simulate(ctx context.Context, patientID uuid.UUID, days int) (int, error) {
	if _, err := s.patientRepo.Get(ctx, patientID); err != nil {
		return 0, err
	}
	if days <= 0 || days > 365 {
		days = 30
	}

	created := 0
	now := time.Now()
	for i := days - 1; i >= 0; i-- {
		recordedAt := now.AddDate(0, 0, -i)
		reading := &model.HealthReading{
			ID:                     uuid.New(),
			PatientID:              patientID,
			HeartRate:              simValue(60, 100),
			BloodPressureSystolic:  simValue(100, 145),
			BloodPressureDiastolic: simValue(65, 92),
			Temperature:            simValue(36.2, 37.3),
			BloodSugar:             simValue(75, 135),
			OxygenSaturation:       simValue(94, 100),
			Notes:                  "simulated reading",
			RecordedAt:             recordedAt,
			CreatedAt:              now,
		}
		if err := s.repo.Create(ctx, reading); err != nil {
			return created, fmt.Errorf("failed to create simulated reading: %w", err)
		}
		created++
	}

	s.logger.Info("simulated health readings",
		"patient_id", patientID.String(), "count", created)
	return created, nil
}

func simValue(min, max float64) *float64 {
	v := min + rand.Float64()*(max-min)
	return &v
}

// raiseCriticalAlerts creates one health_alert notification covering all
// critical metrics on the reading. Notification failure never fails the
// write; it is logged and dropped.
func (s *Service) raiseCriticalAlerts(ctx context.Context, reading *model.HealthReading) {
	critical := []model.HealthAlert{}
	for _, alert := range EvaluateReading(reading) {
		if alert.Severity == model.SeverityCritical {
			critical = append(critical, alert)
		}
	}
	if len(critical) == 0 {
		return
	}

	if s.metrics != nil {
		for _, alert := range critical {
			s.metrics.CriticalAlerts.WithLabelValues(string(alert.Metric)).Inc()
		}
	}

	messages := make([]string, 0, len(critical))
	for _, alert := range critical {
		messages = append(messages, alert.Message)
	}

	if s.notifier == nil {
		return
	}
	_, err := s.notifier.Notify(ctx, &model.CreateNotificationRequest{
		RecipientID:   reading.PatientID,
		RecipientType: model.RecipientPatient,
		Title:         "Critical Health Alert",
		Message:       strings.Join(messages, "; "),
		Type:          model.NotificationTypeHealthAlert,
		Priority:      model.NotificationPriorityHigh,
	})
	if err != nil {
		s.logger.Error(err, "failed to send critical health alert",
			"patient_id", reading.PatientID.String())
	}
}
