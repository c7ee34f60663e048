package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/medtrack/medrecord-api/internal/model"
	"github.com/medtrack/medrecord-api/internal/repository"
	"github.com/medtrack/medrecord-api/internal/service/health"
	apperrors "github.com/medtrack/medrecord-api/pkg/errors"
	"github.com/medtrack/medrecord-api/pkg/logger"
	"github.com/medtrack/medrecord-api/pkg/metrics"
)

type Service struct {
	healthRepo      repository.HealthDataRepository
	patientRepo     repository.PatientRepository
	doctorRepo      repository.DoctorRepository
	appointmentRepo repository.AppointmentRepository
	metrics         *metrics.Metrics
	logger          *logger.Logger
}

func NewService(
	healthRepo repository.HealthDataRepository,
	patientRepo repository.PatientRepository,
	doctorRepo repository.DoctorRepository,
	appointmentRepo repository.AppointmentRepository,
	m *metrics.Metrics,
	log *logger.Logger,
) *Service {
	return &Service{
		healthRepo:      healthRepo,
		patientRepo:     patientRepo,
		doctorRepo:      doctorRepo,
		appointmentRepo: appointmentRepo,
		metrics:         m,
		logger:          log,
	}
}

// PatientAnalytics builds the windowed per-metric report for one patient.
func (s *Service) PatientAnalytics(ctx context.Context, patientID uuid.UUID, days int) (*model.HealthAnalytics, error) {
	if _, err := s.patientRepo.Get(ctx, patientID); err != nil {
		return nil, err
	}
	if days <= 0 {
		days = 30
	}

	started := time.Now()
	defer func() {
		if s.metrics != nil {
			s.metrics.AnalyticsRuns.Inc()
			s.metrics.AnalyticsLatency.Observe(time.Since(started).Seconds())
		}
	}()

	from := time.Now().AddDate(0, 0, -days)
	readings, err := s.healthRepo.ListWindowAsc(ctx, patientID, from)
	if err != nil {
		return nil, err
	}

	report := &model.HealthAnalytics{
		PatientID:      patientID,
		PeriodDays:     days,
		TotalRecords:   len(readings),
		MetricsSummary: make(map[model.MetricKind]*model.MetricSummary),
	}

	latest := make(map[model.MetricKind]float64)
	for _, kind := range model.ReadingMetrics {
		values := metricSeries(readings, kind)
		if len(values) == 0 {
			continue
		}
		last := values[len(values)-1]
		latest[kind] = last
		report.MetricsSummary[kind] = &model.MetricSummary{
			Count:       len(values),
			LatestValue: last,
			Average:     round2(mean(values)),
			Min:         minOf(values),
			Max:         maxOf(values),
			Unit:        kind.Unit(),
			Trend:       Trend(values),
		}
	}

	report.HealthScore = HealthScore(latest, health.Classify)
	report.Recommendations = analyticsRecommendations(latest)
	return report, nil
}

// RiskAssessment scores a patient's latest observed values.
func (s *Service) RiskAssessment(ctx context.Context, patientID uuid.UUID) (*model.RiskAssessment, error) {
	if _, err := s.patientRepo.Get(ctx, patientID); err != nil {
		return nil, err
	}

	latestReading, err := s.healthRepo.Latest(ctx, patientID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return &model.RiskAssessment{
				PatientID:       patientID,
				RiskLevel:       model.RiskLevelUnknown,
				RiskFactors:     []model.RiskFactor{},
				Recommendations: riskRecommendations(model.RiskLevelUnknown, nil),
			}, nil
		}
		return nil, err
	}

	latest := make(map[model.MetricKind]float64)
	for _, kind := range model.ReadingMetrics {
		if value, ok := latestReading.Value(kind); ok {
			latest[kind] = value
		}
	}

	score, factors := assessRisk(latest)
	level := riskLevel(score, len(latest) > 0)
	return &model.RiskAssessment{
		PatientID:       patientID,
		RiskLevel:       level,
		RiskScore:       score,
		RiskFactors:     factors,
		Recommendations: riskRecommendations(level, factors),
	}, nil
}

// MetricTrendReport aggregates one metric per day across all patients (or a
// single patient when patientID is non-nil).
func (s *Service) MetricTrendReport(ctx context.Context, kind model.MetricKind, days int, patientID *uuid.UUID) (*model.MetricTrendReport, error) {
	if _, err := model.ParseMetricKind(string(kind)); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	if days <= 0 {
		days = 30
	}

	from := time.Now().AddDate(0, 0, -days)
	var readings []*model.HealthReading
	var err error
	if patientID != nil {
		readings, err = s.healthRepo.ListWindowAsc(ctx, *patientID, from)
	} else {
		readings, err = s.healthRepo.ListAllSince(ctx, from)
	}
	if err != nil {
		return nil, err
	}

	byDay := make(map[string][]float64)
	all := []float64{}
	for _, reading := range readings {
		value, ok := reading.Value(kind)
		if !ok {
			continue
		}
		day := reading.RecordedAt.Format("2006-01-02")
		byDay[day] = append(byDay[day], value)
		all = append(all, value)
	}

	dayKeys := make([]string, 0, len(byDay))
	for day := range byDay {
		dayKeys = append(dayKeys, day)
	}
	sort.Strings(dayKeys)

	trendData := make([]model.DailyTrendPoint, 0, len(dayKeys))
	for _, day := range dayKeys {
		values := byDay[day]
		trendData = append(trendData, model.DailyTrendPoint{
			Date:    day,
			Average: round2(mean(values)),
			Min:     minOf(values),
			Max:     maxOf(values),
			Count:   len(values),
		})
	}

	report := &model.MetricTrendReport{
		Metric:       kind,
		PeriodDays:   days,
		TotalRecords: len(all),
		TrendData:    trendData,
	}
	if len(all) > 0 {
		report.Statistics = &model.MetricStatistics{
			TotalRecords: len(all),
			Average:      round2(mean(all)),
			Median:       round2(median(all)),
			Min:          minOf(all),
			Max:          maxOf(all),
			StdDeviation: round2(stdDeviation(all)),
		}
	}
	return report, nil
}

// DashboardOverview assembles the landing-page counters.
func (s *Service) DashboardOverview(ctx context.Context) (*model.DashboardOverview, error) {
	totalPatients, err := s.patientRepo.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	totalDoctors, err := s.doctorRepo.CountActive(ctx)
	if err != nil {
		return nil, err
	}

	today := time.Now().Format("2006-01-02")
	todayCount, err := s.appointmentRepo.CountOnDateWithStatuses(ctx, today,
		[]model.AppointmentStatus{model.AppointmentStatusScheduled, model.AppointmentStatusConfirmed})
	if err != nil {
		return nil, err
	}

	weekAgo := time.Now().AddDate(0, 0, -7).Format("2006-01-02")
	weekCount, err := s.appointmentRepo.CountSince(ctx, weekAgo)
	if err != nil {
		return nil, err
	}

	newPatients, err := s.patientRepo.CountCreatedSince(ctx, time.Now().AddDate(0, -1, 0))
	if err != nil {
		return nil, err
	}

	criticalCount := 0
	readings, err := s.healthRepo.ListAllSince(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		return nil, err
	}
	for _, reading := range readings {
		for _, alert := range health.EvaluateReading(reading) {
			if alert.Severity == model.SeverityCritical {
				criticalCount++
			}
		}
	}

	return &model.DashboardOverview{
		TotalPatients:        totalPatients,
		TotalDoctors:         totalDoctors,
		TodayAppointments:    todayCount,
		CriticalHealthAlerts: criticalCount,
		WeekAppointments:     weekCount,
		NewPatientsMonth:     newPatients,
	}, nil
}

// CriticalAlerts is the recent feed of critical readings across all
// patients, newest first.
func (s *Service) CriticalAlerts(ctx context.Context, hours int) ([]model.CriticalAlert, error) {
	if hours <= 0 {
		hours = 24
	}
	readings, err := s.healthRepo.ListAllSince(ctx, time.Now().Add(-time.Duration(hours)*time.Hour))
	if err != nil {
		return nil, err
	}

	names := make(map[uuid.UUID]string)
	alerts := []model.CriticalAlert{}
	for _, reading := range readings {
		for _, alert := range health.EvaluateReading(reading) {
			if alert.Severity != model.SeverityCritical {
				continue
			}
			name, ok := names[reading.PatientID]
			if !ok {
				patient, err := s.patientRepo.Get(ctx, reading.PatientID)
				if err != nil {
					name = "unknown"
				} else {
					name = fmt.Sprintf("%s %s", patient.FirstName, patient.LastName)
				}
				names[reading.PatientID] = name
			}
			alerts = append(alerts, model.CriticalAlert{
				PatientID:   reading.PatientID,
				PatientName: name,
				Metric:      alert.Metric,
				Value:       alert.Value,
				Unit:        alert.Metric.Unit(),
				RecordedAt:  reading.RecordedAt,
				Severity:    alert.Severity,
			})
		}
	}
	return alerts, nil
}

// PopulationStatistics describes the active patient base.
func (s *Service) PopulationStatistics(ctx context.Context) (*model.PopulationStatistics, error) {
	total, err := s.patientRepo.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.patientRepo.CountCreatedSince(ctx, time.Now().AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}
	genders, err := s.patientRepo.GenderDistribution(ctx)
	if err != nil {
		return nil, err
	}

	patients, err := s.patientRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	ages := map[string]int{}
	for _, patient := range patients {
		age, err := ageFromDOB(patient.DateOfBirth)
		if err != nil {
			continue
		}
		ages[ageBucket(age)]++
	}

	return &model.PopulationStatistics{
		TotalPatients:      total,
		NewPatients30Days:  recent,
		GenderDistribution: genders,
		AgeDistribution:    ages,
	}, nil
}

// BookingStatistics summarises appointment activity over the window.
func (s *Service) BookingStatistics(ctx context.Context, days int) (*model.BookingStatistics, error) {
	if days <= 0 {
		days = 30
	}
	fromDate := time.Now().AddDate(0, 0, -days).Format("2006-01-02")
	appointments, err := s.appointmentRepo.ListSince(ctx, fromDate)
	if err != nil {
		return nil, err
	}

	stats := &model.BookingStatistics{
		PeriodDays:          days,
		TotalAppointments:   len(appointments),
		StatusDistribution:  map[model.AppointmentStatus]int{},
		WeekdayDistribution: map[string]int{},
		HourDistribution:    map[string]int{},
	}
	for _, appointment := range appointments {
		stats.StatusDistribution[appointment.Status]++
		if day, err := time.Parse("2006-01-02", appointment.Date); err == nil {
			stats.WeekdayDistribution[day.Weekday().String()]++
		}
		if len(appointment.Time) >= 2 {
			stats.HourDistribution[appointment.Time[:2]]++
		}
	}
	return stats, nil
}

// analyticsRecommendations emits one line per out-of-range metric, with
// critical values getting urgent-care language.
func analyticsRecommendations(latest map[model.MetricKind]float64) []string {
	recommendations := []string{}
	for _, kind := range model.ReadingMetrics {
		value, ok := latest[kind]
		if !ok {
			continue
		}
		switch health.Classify(kind, value) {
		case model.SeverityCritical:
			recommendations = append(recommendations,
				fmt.Sprintf("Urgently consult a doctor about your %s", kind))
		case model.SeverityWarning:
			recommendations = append(recommendations,
				fmt.Sprintf("Monitor your %s, a consultation is recommended", kind))
		}
	}
	if len(recommendations) == 0 {
		recommendations = append(recommendations, "All metrics look good, keep up your current routine")
	}
	return recommendations
}

func metricSeries(readings []*model.HealthReading, kind model.MetricKind) []float64 {
	values := []float64{}
	for _, reading := range readings {
		if value, ok := reading.Value(kind); ok {
			values = append(values, value)
		}
	}
	return values
}

func ageFromDOB(dob string) (int, error) {
	born, err := time.Parse("2006-01-02", dob)
	if err != nil {
		return 0, err
	}
	now := time.Now()
	age := now.Year() - born.Year()
	if now.YearDay() < born.YearDay() {
		age--
	}
	return age, nil
}

func ageBucket(age int) string {
	switch {
	case age < 18:
		return "0-17"
	case age < 35:
		return "18-34"
	case age < 50:
		return "35-49"
	case age < 65:
		return "50-64"
	default:
		return "65+"
	}
}

func minOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
