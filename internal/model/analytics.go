package model

import (
	"time"

	"github.com/google/uuid"
)

type TrendDirection string

const (
	TrendIncreasing TrendDirection = "increasing"
	TrendDecreasing TrendDirection = "decreasing"
	TrendStable     TrendDirection = "stable"
)

type TrendResult struct {
	Direction     TrendDirection `json:"direction"`
	ChangePercent float64        `json:"change_percent"`
}

// MetricSummary is the per-kind aggregate inside a health analytics report.
type MetricSummary struct {
	Count       int          `json:"count"`
	LatestValue float64      `json:"latest_value"`
	Average     float64      `json:"average"`
	Min         float64      `json:"min"`
	Max         float64      `json:"max"`
	Unit        string       `json:"unit"`
	Trend       *TrendResult `json:"trend,omitempty"`
}

// HealthAnalytics is the windowed report for one patient. It is a pure
// function of the patient's readings in the window: re-running it over the
// same data yields the same report.
type HealthAnalytics struct {
	PatientID       uuid.UUID                     `json:"patient_id"`
	PeriodDays      int                           `json:"period_days"`
	TotalRecords    int                           `json:"total_records"`
	MetricsSummary  map[MetricKind]*MetricSummary `json:"metrics_summary"`
	HealthScore     int                           `json:"health_score"`
	Recommendations []string                      `json:"recommendations"`
}

type RiskLevel string

const (
	RiskLevelHigh    RiskLevel = "high"
	RiskLevelMedium  RiskLevel = "medium"
	RiskLevelLow     RiskLevel = "low"
	RiskLevelMinimal RiskLevel = "minimal"
	RiskLevelUnknown RiskLevel = "unknown"
)

type RiskFactor struct {
	Metric      MetricKind `json:"metric"`
	Value       float64    `json:"value"`
	Severity    string     `json:"severity"` // high | medium
	Description string     `json:"description"`
}

type RiskAssessment struct {
	PatientID       uuid.UUID    `json:"patient_id"`
	RiskLevel       RiskLevel    `json:"risk_level"`
	RiskScore       int          `json:"risk_score"`
	RiskFactors     []RiskFactor `json:"risk_factors"`
	Recommendations []string     `json:"recommendations"`
}

// DailyTrendPoint aggregates one day of observations for a single metric.
type DailyTrendPoint struct {
	Date    string  `json:"date"` // YYYY-MM-DD
	Average float64 `json:"average_value"`
	Min     float64 `json:"min_value"`
	Max     float64 `json:"max_value"`
	Count   int     `json:"count"`
}

// MetricTrendReport is the cross-patient (or single-patient) view of one
// metric over a window.
type MetricTrendReport struct {
	Metric       MetricKind        `json:"metric"`
	PeriodDays   int               `json:"period_days"`
	TotalRecords int               `json:"total_records"`
	TrendData    []DailyTrendPoint `json:"trend_data"`
	Statistics   *MetricStatistics `json:"statistics,omitempty"`
}

type MetricStatistics struct {
	TotalRecords int     `json:"total_records"`
	Average      float64 `json:"average"`
	Median       float64 `json:"median"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	StdDeviation float64 `json:"std_deviation"`
}

// DashboardOverview is the landing-page counter block.
type DashboardOverview struct {
	TotalPatients        int `json:"total_patients"`
	TotalDoctors         int `json:"total_doctors"`
	TodayAppointments    int `json:"today_appointments"`
	CriticalHealthAlerts int `json:"critical_health_alerts"`
	WeekAppointments     int `json:"week_appointments"`
	NewPatientsMonth     int `json:"new_patients_month"`
}

// CriticalAlert is one entry in the recent critical readings feed.
type CriticalAlert struct {
	PatientID   uuid.UUID  `json:"patient_id"`
	PatientName string     `json:"patient_name"`
	Metric      MetricKind `json:"metric"`
	Value       float64    `json:"value"`
	Unit        string     `json:"unit"`
	RecordedAt  time.Time  `json:"recorded_at"`
	Severity    Severity   `json:"severity"`
}

// PopulationStatistics describes the patient base as a whole.
type PopulationStatistics struct {
	TotalPatients      int            `json:"total_patients"`
	NewPatients30Days  int            `json:"new_patients_30_days"`
	GenderDistribution map[Gender]int `json:"gender_distribution"`
	AgeDistribution    map[string]int `json:"age_distribution"`
}

// BookingStatistics summarises appointment activity over a window.
type BookingStatistics struct {
	PeriodDays          int                       `json:"period_days"`
	TotalAppointments   int                       `json:"total_appointments"`
	StatusDistribution  map[AppointmentStatus]int `json:"status_distribution"`
	WeekdayDistribution map[string]int            `json:"weekday_distribution"`
	HourDistribution    map[string]int            `json:"hour_distribution"`
}
