package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MetricKind enumerates the health measurements the system understands.
// The evaluator's band tables are keyed by this type; adding a kind without
// a band entry leaves it classifiable only as SeverityUnknown.
type MetricKind string

const (
	MetricHeartRate              MetricKind = "heart_rate"
	MetricBloodPressureSystolic  MetricKind = "blood_pressure_systolic"
	MetricBloodPressureDiastolic MetricKind = "blood_pressure_diastolic"
	MetricTemperature            MetricKind = "temperature"
	MetricWeight                 MetricKind = "weight"
	MetricHeight                 MetricKind = "height"
	MetricBloodSugar             MetricKind = "blood_sugar"
	MetricOxygenSaturation       MetricKind = "oxygen_saturation"

	// Derived or externally sourced kinds used by risk scoring and organ
	// roll-ups; they have no column of their own on health_data.
	MetricCholesterol MetricKind = "cholesterol"
	MetricBMI         MetricKind = "bmi"
)

// ReadingMetrics lists the kinds persisted as columns on health_data, in
// stable output order.
var ReadingMetrics = []MetricKind{
	MetricHeartRate,
	MetricBloodPressureSystolic,
	MetricBloodPressureDiastolic,
	MetricTemperature,
	MetricWeight,
	MetricHeight,
	MetricBloodSugar,
	MetricOxygenSaturation,
}

func ParseMetricKind(s string) (MetricKind, error) {
	for _, m := range ReadingMetrics {
		if MetricKind(s) == m {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown health metric %q", s)
}

// Unit returns the display unit for a metric kind.
func (m MetricKind) Unit() string {
	switch m {
	case MetricHeartRate:
		return "bpm"
	case MetricBloodPressureSystolic, MetricBloodPressureDiastolic:
		return "mmHg"
	case MetricTemperature:
		return "°C"
	case MetricWeight:
		return "kg"
	case MetricHeight:
		return "cm"
	case MetricBloodSugar, MetricCholesterol:
		return "mg/dL"
	case MetricOxygenSaturation:
		return "%"
	case MetricBMI:
		return "kg/m²"
	default:
		return ""
	}
}

// Severity classifies a single reading against its metric's bands.
type Severity string

const (
	SeverityNormal   Severity = "normal"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
	SeverityUnknown  Severity = "unknown"
)

// HealthReading is one row of health_data: a timestamped set of vitals for
// a patient. Individual columns are nullable; a reading usually carries a
// subset of metrics.
type HealthReading struct {
	ID                     uuid.UUID `db:"id" json:"id"`
	PatientID              uuid.UUID `db:"patient_id" json:"patient_id"`
	HeartRate              *float64  `db:"heart_rate" json:"heart_rate,omitempty"`
	BloodPressureSystolic  *float64  `db:"blood_pressure_systolic" json:"blood_pressure_systolic,omitempty"`
	BloodPressureDiastolic *float64  `db:"blood_pressure_diastolic" json:"blood_pressure_diastolic,omitempty"`
	Temperature            *float64  `db:"temperature" json:"temperature,omitempty"`
	Weight                 *float64  `db:"weight" json:"weight,omitempty"`
	Height                 *float64  `db:"height" json:"height,omitempty"`
	BloodSugar             *float64  `db:"blood_sugar" json:"blood_sugar,omitempty"`
	OxygenSaturation       *float64  `db:"oxygen_saturation" json:"oxygen_saturation,omitempty"`
	Notes                  string    `db:"notes" json:"notes,omitempty"`
	RecordedAt             time.Time `db:"recorded_at" json:"recorded_at"`
	CreatedAt              time.Time `db:"created_at" json:"created_at"`
}

// Value returns the reading's value for a metric kind, if present.
func (r *HealthReading) Value(kind MetricKind) (float64, bool) {
	var p *float64
	switch kind {
	case MetricHeartRate:
		p = r.HeartRate
	case MetricBloodPressureSystolic:
		p = r.BloodPressureSystolic
	case MetricBloodPressureDiastolic:
		p = r.BloodPressureDiastolic
	case MetricTemperature:
		p = r.Temperature
	case MetricWeight:
		p = r.Weight
	case MetricHeight:
		p = r.Height
	case MetricBloodSugar:
		p = r.BloodSugar
	case MetricOxygenSaturation:
		p = r.OxygenSaturation
	}
	if p == nil {
		return 0, false
	}
	return *p, true
}

type CreateHealthReadingRequest struct {
	PatientID              uuid.UUID  `json:"patient_id" binding:"required"`
	HeartRate              *float64   `json:"heart_rate"`
	BloodPressureSystolic  *float64   `json:"blood_pressure_systolic"`
	BloodPressureDiastolic *float64   `json:"blood_pressure_diastolic"`
	Temperature            *float64   `json:"temperature"`
	Weight                 *float64   `json:"weight"`
	Height                 *float64   `json:"height"`
	BloodSugar             *float64   `json:"blood_sugar"`
	OxygenSaturation       *float64   `json:"oxygen_saturation"`
	Notes                  string     `json:"notes"`
	RecordedAt             *time.Time `json:"recorded_at"`
}

type UpdateHealthReadingRequest struct {
	HeartRate              *float64 `json:"heart_rate"`
	BloodPressureSystolic  *float64 `json:"blood_pressure_systolic"`
	BloodPressureDiastolic *float64 `json:"blood_pressure_diastolic"`
	Temperature            *float64 `json:"temperature"`
	Weight                 *float64 `json:"weight"`
	Height                 *float64 `json:"height"`
	BloodSugar             *float64 `json:"blood_sugar"`
	OxygenSaturation       *float64 `json:"oxygen_saturation"`
	Notes                  *string  `json:"notes"`
}

// HealthAlert is a single out-of-band observation on a reading.
type HealthAlert struct {
	Metric     MetricKind `json:"metric"`
	Value      float64    `json:"value"`
	Severity   Severity   `json:"severity"`
	Message    string     `json:"message"`
	RecordedAt time.Time  `json:"recorded_at"`
}

// HealthStatus is the roll-up of a patient's latest reading.
type HealthStatus struct {
	Status         string     `json:"status"` // good | warning | critical | no_data
	LastUpdate     *time.Time `json:"last_update,omitempty"`
	Alerts         []string   `json:"alerts"`
	MetricsChecked int        `json:"metrics_checked"`
}

// TrendPoint is one observation in a metric's trend series.
type TrendPoint struct {
	Date   time.Time `json:"date"`
	Value  float64   `json:"value"`
	Status Severity  `json:"status"`
}
