package health

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/medtrack/medrecord-api/internal/model"
)

func TestClassifyHeartRate(t *testing.T) {
	assert.Equal(t, model.SeverityNormal, Classify(model.MetricHeartRate, 60))
	assert.Equal(t, model.SeverityNormal, Classify(model.MetricHeartRate, 100))
	assert.Equal(t, model.SeverityWarning, Classify(model.MetricHeartRate, 59))
	assert.Equal(t, model.SeverityWarning, Classify(model.MetricHeartRate, 110))
	assert.Equal(t, model.SeverityCritical, Classify(model.MetricHeartRate, 39))
	assert.Equal(t, model.SeverityCritical, Classify(model.MetricHeartRate, 151))
	// Band edges are inclusive.
	assert.Equal(t, model.SeverityWarning, Classify(model.MetricHeartRate, 40))
	assert.Equal(t, model.SeverityWarning, Classify(model.MetricHeartRate, 150))
}

func TestClassifyBloodPressure(t *testing.T) {
	assert.Equal(t, model.SeverityNormal, Classify(model.MetricBloodPressureSystolic, 120))
	assert.Equal(t, model.SeverityWarning, Classify(model.MetricBloodPressureSystolic, 145))
	assert.Equal(t, model.SeverityCritical, Classify(model.MetricBloodPressureSystolic, 185))
	assert.Equal(t, model.SeverityCritical, Classify(model.MetricBloodPressureSystolic, 65))

	assert.Equal(t, model.SeverityNormal, Classify(model.MetricBloodPressureDiastolic, 75))
	assert.Equal(t, model.SeverityWarning, Classify(model.MetricBloodPressureDiastolic, 95))
	assert.Equal(t, model.SeverityCritical, Classify(model.MetricBloodPressureDiastolic, 115))
}

func TestClassifyTemperature(t *testing.T) {
	assert.Equal(t, model.SeverityNormal, Classify(model.MetricTemperature, 36.6))
	assert.Equal(t, model.SeverityWarning, Classify(model.MetricTemperature, 38.0))
	assert.Equal(t, model.SeverityCritical, Classify(model.MetricTemperature, 39.5))
	assert.Equal(t, model.SeverityCritical, Classify(model.MetricTemperature, 34.5))
}

func TestClassifyBloodSugar(t *testing.T) {
	assert.Equal(t, model.SeverityNormal, Classify(model.MetricBloodSugar, 95))
	assert.Equal(t, model.SeverityWarning, Classify(model.MetricBloodSugar, 180))
	assert.Equal(t, model.SeverityCritical, Classify(model.MetricBloodSugar, 260))
	assert.Equal(t, model.SeverityCritical, Classify(model.MetricBloodSugar, 45))
}

func TestClassifyOxygenSaturation(t *testing.T) {
	assert.Equal(t, model.SeverityNormal, Classify(model.MetricOxygenSaturation, 98))
	assert.Equal(t, model.SeverityWarning, Classify(model.MetricOxygenSaturation, 93))
	assert.Equal(t, model.SeverityCritical, Classify(model.MetricOxygenSaturation, 88))
}

func TestClassifyWeightHasNoCriticalBand(t *testing.T) {
	assert.Equal(t, model.SeverityNormal, Classify(model.MetricWeight, 80))
	// Out of the normal band, but weight can never be critical.
	assert.Equal(t, model.SeverityWarning, Classify(model.MetricWeight, 30))
	assert.Equal(t, model.SeverityWarning, Classify(model.MetricWeight, 250))
}

func TestClassifyUnbandedMetric(t *testing.T) {
	assert.Equal(t, model.SeverityUnknown, Classify(model.MetricHeight, 180))
	assert.Equal(t, model.SeverityUnknown, Classify(model.MetricBMI, 22))
}

func TestEvaluateReading(t *testing.T) {
	hr := 160.0
	sys := 120.0
	temp := 38.0
	reading := &model.HealthReading{
		HeartRate:             &hr,
		BloodPressureSystolic: &sys,
		Temperature:           &temp,
		RecordedAt:            time.Now(),
	}

	alerts := EvaluateReading(reading)
	assert.Len(t, alerts, 2)

	bySeverity := map[model.MetricKind]model.Severity{}
	for _, alert := range alerts {
		bySeverity[alert.Metric] = alert.Severity
	}
	assert.Equal(t, model.SeverityCritical, bySeverity[model.MetricHeartRate])
	assert.Equal(t, model.SeverityWarning, bySeverity[model.MetricTemperature])
	assert.NotContains(t, bySeverity, model.MetricBloodPressureSystolic)
}

func TestEvaluateReadingAllNormal(t *testing.T) {
	hr := 72.0
	o2 := 98.0
	reading := &model.HealthReading{
		HeartRate:        &hr,
		OxygenSaturation: &o2,
		RecordedAt:       time.Now(),
	}
	assert.Empty(t, EvaluateReading(reading))
}
