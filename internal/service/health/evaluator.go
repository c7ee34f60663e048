package health

import (
	"fmt"

	"github.com/medtrack/medrecord-api/internal/model"
)

// band is an inclusive value range.
type band struct {
	min, max float64
}

func (b band) contains(v float64) bool {
	return v >= b.min && v <= b.max
}

// normalBands defines the unremarkable range per metric. Values outside it
// but inside the critical band classify as warning. Height carries no band
// and is never flagged.
var normalBands = map[model.MetricKind]band{
	model.MetricHeartRate:              {60, 100},
	model.MetricBloodPressureSystolic:  {90, 140},
	model.MetricBloodPressureDiastolic: {60, 90},
	model.MetricTemperature:            {36.1, 37.2},
	model.MetricWeight:                 {40, 200},
	model.MetricBloodSugar:             {70, 140},
	model.MetricOxygenSaturation:       {95, 100},
}

// criticalBands bound the values beyond which a reading is critical.
// Weight and height have no critical band.
var criticalBands = map[model.MetricKind]band{
	model.MetricHeartRate:              {40, 150},
	model.MetricBloodPressureSystolic:  {70, 180},
	model.MetricBloodPressureDiastolic: {40, 110},
	model.MetricTemperature:            {35.0, 39.0},
	model.MetricBloodSugar:             {50, 250},
	model.MetricOxygenSaturation:       {90, 100},
}

// Classify grades a single value against its metric's bands.
func Classify(kind model.MetricKind, value float64) model.Severity {
	normal, ok := normalBands[kind]
	if !ok {
		return model.SeverityUnknown
	}
	if critical, ok := criticalBands[kind]; ok && !critical.contains(value) {
		return model.SeverityCritical
	}
	if !normal.contains(value) {
		return model.SeverityWarning
	}
	return model.SeverityNormal
}

// EvaluateReading grades every metric present on a reading and returns the
// out-of-band observations, worst first is not guaranteed; callers needing
// only criticals filter on Severity.
func EvaluateReading(reading *model.HealthReading) []model.HealthAlert {
	alerts := []model.HealthAlert{}
	for _, kind := range model.ReadingMetrics {
		value, ok := reading.Value(kind)
		if !ok {
			continue
		}
		severity := Classify(kind, value)
		if severity != model.SeverityWarning && severity != model.SeverityCritical {
			continue
		}
		alerts = append(alerts, model.HealthAlert{
			Metric:     kind,
			Value:      value,
			Severity:   severity,
			Message:    alertMessage(kind, value, severity),
			RecordedAt: reading.RecordedAt,
		})
	}
	return alerts
}

func alertMessage(kind model.MetricKind, value float64, severity model.Severity) string {
	qualifier := "outside normal range"
	if severity == model.SeverityCritical {
		qualifier = "at critical level"
	}
	return fmt.Sprintf("%s %s: %.1f %s", kind, qualifier, value, kind.Unit())
}
