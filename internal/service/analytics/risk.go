package analytics

import (
	"fmt"

	"github.com/medtrack/medrecord-api/internal/model"
	"github.com/medtrack/medrecord-api/internal/service/health"
)

// borderlineBands flag elevated-but-not-critical values that contribute one
// point each to the risk score. Critical values contribute three.
var borderlineBands = map[model.MetricKind]struct{ min, max float64 }{
	model.MetricBloodPressureSystolic:  {130, 139},
	model.MetricBloodPressureDiastolic: {80, 89},
	model.MetricHeartRate:              {100, 110},
	model.MetricBloodSugar:             {100, 125},
	model.MetricCholesterol:            {200, 239},
	model.MetricBMI:                    {25, 29.9},
}

const (
	criticalRiskPoints   = 3
	borderlineRiskPoints = 1

	highRiskThreshold   = 6
	mediumRiskThreshold = 3
)

// assessRisk scores the latest observed value of each metric. BMI is derived
// from weight and height when both are present.
func assessRisk(latest map[model.MetricKind]float64) (int, []model.RiskFactor) {
	if w, okW := latest[model.MetricWeight]; okW {
		if h, okH := latest[model.MetricHeight]; okH && h > 0 {
			meters := h / 100
			latest[model.MetricBMI] = round2(w / (meters * meters))
		}
	}

	score := 0
	factors := []model.RiskFactor{}
	for _, kind := range riskMetricOrder {
		value, ok := latest[kind]
		if !ok {
			continue
		}
		if health.Classify(kind, value) == model.SeverityCritical {
			score += criticalRiskPoints
			factors = append(factors, model.RiskFactor{
				Metric:      kind,
				Value:       value,
				Severity:    "high",
				Description: fmt.Sprintf("%s at critical level: %.1f %s", kind, value, kind.Unit()),
			})
			continue
		}
		if band, ok := borderlineBands[kind]; ok && value >= band.min && value <= band.max {
			score += borderlineRiskPoints
			factors = append(factors, model.RiskFactor{
				Metric:      kind,
				Value:       value,
				Severity:    "medium",
				Description: fmt.Sprintf("%s elevated: %.1f %s", kind, value, kind.Unit()),
			})
		}
	}
	return score, factors
}

// riskMetricOrder keeps risk factors in stable output order.
var riskMetricOrder = []model.MetricKind{
	model.MetricHeartRate,
	model.MetricBloodPressureSystolic,
	model.MetricBloodPressureDiastolic,
	model.MetricTemperature,
	model.MetricBloodSugar,
	model.MetricOxygenSaturation,
	model.MetricCholesterol,
	model.MetricBMI,
}

func riskLevel(score int, hasData bool) model.RiskLevel {
	if !hasData {
		return model.RiskLevelUnknown
	}
	switch {
	case score >= highRiskThreshold:
		return model.RiskLevelHigh
	case score >= mediumRiskThreshold:
		return model.RiskLevelMedium
	case score >= 1:
		return model.RiskLevelLow
	default:
		return model.RiskLevelMinimal
	}
}

func riskRecommendations(level model.RiskLevel, factors []model.RiskFactor) []string {
	recommendations := []string{}
	switch level {
	case model.RiskLevelHigh:
		recommendations = append(recommendations,
			"Schedule an appointment with your doctor as soon as possible",
			"Monitor your vital signs daily")
	case model.RiskLevelMedium:
		recommendations = append(recommendations,
			"Schedule a check-up within the next two weeks",
			"Track the elevated metrics regularly")
	case model.RiskLevelLow:
		recommendations = append(recommendations,
			"Keep monitoring the elevated metrics")
	case model.RiskLevelMinimal:
		recommendations = append(recommendations,
			"Keep up your current health routine")
	case model.RiskLevelUnknown:
		recommendations = append(recommendations,
			"Record health readings to enable risk assessment")
	}
	for _, factor := range factors {
		if rec, ok := metricRecommendations[factor.Metric]; ok {
			recommendations = append(recommendations, rec)
		}
	}
	return dedupe(recommendations)
}

var metricRecommendations = map[model.MetricKind]string{
	model.MetricHeartRate:              "Reduce caffeine intake and practice relaxation techniques",
	model.MetricBloodPressureSystolic:  "Limit salt intake and maintain regular physical activity",
	model.MetricBloodPressureDiastolic: "Limit salt intake and maintain regular physical activity",
	model.MetricBloodSugar:             "Reduce sugar intake and monitor carbohydrate consumption",
	model.MetricCholesterol:            "Adopt a diet low in saturated fats",
	model.MetricBMI:                    "Maintain a balanced diet and regular exercise routine",
	model.MetricTemperature:            "Rest and stay hydrated; seek care if fever persists",
	model.MetricOxygenSaturation:       "Seek medical evaluation for low oxygen saturation",
}

func dedupe(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := items[:0]
	for _, item := range items {
		if _, ok := seen[item]; ok {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
