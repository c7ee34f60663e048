package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/medtrack/medrecord-api/internal/model"
)

func TestAssessRiskNoFindings(t *testing.T) {
	score, factors := assessRisk(map[model.MetricKind]float64{
		model.MetricHeartRate:  72,
		model.MetricBloodSugar: 90,
	})
	assert.Zero(t, score)
	assert.Empty(t, factors)
	assert.Equal(t, model.RiskLevelMinimal, riskLevel(score, true))
}

func TestAssessRiskBorderline(t *testing.T) {
	score, factors := assessRisk(map[model.MetricKind]float64{
		model.MetricBloodPressureSystolic: 135, // borderline +1
		model.MetricBloodSugar:            110, // borderline +1
	})
	assert.Equal(t, 2, score)
	assert.Len(t, factors, 2)
	assert.Equal(t, model.RiskLevelLow, riskLevel(score, true))
	for _, factor := range factors {
		assert.Equal(t, "medium", factor.Severity)
	}
}

func TestAssessRiskCritical(t *testing.T) {
	score, factors := assessRisk(map[model.MetricKind]float64{
		model.MetricHeartRate:  160, // critical +3
		model.MetricBloodSugar: 110, // borderline +1
	})
	assert.Equal(t, 4, score)
	assert.Equal(t, model.RiskLevelMedium, riskLevel(score, true))
	assert.Equal(t, "high", factors[0].Severity)
}

func TestAssessRiskHigh(t *testing.T) {
	score, _ := assessRisk(map[model.MetricKind]float64{
		model.MetricHeartRate:             160, // +3
		model.MetricBloodPressureSystolic: 190, // +3
		model.MetricBloodSugar:            110, // +1
	})
	assert.Equal(t, 7, score)
	assert.Equal(t, model.RiskLevelHigh, riskLevel(score, true))
}

func TestRiskLevelNoData(t *testing.T) {
	assert.Equal(t, model.RiskLevelUnknown, riskLevel(0, false))
}

func TestAssessRiskDerivesBMI(t *testing.T) {
	// 85 kg at 170 cm is BMI 29.4, inside the borderline band.
	score, factors := assessRisk(map[model.MetricKind]float64{
		model.MetricWeight: 85,
		model.MetricHeight: 170,
	})
	assert.Equal(t, 1, score)
	assert.Len(t, factors, 1)
	assert.Equal(t, model.MetricBMI, factors[0].Metric)
}

func TestRiskRecommendationsDeduped(t *testing.T) {
	factors := []model.RiskFactor{
		{Metric: model.MetricBloodPressureSystolic},
		{Metric: model.MetricBloodPressureDiastolic},
	}
	recs := riskRecommendations(model.RiskLevelLow, factors)
	// Both pressure metrics map to the same advice; it appears once.
	count := 0
	for _, rec := range recs {
		if rec == metricRecommendations[model.MetricBloodPressureSystolic] {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestAnalyticsRecommendationsPerSeverity(t *testing.T) {
	recommendations := analyticsRecommendations(map[model.MetricKind]float64{
		model.MetricHeartRate:   160, // critical
		model.MetricBloodSugar:  150, // warning
		model.MetricTemperature: 36.8,
	})
	assert.Equal(t, []string{
		"Urgently consult a doctor about your heart_rate",
		"Monitor your blood_sugar, a consultation is recommended",
	}, recommendations)
}

func TestAnalyticsRecommendationsOneLinePerMetric(t *testing.T) {
	recommendations := analyticsRecommendations(map[model.MetricKind]float64{
		model.MetricBloodPressureSystolic:  145, // warning
		model.MetricBloodPressureDiastolic: 95,  // warning
	})
	assert.Len(t, recommendations, 2)
	assert.Contains(t, recommendations[0], "blood_pressure_systolic")
	assert.Contains(t, recommendations[1], "blood_pressure_diastolic")
}

func TestAnalyticsRecommendationsAllNormal(t *testing.T) {
	recommendations := analyticsRecommendations(map[model.MetricKind]float64{
		model.MetricHeartRate: 72,
	})
	assert.Equal(t, []string{"All metrics look good, keep up your current routine"}, recommendations)
}
