package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/medtrack/medrecord-api/internal/model"
	"github.com/medtrack/medrecord-api/internal/service/health"
)

func TestTrendIncreasing(t *testing.T) {
	trend := Trend([]float64{100, 100, 120, 120})
	assert.Equal(t, model.TrendIncreasing, trend.Direction)
	assert.InDelta(t, 20.0, trend.ChangePercent, 0.01)
}

func TestTrendDecreasing(t *testing.T) {
	trend := Trend([]float64{120, 120, 100, 100})
	assert.Equal(t, model.TrendDecreasing, trend.Direction)
	assert.InDelta(t, -16.67, trend.ChangePercent, 0.01)
}

func TestTrendStableUnderThreshold(t *testing.T) {
	// 4% change stays stable.
	trend := Trend([]float64{100, 100, 104, 104})
	assert.Equal(t, model.TrendStable, trend.Direction)
}

func TestTrendOddCountMiddleInSecondHalf(t *testing.T) {
	// First half {100, 100}, second half {100, 130, 130}: +20%.
	trend := Trend([]float64{100, 100, 100, 130, 130})
	assert.Equal(t, model.TrendIncreasing, trend.Direction)
	assert.InDelta(t, 20.0, trend.ChangePercent, 0.01)
}

func TestTrendTooFewPoints(t *testing.T) {
	trend := Trend([]float64{100})
	assert.Equal(t, model.TrendStable, trend.Direction)
	assert.Zero(t, trend.ChangePercent)

	trend = Trend(nil)
	assert.Equal(t, model.TrendStable, trend.Direction)
}

func TestTrendZeroFirstMean(t *testing.T) {
	trend := Trend([]float64{0, 0, 50, 50})
	assert.Equal(t, model.TrendStable, trend.Direction)
	assert.Zero(t, trend.ChangePercent)
}

func TestHealthScoreAllNormal(t *testing.T) {
	latest := map[model.MetricKind]float64{
		model.MetricHeartRate:             72,
		model.MetricBloodPressureSystolic: 120,
		model.MetricOxygenSaturation:      98,
	}
	assert.Equal(t, 90, HealthScore(latest, health.Classify))
}

func TestHealthScoreMixed(t *testing.T) {
	latest := map[model.MetricKind]float64{
		model.MetricHeartRate:  160, // critical -> 30
		model.MetricBloodSugar: 95,  // normal -> 90
	}
	assert.Equal(t, 60, HealthScore(latest, health.Classify))
}

func TestHealthScoreWarning(t *testing.T) {
	latest := map[model.MetricKind]float64{
		model.MetricBloodPressureSystolic: 145, // warning -> 70
	}
	assert.Equal(t, 70, HealthScore(latest, health.Classify))
}

func TestHealthScoreNoData(t *testing.T) {
	assert.Equal(t, 0, HealthScore(nil, health.Classify))
	assert.Equal(t, 0, HealthScore(map[model.MetricKind]float64{}, health.Classify))
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 3.0, median([]float64{5, 1, 3}))
	assert.Equal(t, 2.5, median([]float64{4, 1, 2, 3}))
	assert.Zero(t, median(nil))
}

func TestStdDeviation(t *testing.T) {
	assert.InDelta(t, 2.0, stdDeviation([]float64{2, 4, 4, 4, 5, 5, 7, 9}), 0.0001)
	assert.Zero(t, stdDeviation([]float64{5}))
}
