package analytics

import (
	"math"
	"sort"

	"github.com/medtrack/medrecord-api/internal/model"
)

// stableThreshold is the percentage change below which a series counts as
// stable.
const stableThreshold = 5.0

// Trend compares the mean of the first half of a chronological series with
// the mean of the second half. With an odd count, the middle observation
// falls into the second half. A series of fewer than two points, or one
// whose first-half mean is zero, is stable.
func Trend(values []float64) *model.TrendResult {
	if len(values) < 2 {
		return &model.TrendResult{Direction: model.TrendStable, ChangePercent: 0}
	}

	mid := len(values) / 2
	firstMean := mean(values[:mid])
	secondMean := mean(values[mid:])

	if firstMean == 0 {
		return &model.TrendResult{Direction: model.TrendStable, ChangePercent: 0}
	}

	change := (secondMean - firstMean) / firstMean * 100
	direction := model.TrendStable
	if math.Abs(change) >= stableThreshold {
		if change > 0 {
			direction = model.TrendIncreasing
		} else {
			direction = model.TrendDecreasing
		}
	}
	return &model.TrendResult{
		Direction:     direction,
		ChangePercent: round2(change),
	}
}

// HealthScore averages per-metric sub-scores over the latest value of each
// metric: 30 when critical, 70 when out of the normal band, 90 otherwise.
// No data scores zero.
func HealthScore(latest map[model.MetricKind]float64, classify func(model.MetricKind, float64) model.Severity) int {
	if len(latest) == 0 {
		return 0
	}
	total := 0.0
	counted := 0
	for kind, value := range latest {
		switch classify(kind, value) {
		case model.SeverityCritical:
			total += 30
		case model.SeverityWarning:
			total += 70
		case model.SeverityNormal:
			total += 90
		default:
			continue
		}
		counted++
	}
	if counted == 0 {
		return 0
	}
	return int(math.Round(total / float64(counted)))
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// stdDeviation is the population standard deviation.
func stdDeviation(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	sum := 0.0
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
