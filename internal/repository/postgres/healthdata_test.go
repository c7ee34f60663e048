package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medtrack/medrecord-api/internal/model"
)

func TestAnyMetricClause(t *testing.T) {
	clause, err := anyMetricClause([]model.MetricKind{model.MetricHeartRate, model.MetricBloodSugar})
	require.NoError(t, err)
	assert.Equal(t, "heart_rate IS NOT NULL OR blood_sugar IS NOT NULL", clause)
}

func TestAnyMetricClauseRejectsUnknownKind(t *testing.T) {
	_, err := anyMetricClause([]model.MetricKind{"id; DROP TABLE health_data"})
	require.Error(t, err)

	_, err = anyMetricClause(nil)
	require.Error(t, err)
}
