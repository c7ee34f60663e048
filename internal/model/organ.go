package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Organ is static reference data linking a body system to the metric kinds
// that describe its condition.
type Organ struct {
	Base
	Name               string          `db:"name" json:"name"`
	Description        string          `db:"description" json:"description"`
	Function           string          `db:"function" json:"function"`
	RelatedMetricsJSON json.RawMessage `db:"related_metrics" json:"-"`
	RelatedMetrics     []MetricKind    `db:"-" json:"related_metrics"`
	Status             EntityStatus    `db:"status" json:"status"`
}

type CreateOrganRequest struct {
	Name           string       `json:"name" binding:"required,max=100"`
	Description    string       `json:"description"`
	Function       string       `json:"function"`
	RelatedMetrics []MetricKind `json:"related_metrics"`
}

type UpdateOrganRequest struct {
	Name           *string      `json:"name"`
	Description    *string      `json:"description"`
	Function       *string      `json:"function"`
	RelatedMetrics []MetricKind `json:"related_metrics"`
}

type OrganHealthStatus string

const (
	OrganHealthy         OrganHealthStatus = "healthy"
	OrganAttentionNeeded OrganHealthStatus = "attention_needed"
	OrganHealthUnknown   OrganHealthStatus = "unknown"
)

// OrganMetricReading is the latest observation of one related metric.
type OrganMetricReading struct {
	LatestValue float64   `json:"latest_value"`
	Unit        string    `json:"unit"`
	RecordedAt  time.Time `json:"recorded_at"`
	Status      Severity  `json:"status"`
}

// OrganHealthInfo rolls a patient's recent readings up to organ level.
type OrganHealthInfo struct {
	OrganID      uuid.UUID                         `json:"organ_id"`
	OrganName    string                            `json:"organ_name"`
	HealthStatus OrganHealthStatus                 `json:"health_status"`
	MetricsData  map[MetricKind]OrganMetricReading `json:"metrics_data"`
	PeriodDays   int                               `json:"analysis_period_days"`
}

// OrganStatistics counts stored data related to one organ.
type OrganStatistics struct {
	OrganID             uuid.UUID `json:"organ_id"`
	OrganName           string    `json:"organ_name"`
	RelatedMetricsCount int       `json:"related_metrics_count"`
	RecordsLastMonth    int       `json:"health_records_last_month"`
	PatientsWithData    int       `json:"patients_with_data"`
}
