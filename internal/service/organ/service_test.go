package organ

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medtrack/medrecord-api/internal/model"
	"github.com/medtrack/medrecord-api/internal/repository"
	apperrors "github.com/medtrack/medrecord-api/pkg/errors"
	"github.com/medtrack/medrecord-api/pkg/logger"
)

type fakeOrganRepo struct {
	repository.OrganRepository
	organs map[uuid.UUID]*model.Organ
	gets   int
}

func newFakeOrganRepo() *fakeOrganRepo {
	return &fakeOrganRepo{organs: make(map[uuid.UUID]*model.Organ)}
}

func (f *fakeOrganRepo) Create(_ context.Context, o *model.Organ) error {
	clone := *o
	f.organs[o.ID] = &clone
	return nil
}

func (f *fakeOrganRepo) Get(_ context.Context, id uuid.UUID) (*model.Organ, error) {
	f.gets++
	o, ok := f.organs[id]
	if !ok {
		return nil, apperrors.NotFound("organ")
	}
	clone := *o
	return &clone, nil
}

func (f *fakeOrganRepo) GetByName(_ context.Context, name string) (*model.Organ, error) {
	for _, o := range f.organs {
		if o.Name == name {
			clone := *o
			return &clone, nil
		}
	}
	return nil, apperrors.NotFound("organ")
}

type fakeHealthRepo struct {
	repository.HealthDataRepository
	readings []*model.HealthReading
}

func (f *fakeHealthRepo) ListSince(_ context.Context, patientID uuid.UUID, _ time.Time, _ int) ([]*model.HealthReading, error) {
	out := []*model.HealthReading{}
	for _, r := range f.readings {
		if r.PatientID == patientID {
			out = append(out, r)
		}
	}
	return out, nil
}

func ptr(v float64) *float64 { return &v }

func mustJSON(t *testing.T, v interface{}) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func TestGetServesFromCache(t *testing.T) {
	repo := newFakeOrganRepo()
	s := NewService(repo, &fakeHealthRepo{}, logger.New(nil))

	organ := &model.Organ{
		Base:               model.Base{ID: uuid.New()},
		Name:               "Heart",
		RelatedMetricsJSON: mustJSON(t, []model.MetricKind{model.MetricHeartRate}),
		Status:             model.EntityStatusActive,
	}
	repo.organs[organ.ID] = organ

	first, err := s.Get(context.Background(), organ.ID)
	require.NoError(t, err)
	second, err := s.Get(context.Background(), organ.ID)
	require.NoError(t, err)

	assert.Equal(t, first.Name, second.Name)
	assert.Equal(t, 1, repo.gets)
}

func TestSeedSkipsExisting(t *testing.T) {
	repo := newFakeOrganRepo()
	s := NewService(repo, &fakeHealthRepo{}, logger.New(nil))

	created, err := s.Seed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, len(defaultOrgans), created)

	// Seeding again creates nothing.
	created, err = s.Seed(context.Background())
	require.NoError(t, err)
	assert.Zero(t, created)
}

func TestPatientOrganHealthAttentionNeeded(t *testing.T) {
	repo := newFakeOrganRepo()
	patientID := uuid.New()
	healthRepo := &fakeHealthRepo{readings: []*model.HealthReading{
		{
			ID:         uuid.New(),
			PatientID:  patientID,
			HeartRate:  ptr(115),
			RecordedAt: time.Now(),
		},
	}}
	s := NewService(repo, healthRepo, logger.New(nil))

	organ := &model.Organ{
		Base: model.Base{ID: uuid.New()},
		Name: "Heart",
		RelatedMetricsJSON: mustJSON(t, []model.MetricKind{
			model.MetricHeartRate, model.MetricBloodPressureSystolic,
		}),
		Status: model.EntityStatusActive,
	}
	repo.organs[organ.ID] = organ

	info, err := s.PatientOrganHealth(context.Background(), organ.ID, patientID, 30)
	require.NoError(t, err)
	assert.Equal(t, model.OrganAttentionNeeded, info.HealthStatus)
	assert.Contains(t, info.MetricsData, model.MetricHeartRate)
	// No systolic reading recorded, so it carries no entry.
	assert.NotContains(t, info.MetricsData, model.MetricBloodPressureSystolic)
}

func TestPatientOrganHealthUnknownWithoutData(t *testing.T) {
	repo := newFakeOrganRepo()
	s := NewService(repo, &fakeHealthRepo{}, logger.New(nil))

	organ := &model.Organ{
		Base:               model.Base{ID: uuid.New()},
		Name:               "Lungs",
		RelatedMetricsJSON: mustJSON(t, []model.MetricKind{model.MetricOxygenSaturation}),
		Status:             model.EntityStatusActive,
	}
	repo.organs[organ.ID] = organ

	info, err := s.PatientOrganHealth(context.Background(), organ.ID, uuid.New(), 30)
	require.NoError(t, err)
	assert.Equal(t, model.OrganHealthUnknown, info.HealthStatus)
	assert.Empty(t, info.MetricsData)
}
