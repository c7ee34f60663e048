package organ

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/medtrack/medrecord-api/internal/model"
	"github.com/medtrack/medrecord-api/internal/repository"
	"github.com/medtrack/medrecord-api/internal/service/health"
	apperrors "github.com/medtrack/medrecord-api/pkg/errors"
	"github.com/medtrack/medrecord-api/pkg/logger"
)

// Organs are near-static reference data; reads are served from an
// in-process cache and invalidated on writes.
const (
	cacheTTL       = 10 * time.Minute
	cacheSweep     = 15 * time.Minute
	listCacheKey   = "organs:list"
	organKeyPrefix = "organ:"
)

type Service struct {
	repo       repository.OrganRepository
	healthRepo repository.HealthDataRepository
	cache      *gocache.Cache
	logger     *logger.Logger
}

func NewService(repo repository.OrganRepository, healthRepo repository.HealthDataRepository, log *logger.Logger) *Service {
	return &Service{
		repo:       repo,
		healthRepo: healthRepo,
		cache:      gocache.New(cacheTTL, cacheSweep),
		logger:     log,
	}
}

func (s *Service) Create(ctx context.Context, req *model.CreateOrganRequest) (*model.Organ, error) {
	now := time.Now()
	organ := &model.Organ{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:           req.Name,
		Description:    req.Description,
		Function:       req.Function,
		RelatedMetrics: req.RelatedMetrics,
		Status:         model.EntityStatusActive,
	}
	if err := encodeMetrics(organ); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, organ); err != nil {
		return nil, err
	}
	s.cache.Delete(listCacheKey)
	return organ, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Organ, error) {
	key := organKeyPrefix + id.String()
	if cached, ok := s.cache.Get(key); ok {
		return cached.(*model.Organ), nil
	}

	organ, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := decodeMetrics(organ); err != nil {
		return nil, err
	}
	s.cache.Set(key, organ, gocache.DefaultExpiration)
	return organ, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateOrganRequest) (*model.Organ, error) {
	organ, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := decodeMetrics(organ); err != nil {
		return nil, err
	}

	if req.Name != nil {
		organ.Name = *req.Name
	}
	if req.Description != nil {
		organ.Description = *req.Description
	}
	if req.Function != nil {
		organ.Function = *req.Function
	}
	if req.RelatedMetrics != nil {
		organ.RelatedMetrics = req.RelatedMetrics
	}

	organ.UpdatedAt = time.Now()
	if err := encodeMetrics(organ); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, organ); err != nil {
		return nil, err
	}
	s.cache.Delete(organKeyPrefix + id.String())
	s.cache.Delete(listCacheKey)
	return organ, nil
}

func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}
	s.cache.Delete(organKeyPrefix + id.String())
	s.cache.Delete(listCacheKey)
	return nil
}

func (s *Service) List(ctx context.Context, p *model.Pagination) ([]*model.Organ, error) {
	p.Normalize(50, 200)
	if p.Offset == 0 {
		if cached, ok := s.cache.Get(listCacheKey); ok {
			organs := cached.([]*model.Organ)
			if len(organs) <= p.Limit {
				return organs, nil
			}
			return organs[:p.Limit], nil
		}
	}

	organs, err := s.repo.List(ctx, p)
	if err != nil {
		return nil, err
	}
	for _, organ := range organs {
		if err := decodeMetrics(organ); err != nil {
			return nil, err
		}
	}
	if p.Offset == 0 {
		s.cache.Set(listCacheKey, organs, gocache.DefaultExpiration)
	}
	return organs, nil
}

// PatientOrganHealth rolls a patient's recent readings up to organ level:
// attention_needed when any related metric is out of band, unknown when no
// related metric was observed in the window.
func (s *Service) PatientOrganHealth(ctx context.Context, organID, patientID uuid.UUID, days int) (*model.OrganHealthInfo, error) {
	organ, err := s.Get(ctx, organID)
	if err != nil {
		return nil, err
	}
	if days <= 0 {
		days = 30
	}

	readings, err := s.healthRepo.ListSince(ctx, patientID, time.Now().AddDate(0, 0, -days), 1000)
	if err != nil {
		return nil, err
	}

	info := &model.OrganHealthInfo{
		OrganID:      organ.ID,
		OrganName:    organ.Name,
		HealthStatus: model.OrganHealthUnknown,
		MetricsData:  make(map[model.MetricKind]model.OrganMetricReading),
		PeriodDays:   days,
	}

	attention := false
	for _, kind := range organ.RelatedMetrics {
		// Readings are newest first; the first hit is the latest.
		for _, reading := range readings {
			value, ok := reading.Value(kind)
			if !ok {
				continue
			}
			status := health.Classify(kind, value)
			info.MetricsData[kind] = model.OrganMetricReading{
				LatestValue: value,
				Unit:        kind.Unit(),
				RecordedAt:  reading.RecordedAt,
				Status:      status,
			}
			if status == model.SeverityWarning || status == model.SeverityCritical {
				attention = true
			}
			break
		}
	}

	if len(info.MetricsData) > 0 {
		if attention {
			info.HealthStatus = model.OrganAttentionNeeded
		} else {
			info.HealthStatus = model.OrganHealthy
		}
	}
	return info, nil
}

// Statistics counts stored data touching one organ's related metrics.
func (s *Service) Statistics(ctx context.Context, organID uuid.UUID) (*model.OrganStatistics, error) {
	organ, err := s.Get(ctx, organID)
	if err != nil {
		return nil, err
	}

	stats := &model.OrganStatistics{
		OrganID:             organ.ID,
		OrganName:           organ.Name,
		RelatedMetricsCount: len(organ.RelatedMetrics),
	}
	if len(organ.RelatedMetrics) == 0 {
		return stats, nil
	}

	records, err := s.healthRepo.CountWithAnyMetricSince(ctx, organ.RelatedMetrics, time.Now().AddDate(0, -1, 0))
	if err != nil {
		return nil, err
	}
	patients, err := s.healthRepo.CountPatientsWithAnyMetric(ctx, organ.RelatedMetrics)
	if err != nil {
		return nil, err
	}
	stats.RecordsLastMonth = records
	stats.PatientsWithData = patients
	return stats, nil
}

// Seed inserts the default organ reference set, skipping names that already
// exist. Returns how many were created.
func (s *Service) Seed(ctx context.Context) (int, error) {
	created := 0
	for _, seed := range defaultOrgans {
		if _, err := s.repo.GetByName(ctx, seed.Name); err == nil {
			continue
		} else if !apperrors.IsNotFound(err) {
			return created, err
		}
		if _, err := s.Create(ctx, &seed); err != nil {
			return created, fmt.Errorf("failed to seed organ %q: %w", seed.Name, err)
		}
		created++
	}
	s.cache.Delete(listCacheKey)
	return created, nil
}

var defaultOrgans = []model.CreateOrganRequest{
	{
		Name:        "Heart",
		Description: "Muscular organ that pumps blood through the circulatory system",
		Function:    "Circulation",
		RelatedMetrics: []model.MetricKind{
			model.MetricHeartRate,
			model.MetricBloodPressureSystolic,
			model.MetricBloodPressureDiastolic,
		},
	},
	{
		Name:           "Lungs",
		Description:    "Paired organs responsible for gas exchange",
		Function:       "Respiration",
		RelatedMetrics: []model.MetricKind{model.MetricOxygenSaturation},
	},
	{
		Name:           "Pancreas",
		Description:    "Gland regulating blood sugar through insulin production",
		Function:       "Glucose regulation",
		RelatedMetrics: []model.MetricKind{model.MetricBloodSugar},
	},
	{
		Name:           "Kidneys",
		Description:    "Paired organs filtering waste from the blood",
		Function:       "Filtration",
		RelatedMetrics: []model.MetricKind{model.MetricBloodPressureSystolic, model.MetricBloodPressureDiastolic},
	},
	{
		Name:           "Liver",
		Description:    "Organ handling metabolism and detoxification",
		Function:       "Metabolism",
		RelatedMetrics: []model.MetricKind{model.MetricBloodSugar, model.MetricWeight},
	},
	{
		Name:           "Brain",
		Description:    "Control centre of the nervous system",
		Function:       "Regulation",
		RelatedMetrics: []model.MetricKind{model.MetricTemperature, model.MetricBloodPressureSystolic},
	},
	{
		Name:           "Thyroid",
		Description:    "Gland regulating metabolic rate through hormone secretion",
		Function:       "Hormone regulation",
		RelatedMetrics: []model.MetricKind{model.MetricHeartRate, model.MetricWeight, model.MetricTemperature},
	},
	{
		Name:           "Stomach",
		Description:    "Digestive organ breaking down food",
		Function:       "Digestion",
		RelatedMetrics: []model.MetricKind{model.MetricWeight},
	},
}

func encodeMetrics(organ *model.Organ) error {
	if organ.RelatedMetrics == nil {
		organ.RelatedMetrics = []model.MetricKind{}
	}
	data, err := json.Marshal(organ.RelatedMetrics)
	if err != nil {
		return fmt.Errorf("failed to encode related metrics: %w", err)
	}
	organ.RelatedMetricsJSON = data
	return nil
}

func decodeMetrics(organ *model.Organ) error {
	organ.RelatedMetrics = []model.MetricKind{}
	if len(organ.RelatedMetricsJSON) == 0 {
		return nil
	}
	if err := json.Unmarshal(organ.RelatedMetricsJSON, &organ.RelatedMetrics); err != nil {
		return fmt.Errorf("failed to decode related metrics: %w", err)
	}
	return nil
}
