package doctor

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/medtrack/medrecord-api/internal/model"
	"github.com/medtrack/medrecord-api/internal/repository"
	apperrors "github.com/medtrack/medrecord-api/pkg/errors"
	"github.com/medtrack/medrecord-api/pkg/logger"
)

type Service struct {
	repo   repository.DoctorRepository
	logger *logger.Logger
}

func NewService(repo repository.DoctorRepository, log *logger.Logger) *Service {
	return &Service{repo: repo, logger: log}
}

func (s *Service) Create(ctx context.Context, req *model.CreateDoctorRequest) (*model.Doctor, error) {
	if _, err := s.repo.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperrors.Conflict("doctor with this email already exists")
	} else if !apperrors.IsNotFound(err) {
		return nil, err
	}
	if _, err := s.repo.GetByLicense(ctx, req.LicenseNumber); err == nil {
		return nil, apperrors.Conflict("doctor with this license number already exists")
	} else if !apperrors.IsNotFound(err) {
		return nil, err
	}

	now := time.Now()
	doctor := &model.Doctor{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Specialization:  req.Specialization,
		Email:           req.Email,
		Phone:           req.Phone,
		LicenseNumber:   req.LicenseNumber,
		ExperienceYears: req.ExperienceYears,
		Rating:          req.Rating,
		Avatar:          req.Avatar,
		Status:          model.EntityStatusActive,
	}
	if err := s.repo.Create(ctx, doctor); err != nil {
		return nil, err
	}
	s.logger.Info("doctor created", "doctor_id", doctor.ID.String())
	return doctor, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateDoctorRequest) (*model.Doctor, error) {
	doctor, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		doctor.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		doctor.LastName = *req.LastName
	}
	if req.Specialization != nil {
		doctor.Specialization = *req.Specialization
	}
	if req.Email != nil {
		doctor.Email = *req.Email
	}
	if req.Phone != nil {
		doctor.Phone = *req.Phone
	}
	if req.LicenseNumber != nil {
		doctor.LicenseNumber = *req.LicenseNumber
	}
	if req.ExperienceYears != nil {
		doctor.ExperienceYears = *req.ExperienceYears
	}
	if req.Rating != nil {
		doctor.Rating = *req.Rating
	}
	if req.Avatar != nil {
		doctor.Avatar = *req.Avatar
	}

	doctor.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, doctor); err != nil {
		return nil, err
	}
	return doctor, nil
}

func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	return s.repo.Deactivate(ctx, id)
}

func (s *Service) List(ctx context.Context, filters *model.DoctorFilters) ([]*model.Doctor, error) {
	filters.Normalize(50, 200)
	return s.repo.List(ctx, filters)
}
