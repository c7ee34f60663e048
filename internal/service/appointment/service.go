package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/medtrack/medrecord-api/internal/model"
	"github.com/medtrack/medrecord-api/internal/repository"
	apperrors "github.com/medtrack/medrecord-api/pkg/errors"
	"github.com/medtrack/medrecord-api/pkg/logger"
	"github.com/medtrack/medrecord-api/pkg/metrics"
	"github.com/medtrack/medrecord-api/pkg/validator"
)

// Working day bounds and slot granularity. 09:00 through 16:30 inclusive
// yields 16 bookable slots.
const (
	dayStartHour    = 9
	dayEndHour      = 17
	slotMinutes     = 30
	defaultDuration = 30
)

type Service struct {
	repo        repository.AppointmentRepository
	patientRepo repository.PatientRepository
	doctorRepo  repository.DoctorRepository
	metrics     *metrics.Metrics
	logger      *logger.Logger
}

func NewService(
	repo repository.AppointmentRepository,
	patientRepo repository.PatientRepository,
	doctorRepo repository.DoctorRepository,
	m *metrics.Metrics,
	log *logger.Logger,
) *Service {
	return &Service{
		repo:        repo,
		patientRepo: patientRepo,
		doctorRepo:  doctorRepo,
		metrics:     m,
		logger:      log,
	}
}

// Book validates the request, verifies both parties exist and creates the
// appointment if the slot is free.
func (s *Service) Book(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	if err := validator.Date(req.Date); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	if err := validator.Clock(req.Time); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	if req.Date < time.Now().Format("2006-01-02") {
		return nil, apperrors.Conflict("cannot book an appointment in the past")
	}

	if _, err := s.patientRepo.Get(ctx, req.PatientID); err != nil {
		return nil, err
	}
	if _, err := s.doctorRepo.Get(ctx, req.DoctorID); err != nil {
		return nil, err
	}

	duration := req.Duration
	if duration <= 0 {
		duration = defaultDuration
	}

	now := time.Now()
	appointment := &model.Appointment{
		Base: model.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		PatientID: req.PatientID,
		DoctorID:  req.DoctorID,
		Date:      req.Date,
		Time:      req.Time,
		Duration:  duration,
		Type:      req.Type,
		Status:    model.AppointmentStatusScheduled,
		Notes:     req.Notes,
	}

	if err := s.repo.CreateIfSlotFree(ctx, appointment); err != nil {
		if s.metrics != nil {
			if appErr, ok := apperrors.As(err); ok && appErr.Code == apperrors.CodeConflict {
				s.metrics.BookingConflicts.Inc()
			}
		}
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.AppointmentsBooked.Inc()
	}

	s.logger.Info("appointment booked",
		"appointment_id", appointment.ID.String(),
		"doctor_id", appointment.DoctorID.String(),
		"date", appointment.Date, "time", appointment.Time)
	return appointment, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	return s.repo.Get(ctx, id)
}

// Upcoming lists a patient's active appointments from today onwards.
func (s *Service) Upcoming(ctx context.Context, patientID uuid.UUID, limit int) ([]*model.Appointment, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	return s.repo.ListUpcomingForPatient(ctx, patientID, time.Now().Format("2006-01-02"), limit)
}

// Update applies partial changes. A status change must follow the
// appointment lifecycle; a reschedule must land on a free slot.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	appointment, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil && *req.Status != appointment.Status {
		if !appointment.Status.CanTransitionTo(*req.Status) {
			return nil, apperrors.Validation(fmt.Sprintf(
				"cannot transition appointment from %s to %s", appointment.Status, *req.Status))
		}
		appointment.Status = *req.Status
	}

	reschedule := false
	if req.Date != nil && *req.Date != appointment.Date {
		if err := validator.Date(*req.Date); err != nil {
			return nil, apperrors.Validation(err.Error())
		}
		appointment.Date = *req.Date
		reschedule = true
	}
	if req.Time != nil && *req.Time != appointment.Time {
		if err := validator.Clock(*req.Time); err != nil {
			return nil, apperrors.Validation(err.Error())
		}
		appointment.Time = *req.Time
		reschedule = true
	}
	if req.Duration != nil {
		appointment.Duration = *req.Duration
	}
	if req.Type != nil {
		appointment.Type = *req.Type
	}
	if req.Notes != nil {
		appointment.Notes = *req.Notes
	}

	if reschedule && (appointment.Status == model.AppointmentStatusScheduled ||
		appointment.Status == model.AppointmentStatusConfirmed) {
		taken, err := s.repo.IsSlotTaken(ctx, appointment.DoctorID, appointment.Date, appointment.Time, &appointment.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			if s.metrics != nil {
				s.metrics.BookingConflicts.Inc()
			}
			return nil, apperrors.Conflict("time slot is already booked")
		}
	}

	appointment.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, appointment); err != nil {
		return nil, err
	}
	return appointment, nil
}

// Cancel moves the appointment to cancelled, freeing its slot.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	status := model.AppointmentStatusCancelled
	return s.Update(ctx, id, &model.UpdateAppointmentRequest{Status: &status})
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, filters *model.AppointmentFilters) ([]*model.Appointment, error) {
	filters.Normalize(50, 200)
	return s.repo.List(ctx, filters)
}

// AvailableSlots lists every half-hour slot in the doctor's working day,
// marking those held by an active appointment as unavailable.
func (s *Service) AvailableSlots(ctx context.Context, doctorID uuid.UUID, date string) ([]model.TimeSlot, error) {
	if err := validator.Date(date); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	if date < time.Now().Format("2006-01-02") {
		return nil, apperrors.Validation("cannot list slots for a past date")
	}
	if _, err := s.doctorRepo.Get(ctx, doctorID); err != nil {
		return nil, err
	}

	appointments, err := s.repo.ListForDoctorDay(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}
	taken := make(map[string]bool, len(appointments))
	for _, appointment := range appointments {
		if appointment.Status == model.AppointmentStatusScheduled ||
			appointment.Status == model.AppointmentStatusConfirmed {
			taken[appointment.Time] = true
		}
	}

	slots := []model.TimeSlot{}
	for hour := dayStartHour; hour < dayEndHour; hour++ {
		for minute := 0; minute < 60; minute += slotMinutes {
			clock := fmt.Sprintf("%02d:%02d", hour, minute)
			slots = append(slots, model.TimeSlot{
				Time:      clock,
				Available: !taken[clock],
			})
		}
	}
	return slots, nil
}

// IsSlotTaken reports whether a doctor already has an active appointment at
// the exact date and time.
func (s *Service) IsSlotTaken(ctx context.Context, doctorID uuid.UUID, date, clock string) (bool, error) {
	if err := validator.Date(date); err != nil {
		return false, apperrors.Validation(err.Error())
	}
	if err := validator.Clock(clock); err != nil {
		return false, apperrors.Validation(err.Error())
	}
	return s.repo.IsSlotTaken(ctx, doctorID, date, clock, nil)
}

// FindConflicts scans a doctor's active appointments in date/time order and
// flags adjacent pairs occupying the same slot. It only catches exact
// duplicates of the same date and time; overlapping durations are not
// considered.
func (s *Service) FindConflicts(ctx context.Context, doctorID uuid.UUID, dateFrom, dateTo string) ([]model.ScheduleConflict, error) {
	if _, err := s.doctorRepo.Get(ctx, doctorID); err != nil {
		return nil, err
	}

	appointments, err := s.repo.ListActiveBetween(ctx, doctorID, dateFrom, dateTo)
	if err != nil {
		return nil, err
	}

	conflicts := []model.ScheduleConflict{}
	for i := 1; i < len(appointments); i++ {
		prev, curr := appointments[i-1], appointments[i]
		if prev.Date == curr.Date && prev.Time == curr.Time {
			conflicts = append(conflicts, model.ScheduleConflict{
				Date: curr.Date,
				Time: curr.Time,
				Appointments: []model.ConflictingBooking{
					{ID: prev.ID, PatientID: prev.PatientID, Type: prev.Type},
					{ID: curr.ID, PatientID: curr.PatientID, Type: curr.Type},
				},
			})
		}
	}
	return conflicts, nil
}

// DailySchedule returns a doctor's day as an ordered list with patient
// names resolved.
func (s *Service) DailySchedule(ctx context.Context, doctorID uuid.UUID, date string) ([]model.ScheduleEntry, error) {
	if err := validator.Date(date); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	if _, err := s.doctorRepo.Get(ctx, doctorID); err != nil {
		return nil, err
	}

	appointments, err := s.repo.ListForDoctorDay(ctx, doctorID, date)
	if err != nil {
		return nil, err
	}

	entries := make([]model.ScheduleEntry, 0, len(appointments))
	for _, appointment := range appointments {
		name := "unknown"
		if patient, err := s.patientRepo.Get(ctx, appointment.PatientID); err == nil {
			name = fmt.Sprintf("%s %s", patient.FirstName, patient.LastName)
		}
		entries = append(entries, model.ScheduleEntry{
			AppointmentID: appointment.ID,
			Time:          appointment.Time,
			PatientID:     appointment.PatientID,
			PatientName:   name,
			Type:          appointment.Type,
			Status:        appointment.Status,
			Notes:         appointment.Notes,
		})
	}
	return entries, nil
}

// Statistics summarises one doctor's bookings over a date range.
func (s *Service) Statistics(ctx context.Context, doctorID uuid.UUID, dateFrom, dateTo string) (*model.AppointmentStatistics, error) {
	if _, err := s.doctorRepo.Get(ctx, doctorID); err != nil {
		return nil, err
	}

	counts, err := s.repo.StatusCountsForDoctor(ctx, doctorID, dateFrom, dateTo)
	if err != nil {
		return nil, err
	}

	total := 0
	for _, count := range counts {
		total += count
	}
	stats := &model.AppointmentStatistics{
		Total:    total,
		ByStatus: counts,
		DateFrom: dateFrom,
		DateTo:   dateTo,
	}
	if total > 0 {
		stats.CompletionRate = float64(counts[model.AppointmentStatusCompleted]) / float64(total) * 100
		stats.CancellationRate = float64(counts[model.AppointmentStatusCancelled]) / float64(total) * 100
	}
	return stats, nil
}
