package appointment

import (
	"context"
	"sort"
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

// fakeAppointmentRepo is an in-memory stand-in implementing the slice of the
// repository the service exercises.
type fakeAppointmentRepo struct {
	repository.AppointmentRepository
	appointments map[uuid.UUID]*model.Appointment
}

func newFakeAppointmentRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{appointments: make(map[uuid.UUID]*model.Appointment)}
}

func (f *fakeAppointmentRepo) slotTaken(doctorID uuid.UUID, date, clock string, excludeID *uuid.UUID) bool {
	for _, a := range f.appointments {
		if excludeID != nil && a.ID == *excludeID {
			continue
		}
		if a.DoctorID == doctorID && a.Date == date && a.Time == clock &&
			(a.Status == model.AppointmentStatusScheduled || a.Status == model.AppointmentStatusConfirmed) {
			return true
		}
	}
	return false
}

func (f *fakeAppointmentRepo) CreateIfSlotFree(_ context.Context, a *model.Appointment) error {
	if f.slotTaken(a.DoctorID, a.Date, a.Time, nil) {
		return apperrors.Conflict("time slot is already booked")
	}
	clone := *a
	f.appointments[a.ID] = &clone
	return nil
}

func (f *fakeAppointmentRepo) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	a, ok := f.appointments[id]
	if !ok {
		return nil, apperrors.NotFound("appointment")
	}
	clone := *a
	return &clone, nil
}

func (f *fakeAppointmentRepo) Update(_ context.Context, a *model.Appointment) error {
	if _, ok := f.appointments[a.ID]; !ok {
		return apperrors.NotFound("appointment")
	}
	clone := *a
	f.appointments[a.ID] = &clone
	return nil
}

func (f *fakeAppointmentRepo) IsSlotTaken(_ context.Context, doctorID uuid.UUID, date, clock string, excludeID *uuid.UUID) (bool, error) {
	return f.slotTaken(doctorID, date, clock, excludeID), nil
}

func (f *fakeAppointmentRepo) ListForDoctorDay(_ context.Context, doctorID uuid.UUID, date string) ([]*model.Appointment, error) {
	out := []*model.Appointment{}
	for _, a := range f.appointments {
		if a.DoctorID == doctorID && a.Date == date {
			clone := *a
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out, nil
}

func (f *fakeAppointmentRepo) ListActiveBetween(_ context.Context, doctorID uuid.UUID, dateFrom, dateTo string) ([]*model.Appointment, error) {
	out := []*model.Appointment{}
	for _, a := range f.appointments {
		if a.DoctorID != doctorID || a.Date < dateFrom || a.Date > dateTo {
			continue
		}
		if a.Status != model.AppointmentStatusScheduled && a.Status != model.AppointmentStatusConfirmed {
			continue
		}
		clone := *a
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Time < out[j].Time
	})
	return out, nil
}

type fakePatientRepo struct {
	repository.PatientRepository
}

func (f *fakePatientRepo) Get(_ context.Context, id uuid.UUID) (*model.Patient, error) {
	return &model.Patient{
		Base:      model.Base{ID: id},
		FirstName: "Jane",
		LastName:  "Doe",
	}, nil
}

type fakeDoctorRepo struct {
	repository.DoctorRepository
}

func (f *fakeDoctorRepo) Get(_ context.Context, id uuid.UUID) (*model.Doctor, error) {
	return &model.Doctor{Base: model.Base{ID: id}}, nil
}

func newTestService(repo *fakeAppointmentRepo) *Service {
	return NewService(repo, &fakePatientRepo{}, &fakeDoctorRepo{}, nil, logger.New(nil))
}

func futureDate(days int) string {
	return time.Now().AddDate(0, 0, days).Format("2006-01-02")
}

func book(t *testing.T, s *Service, doctorID uuid.UUID, date, clock string) *model.Appointment {
	t.Helper()
	booked, err := s.Book(context.Background(), &model.CreateAppointmentRequest{
		PatientID: uuid.New(),
		DoctorID:  doctorID,
		Date:      date,
		Time:      clock,
		Type:      model.AppointmentTypeConsultation,
	})
	require.NoError(t, err)
	return booked
}

func TestAvailableSlotsEmptyDay(t *testing.T) {
	s := newTestService(newFakeAppointmentRepo())

	slots, err := s.AvailableSlots(context.Background(), uuid.New(), futureDate(3))
	require.NoError(t, err)
	assert.Len(t, slots, 16)
	assert.Equal(t, "09:00", slots[0].Time)
	assert.Equal(t, "16:30", slots[len(slots)-1].Time)
	for _, slot := range slots {
		assert.True(t, slot.Available)
	}
}

func TestAvailableSlotsRejectsPastDate(t *testing.T) {
	s := newTestService(newFakeAppointmentRepo())

	_, err := s.AvailableSlots(context.Background(), uuid.New(), futureDate(-2))
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeValidation, appErr.Code)
}

func TestAvailableSlotsAfterBooking(t *testing.T) {
	repo := newFakeAppointmentRepo()
	s := newTestService(repo)
	doctorID := uuid.New()

	book(t, s, doctorID, futureDate(3), "10:00")

	slots, err := s.AvailableSlots(context.Background(), doctorID, futureDate(3))
	require.NoError(t, err)
	for _, slot := range slots {
		if slot.Time == "10:00" {
			assert.False(t, slot.Available)
		} else {
			assert.True(t, slot.Available)
		}
	}

	// A different doctor or a different date is unaffected.
	otherDoctor, err := s.AvailableSlots(context.Background(), uuid.New(), futureDate(3))
	require.NoError(t, err)
	otherDate, err := s.AvailableSlots(context.Background(), doctorID, futureDate(4))
	require.NoError(t, err)
	for _, slot := range append(otherDoctor, otherDate...) {
		assert.True(t, slot.Available)
	}
}

func TestBookRejectsTakenSlot(t *testing.T) {
	repo := newFakeAppointmentRepo()
	s := newTestService(repo)
	doctorID := uuid.New()

	book(t, s, doctorID, futureDate(3), "10:00")

	_, err := s.Book(context.Background(), &model.CreateAppointmentRequest{
		PatientID: uuid.New(),
		DoctorID:  doctorID,
		Date:      futureDate(3),
		Time:      "10:00",
		Type:      model.AppointmentTypeCheckup,
	})
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeConflict, appErr.Code)
}

func TestBookValidatesDateAndTime(t *testing.T) {
	s := newTestService(newFakeAppointmentRepo())

	_, err := s.Book(context.Background(), &model.CreateAppointmentRequest{
		PatientID: uuid.New(),
		DoctorID:  uuid.New(),
		Date:      "01-09-2026",
		Time:      "10:00",
		Type:      model.AppointmentTypeConsultation,
	})
	require.Error(t, err)

	_, err = s.Book(context.Background(), &model.CreateAppointmentRequest{
		PatientID: uuid.New(),
		DoctorID:  uuid.New(),
		Date:      futureDate(3),
		Time:      "25:00",
		Type:      model.AppointmentTypeConsultation,
	})
	require.Error(t, err)
}

func TestBookRejectsPastDate(t *testing.T) {
	s := newTestService(newFakeAppointmentRepo())

	_, err := s.Book(context.Background(), &model.CreateAppointmentRequest{
		PatientID: uuid.New(),
		DoctorID:  uuid.New(),
		Date:      futureDate(-1),
		Time:      "10:00",
		Type:      model.AppointmentTypeConsultation,
	})
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeConflict, appErr.Code)
}

func TestCancelFreesSlot(t *testing.T) {
	repo := newFakeAppointmentRepo()
	s := newTestService(repo)
	doctorID := uuid.New()

	booked := book(t, s, doctorID, futureDate(3), "11:30")

	cancelled, err := s.Cancel(context.Background(), booked.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, cancelled.Status)

	taken, err := s.IsSlotTaken(context.Background(), doctorID, futureDate(3), "11:30")
	require.NoError(t, err)
	assert.False(t, taken)

	// The freed slot can be booked again.
	book(t, s, doctorID, futureDate(3), "11:30")
}

func TestUpdateRejectsInvalidTransition(t *testing.T) {
	repo := newFakeAppointmentRepo()
	s := newTestService(repo)

	booked := book(t, s, uuid.New(), futureDate(3), "09:00")

	completed := model.AppointmentStatusCompleted
	_, err := s.Update(context.Background(), booked.ID, &model.UpdateAppointmentRequest{Status: &completed})
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeValidation, appErr.Code)

	// scheduled -> confirmed -> completed is the allowed path.
	confirmed := model.AppointmentStatusConfirmed
	_, err = s.Update(context.Background(), booked.ID, &model.UpdateAppointmentRequest{Status: &confirmed})
	require.NoError(t, err)
	_, err = s.Update(context.Background(), booked.ID, &model.UpdateAppointmentRequest{Status: &completed})
	require.NoError(t, err)
}

func TestRescheduleChecksTargetSlot(t *testing.T) {
	repo := newFakeAppointmentRepo()
	s := newTestService(repo)
	doctorID := uuid.New()

	book(t, s, doctorID, futureDate(3), "10:00")
	second := book(t, s, doctorID, futureDate(3), "10:30")

	target := "10:00"
	_, err := s.Update(context.Background(), second.ID, &model.UpdateAppointmentRequest{Time: &target})
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeConflict, appErr.Code)
}

func TestFindConflictsDetectsExactDuplicates(t *testing.T) {
	repo := newFakeAppointmentRepo()
	s := newTestService(repo)
	doctorID := uuid.New()

	// Seed duplicates directly; booking would refuse them.
	for i := 0; i < 2; i++ {
		a := &model.Appointment{
			Base:      model.Base{ID: uuid.New(), CreatedAt: time.Now(), UpdatedAt: time.Now()},
			PatientID: uuid.New(),
			DoctorID:  doctorID,
			Date:      futureDate(3),
			Time:      "14:00",
			Type:      model.AppointmentTypeConsultation,
			Status:    model.AppointmentStatusScheduled,
		}
		repo.appointments[a.ID] = a
	}

	conflicts, err := s.FindConflicts(context.Background(), doctorID, futureDate(3), futureDate(30))
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, "14:00", conflicts[0].Time)
	assert.Len(t, conflicts[0].Appointments, 2)
}

func TestFindConflictsIgnoresOverlappingDurations(t *testing.T) {
	repo := newFakeAppointmentRepo()
	s := newTestService(repo)
	doctorID := uuid.New()

	// 14:00 for 60 minutes overlaps 14:30, but only exact slot duplicates
	// are reported.
	first := &model.Appointment{
		Base: model.Base{ID: uuid.New()}, PatientID: uuid.New(), DoctorID: doctorID,
		Date: futureDate(3), Time: "14:00", Duration: 60,
		Type: model.AppointmentTypeConsultation, Status: model.AppointmentStatusScheduled,
	}
	second := &model.Appointment{
		Base: model.Base{ID: uuid.New()}, PatientID: uuid.New(), DoctorID: doctorID,
		Date: futureDate(3), Time: "14:30", Duration: 30,
		Type: model.AppointmentTypeConsultation, Status: model.AppointmentStatusScheduled,
	}
	repo.appointments[first.ID] = first
	repo.appointments[second.ID] = second

	conflicts, err := s.FindConflicts(context.Background(), doctorID, futureDate(3), futureDate(30))
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}
