package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppointmentStatusTransitions(t *testing.T) {
	assert.True(t, AppointmentStatusScheduled.CanTransitionTo(AppointmentStatusConfirmed))
	assert.True(t, AppointmentStatusScheduled.CanTransitionTo(AppointmentStatusCancelled))
	assert.False(t, AppointmentStatusScheduled.CanTransitionTo(AppointmentStatusCompleted))

	assert.True(t, AppointmentStatusConfirmed.CanTransitionTo(AppointmentStatusCompleted))
	assert.True(t, AppointmentStatusConfirmed.CanTransitionTo(AppointmentStatusCancelled))
	assert.False(t, AppointmentStatusConfirmed.CanTransitionTo(AppointmentStatusScheduled))

	// Terminal states admit nothing.
	for _, next := range []AppointmentStatus{
		AppointmentStatusScheduled, AppointmentStatusConfirmed,
		AppointmentStatusCompleted, AppointmentStatusCancelled,
	} {
		assert.False(t, AppointmentStatusCompleted.CanTransitionTo(next))
		assert.False(t, AppointmentStatusCancelled.CanTransitionTo(next))
	}
}

func TestParseAppointmentStatus(t *testing.T) {
	status, err := ParseAppointmentStatus("confirmed")
	assert.NoError(t, err)
	assert.Equal(t, AppointmentStatusConfirmed, status)

	_, err = ParseAppointmentStatus("rescheduled")
	assert.Error(t, err)
}

func TestPaginationNormalize(t *testing.T) {
	p := Pagination{Offset: -5, Limit: 0}
	p.Normalize(50, 200)
	assert.Equal(t, 0, p.Offset)
	assert.Equal(t, 50, p.Limit)

	p = Pagination{Limit: 500}
	p.Normalize(50, 200)
	assert.Equal(t, 200, p.Limit)
}
