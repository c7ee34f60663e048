package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDate(t *testing.T) {
	assert.NoError(t, Date("2026-09-01"))
	assert.NoError(t, Date("2024-02-29"))

	assert.Error(t, Date("01-09-2026"))
	assert.Error(t, Date("2026-13-01"))
	assert.Error(t, Date("2026-02-30"))
	assert.Error(t, Date("2026-9-1"))
	assert.Error(t, Date(""))
}

func TestClock(t *testing.T) {
	assert.NoError(t, Clock("09:00"))
	assert.NoError(t, Clock("23:59"))
	assert.NoError(t, Clock("00:00"))

	assert.Error(t, Clock("24:00"))
	assert.Error(t, Clock("9:00"))
	assert.Error(t, Clock("09:60"))
	assert.Error(t, Clock("09:00:00"))
	assert.Error(t, Clock(""))
}

func TestStructUsesBindingTags(t *testing.T) {
	type request struct {
		Name string `binding:"required"`
		Kind string `binding:"omitempty,oneof=patient doctor"`
	}

	assert.NoError(t, Struct(&request{Name: "x", Kind: "patient"}))
	assert.Error(t, Struct(&request{Kind: "patient"}))
	assert.Error(t, Struct(&request{Name: "x", Kind: "robot"}))
}
