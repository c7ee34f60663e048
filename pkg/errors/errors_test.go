package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCodes(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, NotFound("patient").StatusCode())
	assert.Equal(t, http.StatusConflict, Conflict("taken").StatusCode())
	assert.Equal(t, http.StatusBadRequest, Validation("bad input").StatusCode())
	assert.Equal(t, http.StatusInternalServerError, Internal(fmt.Errorf("boom")).StatusCode())
}

func TestAsUnwrapsWrappedErrors(t *testing.T) {
	err := fmt.Errorf("outer: %w", NotFound("doctor"))
	appErr, ok := As(err)
	assert.True(t, ok)
	assert.Equal(t, CodeNotFound, appErr.Code)
	assert.True(t, IsNotFound(err))

	_, ok = As(fmt.Errorf("plain"))
	assert.False(t, ok)
	assert.False(t, IsNotFound(fmt.Errorf("plain")))
}
