package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medtrack/medrecord-api/pkg/errors"
)

// Response wraps all API responses
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *Error      `json:"error,omitempty"`
}

// Error represents an API error body
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondWithSuccess sends a 200 success response
func RespondWithSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// RespondWithCreated sends a 201 success response
func RespondWithCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    data,
	})
}

// RespondWithError maps an error to its HTTP status and sends it
func RespondWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := string(errors.CodeInternal)
	message := "internal server error"

	if appErr, ok := errors.As(err); ok {
		status = appErr.StatusCode()
		code = string(appErr.Code)
		message = appErr.Message
	}

	_ = c.Error(err)
	c.JSON(status, Response{
		Success: false,
		Error: &Error{
			Code:    code,
			Message: message,
		},
	})
}

// RespondWithValidationError sends a 400 with the binding failure detail
func RespondWithValidationError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusBadRequest, Response{
		Success: false,
		Error: &Error{
			Code:    string(errors.CodeValidation),
			Message: err.Error(),
		},
	})
}
