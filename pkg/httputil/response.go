package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medibook/booking-api/pkg/errors"
)

// Response wraps all API responses
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *Error      `json:"error,omitempty"`
}

// Error represents API error
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// RespondWithSuccess sends a success response
func RespondWithSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// RespondWithCreated sends a 201 response
func RespondWithCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    data,
	})
}

// RespondWithError sends an error response with a status derived from the
// domain error code.
func RespondWithError(c *gin.Context, err error) {
	status := StatusOf(err)

	message := "internal server error"
	if appErr, ok := err.(*errors.AppError); ok {
		message = appErr.Message
	}

	c.JSON(status, Response{
		Success: false,
		Error: &Error{
			Code:    status,
			Message: message,
		},
	})
}

// StatusOf maps domain error codes to HTTP statuses.
func StatusOf(err error) int {
	switch errors.CodeOf(err) {
	case errors.ErrDuplicateEmail, errors.ErrSlotUnavailable, errors.ErrConflict:
		return http.StatusConflict
	case errors.ErrInvalidCredentials, errors.ErrUnauthorized:
		return http.StatusUnauthorized
	case errors.ErrInvalidSlot, errors.ErrBadRequest:
		return http.StatusBadRequest
	case errors.ErrAppointmentNotFound, errors.ErrNotFound:
		return http.StatusNotFound
	case errors.ErrMissingCredential, errors.ErrUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
