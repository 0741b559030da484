package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"slack-service/internal/models"
	"slack-service/internal/service"
)

// statusOf maps domain sentinel errors to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrUnauthenticated),
		errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrNotAMember),
		errors.Is(err, service.ErrInsufficientRole),
		errors.Is(err, service.ErrNotAuthor),
		errors.Is(err, service.ErrInvalidJoinCode),
		errors.Is(err, service.ErrAdminCannotLeave):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound),
		errors.Is(err, service.ErrParentNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrUserAlreadyExists),
		errors.Is(err, service.ErrAlreadyMember):
		return http.StatusConflict
	case errors.Is(err, service.ErrInvalidTarget):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Error writes a JSON error body with the status derived from err. Unknown
// errors become opaque 500s so internals never leak to clients.
func Error(c *gin.Context, err error) {
	status := statusOf(err)

	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "An unexpected error occurred"
	}

	c.JSON(status, models.ErrorResponse{
		Code:    status,
		Message: message,
	})
}

// BadRequest writes a 400 for malformed input before the service layer runs.
func BadRequest(c *gin.Context, details string) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: "Invalid input data",
		Details: details,
	})
}
