package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"store-api/internal/service"
	"store-api/internal/storage"
)

const (
	msgInvalidCredentials = "invalid credentials"
	msgNotFound           = "resource not found"
	msgInternal           = "internal server error"
)

// statusFor maps a service error onto a status and client safe message.
// With strict disabled, missing users and duplicate emails surface as 500
// the way the legacy API reported them.
func statusFor(err error, strict bool) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, msgInvalidCredentials
	case errors.Is(err, service.ErrPasswordMismatch):
		return http.StatusUnauthorized, "password mismatch"
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrInvalidCategory):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrProductNotFound),
		errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrNoImage):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrUserNotFound):
		if strict {
			return http.StatusNotFound, err.Error()
		}
		return http.StatusInternalServerError, msgNotFound
	case errors.Is(err, service.ErrDuplicateCredential):
		if strict {
			return http.StatusConflict, err.Error()
		}
		return http.StatusInternalServerError, msgInternal
	case errors.Is(err, storage.ErrNotConfigured):
		return http.StatusServiceUnavailable, err.Error()
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

func (h *Handler) respondError(c *gin.Context, err error) {
	status, msg := statusFor(err, h.strictStatus)
	if status >= http.StatusInternalServerError {
		h.logger.WithField("request_id", c.GetString(requestIDKey)).
			WithError(err).
			Errorf("%s %s failed", c.Request.Method, c.Request.URL.Path)
	}
	c.JSON(status, gin.H{"error": msg})
}
