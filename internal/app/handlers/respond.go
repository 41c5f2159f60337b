// Package handlers holds response helpers shared by the HTTP handlers.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-tripweaver/internal/app/models"
)

// StatusFor maps domain errors to HTTP status codes.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, models.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrBadRequest), errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrGeneration):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes the JSON error body for a domain error. Internal errors
// get a generic message so storage details never reach clients.
func RespondError(c *gin.Context, logger *zap.Logger, err error) {
	status := StatusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		if logger != nil {
			logger.Error("Request failed", zap.Error(err), zap.String("path", c.Request.URL.Path))
		}
		message = "internal server error"
	}
	c.JSON(status, gin.H{"error": message})
}
