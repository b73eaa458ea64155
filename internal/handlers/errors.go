package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"quick-video-scribe/internal/models"
	"quick-video-scribe/internal/services"
	"quick-video-scribe/internal/wizard"
)

// errorStatus maps a core error onto an HTTP status and a short label.
func errorStatus(err error) (int, string) {
	var validation *models.ValidationError
	var external *models.ExternalServiceError

	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, "invalid request"
	case errors.Is(err, wizard.ErrUnknownStep):
		return http.StatusBadRequest, "unknown step"
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, wizard.ErrNotReachable):
		return http.StatusConflict, "step not reachable"
	case errors.Is(err, wizard.ErrNoNextStep):
		return http.StatusConflict, "no next step"
	case errors.Is(err, models.ErrNoCurrentProject):
		return http.StatusConflict, "no current project"
	case errors.Is(err, models.ErrStaleResult):
		return http.StatusConflict, "stale result"
	case services.IsCanceled(err):
		return http.StatusRequestTimeout, "request cancelled"
	case errors.As(err, &external):
		return http.StatusBadGateway, "external service failed"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func respondError(c *gin.Context, err error) {
	status, label := errorStatus(err)
	c.JSON(status, models.ErrorResponse{Error: label, Message: err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error:   "invalid request body",
		Message: err.Error(),
	})
}
