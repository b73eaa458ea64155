package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quick-video-scribe/internal/models"
)

// StorageStatus reports whether durable storage is healthy.
type StorageStatus interface {
	Status() string
}

type HealthHandler struct {
	storage StorageStatus
}

func NewHealthHandler(storage StorageStatus) *HealthHandler {
	return &HealthHandler{storage: storage}
}

// Health godoc
// @Summary     Health check
// @Description Returns the health status of the API and of durable storage. A degraded storage still answers 200.
// @Tags        health
// @Produce     json
// @Success     200 {object} models.HealthResponse
// @Router      /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	response := models.HealthResponse{
		Status:  "ok",
		Storage: "ok",
	}
	if h.storage != nil {
		response.Storage = h.storage.Status()
	}
	c.JSON(http.StatusOK, response)
}
