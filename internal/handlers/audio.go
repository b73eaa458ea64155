package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quick-video-scribe/internal/models"
	"quick-video-scribe/internal/services"
)

type AudioHandler struct {
	studio *services.Studio
}

func NewAudioHandler(studio *services.Studio) *AudioHandler {
	return &AudioHandler{studio: studio}
}

func (h *AudioHandler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.studio.AudioSettings())
}

// PutSettings godoc
// @Summary     Update narration settings
// @Description Voice, model, speed (0.7 to 1.2), stability and clarity (0 to 1).
// @Tags        audio
// @Accept      json
// @Produce     json
// @Param       request body models.AudioSettings true "Narration settings"
// @Success     200 {object} models.AudioSettings
// @Failure     400 {object} models.ErrorResponse
// @Router      /audio/settings [put]
func (h *AudioHandler) PutSettings(c *gin.Context) {
	var settings models.AudioSettings
	if err := c.ShouldBindJSON(&settings); err != nil {
		badRequest(c, err)
		return
	}

	saved, err := h.studio.SetAudioSettings(c.Request.Context(), settings)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

func (h *AudioHandler) Voices(c *gin.Context) {
	voices, err := h.studio.Voices(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.VoicesResponse{Voices: voices})
}

func (h *AudioHandler) Models(c *gin.Context) {
	list, err := h.studio.Models()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ModelsResponse{Models: list})
}

// Generate godoc
// @Summary     Generate narration
// @Description Narrates the current script, uploads the MP3 and stores its URL and duration on the project.
// @Tags        audio
// @Produce     json
// @Success     200 {object} models.AudioResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     409 {object} models.ErrorResponse
// @Failure     502 {object} models.ErrorResponse
// @Router      /audio/generate [post]
func (h *AudioHandler) Generate(c *gin.Context) {
	audio, err := h.studio.GenerateAudio(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.AudioResponse{Audio: audio})
}
