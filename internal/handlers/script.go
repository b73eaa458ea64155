package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quick-video-scribe/internal/models"
	"quick-video-scribe/internal/services"
)

type ScriptHandler struct {
	studio *services.Studio
}

func NewScriptHandler(studio *services.Studio) *ScriptHandler {
	return &ScriptHandler{studio: studio}
}

// Generate godoc
// @Summary     Generate a script
// @Description Drafts a script for the current topic with the configured language model and stores it on the project.
// @Tags        script
// @Accept      json
// @Produce     json
// @Param       request body models.GenerateScriptRequest false "Length and tone"
// @Success     200 {object} models.ScriptResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     409 {object} models.ErrorResponse
// @Failure     502 {object} models.ErrorResponse
// @Router      /script/generate [post]
func (h *ScriptHandler) Generate(c *gin.Context) {
	var req models.GenerateScriptRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}

	script, err := h.studio.GenerateScript(c.Request.Context(), req.Length, req.Tone)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ScriptResponse{Script: script})
}

func (h *ScriptHandler) Update(c *gin.Context) {
	var edit models.ScriptEdit
	if err := c.ShouldBindJSON(&edit); err != nil {
		badRequest(c, err)
		return
	}

	script, err := h.studio.UpdateScript(c.Request.Context(), edit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ScriptResponse{Script: script})
}

// Analyze returns suggestions for the current script without changing it.
func (h *ScriptHandler) Analyze(c *gin.Context) {
	feedback, err := h.studio.AnalyzeScript(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, feedback)
}
