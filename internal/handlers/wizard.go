package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quick-video-scribe/internal/models"
	"quick-video-scribe/internal/services"
	"quick-video-scribe/internal/wizard"
)

type WizardHandler struct {
	studio *services.Studio
}

func NewWizardHandler(studio *services.Studio) *WizardHandler {
	return &WizardHandler{studio: studio}
}

func (h *WizardHandler) state(c *gin.Context, status int) {
	c.JSON(status, h.studio.State().Response())
}

// GetState godoc
// @Summary     Wizard state
// @Description Current project, step, completion flags and reachable steps.
// @Tags        wizard
// @Produce     json
// @Success     200 {object} models.WizardStateResponse
// @Router      /wizard [get]
func (h *WizardHandler) GetState(c *gin.Context) {
	h.state(c, http.StatusOK)
}

// GoTo godoc
// @Summary     Select a step
// @Tags        wizard
// @Accept      json
// @Produce     json
// @Param       request body models.GoToRequest true "Target step"
// @Success     200 {object} models.WizardStateResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     409 {object} models.ErrorResponse
// @Router      /wizard/goto [post]
func (h *WizardHandler) GoTo(c *gin.Context) {
	var req models.GoToRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	step, err := wizard.ParseStep(req.Step)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.studio.GoTo(step); err != nil {
		respondError(c, err)
		return
	}
	h.state(c, http.StatusOK)
}

func (h *WizardHandler) Advance(c *gin.Context) {
	if _, err := h.studio.Advance(); err != nil {
		respondError(c, err)
		return
	}
	h.state(c, http.StatusOK)
}

func (h *WizardHandler) Exit(c *gin.Context) {
	h.studio.Exit()
	h.state(c, http.StatusOK)
}

// Reset godoc
// @Summary     Start over
// @Description Creates a fresh project, clears progress and lands on the topic step.
// @Tags        wizard
// @Produce     json
// @Success     200 {object} models.WizardStateResponse
// @Router      /wizard/reset [post]
func (h *WizardHandler) Reset(c *gin.Context) {
	if _, err := h.studio.ResetToStart(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	h.state(c, http.StatusOK)
}

// CompleteStep marks a placeholder stage done. The body is optional.
func (h *WizardHandler) CompleteStep(c *gin.Context) {
	step, err := wizard.ParseStep(c.Param("step"))
	if err != nil {
		respondError(c, err)
		return
	}

	var req models.CompleteStepRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err)
			return
		}
	}
	completed := true
	if req.Completed != nil {
		completed = *req.Completed
	}

	if err := h.studio.CompleteStep(step, completed); err != nil {
		respondError(c, err)
		return
	}
	h.state(c, http.StatusOK)
}
