package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quick-video-scribe/internal/middleware"
	"quick-video-scribe/internal/models"
	"quick-video-scribe/internal/services"
)

type SessionHandler struct {
	studio *services.Studio
}

func NewSessionHandler(studio *services.Studio) *SessionHandler {
	return &SessionHandler{studio: studio}
}

// Login godoc
// @Summary     Sign in
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body models.Credentials true "Email and password"
// @Success     200 {object} models.SessionResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     502 {object} models.ErrorResponse
// @Router      /auth/login [post]
func (h *SessionHandler) Login(c *gin.Context) {
	var creds models.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.studio.Login(c.Request.Context(), creds)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SessionResponse{User: user.Public(), Token: user.AccessToken})
}

func (h *SessionHandler) Register(c *gin.Context) {
	var reg models.Registration
	if err := c.ShouldBindJSON(&reg); err != nil {
		badRequest(c, err)
		return
	}

	user, err := h.studio.Register(c.Request.Context(), reg)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.SessionResponse{User: user.Public(), Token: user.AccessToken})
}

// Me returns the signed-in user the bearer token belongs to.
func (h *SessionHandler) Me(c *gin.Context) {
	userID, exists := c.Get(middleware.UserIDKey)
	if !exists {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "user id not found"})
		return
	}

	user := h.studio.User()
	if user == nil || user.ID != userID.(string) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "not found", Message: "no session for this token"})
		return
	}
	c.JSON(http.StatusOK, models.SessionResponse{User: user.Public()})
}

// Logout always clears the session. A provider failure is still reported.
func (h *SessionHandler) Logout(c *gin.Context) {
	if err := h.studio.Logout(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
