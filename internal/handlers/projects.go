package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quick-video-scribe/internal/models"
	"quick-video-scribe/internal/services"
)

type ProjectsHandler struct {
	studio *services.Studio
}

func NewProjectsHandler(studio *services.Studio) *ProjectsHandler {
	return &ProjectsHandler{studio: studio}
}

// CreateProject godoc
// @Summary     Start a new project
// @Description Creates an empty project, makes it current and resumes the wizard on the topic step.
// @Tags        projects
// @Produce     json
// @Success     201 {object} models.ProjectResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /projects [post]
func (h *ProjectsHandler) CreateProject(c *gin.Context) {
	project, err := h.studio.NewProject(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.ProjectResponse{Project: project})
}

// ListProjects godoc
// @Summary     List projects
// @Description Returns every stored project, most recently edited first.
// @Tags        projects
// @Produce     json
// @Success     200 {object} models.ProjectListResponse
// @Router      /projects [get]
func (h *ProjectsHandler) ListProjects(c *gin.Context) {
	summaries, err := h.studio.ListProjects(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ProjectListResponse{Projects: summaries})
}

func (h *ProjectsHandler) GetCurrent(c *gin.Context) {
	project := h.studio.State().Project
	if project == nil {
		respondError(c, models.ErrNoCurrentProject)
		return
	}
	c.JSON(http.StatusOK, models.ProjectResponse{Project: project})
}

// UpdateCurrent godoc
// @Summary     Edit topic and description
// @Tags        projects
// @Accept      json
// @Produce     json
// @Param       request body models.UpdateProjectRequest true "Fields to change"
// @Success     200 {object} models.ProjectResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     409 {object} models.ErrorResponse
// @Router      /projects/current [patch]
func (h *ProjectsHandler) UpdateCurrent(c *gin.Context) {
	var req models.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	project, err := h.studio.SetTopic(c.Request.Context(), req.Topic, req.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ProjectResponse{Project: project})
}

func (h *ProjectsHandler) LoadProject(c *gin.Context) {
	project, err := h.studio.LoadProject(c.Request.Context(), c.Param("project_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ProjectResponse{Project: project})
}

// DeleteProject godoc
// @Summary     Delete a project
// @Description Deleting the current project leaves no project selected.
// @Tags        projects
// @Param       project_id path string true "Project ID (UUID)"
// @Success     204
// @Failure     404 {object} models.ErrorResponse
// @Router      /projects/{project_id} [delete]
func (h *ProjectsHandler) DeleteProject(c *gin.Context) {
	if err := h.studio.DeleteProject(c.Request.Context(), c.Param("project_id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
