package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/manideepyelugam/Fairlx-sub016/internal/http/dto"
	"github.com/manideepyelugam/Fairlx-sub016/internal/http/middleware"
	"github.com/manideepyelugam/Fairlx-sub016/internal/service"
)

type ProjectHandler struct {
	projects service.ProjectService
}

func NewProjectHandler(projects service.ProjectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

func (h *ProjectHandler) Create(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	project, err := h.projects.Create(c.Request.Context(), req.WorkspaceID, req.WorkflowID, user.ID, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToProjectResponse(project))
}

func (h *ProjectHandler) Get(c *gin.Context) {
	projectID, err := parseIDParam(c, "projectID")
	if err != nil {
		bindError(c, err)
		return
	}

	project, err := h.projects.Get(c.Request.Context(), projectID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProjectResponse(project))
}

func (h *ProjectHandler) List(c *gin.Context) {
	workspaceID, err := strconv.ParseInt(c.Query("workspace_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "workspace_id query parameter is required", "code": "bad_request"})
		return
	}

	projects, err := h.projects.List(c.Request.Context(), workspaceID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": dto.ToProjectResponses(projects)})
}

func (h *ProjectHandler) CreateSprint(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req dto.CreateSprintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	sprint, err := h.projects.CreateSprint(c.Request.Context(), req.WorkspaceID, user.ID, service.SprintInput{
		ProjectID: req.ProjectID,
		Name:      req.Name,
		StartsAt:  req.StartsAt,
		EndsAt:    req.EndsAt,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToSprintResponse(sprint))
}
