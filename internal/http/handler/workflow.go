package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/manideepyelugam/Fairlx-sub016/internal/http/dto"
	"github.com/manideepyelugam/Fairlx-sub016/internal/http/middleware"
	"github.com/manideepyelugam/Fairlx-sub016/internal/model"
	"github.com/manideepyelugam/Fairlx-sub016/internal/service"
)

// WorkflowHandler edits workflow definitions. Mutations return the saved
// entity together with the definition's structural warnings so clients can
// surface unreachable or dead-end statuses immediately.
type WorkflowHandler struct {
	workflows service.WorkflowService
}

func NewWorkflowHandler(workflows service.WorkflowService) *WorkflowHandler {
	return &WorkflowHandler{workflows: workflows}
}

func (h *WorkflowHandler) Get(c *gin.Context) {
	workflowID, err := parseIDParam(c, "workflowID")
	if err != nil {
		bindError(c, err)
		return
	}

	def, warnings, err := h.workflows.Get(c.Request.Context(), workflowID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"workflow": dto.ToWorkflowResponse(def),
		"warnings": dto.ToDefinitionWarnings(warnings),
	})
}

func (h *WorkflowHandler) CreateStatus(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	workflowID, err := parseIDParam(c, "workflowID")
	if err != nil {
		bindError(c, err)
		return
	}

	var req dto.CreateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	status, warnings, err := h.workflows.CreateStatus(
		c.Request.Context(), workflowID, user.ID, req.Name, model.StatusCategory(req.Category), req.Position)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":   dto.ToStatusResponse(status),
		"warnings": dto.ToDefinitionWarnings(warnings),
	})
}

func (h *WorkflowHandler) UpdateStatus(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	workflowID, err := parseIDParam(c, "workflowID")
	if err != nil {
		bindError(c, err)
		return
	}
	statusID, err := parseIDParam(c, "statusID")
	if err != nil {
		bindError(c, err)
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	status, warnings, err := h.workflows.UpdateStatus(c.Request.Context(), workflowID, statusID, user.ID, req.ToPatch())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   dto.ToStatusResponse(status),
		"warnings": dto.ToDefinitionWarnings(warnings),
	})
}

func (h *WorkflowHandler) CreateTransition(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	workflowID, err := parseIDParam(c, "workflowID")
	if err != nil {
		bindError(c, err)
		return
	}

	var req dto.CreateTransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	transition, warnings, err := h.workflows.CreateTransition(c.Request.Context(), workflowID, user.ID, model.Transition{
		FromStatusID:       req.FromStatusID,
		ToStatusID:         req.ToStatusID,
		RequiredPermission: model.Permission(req.RequiredPermission),
		Guard:              req.Guard.ToModel(),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"transition": dto.ToTransitionResponse(transition),
		"warnings":   dto.ToDefinitionWarnings(warnings),
	})
}

func (h *WorkflowHandler) UpdateTransition(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	workflowID, err := parseIDParam(c, "workflowID")
	if err != nil {
		bindError(c, err)
		return
	}
	transitionID, err := parseIDParam(c, "transitionID")
	if err != nil {
		bindError(c, err)
		return
	}

	var req dto.UpdateTransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	transition, warnings, err := h.workflows.UpdateTransition(c.Request.Context(), workflowID, transitionID, user.ID, req.ToPatch())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"transition": dto.ToTransitionResponse(transition),
		"warnings":   dto.ToDefinitionWarnings(warnings),
	})
}

func (h *WorkflowHandler) Delete(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	workflowID, err := parseIDParam(c, "workflowID")
	if err != nil {
		bindError(c, err)
		return
	}

	if err := h.workflows.Delete(c.Request.Context(), workflowID, user.ID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "workflow deleted"})
}
