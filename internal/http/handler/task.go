package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/manideepyelugam/Fairlx-sub016/internal/http/dto"
	"github.com/manideepyelugam/Fairlx-sub016/internal/http/middleware"
	"github.com/manideepyelugam/Fairlx-sub016/internal/service"
)

type TaskHandler struct {
	tasks service.TaskService
}

func NewTaskHandler(tasks service.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

func (h *TaskHandler) Create(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	item, err := h.tasks.Create(c.Request.Context(), user.ID, service.TaskInput{
		WorkspaceID: req.WorkspaceID,
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
		AssigneeID:  req.AssigneeID,
		SprintID:    req.SprintID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskResponse(item))
}

func (h *TaskHandler) Get(c *gin.Context) {
	taskID, err := parseIDParam(c, "taskID")
	if err != nil {
		bindError(c, err)
		return
	}

	item, err := h.tasks.Get(c.Request.Context(), taskID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskResponse(item))
}

// Transition moves a work item to the target status on behalf of the
// authenticated user. Rejections carry a machine-readable code; a stale
// version is a conflict the client resolves by re-fetching.
func (h *TaskHandler) Transition(c *gin.Context) {
	ctx := c.Request.Context()

	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	taskID, err := parseIDParam(c, "taskID")
	if err != nil {
		bindError(c, err)
		return
	}

	var req dto.TransitionTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	item, err := h.tasks.Transition(ctx, taskID, req.TargetStatusID, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskResponse(item))
}

func (h *TaskHandler) AddSubtask(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	taskID, err := parseIDParam(c, "taskID")
	if err != nil {
		bindError(c, err)
		return
	}

	var req dto.CreateSubtaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	subtask, err := h.tasks.AddSubtask(c.Request.Context(), taskID, user.ID, req.Title)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToSubtaskResponse(subtask))
}

func (h *TaskHandler) SetSubtaskDone(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	subtaskID, err := parseIDParam(c, "subtaskID")
	if err != nil {
		bindError(c, err)
		return
	}

	var req dto.SetSubtaskDoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	if err := h.tasks.SetSubtaskDone(c.Request.Context(), subtaskID, user.ID, req.Done); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "subtask updated"})
}

func (h *TaskHandler) Approve(c *gin.Context) {
	ctx := c.Request.Context()

	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	taskID, err := parseIDParam(c, "taskID")
	if err != nil {
		bindError(c, err)
		return
	}

	approval, err := h.tasks.Approve(ctx, taskID, user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	slog.InfoContext(ctx, "work item approved",
		"work_item_id", taskID,
		"user_id", user.ID,
		"role_id", approval.RoleID,
	)

	c.JSON(http.StatusCreated, dto.ToApprovalResponse(approval))
}
