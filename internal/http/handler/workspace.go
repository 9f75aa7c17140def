package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/manideepyelugam/Fairlx-sub016/internal/http/dto"
	"github.com/manideepyelugam/Fairlx-sub016/internal/http/middleware"
	"github.com/manideepyelugam/Fairlx-sub016/internal/model"
	"github.com/manideepyelugam/Fairlx-sub016/internal/service"
)

type WorkspaceHandler struct {
	workspaces service.WorkspaceService
}

func NewWorkspaceHandler(workspaces service.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{workspaces: workspaces}
}

// Create bootstraps a workspace: built-in roles, the owner membership and a
// default workflow come with it.
func (h *WorkspaceHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	var req dto.CreateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	ws, err := h.workspaces.Create(ctx, req.Name, model.AccountType(req.AccountType), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	slog.InfoContext(ctx, "workspace created",
		"workspace_id", ws.ID,
		"account_type", ws.AccountType,
		"owner_user_id", user.ID,
	)

	c.JSON(http.StatusCreated, dto.ToWorkspaceResponse(ws))
}

func (h *WorkspaceHandler) Get(c *gin.Context) {
	workspaceID, err := parseIDParam(c, "workspaceID")
	if err != nil {
		bindError(c, err)
		return
	}

	ws, err := h.workspaces.Get(c.Request.Context(), workspaceID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToWorkspaceResponse(ws))
}
