package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/manideepyelugam/Fairlx-sub016/internal/http/dto"
	"github.com/manideepyelugam/Fairlx-sub016/internal/http/middleware"
	"github.com/manideepyelugam/Fairlx-sub016/internal/service"
)

type RoleHandler struct {
	roles service.RoleService
}

func NewRoleHandler(roles service.RoleService) *RoleHandler {
	return &RoleHandler{roles: roles}
}

func (h *RoleHandler) List(c *gin.Context) {
	workspaceID, err := parseIDParam(c, "workspaceID")
	if err != nil {
		bindError(c, err)
		return
	}

	roles, err := h.roles.List(c.Request.Context(), workspaceID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"roles": dto.ToRoleResponses(roles)})
}

func (h *RoleHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	workspaceID, err := parseIDParam(c, "workspaceID")
	if err != nil {
		bindError(c, err)
		return
	}

	var req dto.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	role, err := h.roles.CreateCustomRole(ctx, workspaceID, user.ID, req.Name, dto.ToPermissions(req.Permissions))
	if err != nil {
		respondError(c, err)
		return
	}

	slog.InfoContext(ctx, "custom role created",
		"role_id", role.ID,
		"workspace_id", workspaceID,
		"created_by", user.ID,
	)

	c.JSON(http.StatusCreated, dto.ToRoleResponse(role))
}

func (h *RoleHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()

	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	workspaceID, err := parseIDParam(c, "workspaceID")
	if err != nil {
		bindError(c, err)
		return
	}
	roleID, err := parseIDParam(c, "roleID")
	if err != nil {
		bindError(c, err)
		return
	}

	var req dto.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	patch := service.RolePatch{Name: req.Name}
	if req.Permissions != nil {
		perms := dto.ToPermissions(*req.Permissions)
		patch.Permissions = &perms
	}

	role, err := h.roles.UpdateCustomRole(ctx, workspaceID, roleID, user.ID, patch)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRoleResponse(role))
}

func (h *RoleHandler) SetDefault(c *gin.Context) {
	ctx := c.Request.Context()

	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	workspaceID, err := parseIDParam(c, "workspaceID")
	if err != nil {
		bindError(c, err)
		return
	}
	roleID, err := parseIDParam(c, "roleID")
	if err != nil {
		bindError(c, err)
		return
	}

	if err := h.roles.SetDefault(ctx, workspaceID, roleID, user.ID); err != nil {
		respondError(c, err)
		return
	}

	slog.InfoContext(ctx, "default role changed", "workspace_id", workspaceID, "role_id", roleID)

	c.JSON(http.StatusOK, gin.H{"message": "default role updated"})
}

func (h *RoleHandler) Delete(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	workspaceID, err := parseIDParam(c, "workspaceID")
	if err != nil {
		bindError(c, err)
		return
	}
	roleID, err := parseIDParam(c, "roleID")
	if err != nil {
		bindError(c, err)
		return
	}

	if err := h.roles.Delete(c.Request.Context(), workspaceID, roleID, user.ID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "role deleted"})
}
