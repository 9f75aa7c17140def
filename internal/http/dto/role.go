package dto

import (
	"time"

	"github.com/manideepyelugam/Fairlx-sub016/internal/model"
)

type CreateRoleRequest struct {
	Name        string   `json:"name" binding:"required,min=1,max=255"`
	Permissions []string `json:"permissions" binding:"required,min=1"`
}

type UpdateRoleRequest struct {
	Name        *string   `json:"name,omitempty" binding:"omitempty,min=1,max=255"`
	Permissions *[]string `json:"permissions,omitempty" binding:"omitempty,min=1"`
}

type RoleResponse struct {
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `json:"name"`
	Permissions []string  `json:"permissions"`
	ID          int64     `json:"id,string"`
	WorkspaceID int64     `json:"workspace_id,string"`
	IsBuiltin   bool      `json:"is_builtin"`
	IsDefault   bool      `json:"is_default"`
}

func ToRoleResponse(role *model.Role) *RoleResponse {
	perms := make([]string, len(role.Permissions))
	for i, p := range role.Permissions {
		perms[i] = string(p)
	}
	return &RoleResponse{
		ID:          role.ID,
		WorkspaceID: role.WorkspaceID,
		Name:        role.Name,
		Permissions: perms,
		IsBuiltin:   role.IsBuiltin,
		IsDefault:   role.IsDefault,
		CreatedAt:   role.CreatedAt,
		UpdatedAt:   role.UpdatedAt,
	}
}

func ToRoleResponses(roles []model.Role) []RoleResponse {
	out := make([]RoleResponse, len(roles))
	for i := range roles {
		out[i] = *ToRoleResponse(&roles[i])
	}
	return out
}

func ToPermissions(perms []string) []model.Permission {
	out := make([]model.Permission, len(perms))
	for i, p := range perms {
		out[i] = model.Permission(p)
	}
	return out
}
