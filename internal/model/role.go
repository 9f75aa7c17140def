package model

import "time"

// Permission names a single capability a role may grant. Workspace admins can
// define custom roles carrying arbitrary permission strings; the constants
// below are the ones this server itself checks.
type Permission string

const (
	// PermissionAll matches any required permission.
	PermissionAll Permission = "*"

	PermissionViewTask       Permission = "VIEW_TASK"
	PermissionCreateTask     Permission = "CREATE_TASK"
	PermissionEditTask       Permission = "EDIT_TASK"
	PermissionDeleteTask     Permission = "DELETE_TASK"
	PermissionManageWorkflow Permission = "MANAGE_WORKFLOW"
	PermissionManageRoles    Permission = "MANAGE_ROLES"
	PermissionManageMembers  Permission = "MANAGE_MEMBERS"
	PermissionManageProjects Permission = "MANAGE_PROJECTS"
	PermissionManageSprints  Permission = "MANAGE_SPRINTS"
)

// Built-in role names. Built-in roles exist in every workspace and carry
// fixed permission sets; custom roles are defined per workspace.
const (
	RoleNameAdmin  = "ADMIN"
	RoleNameMember = "MEMBER"
)

// Role is either a built-in role or a workspace-defined custom role. At most
// one role per workspace may be the default assigned to new members.
type Role struct {
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Name           string
	Permissions    []Permission
	ID             int64
	WorkspaceID    int64
	CreatedBy      int64
	LastModifiedBy int64
	IsBuiltin      bool
	IsDefault      bool
}
