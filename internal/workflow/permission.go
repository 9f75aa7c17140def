package workflow

import "github.com/manideepyelugam/Fairlx-sub016/internal/model"

// PermissionSet is a member's resolved set of capabilities within one
// workspace.
type PermissionSet map[model.Permission]struct{}

// builtinRolePermissions fixes the permission sets of the built-in roles.
// Custom roles carry their stored permission strings verbatim.
var builtinRolePermissions = map[string][]model.Permission{
	model.RoleNameAdmin: {model.PermissionAll},
	model.RoleNameMember: {
		model.PermissionViewTask,
		model.PermissionCreateTask,
		model.PermissionEditTask,
	},
}

// Resolve maps a role to its effective permission set. Pure function of the
// stored role state; caching the result is the caller's responsibility.
func Resolve(role model.Role) PermissionSet {
	perms := role.Permissions
	if role.IsBuiltin {
		perms = builtinRolePermissions[role.Name]
	}
	set := make(PermissionSet, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// Has reports whether the set grants the required permission. Exact match or
// the "*" wildcard only; there are no hierarchy semantics.
func (s PermissionSet) Has(required model.Permission) bool {
	if _, ok := s[model.PermissionAll]; ok {
		return true
	}
	_, ok := s[required]
	return ok
}

// NewPermissionSet builds a set from explicit permissions, mainly for tests
// and request-scoped actor contexts.
func NewPermissionSet(perms ...model.Permission) PermissionSet {
	set := make(PermissionSet, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}
