package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/manideepyelugam/Fairlx-sub016/common/id"
	"github.com/manideepyelugam/Fairlx-sub016/internal/model"
	"github.com/manideepyelugam/Fairlx-sub016/internal/store"
	"github.com/manideepyelugam/Fairlx-sub016/internal/workflow"
)

// Permission strings are free-form at transition-edit time and only validated
// when a role is saved.
var permissionPattern = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)

// RolePatch carries the editable fields of a custom role; nil means
// unchanged.
type RolePatch struct {
	Name        *string
	Permissions *[]model.Permission
}

// RoleService owns role administration. Every mutation requires the actor to
// hold MANAGE_ROLES in the workspace.
type RoleService interface {
	List(ctx context.Context, workspaceID int64) ([]model.Role, error)
	CreateCustomRole(ctx context.Context, workspaceID, actorUserID int64, name string, permissions []model.Permission) (*model.Role, error)
	UpdateCustomRole(ctx context.Context, workspaceID, roleID, actorUserID int64, patch RolePatch) (*model.Role, error)
	SetDefault(ctx context.Context, workspaceID, roleID, actorUserID int64) error
	Delete(ctx context.Context, workspaceID, roleID, actorUserID int64) error
}

type roleService struct {
	tx store.TxRunner
}

func NewRoleService(tx store.TxRunner) RoleService {
	return &roleService{tx: tx}
}

func (s *roleService) List(ctx context.Context, workspaceID int64) ([]model.Role, error) {
	var roles []model.Role
	err := s.tx.WithTx(ctx, func(stores store.Provider) error {
		var err error
		roles, err = stores.Roles().ListByWorkspace(ctx, workspaceID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return roles, nil
}

func (s *roleService) CreateCustomRole(ctx context.Context, workspaceID, actorUserID int64, name string, permissions []model.Permission) (*model.Role, error) {
	if name == "" {
		return nil, &workflow.ValidationError{Field: "name", Msg: "role name is required"}
	}
	if err := validatePermissions(permissions); err != nil {
		return nil, err
	}

	role := &model.Role{
		ID:             id.New(),
		WorkspaceID:    workspaceID,
		Name:           name,
		Permissions:    permissions,
		CreatedBy:      actorUserID,
		LastModifiedBy: actorUserID,
	}
	err := s.tx.WithTx(ctx, func(stores store.Provider) error {
		if err := requirePermission(ctx, stores, actorUserID, workspaceID, model.PermissionManageRoles); err != nil {
			return err
		}
		return stores.Roles().Create(ctx, role)
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, &workflow.ValidationError{Field: "name", Msg: fmt.Sprintf("role %q already exists in this workspace", name)}
		}
		return nil, err
	}
	return role, nil
}

func (s *roleService) UpdateCustomRole(ctx context.Context, workspaceID, roleID, actorUserID int64, patch RolePatch) (*model.Role, error) {
	var updated *model.Role
	err := s.tx.WithTx(ctx, func(stores store.Provider) error {
		if err := requirePermission(ctx, stores, actorUserID, workspaceID, model.PermissionManageRoles); err != nil {
			return err
		}
		role, err := stores.Roles().GetByID(ctx, roleID)
		if err != nil {
			return err
		}
		if role.WorkspaceID != workspaceID {
			return store.ErrNotFound
		}
		if role.IsBuiltin {
			return &workflow.ValidationError{Field: "role_id", Msg: "builtin roles cannot be edited"}
		}
		if patch.Name != nil {
			if *patch.Name == "" {
				return &workflow.ValidationError{Field: "name", Msg: "role name is required"}
			}
			role.Name = *patch.Name
		}
		if patch.Permissions != nil {
			if err := validatePermissions(*patch.Permissions); err != nil {
				return err
			}
			role.Permissions = *patch.Permissions
		}
		role.LastModifiedBy = actorUserID
		updated = role
		return stores.Roles().Update(ctx, role)
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, &workflow.ValidationError{Field: "name", Msg: "a role with that name already exists in this workspace"}
		}
		return nil, err
	}
	return updated, nil
}

func (s *roleService) SetDefault(ctx context.Context, workspaceID, roleID, actorUserID int64) error {
	return s.tx.WithTx(ctx, func(stores store.Provider) error {
		if err := requirePermission(ctx, stores, actorUserID, workspaceID, model.PermissionManageRoles); err != nil {
			return err
		}
		role, err := stores.Roles().GetByID(ctx, roleID)
		if err != nil {
			return err
		}
		if role.WorkspaceID != workspaceID {
			return store.ErrNotFound
		}
		return stores.Roles().SetDefault(ctx, workspaceID, roleID)
	})
}

func (s *roleService) Delete(ctx context.Context, workspaceID, roleID, actorUserID int64) error {
	return s.tx.WithTx(ctx, func(stores store.Provider) error {
		if err := requirePermission(ctx, stores, actorUserID, workspaceID, model.PermissionManageRoles); err != nil {
			return err
		}
		role, err := stores.Roles().GetByID(ctx, roleID)
		if err != nil {
			return err
		}
		if role.WorkspaceID != workspaceID {
			return store.ErrNotFound
		}
		if role.IsBuiltin {
			return &workflow.ValidationError{Field: "role_id", Msg: "builtin roles cannot be deleted"}
		}
		if role.IsDefault {
			return &workflow.ValidationError{Field: "role_id", Msg: "the default role cannot be deleted"}
		}
		count, err := stores.Members().CountByRole(ctx, roleID)
		if err != nil {
			return fmt.Errorf("counting members with role: %w", err)
		}
		if count > 0 {
			return &workflow.ValidationError{Field: "role_id", Msg: fmt.Sprintf("role is assigned to %d member(s)", count)}
		}
		return stores.Roles().Delete(ctx, roleID)
	})
}

func validatePermissions(permissions []model.Permission) error {
	if len(permissions) == 0 {
		return &workflow.ValidationError{Field: "permissions", Msg: "at least one permission is required"}
	}
	for _, p := range permissions {
		if p == model.PermissionAll {
			continue
		}
		if !permissionPattern.MatchString(string(p)) {
			return &workflow.ValidationError{Field: "permissions", Msg: fmt.Sprintf("invalid permission %q", p)}
		}
	}
	return nil
}
