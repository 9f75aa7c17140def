package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/manideepyelugam/Fairlx-sub016/internal/model"
	"github.com/manideepyelugam/Fairlx-sub016/internal/store"
	"github.com/manideepyelugam/Fairlx-sub016/internal/workflow"
)

// requirePermission resolves the actor's role within the workspace and checks
// the required capability. A non-member is denied rather than told whether
// the workspace exists.
func requirePermission(ctx context.Context, stores store.Provider, actorUserID, workspaceID int64, required model.Permission) error {
	member, err := stores.Members().GetByUserAndWorkspace(ctx, actorUserID, workspaceID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return workflow.ErrPermissionDenied
		}
		return fmt.Errorf("resolving membership: %w", err)
	}
	role, err := stores.Roles().GetByID(ctx, member.RoleID)
	if err != nil {
		return fmt.Errorf("loading role: %w", err)
	}
	if !workflow.Resolve(*role).Has(required) {
		return workflow.ErrPermissionDenied
	}
	return nil
}
