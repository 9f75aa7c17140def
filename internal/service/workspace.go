package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/manideepyelugam/Fairlx-sub016/common"
	"github.com/manideepyelugam/Fairlx-sub016/common/id"
	"github.com/manideepyelugam/Fairlx-sub016/internal/model"
	"github.com/manideepyelugam/Fairlx-sub016/internal/store"
	"github.com/manideepyelugam/Fairlx-sub016/internal/workflow"
)

type WorkspaceService interface {
	Create(ctx context.Context, name string, accountType model.AccountType, ownerUserID int64) (*model.Workspace, error)
	Get(ctx context.Context, workspaceID int64) (*model.Workspace, error)
}

type workspaceService struct {
	tx store.TxRunner
}

func NewWorkspaceService(tx store.TxRunner) WorkspaceService {
	return &workspaceService{tx: tx}
}

// Create bootstraps a workspace: the workspace row, the built-in ADMIN and
// MEMBER roles (MEMBER as default), the owner's membership and a default
// workflow. For a PERSONAL workspace the owner stays the only member.
func (s *workspaceService) Create(ctx context.Context, name string, accountType model.AccountType, ownerUserID int64) (*model.Workspace, error) {
	if accountType != model.AccountTypePersonal && accountType != model.AccountTypeOrg {
		return nil, &workflow.ValidationError{Field: "account_type", Msg: "must be PERSONAL or ORG"}
	}

	var created *model.Workspace
	err := s.tx.WithTx(ctx, func(stores store.Provider) error {
		slug, err := s.ensureSlug(ctx, stores.Workspaces(), name)
		if err != nil {
			return err
		}

		ws := &model.Workspace{
			ID:          id.New(),
			OwnerUserID: ownerUserID,
			Name:        name,
			Slug:        slug,
			AccountType: accountType,
		}
		if err := stores.Workspaces().Create(ctx, ws); err != nil {
			return fmt.Errorf("creating workspace: %w", err)
		}

		adminRole, err := s.createBuiltinRoles(ctx, stores.Roles(), ws, ownerUserID)
		if err != nil {
			return err
		}

		member := &model.Member{
			ID:          id.New(),
			UserID:      ownerUserID,
			WorkspaceID: ws.ID,
			RoleID:      adminRole.ID,
		}
		if err := stores.Members().Create(ctx, member); err != nil {
			return fmt.Errorf("creating owner membership: %w", err)
		}

		if err := s.createDefaultWorkflow(ctx, stores.Workflows(), ws); err != nil {
			return fmt.Errorf("creating default workflow: %w", err)
		}

		created = ws
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *workspaceService) Get(ctx context.Context, workspaceID int64) (*model.Workspace, error) {
	var ws *model.Workspace
	err := s.tx.WithTx(ctx, func(stores store.Provider) error {
		var err error
		ws, err = stores.Workspaces().GetByID(ctx, workspaceID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return ws, nil
}

func (s *workspaceService) ensureSlug(ctx context.Context, workspaces store.WorkspaceStore, name string) (string, error) {
	base, err := common.Slugify(name, "workspace")
	if err != nil {
		return "", fmt.Errorf("generating slug: %w", err)
	}

	// Fast path
	if _, err := workspaces.GetBySlug(ctx, base); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return base, nil
		}
		return "", fmt.Errorf("checking slug availability: %w", err)
	}

	// Add numeric suffix until available
	for i := 1; i <= 20; i++ {
		candidate := fmt.Sprintf("%s-%d", base, i)
		_, err := workspaces.GetBySlug(ctx, candidate)
		if errors.Is(err, store.ErrNotFound) {
			return candidate, nil
		}
		if err != nil {
			return "", fmt.Errorf("checking slug availability: %w", err)
		}
	}

	return "", fmt.Errorf("unable to find available slug for %q", base)
}

func (s *workspaceService) createBuiltinRoles(ctx context.Context, roles store.RoleStore, ws *model.Workspace, ownerUserID int64) (*model.Role, error) {
	admin := &model.Role{
		ID:          id.New(),
		WorkspaceID: ws.ID,
		Name:        model.RoleNameAdmin,
		IsBuiltin:   true,
		CreatedBy:   ownerUserID,
	}
	if err := roles.Create(ctx, admin); err != nil {
		return nil, fmt.Errorf("creating admin role: %w", err)
	}

	member := &model.Role{
		ID:          id.New(),
		WorkspaceID: ws.ID,
		Name:        model.RoleNameMember,
		IsBuiltin:   true,
		IsDefault:   true,
		CreatedBy:   ownerUserID,
	}
	if err := roles.Create(ctx, member); err != nil {
		return nil, fmt.Errorf("creating member role: %w", err)
	}

	return admin, nil
}

func (s *workspaceService) createDefaultWorkflow(ctx context.Context, workflows store.WorkflowStore, ws *model.Workspace) error {
	todoID, doingID, doneID := id.New(), id.New(), id.New()
	def := &model.WorkflowDefinition{
		ID:          id.New(),
		WorkspaceID: ws.ID,
		Name:        "Default workflow",
		Statuses: []model.Status{
			{ID: todoID, Name: "To Do", Category: model.StatusCategoryTodo, Position: 1},
			{ID: doingID, Name: "In Progress", Category: model.StatusCategoryInProgress, Position: 2},
			{ID: doneID, Name: "Done", Category: model.StatusCategoryDone, Position: 3},
		},
		Transitions: []model.Transition{
			{ID: id.New(), FromStatusID: todoID, ToStatusID: doingID, RequiredPermission: model.PermissionEditTask},
			{ID: id.New(), FromStatusID: doingID, ToStatusID: todoID, RequiredPermission: model.PermissionEditTask},
			{ID: id.New(), FromStatusID: doingID, ToStatusID: doneID, RequiredPermission: model.PermissionEditTask},
			{ID: id.New(), FromStatusID: doneID, ToStatusID: doingID, RequiredPermission: model.PermissionEditTask},
		},
	}

	// Validate the bootstrap definition the same way admin edits are.
	if _, err := workflow.BuildGraph(def.Statuses, def.Transitions); err != nil {
		return err
	}
	return workflows.Create(ctx, def)
}
