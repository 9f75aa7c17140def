package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/manideepyelugam/Fairlx-sub016/common/id"
	"github.com/manideepyelugam/Fairlx-sub016/internal/model"
	"github.com/manideepyelugam/Fairlx-sub016/internal/store"
	"github.com/manideepyelugam/Fairlx-sub016/internal/workflow"
)

// TaskInput carries the fields of a new work item.
type TaskInput struct {
	WorkspaceID int64
	ProjectID   int64
	Title       string
	Description string
	AssigneeID  *int64
	SprintID    *int64
}

// TaskService is the application surface over work items. Transition goes
// through the workflow engine; the other mutations check the actor's
// permissions in the work item's workspace themselves. Subtask edits require
// EDIT_TASK so a non-member cannot satisfy an ALL_SUBTASKS_DONE guard from
// outside the workspace.
type TaskService interface {
	Create(ctx context.Context, actorUserID int64, input TaskInput) (*model.WorkItem, error)
	Get(ctx context.Context, taskID int64) (*model.WorkItem, error)
	Transition(ctx context.Context, taskID, targetStatusID, actorUserID int64) (*model.WorkItem, error)
	AddSubtask(ctx context.Context, taskID, actorUserID int64, title string) (*model.Subtask, error)
	SetSubtaskDone(ctx context.Context, subtaskID, actorUserID int64, done bool) error
	Approve(ctx context.Context, taskID, actorUserID int64) (*model.Approval, error)
}

type taskService struct {
	stores store.Provider
	tx     store.TxRunner
	engine *workflow.Engine
}

// NewTaskService wires the workflow engine over the store layer. The engine
// sees the stores only through its narrow source interfaces; store sentinels
// are mapped to workflow errors at that boundary.
func NewTaskService(stores store.Provider, tx store.TxRunner, events *EventBus) TaskService {
	engine := workflow.NewEngine(
		&itemSource{items: stores.WorkItems()},
		&definitionSource{projects: stores.Projects(), workflows: stores.Workflows()},
		&roleSource{members: stores.Members(), roles: stores.Roles()},
		&storeGuardChecker{subtasks: stores.Subtasks(), approvals: stores.Approvals()},
		events,
		workflow.WithPermanentErrors(store.ErrNotFound),
	)
	events.SubscribeDefinitions(DefinitionListenerFunc(func(_ context.Context, ev model.DefinitionChangedEvent) {
		engine.InvalidateDefinition(ev.WorkflowID)
	}))
	return &taskService{stores: stores, tx: tx, engine: engine}
}

func (s *taskService) Create(ctx context.Context, actorUserID int64, input TaskInput) (*model.WorkItem, error) {
	if input.Title == "" {
		return nil, &workflow.ValidationError{Field: "title", Msg: "title is required"}
	}

	var item *model.WorkItem
	err := s.tx.WithTx(ctx, func(stores store.Provider) error {
		if err := requirePermission(ctx, stores, actorUserID, input.WorkspaceID, model.PermissionCreateTask); err != nil {
			return err
		}
		project, err := stores.Projects().GetByID(ctx, input.ProjectID)
		if err != nil {
			return fmt.Errorf("loading project: %w", err)
		}
		if project.WorkspaceID != input.WorkspaceID {
			return store.ErrNotFound
		}
		def, err := stores.Workflows().GetByID(ctx, project.WorkflowID)
		if err != nil {
			return fmt.Errorf("loading workflow definition: %w", err)
		}
		graph, err := workflow.BuildGraph(def.Statuses, def.Transitions)
		if err != nil {
			return err
		}
		initial := graph.Statuses()[0] // lowest position

		item = &model.WorkItem{
			ID:              id.New(),
			WorkspaceID:     input.WorkspaceID,
			ProjectID:       input.ProjectID,
			Title:           input.Title,
			Description:     input.Description,
			AssigneeID:      input.AssigneeID,
			SprintID:        input.SprintID,
			CurrentStatusID: initial.ID,
			Version:         1,
		}
		return stores.WorkItems().Create(ctx, item)
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *taskService) Get(ctx context.Context, taskID int64) (*model.WorkItem, error) {
	return s.stores.WorkItems().GetByID(ctx, taskID)
}

func (s *taskService) Transition(ctx context.Context, taskID, targetStatusID, actorUserID int64) (*model.WorkItem, error) {
	return s.engine.ApplyTransition(ctx, taskID, targetStatusID, workflow.Actor{UserID: actorUserID})
}

func (s *taskService) AddSubtask(ctx context.Context, taskID, actorUserID int64, title string) (*model.Subtask, error) {
	if title == "" {
		return nil, &workflow.ValidationError{Field: "title", Msg: "title is required"}
	}
	subtask := &model.Subtask{
		ID:         id.New(),
		WorkItemID: taskID,
		Title:      title,
	}
	err := s.tx.WithTx(ctx, func(stores store.Provider) error {
		item, err := stores.WorkItems().GetByID(ctx, taskID)
		if err != nil {
			return err
		}
		if err := requirePermission(ctx, stores, actorUserID, item.WorkspaceID, model.PermissionEditTask); err != nil {
			return err
		}
		return stores.Subtasks().Create(ctx, subtask)
	})
	if err != nil {
		return nil, err
	}
	return subtask, nil
}

func (s *taskService) SetSubtaskDone(ctx context.Context, subtaskID, actorUserID int64, done bool) error {
	return s.tx.WithTx(ctx, func(stores store.Provider) error {
		subtask, err := stores.Subtasks().GetByID(ctx, subtaskID)
		if err != nil {
			return err
		}
		item, err := stores.WorkItems().GetByID(ctx, subtask.WorkItemID)
		if err != nil {
			return err
		}
		if err := requirePermission(ctx, stores, actorUserID, item.WorkspaceID, model.PermissionEditTask); err != nil {
			return err
		}
		return stores.Subtasks().SetDone(ctx, subtaskID, done)
	})
}

// Approve records the actor's sign-off under the role they hold in the work
// item's workspace, which ROLE_APPROVAL guards consult.
func (s *taskService) Approve(ctx context.Context, taskID, actorUserID int64) (*model.Approval, error) {
	var approval *model.Approval
	err := s.tx.WithTx(ctx, func(stores store.Provider) error {
		item, err := stores.WorkItems().GetByID(ctx, taskID)
		if err != nil {
			return err
		}
		member, err := stores.Members().GetByUserAndWorkspace(ctx, actorUserID, item.WorkspaceID)
		if err != nil {
			return fmt.Errorf("resolving membership: %w", err)
		}
		approval = &model.Approval{
			ID:         id.New(),
			WorkItemID: taskID,
			RoleID:     member.RoleID,
			UserID:     actorUserID,
			CreatedAt:  time.Now().UTC(),
		}
		return stores.Approvals().Create(ctx, approval)
	})
	if err != nil {
		return nil, err
	}
	return approval, nil
}

// itemSource adapts WorkItemStore to the engine, translating the store's
// version-conflict sentinel into the engine's.
type itemSource struct {
	items store.WorkItemStore
}

func (a *itemSource) GetByID(ctx context.Context, id int64) (*model.WorkItem, error) {
	return a.items.GetByID(ctx, id)
}

func (a *itemSource) UpdateStatus(ctx context.Context, id, statusID, expectedVersion int64) (*model.WorkItem, error) {
	item, err := a.items.UpdateStatus(ctx, id, statusID, expectedVersion)
	if errors.Is(err, store.ErrVersionConflict) {
		return nil, workflow.ErrConflict
	}
	return item, err
}

type definitionSource struct {
	projects  store.ProjectStore
	workflows store.WorkflowStore
}

func (a *definitionSource) WorkflowForProject(ctx context.Context, projectID int64) (*model.WorkflowDefinition, error) {
	project, err := a.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	return a.workflows.GetByID(ctx, project.WorkflowID)
}

type roleSource struct {
	members store.MemberStore
	roles   store.RoleStore
}

func (a *roleSource) RoleForMember(ctx context.Context, userID, workspaceID int64) (*model.Role, error) {
	member, err := a.members.GetByUserAndWorkspace(ctx, userID, workspaceID)
	if err != nil {
		return nil, err
	}
	return a.roles.GetByID(ctx, member.RoleID)
}

// storeGuardChecker loads the live sub-entity state a guard consults and
// defers the decision to EvaluateGuard.
type storeGuardChecker struct {
	subtasks  store.SubtaskStore
	approvals store.ApprovalStore
}

func (c *storeGuardChecker) Check(ctx context.Context, item model.WorkItem, guard model.Guard) error {
	gc := workflow.GuardContext{}
	switch guard.Kind {
	case model.GuardAllSubtasksDone:
		incomplete, err := c.subtasks.CountIncomplete(ctx, item.ID)
		if err != nil {
			return fmt.Errorf("counting incomplete subtasks: %w", err)
		}
		gc.IncompleteSubtasks = incomplete
	case model.GuardFieldRequired:
		gc.FieldValues = fieldValues(item)
	case model.GuardRoleApproval:
		approved, err := c.approvals.HasApprovalByRole(ctx, item.ID, guard.RoleID)
		if err != nil {
			return fmt.Errorf("checking role approval: %w", err)
		}
		gc.ApprovedRoleIDs = map[int64]bool{guard.RoleID: approved}
	}
	return workflow.EvaluateGuard(guard, gc)
}

// fieldValues exposes the guard-checkable fields of a work item by name.
// Optional references render as empty when unset.
func fieldValues(item model.WorkItem) map[string]string {
	values := map[string]string{
		"title":       item.Title,
		"description": item.Description,
	}
	if item.AssigneeID != nil {
		values["assignee"] = strconv.FormatInt(*item.AssigneeID, 10)
	}
	if item.SprintID != nil {
		values["sprint"] = strconv.FormatInt(*item.SprintID, 10)
	}
	return values
}
