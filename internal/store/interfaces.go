package store

import (
	"context"
	"errors"

	"github.com/manideepyelugam/Fairlx-sub016/internal/model"
)

var (
	ErrNotFound = errors.New("not found")

	// ErrVersionConflict is returned by WorkItemStore.UpdateStatus when the
	// stored version no longer matches the expected one.
	ErrVersionConflict = errors.New("version conflict")

	// ErrDuplicate is returned when a uniqueness constraint is violated,
	// e.g. a second default role for a workspace.
	ErrDuplicate = errors.New("duplicate")
)

type UserStore interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, user *model.User) error
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id int64) error
}

type SessionStore interface {
	GetValid(ctx context.Context, id int64) (*model.Session, error) // checks expiry
	Create(ctx context.Context, session *model.Session) error
	Delete(ctx context.Context, id int64) error
	DeleteExpired(ctx context.Context) error
}

type WorkspaceStore interface {
	GetByID(ctx context.Context, id int64) (*model.Workspace, error)
	GetBySlug(ctx context.Context, slug string) (*model.Workspace, error)
	Create(ctx context.Context, ws *model.Workspace) error
	Update(ctx context.Context, ws *model.Workspace) error
	Delete(ctx context.Context, id int64) error // soft delete
	ListByUser(ctx context.Context, userID int64) ([]model.Workspace, error)
}

type MemberStore interface {
	GetByUserAndWorkspace(ctx context.Context, userID, workspaceID int64) (*model.Member, error)
	Create(ctx context.Context, member *model.Member) error
	UpdateRole(ctx context.Context, id, roleID int64) error
	Delete(ctx context.Context, id int64) error
	ListByWorkspace(ctx context.Context, workspaceID int64) ([]model.Member, error)
	CountByWorkspace(ctx context.Context, workspaceID int64) (int, error)
	CountByRole(ctx context.Context, roleID int64) (int, error)
}

type RoleStore interface {
	GetByID(ctx context.Context, id int64) (*model.Role, error)
	GetByName(ctx context.Context, workspaceID int64, name string) (*model.Role, error)
	GetDefault(ctx context.Context, workspaceID int64) (*model.Role, error)
	Create(ctx context.Context, role *model.Role) error
	Update(ctx context.Context, role *model.Role) error
	// SetDefault atomically clears the previous default role of the
	// workspace and marks the given one; at most one default role per
	// workspace is a store-level invariant.
	SetDefault(ctx context.Context, workspaceID, roleID int64) error
	Delete(ctx context.Context, id int64) error
	ListByWorkspace(ctx context.Context, workspaceID int64) ([]model.Role, error)
}

type WorkflowStore interface {
	// GetByID loads the definition with its statuses and transitions.
	GetByID(ctx context.Context, id int64) (*model.WorkflowDefinition, error)
	Create(ctx context.Context, def *model.WorkflowDefinition) error
	Delete(ctx context.Context, id int64) error
	ListByWorkspace(ctx context.Context, workspaceID int64) ([]model.WorkflowDefinition, error)
	CountProjectsReferencing(ctx context.Context, workflowID int64) (int, error)

	CreateStatus(ctx context.Context, status *model.Status) error
	UpdateStatus(ctx context.Context, status *model.Status) error
	DeleteStatus(ctx context.Context, id int64) error

	CreateTransition(ctx context.Context, transition *model.Transition) error
	UpdateTransition(ctx context.Context, transition *model.Transition) error
	DeleteTransition(ctx context.Context, id int64) error
}

type ProjectStore interface {
	GetByID(ctx context.Context, id int64) (*model.Project, error)
	GetBySlug(ctx context.Context, workspaceID int64, slug string) (*model.Project, error)
	Create(ctx context.Context, project *model.Project) error
	Update(ctx context.Context, project *model.Project) error
	Delete(ctx context.Context, id int64) error // soft delete
	ListByWorkspace(ctx context.Context, workspaceID int64) ([]model.Project, error)
}

type SprintStore interface {
	GetByID(ctx context.Context, id int64) (*model.Sprint, error)
	Create(ctx context.Context, sprint *model.Sprint) error
	Update(ctx context.Context, sprint *model.Sprint) error
	Delete(ctx context.Context, id int64) error
	ListByWorkspace(ctx context.Context, workspaceID int64) ([]model.Sprint, error)
	ListByProject(ctx context.Context, projectID int64) ([]model.Sprint, error)
}

type WorkItemStore interface {
	GetByID(ctx context.Context, id int64) (*model.WorkItem, error)
	Create(ctx context.Context, item *model.WorkItem) error
	Update(ctx context.Context, item *model.WorkItem) error
	// UpdateStatus is a compare-and-swap: the status is written and the
	// version incremented only when the stored version still equals
	// expectedVersion; otherwise ErrVersionConflict.
	UpdateStatus(ctx context.Context, id, statusID, expectedVersion int64) (*model.WorkItem, error)
	Delete(ctx context.Context, id int64) error
	ListByProject(ctx context.Context, projectID int64) ([]model.WorkItem, error)
	ListByAssignee(ctx context.Context, workspaceID, userID int64) ([]model.WorkItem, error)
}

type SubtaskStore interface {
	GetByID(ctx context.Context, id int64) (*model.Subtask, error)
	Create(ctx context.Context, subtask *model.Subtask) error
	SetDone(ctx context.Context, id int64, done bool) error
	Delete(ctx context.Context, id int64) error
	ListByWorkItem(ctx context.Context, workItemID int64) ([]model.Subtask, error)
	CountIncomplete(ctx context.Context, workItemID int64) (int, error)
}

type ApprovalStore interface {
	Create(ctx context.Context, approval *model.Approval) error
	HasApprovalByRole(ctx context.Context, workItemID, roleID int64) (bool, error)
	ListByWorkItem(ctx context.Context, workItemID int64) ([]model.Approval, error)
}
