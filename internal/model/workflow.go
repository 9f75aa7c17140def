package model

import "time"

// StatusCategory groups statuses into the three board lanes.
type StatusCategory string

const (
	StatusCategoryTodo       StatusCategory = "TODO"
	StatusCategoryInProgress StatusCategory = "IN_PROGRESS"
	StatusCategoryDone       StatusCategory = "DONE"
)

// Status is one node of a workflow. Position defines default lane ordering
// and is unique per workflow, as is the id.
type Status struct {
	Name       string
	Category   StatusCategory
	ID         int64
	WorkflowID int64
	Position   int
}

// GuardKind enumerates the closed set of transition preconditions.
type GuardKind string

const (
	GuardAllSubtasksDone GuardKind = "ALL_SUBTASKS_DONE"
	GuardFieldRequired   GuardKind = "FIELD_REQUIRED"
	GuardRoleApproval    GuardKind = "ROLE_APPROVAL"
)

// Guard is a precondition attached to a transition, evaluated against
// work-item state before the transition is applied. Field is set for
// FIELD_REQUIRED, RoleID for ROLE_APPROVAL.
type Guard struct {
	Kind   GuardKind
	Field  string
	RoleID int64
}

// Transition is a directed, permission-gated edge between two statuses.
// Multiple transitions may share endpoints only when their guards differ.
type Transition struct {
	RequiredPermission Permission
	Guard              *Guard
	ID                 int64
	WorkflowID         int64
	FromStatusID       int64
	ToStatusID         int64
}

// WorkflowDefinition is the set of statuses and transitions governing the
// lifecycle of a project's work items. Owned by a workspace; deletable only
// while no project references it.
type WorkflowDefinition struct {
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Name        string
	Statuses    []Status
	Transitions []Transition
	ID          int64
	WorkspaceID int64
}
