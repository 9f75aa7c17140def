package model

import "time"

// WorkItem is a task moving through its project's workflow. Version is the
// optimistic-concurrency token: it increments on every accepted transition
// and a stale version is rejected at write time.
type WorkItem struct {
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Title           string
	Description     string
	AssigneeID      *int64
	SprintID        *int64
	ID              int64
	WorkspaceID     int64
	ProjectID       int64
	CurrentStatusID int64
	Version         int64
}

// Subtask is a checklist entry under a work item, consulted by the
// ALL_SUBTASKS_DONE transition guard.
type Subtask struct {
	CreatedAt  time.Time
	Title      string
	ID         int64
	WorkItemID int64
	Done       bool
}

// Approval records that a member holding a given role signed off on a work
// item, consulted by the ROLE_APPROVAL guard.
type Approval struct {
	CreatedAt  time.Time
	ID         int64
	WorkItemID int64
	RoleID     int64
	UserID     int64
}
