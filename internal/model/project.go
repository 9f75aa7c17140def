package model

import "time"

// Project groups work items within a workspace and binds them to a workflow
// definition.
type Project struct {
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Name        string
	Slug        string
	ID          int64
	WorkspaceID int64
	WorkflowID  int64
	IsDeleted   bool
}

// Sprint is a time-boxed iteration within a project.
type Sprint struct {
	StartsAt    time.Time
	EndsAt      time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Name        string
	ID          int64
	WorkspaceID int64
	ProjectID   int64
}
