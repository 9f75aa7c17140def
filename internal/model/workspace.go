package model

import "time"

// AccountType distinguishes single-user workspaces from organization ones.
type AccountType string

const (
	AccountTypePersonal AccountType = "PERSONAL"
	AccountTypeOrg      AccountType = "ORG"
)

// Workspace is the tenant boundary. It owns workflows, projects, sprints and
// members. A PERSONAL workspace has exactly one member, its owner, and never
// exposes organization-level settings.
type Workspace struct {
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Name        string
	Slug        string
	AccountType AccountType
	ID          int64
	OwnerUserID int64
	IsDeleted   bool
}

func (w Workspace) IsPersonal() bool {
	return w.AccountType == AccountTypePersonal
}
