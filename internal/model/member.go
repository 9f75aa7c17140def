package model

import "time"

// Member ties a user to a workspace with a role. Unique per
// (UserID, WorkspaceID).
type Member struct {
	CreatedAt   time.Time
	UpdatedAt   time.Time
	ID          int64
	UserID      int64
	WorkspaceID int64
	RoleID      int64
}
