package dto

import (
	"time"

	"github.com/manideepyelugam/Fairlx-sub016/internal/model"
)

type CreateTaskRequest struct {
	WorkspaceID int64  `json:"workspace_id,string" binding:"required"`
	ProjectID   int64  `json:"project_id,string" binding:"required"`
	Title       string `json:"title" binding:"required,min=1,max=500"`
	Description string `json:"description,omitempty"`
	AssigneeID  *int64 `json:"assignee_id,string,omitempty"`
	SprintID    *int64 `json:"sprint_id,string,omitempty"`
}

type TransitionTaskRequest struct {
	TargetStatusID int64 `json:"target_status_id,string" binding:"required"`
}

type TaskResponse struct {
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	AssigneeID      *int64    `json:"assignee_id,string,omitempty"`
	SprintID        *int64    `json:"sprint_id,string,omitempty"`
	ID              int64     `json:"id,string"`
	WorkspaceID     int64     `json:"workspace_id,string"`
	ProjectID       int64     `json:"project_id,string"`
	CurrentStatusID int64     `json:"current_status_id,string"`
	Version         int64     `json:"version"`
}

func ToTaskResponse(item *model.WorkItem) *TaskResponse {
	return &TaskResponse{
		ID:              item.ID,
		WorkspaceID:     item.WorkspaceID,
		ProjectID:       item.ProjectID,
		Title:           item.Title,
		Description:     item.Description,
		AssigneeID:      item.AssigneeID,
		SprintID:        item.SprintID,
		CurrentStatusID: item.CurrentStatusID,
		Version:         item.Version,
		CreatedAt:       item.CreatedAt,
		UpdatedAt:       item.UpdatedAt,
	}
}

func ToTaskResponses(items []model.WorkItem) []TaskResponse {
	out := make([]TaskResponse, len(items))
	for i := range items {
		out[i] = *ToTaskResponse(&items[i])
	}
	return out
}

type CreateSubtaskRequest struct {
	Title string `json:"title" binding:"required,min=1,max=500"`
}

type SetSubtaskDoneRequest struct {
	Done bool `json:"done"`
}

type SubtaskResponse struct {
	CreatedAt  time.Time `json:"created_at"`
	Title      string    `json:"title"`
	ID         int64     `json:"id,string"`
	WorkItemID int64     `json:"work_item_id,string"`
	Done       bool      `json:"done"`
}

func ToSubtaskResponse(s *model.Subtask) *SubtaskResponse {
	return &SubtaskResponse{
		ID:         s.ID,
		WorkItemID: s.WorkItemID,
		Title:      s.Title,
		Done:       s.Done,
		CreatedAt:  s.CreatedAt,
	}
}

type ApprovalResponse struct {
	CreatedAt  time.Time `json:"created_at"`
	ID         int64     `json:"id,string"`
	WorkItemID int64     `json:"work_item_id,string"`
	RoleID     int64     `json:"role_id,string"`
	UserID     int64     `json:"user_id,string"`
}

func ToApprovalResponse(a *model.Approval) *ApprovalResponse {
	return &ApprovalResponse{
		ID:         a.ID,
		WorkItemID: a.WorkItemID,
		RoleID:     a.RoleID,
		UserID:     a.UserID,
		CreatedAt:  a.CreatedAt,
	}
}
