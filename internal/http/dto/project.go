package dto

import (
	"time"

	"github.com/manideepyelugam/Fairlx-sub016/internal/model"
)

type CreateProjectRequest struct {
	WorkspaceID int64  `json:"workspace_id,string" binding:"required"`
	WorkflowID  int64  `json:"workflow_id,string" binding:"required"`
	Name        string `json:"name" binding:"required,min=1,max=255"`
}

type ProjectResponse struct {
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	ID          int64     `json:"id,string"`
	WorkspaceID int64     `json:"workspace_id,string"`
	WorkflowID  int64     `json:"workflow_id,string"`
}

func ToProjectResponse(p *model.Project) *ProjectResponse {
	return &ProjectResponse{
		ID:          p.ID,
		WorkspaceID: p.WorkspaceID,
		WorkflowID:  p.WorkflowID,
		Name:        p.Name,
		Slug:        p.Slug,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func ToProjectResponses(projects []model.Project) []ProjectResponse {
	out := make([]ProjectResponse, len(projects))
	for i := range projects {
		out[i] = *ToProjectResponse(&projects[i])
	}
	return out
}

type CreateSprintRequest struct {
	WorkspaceID int64     `json:"workspace_id,string" binding:"required"`
	ProjectID   int64     `json:"project_id,string" binding:"required"`
	Name        string    `json:"name" binding:"required,min=1,max=255"`
	StartsAt    time.Time `json:"starts_at" binding:"required"`
	EndsAt      time.Time `json:"ends_at" binding:"required"`
}

type SprintResponse struct {
	StartsAt    time.Time `json:"starts_at"`
	EndsAt      time.Time `json:"ends_at"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `json:"name"`
	ID          int64     `json:"id,string"`
	WorkspaceID int64     `json:"workspace_id,string"`
	ProjectID   int64     `json:"project_id,string"`
}

func ToSprintResponse(s *model.Sprint) *SprintResponse {
	return &SprintResponse{
		ID:          s.ID,
		WorkspaceID: s.WorkspaceID,
		ProjectID:   s.ProjectID,
		Name:        s.Name,
		StartsAt:    s.StartsAt,
		EndsAt:      s.EndsAt,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func ToSprintResponses(sprints []model.Sprint) []SprintResponse {
	out := make([]SprintResponse, len(sprints))
	for i := range sprints {
		out[i] = *ToSprintResponse(&sprints[i])
	}
	return out
}
