package dto

import (
	"github.com/manideepyelugam/Fairlx-sub016/internal/model"
	"github.com/manideepyelugam/Fairlx-sub016/internal/service"
	"github.com/manideepyelugam/Fairlx-sub016/internal/workflow"
)

type GuardDTO struct {
	Kind   string `json:"kind" binding:"required,oneof=ALL_SUBTASKS_DONE FIELD_REQUIRED ROLE_APPROVAL"`
	Field  string `json:"field,omitempty"`
	RoleID int64  `json:"role_id,string,omitempty"`
}

func (g *GuardDTO) ToModel() *model.Guard {
	if g == nil {
		return nil
	}
	return &model.Guard{
		Kind:   model.GuardKind(g.Kind),
		Field:  g.Field,
		RoleID: g.RoleID,
	}
}

func ToGuardDTO(g *model.Guard) *GuardDTO {
	if g == nil {
		return nil
	}
	return &GuardDTO{
		Kind:   string(g.Kind),
		Field:  g.Field,
		RoleID: g.RoleID,
	}
}

type CreateStatusRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=255"`
	Category string `json:"category" binding:"required,oneof=TODO IN_PROGRESS DONE"`
	Position int    `json:"position" binding:"min=0"`
}

type UpdateStatusRequest struct {
	Name     *string `json:"name,omitempty" binding:"omitempty,min=1,max=255"`
	Category *string `json:"category,omitempty" binding:"omitempty,oneof=TODO IN_PROGRESS DONE"`
	Position *int    `json:"position,omitempty" binding:"omitempty,min=0"`
}

func (r *UpdateStatusRequest) ToPatch() service.StatusPatch {
	patch := service.StatusPatch{
		Name:     r.Name,
		Position: r.Position,
	}
	if r.Category != nil {
		category := model.StatusCategory(*r.Category)
		patch.Category = &category
	}
	return patch
}

type StatusResponse struct {
	Name       string `json:"name"`
	Category   string `json:"category"`
	ID         int64  `json:"id,string"`
	WorkflowID int64  `json:"workflow_id,string"`
	Position   int    `json:"position"`
}

func ToStatusResponse(s *model.Status) *StatusResponse {
	return &StatusResponse{
		ID:         s.ID,
		WorkflowID: s.WorkflowID,
		Name:       s.Name,
		Category:   string(s.Category),
		Position:   s.Position,
	}
}

type CreateTransitionRequest struct {
	FromStatusID       int64     `json:"from_status_id,string" binding:"required"`
	ToStatusID         int64     `json:"to_status_id,string" binding:"required"`
	RequiredPermission string    `json:"required_permission,omitempty"`
	Guard              *GuardDTO `json:"guard,omitempty"`
}

type UpdateTransitionRequest struct {
	FromStatusID       *int64    `json:"from_status_id,string,omitempty"`
	ToStatusID         *int64    `json:"to_status_id,string,omitempty"`
	RequiredPermission *string   `json:"required_permission,omitempty"`
	Guard              *GuardDTO `json:"guard,omitempty"`
	ClearGuard         bool      `json:"clear_guard,omitempty"`
}

func (r *UpdateTransitionRequest) ToPatch() service.TransitionPatch {
	patch := service.TransitionPatch{
		FromStatusID: r.FromStatusID,
		ToStatusID:   r.ToStatusID,
		Guard:        r.Guard.ToModel(),
		ClearGuard:   r.ClearGuard,
	}
	if r.RequiredPermission != nil {
		perm := model.Permission(*r.RequiredPermission)
		patch.RequiredPermission = &perm
	}
	return patch
}

type TransitionResponse struct {
	RequiredPermission string    `json:"required_permission"`
	Guard              *GuardDTO `json:"guard,omitempty"`
	ID                 int64     `json:"id,string"`
	WorkflowID         int64     `json:"workflow_id,string"`
	FromStatusID       int64     `json:"from_status_id,string"`
	ToStatusID         int64     `json:"to_status_id,string"`
}

func ToTransitionResponse(t *model.Transition) *TransitionResponse {
	return &TransitionResponse{
		ID:                 t.ID,
		WorkflowID:         t.WorkflowID,
		FromStatusID:       t.FromStatusID,
		ToStatusID:         t.ToStatusID,
		RequiredPermission: string(t.RequiredPermission),
		Guard:              ToGuardDTO(t.Guard),
	}
}

type DefinitionWarningDTO struct {
	Code     string `json:"code"`
	Msg      string `json:"msg"`
	StatusID int64  `json:"status_id,string"`
}

func ToDefinitionWarnings(warnings []workflow.DefinitionWarning) []DefinitionWarningDTO {
	out := make([]DefinitionWarningDTO, len(warnings))
	for i, w := range warnings {
		out[i] = DefinitionWarningDTO{Code: w.Code, Msg: w.Msg, StatusID: w.StatusID}
	}
	return out
}

type WorkflowResponse struct {
	Name        string               `json:"name"`
	Statuses    []StatusResponse     `json:"statuses"`
	Transitions []TransitionResponse `json:"transitions"`
	ID          int64                `json:"id,string"`
	WorkspaceID int64                `json:"workspace_id,string"`
}

func ToWorkflowResponse(def *model.WorkflowDefinition) *WorkflowResponse {
	statuses := make([]StatusResponse, len(def.Statuses))
	for i := range def.Statuses {
		statuses[i] = *ToStatusResponse(&def.Statuses[i])
	}
	transitions := make([]TransitionResponse, len(def.Transitions))
	for i := range def.Transitions {
		transitions[i] = *ToTransitionResponse(&def.Transitions[i])
	}
	return &WorkflowResponse{
		ID:          def.ID,
		WorkspaceID: def.WorkspaceID,
		Name:        def.Name,
		Statuses:    statuses,
		Transitions: transitions,
	}
}
