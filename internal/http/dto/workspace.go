package dto

import (
	"time"

	"github.com/manideepyelugam/Fairlx-sub016/internal/model"
)

type CreateWorkspaceRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=255"`
	AccountType string `json:"account_type" binding:"required,oneof=PERSONAL ORG"`
}

type WorkspaceResponse struct {
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	AccountType string    `json:"account_type"`
	ID          int64     `json:"id,string"`
	OwnerUserID int64     `json:"owner_user_id,string"`
}

func ToWorkspaceResponse(ws *model.Workspace) *WorkspaceResponse {
	return &WorkspaceResponse{
		ID:          ws.ID,
		Name:        ws.Name,
		Slug:        ws.Slug,
		AccountType: string(ws.AccountType),
		OwnerUserID: ws.OwnerUserID,
		CreatedAt:   ws.CreatedAt,
		UpdatedAt:   ws.UpdatedAt,
	}
}
