package store

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/manideepyelugam/Fairlx-sub016/internal/model"
)

type workspaceStore struct {
	db DBTX
}

const workspaceColumns = `id, owner_user_id, name, slug, account_type, created_at, updated_at, is_deleted`

func (s *workspaceStore) GetByID(ctx context.Context, id int64) (*model.Workspace, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+workspaceColumns+` FROM workspaces WHERE id = $1 AND NOT is_deleted`, id)
	return scanWorkspace(row)
}

func (s *workspaceStore) GetBySlug(ctx context.Context, slug string) (*model.Workspace, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+workspaceColumns+` FROM workspaces WHERE slug = $1 AND NOT is_deleted`, slug)
	return scanWorkspace(row)
}

func (s *workspaceStore) Create(ctx context.Context, ws *model.Workspace) error {
	row := s.db.QueryRow(ctx,
		`INSERT INTO workspaces (id, owner_user_id, name, slug, account_type)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+workspaceColumns,
		ws.ID, ws.OwnerUserID, ws.Name, ws.Slug, ws.AccountType)
	created, err := scanWorkspace(row)
	if err != nil {
		return err
	}
	*ws = *created
	return nil
}

func (s *workspaceStore) Update(ctx context.Context, ws *model.Workspace) error {
	row := s.db.QueryRow(ctx,
		`UPDATE workspaces SET name = $2, slug = $3, updated_at = now()
		 WHERE id = $1 AND NOT is_deleted
		 RETURNING `+workspaceColumns,
		ws.ID, ws.Name, ws.Slug)
	updated, err := scanWorkspace(row)
	if err != nil {
		return err
	}
	*ws = *updated
	return nil
}

func (s *workspaceStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.Exec(ctx,
		`UPDATE workspaces SET is_deleted = true, updated_at = now() WHERE id = $1`, id)
	return mapError(err)
}

func (s *workspaceStore) ListByUser(ctx context.Context, userID int64) ([]model.Workspace, error) {
	rows, err := s.db.Query(ctx,
		`SELECT w.id, w.owner_user_id, w.name, w.slug, w.account_type, w.created_at, w.updated_at, w.is_deleted
		 FROM workspaces w
		 JOIN members m ON m.workspace_id = w.id
		 WHERE m.user_id = $1 AND NOT w.is_deleted
		 ORDER BY w.created_at`, userID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()
	return scanWorkspaces(rows)
}

func scanWorkspace(row pgx.Row) (*model.Workspace, error) {
	var ws model.Workspace
	err := row.Scan(&ws.ID, &ws.OwnerUserID, &ws.Name, &ws.Slug, &ws.AccountType,
		&ws.CreatedAt, &ws.UpdatedAt, &ws.IsDeleted)
	if err != nil {
		return nil, mapError(err)
	}
	return &ws, nil
}

func scanWorkspaces(rows pgx.Rows) ([]model.Workspace, error) {
	var result []model.Workspace
	for rows.Next() {
		ws, err := scanWorkspace(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ws)
	}
	return result, mapError(rows.Err())
}
