package store

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/manideepyelugam/Fairlx-sub016/internal/model"
)

type projectStore struct {
	db DBTX
}

const projectColumns = `id, workspace_id, workflow_id, name, slug, created_at, updated_at, is_deleted`

func (s *projectStore) GetByID(ctx context.Context, id int64) (*model.Project, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = $1 AND NOT is_deleted`, id)
	return scanProject(row)
}

func (s *projectStore) GetBySlug(ctx context.Context, workspaceID int64, slug string) (*model.Project, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+projectColumns+` FROM projects
		 WHERE workspace_id = $1 AND slug = $2 AND NOT is_deleted`,
		workspaceID, slug)
	return scanProject(row)
}

func (s *projectStore) Create(ctx context.Context, project *model.Project) error {
	row := s.db.QueryRow(ctx,
		`INSERT INTO projects (id, workspace_id, workflow_id, name, slug)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+projectColumns,
		project.ID, project.WorkspaceID, project.WorkflowID, project.Name, project.Slug)
	created, err := scanProject(row)
	if err != nil {
		return err
	}
	*project = *created
	return nil
}

func (s *projectStore) Update(ctx context.Context, project *model.Project) error {
	row := s.db.QueryRow(ctx,
		`UPDATE projects SET name = $2, slug = $3, workflow_id = $4, updated_at = now()
		 WHERE id = $1 AND NOT is_deleted
		 RETURNING `+projectColumns,
		project.ID, project.Name, project.Slug, project.WorkflowID)
	updated, err := scanProject(row)
	if err != nil {
		return err
	}
	*project = *updated
	return nil
}

func (s *projectStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.Exec(ctx,
		`UPDATE projects SET is_deleted = true, updated_at = now() WHERE id = $1`, id)
	return mapError(err)
}

func (s *projectStore) ListByWorkspace(ctx context.Context, workspaceID int64) ([]model.Project, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+projectColumns+` FROM projects
		 WHERE workspace_id = $1 AND NOT is_deleted ORDER BY created_at`, workspaceID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var result []model.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	return result, mapError(rows.Err())
}

func scanProject(row pgx.Row) (*model.Project, error) {
	var p model.Project
	err := row.Scan(&p.ID, &p.WorkspaceID, &p.WorkflowID, &p.Name, &p.Slug,
		&p.CreatedAt, &p.UpdatedAt, &p.IsDeleted)
	if err != nil {
		return nil, mapError(err)
	}
	return &p, nil
}
