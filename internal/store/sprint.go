package store

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/manideepyelugam/Fairlx-sub016/internal/model"
)

type sprintStore struct {
	db DBTX
}

const sprintColumns = `id, workspace_id, project_id, name, starts_at, ends_at, created_at, updated_at`

func (s *sprintStore) GetByID(ctx context.Context, id int64) (*model.Sprint, error) {
	row := s.db.QueryRow(ctx, `SELECT `+sprintColumns+` FROM sprints WHERE id = $1`, id)
	return scanSprint(row)
}

func (s *sprintStore) Create(ctx context.Context, sprint *model.Sprint) error {
	row := s.db.QueryRow(ctx,
		`INSERT INTO sprints (id, workspace_id, project_id, name, starts_at, ends_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING `+sprintColumns,
		sprint.ID, sprint.WorkspaceID, sprint.ProjectID, sprint.Name, sprint.StartsAt, sprint.EndsAt)
	created, err := scanSprint(row)
	if err != nil {
		return err
	}
	*sprint = *created
	return nil
}

func (s *sprintStore) Update(ctx context.Context, sprint *model.Sprint) error {
	row := s.db.QueryRow(ctx,
		`UPDATE sprints SET name = $2, starts_at = $3, ends_at = $4, updated_at = now()
		 WHERE id = $1
		 RETURNING `+sprintColumns,
		sprint.ID, sprint.Name, sprint.StartsAt, sprint.EndsAt)
	updated, err := scanSprint(row)
	if err != nil {
		return err
	}
	*sprint = *updated
	return nil
}

func (s *sprintStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.Exec(ctx, `DELETE FROM sprints WHERE id = $1`, id)
	return mapError(err)
}

func (s *sprintStore) ListByWorkspace(ctx context.Context, workspaceID int64) ([]model.Sprint, error) {
	return s.list(ctx,
		`SELECT `+sprintColumns+` FROM sprints WHERE workspace_id = $1 ORDER BY starts_at DESC`,
		workspaceID)
}

func (s *sprintStore) ListByProject(ctx context.Context, projectID int64) ([]model.Sprint, error) {
	return s.list(ctx,
		`SELECT `+sprintColumns+` FROM sprints WHERE project_id = $1 ORDER BY starts_at DESC`,
		projectID)
}

func (s *sprintStore) list(ctx context.Context, sql string, arg any) ([]model.Sprint, error) {
	rows, err := s.db.Query(ctx, sql, arg)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var result []model.Sprint
	for rows.Next() {
		sp, err := scanSprint(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *sp)
	}
	return result, mapError(rows.Err())
}

func scanSprint(row pgx.Row) (*model.Sprint, error) {
	var sp model.Sprint
	err := row.Scan(&sp.ID, &sp.WorkspaceID, &sp.ProjectID, &sp.Name,
		&sp.StartsAt, &sp.EndsAt, &sp.CreatedAt, &sp.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &sp, nil
}
