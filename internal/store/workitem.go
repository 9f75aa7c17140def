package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/manideepyelugam/Fairlx-sub016/internal/model"
)

type workItemStore struct {
	db DBTX
}

const workItemColumns = `id, workspace_id, project_id, current_status_id, assignee_id, sprint_id,
	title, description, version, created_at, updated_at`

func (s *workItemStore) GetByID(ctx context.Context, id int64) (*model.WorkItem, error) {
	row := s.db.QueryRow(ctx, `SELECT `+workItemColumns+` FROM work_items WHERE id = $1`, id)
	return scanWorkItem(row)
}

func (s *workItemStore) Create(ctx context.Context, item *model.WorkItem) error {
	row := s.db.QueryRow(ctx,
		`INSERT INTO work_items
		 (id, workspace_id, project_id, current_status_id, assignee_id, sprint_id, title, description)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING `+workItemColumns,
		item.ID, item.WorkspaceID, item.ProjectID, item.CurrentStatusID,
		item.AssigneeID, item.SprintID, item.Title, item.Description)
	created, err := scanWorkItem(row)
	if err != nil {
		return err
	}
	*item = *created
	return nil
}

func (s *workItemStore) Update(ctx context.Context, item *model.WorkItem) error {
	row := s.db.QueryRow(ctx,
		`UPDATE work_items
		 SET title = $2, description = $3, assignee_id = $4, sprint_id = $5, updated_at = now()
		 WHERE id = $1
		 RETURNING `+workItemColumns,
		item.ID, item.Title, item.Description, item.AssigneeID, item.SprintID)
	updated, err := scanWorkItem(row)
	if err != nil {
		return err
	}
	*item = *updated
	return nil
}

// UpdateStatus relies on the database's atomic conditional update as the
// compare-and-swap: the WHERE clause on version makes the first committer
// win and turns every later stale write into ErrVersionConflict.
func (s *workItemStore) UpdateStatus(ctx context.Context, id, statusID, expectedVersion int64) (*model.WorkItem, error) {
	row := s.db.QueryRow(ctx,
		`UPDATE work_items
		 SET current_status_id = $2, version = version + 1, updated_at = now()
		 WHERE id = $1 AND version = $3
		 RETURNING `+workItemColumns,
		id, statusID, expectedVersion)
	updated, err := scanWorkItem(row)
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	// No row matched: either the item is gone or the version is stale.
	if _, getErr := s.GetByID(ctx, id); getErr != nil {
		return nil, getErr
	}
	return nil, ErrVersionConflict
}

func (s *workItemStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.Exec(ctx, `DELETE FROM work_items WHERE id = $1`, id)
	return mapError(err)
}

func (s *workItemStore) ListByProject(ctx context.Context, projectID int64) ([]model.WorkItem, error) {
	return s.list(ctx,
		`SELECT `+workItemColumns+` FROM work_items WHERE project_id = $1 ORDER BY updated_at DESC`,
		projectID)
}

func (s *workItemStore) ListByAssignee(ctx context.Context, workspaceID, userID int64) ([]model.WorkItem, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+workItemColumns+` FROM work_items
		 WHERE workspace_id = $1 AND assignee_id = $2 ORDER BY updated_at DESC`,
		workspaceID, userID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()
	return scanWorkItems(rows)
}

func (s *workItemStore) list(ctx context.Context, sql string, arg any) ([]model.WorkItem, error) {
	rows, err := s.db.Query(ctx, sql, arg)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()
	return scanWorkItems(rows)
}

func scanWorkItem(row pgx.Row) (*model.WorkItem, error) {
	var it model.WorkItem
	err := row.Scan(&it.ID, &it.WorkspaceID, &it.ProjectID, &it.CurrentStatusID,
		&it.AssigneeID, &it.SprintID, &it.Title, &it.Description, &it.Version,
		&it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &it, nil
}

func scanWorkItems(rows pgx.Rows) ([]model.WorkItem, error) {
	var result []model.WorkItem
	for rows.Next() {
		it, err := scanWorkItem(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *it)
	}
	return result, mapError(rows.Err())
}
