package store

import (
	"context"

	"github.com/manideepyelugam/Fairlx-sub016/internal/model"
)

type subtaskStore struct {
	db DBTX
}

func (s *subtaskStore) GetByID(ctx context.Context, id int64) (*model.Subtask, error) {
	var st model.Subtask
	err := s.db.QueryRow(ctx,
		`SELECT id, work_item_id, title, done, created_at
		 FROM subtasks WHERE id = $1`, id).
		Scan(&st.ID, &st.WorkItemID, &st.Title, &st.Done, &st.CreatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &st, nil
}

func (s *subtaskStore) Create(ctx context.Context, subtask *model.Subtask) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO subtasks (id, work_item_id, title, done)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		subtask.ID, subtask.WorkItemID, subtask.Title, subtask.Done).
		Scan(&subtask.CreatedAt)
	return mapError(err)
}

func (s *subtaskStore) SetDone(ctx context.Context, id int64, done bool) error {
	tag, err := s.db.Exec(ctx, `UPDATE subtasks SET done = $2 WHERE id = $1`, id, done)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *subtaskStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.Exec(ctx, `DELETE FROM subtasks WHERE id = $1`, id)
	return mapError(err)
}

func (s *subtaskStore) ListByWorkItem(ctx context.Context, workItemID int64) ([]model.Subtask, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, work_item_id, title, done, created_at
		 FROM subtasks WHERE work_item_id = $1 ORDER BY created_at`, workItemID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var result []model.Subtask
	for rows.Next() {
		var st model.Subtask
		if err := rows.Scan(&st.ID, &st.WorkItemID, &st.Title, &st.Done, &st.CreatedAt); err != nil {
			return nil, mapError(err)
		}
		result = append(result, st)
	}
	return result, mapError(rows.Err())
}

func (s *subtaskStore) CountIncomplete(ctx context.Context, workItemID int64) (int, error) {
	var count int
	err := s.db.QueryRow(ctx,
		`SELECT count(*) FROM subtasks WHERE work_item_id = $1 AND NOT done`, workItemID).
		Scan(&count)
	return count, mapError(err)
}

type approvalStore struct {
	db DBTX
}

func (s *approvalStore) Create(ctx context.Context, approval *model.Approval) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO approvals (id, work_item_id, role_id, user_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		approval.ID, approval.WorkItemID, approval.RoleID, approval.UserID).
		Scan(&approval.CreatedAt)
	return mapError(err)
}

func (s *approvalStore) HasApprovalByRole(ctx context.Context, workItemID, roleID int64) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM approvals WHERE work_item_id = $1 AND role_id = $2)`,
		workItemID, roleID).
		Scan(&exists)
	return exists, mapError(err)
}

func (s *approvalStore) ListByWorkItem(ctx context.Context, workItemID int64) ([]model.Approval, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, work_item_id, role_id, user_id, created_at
		 FROM approvals WHERE work_item_id = $1 ORDER BY created_at`, workItemID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var result []model.Approval
	for rows.Next() {
		var ap model.Approval
		if err := rows.Scan(&ap.ID, &ap.WorkItemID, &ap.RoleID, &ap.UserID, &ap.CreatedAt); err != nil {
			return nil, mapError(err)
		}
		result = append(result, ap)
	}
	return result, mapError(rows.Err())
}
