package store

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/manideepyelugam/Fairlx-sub016/internal/model"
)

type memberStore struct {
	db DBTX
}

const memberColumns = `id, user_id, workspace_id, role_id, created_at, updated_at`

func (s *memberStore) GetByUserAndWorkspace(ctx context.Context, userID, workspaceID int64) (*model.Member, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+memberColumns+` FROM members WHERE user_id = $1 AND workspace_id = $2`,
		userID, workspaceID)
	return scanMember(row)
}

func (s *memberStore) Create(ctx context.Context, member *model.Member) error {
	row := s.db.QueryRow(ctx,
		`INSERT INTO members (id, user_id, workspace_id, role_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+memberColumns,
		member.ID, member.UserID, member.WorkspaceID, member.RoleID)
	created, err := scanMember(row)
	if err != nil {
		return err
	}
	*member = *created
	return nil
}

func (s *memberStore) UpdateRole(ctx context.Context, id, roleID int64) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE members SET role_id = $2, updated_at = now() WHERE id = $1`, id, roleID)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *memberStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.Exec(ctx, `DELETE FROM members WHERE id = $1`, id)
	return mapError(err)
}

func (s *memberStore) ListByWorkspace(ctx context.Context, workspaceID int64) ([]model.Member, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+memberColumns+` FROM members WHERE workspace_id = $1 ORDER BY created_at`,
		workspaceID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var result []model.Member
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *m)
	}
	return result, mapError(rows.Err())
}

func (s *memberStore) CountByWorkspace(ctx context.Context, workspaceID int64) (int, error) {
	var count int
	err := s.db.QueryRow(ctx,
		`SELECT count(*) FROM members WHERE workspace_id = $1`, workspaceID).Scan(&count)
	return count, mapError(err)
}

func (s *memberStore) CountByRole(ctx context.Context, roleID int64) (int, error) {
	var count int
	err := s.db.QueryRow(ctx,
		`SELECT count(*) FROM members WHERE role_id = $1`, roleID).Scan(&count)
	return count, mapError(err)
}

func scanMember(row pgx.Row) (*model.Member, error) {
	var m model.Member
	err := row.Scan(&m.ID, &m.UserID, &m.WorkspaceID, &m.RoleID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	return &m, nil
}
