package store

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/manideepyelugam/Fairlx-sub016/internal/model"
)

type roleStore struct {
	db DBTX
}

const roleColumns = `id, workspace_id, name, permissions, is_builtin, is_default,
	created_by, last_modified_by, created_at, updated_at`

func (s *roleStore) GetByID(ctx context.Context, id int64) (*model.Role, error) {
	row := s.db.QueryRow(ctx, `SELECT `+roleColumns+` FROM roles WHERE id = $1`, id)
	return scanRole(row)
}

func (s *roleStore) GetByName(ctx context.Context, workspaceID int64, name string) (*model.Role, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+roleColumns+` FROM roles WHERE workspace_id = $1 AND name = $2`,
		workspaceID, name)
	return scanRole(row)
}

func (s *roleStore) GetDefault(ctx context.Context, workspaceID int64) (*model.Role, error) {
	row := s.db.QueryRow(ctx,
		`SELECT `+roleColumns+` FROM roles WHERE workspace_id = $1 AND is_default`,
		workspaceID)
	return scanRole(row)
}

func (s *roleStore) Create(ctx context.Context, role *model.Role) error {
	row := s.db.QueryRow(ctx,
		`INSERT INTO roles (id, workspace_id, name, permissions, is_builtin, is_default, created_by, last_modified_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		 RETURNING `+roleColumns,
		role.ID, role.WorkspaceID, role.Name, permissionsToStrings(role.Permissions),
		role.IsBuiltin, role.IsDefault, role.CreatedBy)
	created, err := scanRole(row)
	if err != nil {
		return err
	}
	*role = *created
	return nil
}

func (s *roleStore) Update(ctx context.Context, role *model.Role) error {
	row := s.db.QueryRow(ctx,
		`UPDATE roles SET name = $2, permissions = $3, last_modified_by = $4, updated_at = now()
		 WHERE id = $1 AND NOT is_builtin
		 RETURNING `+roleColumns,
		role.ID, role.Name, permissionsToStrings(role.Permissions), role.LastModifiedBy)
	updated, err := scanRole(row)
	if err != nil {
		return err
	}
	*role = *updated
	return nil
}

// SetDefault clears the previous default inside the caller's transaction;
// the partial unique index on (workspace_id) WHERE is_default backstops the
// single-default invariant regardless.
func (s *roleStore) SetDefault(ctx context.Context, workspaceID, roleID int64) error {
	if _, err := s.db.Exec(ctx,
		`UPDATE roles SET is_default = false, updated_at = now()
		 WHERE workspace_id = $1 AND is_default AND id <> $2`,
		workspaceID, roleID); err != nil {
		return mapError(err)
	}

	tag, err := s.db.Exec(ctx,
		`UPDATE roles SET is_default = true, updated_at = now()
		 WHERE id = $1 AND workspace_id = $2`,
		roleID, workspaceID)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *roleStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.Exec(ctx, `DELETE FROM roles WHERE id = $1 AND NOT is_builtin`, id)
	return mapError(err)
}

func (s *roleStore) ListByWorkspace(ctx context.Context, workspaceID int64) ([]model.Role, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+roleColumns+` FROM roles WHERE workspace_id = $1 ORDER BY is_builtin DESC, name`,
		workspaceID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var result []model.Role
	for rows.Next() {
		r, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *r)
	}
	return result, mapError(rows.Err())
}

func scanRole(row pgx.Row) (*model.Role, error) {
	var (
		r     model.Role
		perms []string
	)
	err := row.Scan(&r.ID, &r.WorkspaceID, &r.Name, &perms, &r.IsBuiltin, &r.IsDefault,
		&r.CreatedBy, &r.LastModifiedBy, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}
	r.Permissions = stringsToPermissions(perms)
	return &r, nil
}

func permissionsToStrings(perms []model.Permission) []string {
	s := make([]string, len(perms))
	for i, p := range perms {
		s[i] = string(p)
	}
	return s
}

func stringsToPermissions(s []string) []model.Permission {
	perms := make([]model.Permission, len(s))
	for i, v := range s {
		perms[i] = model.Permission(v)
	}
	return perms
}
