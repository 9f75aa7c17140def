package store

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/manideepyelugam/Fairlx-sub016/internal/model"
)

type workflowStore struct {
	db DBTX
}

func (s *workflowStore) GetByID(ctx context.Context, id int64) (*model.WorkflowDefinition, error) {
	var def model.WorkflowDefinition
	err := s.db.QueryRow(ctx,
		`SELECT id, workspace_id, name, created_at, updated_at FROM workflows WHERE id = $1`, id).
		Scan(&def.ID, &def.WorkspaceID, &def.Name, &def.CreatedAt, &def.UpdatedAt)
	if err != nil {
		return nil, mapError(err)
	}

	def.Statuses, err = s.listStatuses(ctx, id)
	if err != nil {
		return nil, err
	}
	def.Transitions, err = s.listTransitions(ctx, id)
	if err != nil {
		return nil, err
	}
	return &def, nil
}

func (s *workflowStore) Create(ctx context.Context, def *model.WorkflowDefinition) error {
	err := s.db.QueryRow(ctx,
		`INSERT INTO workflows (id, workspace_id, name)
		 VALUES ($1, $2, $3)
		 RETURNING created_at, updated_at`,
		def.ID, def.WorkspaceID, def.Name).
		Scan(&def.CreatedAt, &def.UpdatedAt)
	if err != nil {
		return mapError(err)
	}

	for i := range def.Statuses {
		def.Statuses[i].WorkflowID = def.ID
		if err := s.CreateStatus(ctx, &def.Statuses[i]); err != nil {
			return err
		}
	}
	for i := range def.Transitions {
		def.Transitions[i].WorkflowID = def.ID
		if err := s.CreateTransition(ctx, &def.Transitions[i]); err != nil {
			return err
		}
	}
	return nil
}

func (s *workflowStore) Delete(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM workflows WHERE id = $1`, id)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *workflowStore) ListByWorkspace(ctx context.Context, workspaceID int64) ([]model.WorkflowDefinition, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, workspace_id, name, created_at, updated_at
		 FROM workflows WHERE workspace_id = $1 ORDER BY created_at`, workspaceID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var defs []model.WorkflowDefinition
	for rows.Next() {
		var def model.WorkflowDefinition
		if err := rows.Scan(&def.ID, &def.WorkspaceID, &def.Name, &def.CreatedAt, &def.UpdatedAt); err != nil {
			return nil, mapError(err)
		}
		defs = append(defs, def)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err)
	}

	for i := range defs {
		if defs[i].Statuses, err = s.listStatuses(ctx, defs[i].ID); err != nil {
			return nil, err
		}
		if defs[i].Transitions, err = s.listTransitions(ctx, defs[i].ID); err != nil {
			return nil, err
		}
	}
	return defs, nil
}

func (s *workflowStore) CountProjectsReferencing(ctx context.Context, workflowID int64) (int, error) {
	var count int
	err := s.db.QueryRow(ctx,
		`SELECT count(*) FROM projects WHERE workflow_id = $1 AND NOT is_deleted`, workflowID).
		Scan(&count)
	return count, mapError(err)
}

func (s *workflowStore) CreateStatus(ctx context.Context, status *model.Status) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO workflow_statuses (id, workflow_id, name, category, position)
		 VALUES ($1, $2, $3, $4, $5)`,
		status.ID, status.WorkflowID, status.Name, status.Category, status.Position)
	if err := mapError(err); err != nil {
		return err
	}
	return s.touch(ctx, status.WorkflowID)
}

func (s *workflowStore) UpdateStatus(ctx context.Context, status *model.Status) error {
	tag, err := s.db.Exec(ctx,
		`UPDATE workflow_statuses SET name = $2, category = $3, position = $4
		 WHERE id = $1 AND workflow_id = $5`,
		status.ID, status.Name, status.Category, status.Position, status.WorkflowID)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return s.touch(ctx, status.WorkflowID)
}

func (s *workflowStore) DeleteStatus(ctx context.Context, id int64) error {
	var workflowID int64
	err := s.db.QueryRow(ctx,
		`DELETE FROM workflow_statuses WHERE id = $1 RETURNING workflow_id`, id).
		Scan(&workflowID)
	if err != nil {
		return mapError(err)
	}
	return s.touch(ctx, workflowID)
}

func (s *workflowStore) CreateTransition(ctx context.Context, transition *model.Transition) error {
	guardKind, guardField, guardRoleID := guardColumns(transition.Guard)
	_, err := s.db.Exec(ctx,
		`INSERT INTO workflow_transitions
		 (id, workflow_id, from_status_id, to_status_id, required_permission, guard_kind, guard_field, guard_role_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		transition.ID, transition.WorkflowID, transition.FromStatusID, transition.ToStatusID,
		transition.RequiredPermission, guardKind, guardField, guardRoleID)
	if err := mapError(err); err != nil {
		return err
	}
	return s.touch(ctx, transition.WorkflowID)
}

func (s *workflowStore) UpdateTransition(ctx context.Context, transition *model.Transition) error {
	guardKind, guardField, guardRoleID := guardColumns(transition.Guard)
	tag, err := s.db.Exec(ctx,
		`UPDATE workflow_transitions
		 SET from_status_id = $2, to_status_id = $3, required_permission = $4,
		     guard_kind = $5, guard_field = $6, guard_role_id = $7
		 WHERE id = $1 AND workflow_id = $8`,
		transition.ID, transition.FromStatusID, transition.ToStatusID, transition.RequiredPermission,
		guardKind, guardField, guardRoleID, transition.WorkflowID)
	if err != nil {
		return mapError(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return s.touch(ctx, transition.WorkflowID)
}

func (s *workflowStore) DeleteTransition(ctx context.Context, id int64) error {
	var workflowID int64
	err := s.db.QueryRow(ctx,
		`DELETE FROM workflow_transitions WHERE id = $1 RETURNING workflow_id`, id).
		Scan(&workflowID)
	if err != nil {
		return mapError(err)
	}
	return s.touch(ctx, workflowID)
}

// touch bumps the definition's updated_at so graph caches keyed on it
// rebuild.
func (s *workflowStore) touch(ctx context.Context, workflowID int64) error {
	_, err := s.db.Exec(ctx,
		`UPDATE workflows SET updated_at = now() WHERE id = $1`, workflowID)
	return mapError(err)
}

func (s *workflowStore) listStatuses(ctx context.Context, workflowID int64) ([]model.Status, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, workflow_id, name, category, position
		 FROM workflow_statuses WHERE workflow_id = $1 ORDER BY position`, workflowID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var statuses []model.Status
	for rows.Next() {
		var st model.Status
		if err := rows.Scan(&st.ID, &st.WorkflowID, &st.Name, &st.Category, &st.Position); err != nil {
			return nil, mapError(err)
		}
		statuses = append(statuses, st)
	}
	return statuses, mapError(rows.Err())
}

func (s *workflowStore) listTransitions(ctx context.Context, workflowID int64) ([]model.Transition, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, workflow_id, from_status_id, to_status_id, required_permission,
		        guard_kind, guard_field, guard_role_id
		 FROM workflow_transitions WHERE workflow_id = $1 ORDER BY id`, workflowID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var transitions []model.Transition
	for rows.Next() {
		t, err := scanTransition(rows)
		if err != nil {
			return nil, err
		}
		transitions = append(transitions, *t)
	}
	return transitions, mapError(rows.Err())
}

func scanTransition(row pgx.Row) (*model.Transition, error) {
	var (
		t           model.Transition
		guardKind   *string
		guardField  *string
		guardRoleID *int64
	)
	err := row.Scan(&t.ID, &t.WorkflowID, &t.FromStatusID, &t.ToStatusID, &t.RequiredPermission,
		&guardKind, &guardField, &guardRoleID)
	if err != nil {
		return nil, mapError(err)
	}
	if guardKind != nil {
		t.Guard = &model.Guard{Kind: model.GuardKind(*guardKind)}
		if guardField != nil {
			t.Guard.Field = *guardField
		}
		if guardRoleID != nil {
			t.Guard.RoleID = *guardRoleID
		}
	}
	return &t, nil
}

func guardColumns(g *model.Guard) (kind, field *string, roleID *int64) {
	if g == nil {
		return nil, nil, nil
	}
	k := string(g.Kind)
	kind = &k
	if g.Field != "" {
		field = &g.Field
	}
	if g.RoleID != 0 {
		roleID = &g.RoleID
	}
	return kind, field, roleID
}
