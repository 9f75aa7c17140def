package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is the subset of pgx shared by the pool and a transaction, so store
// implementations work identically inside and outside WithTx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Provider hands out the store for each aggregate. Within WithTx all stores
// share the same transaction.
type Provider interface {
	Users() UserStore
	Sessions() SessionStore
	Workspaces() WorkspaceStore
	Members() MemberStore
	Roles() RoleStore
	Workflows() WorkflowStore
	Projects() ProjectStore
	Sprints() SprintStore
	WorkItems() WorkItemStore
	Subtasks() SubtaskStore
	Approvals() ApprovalStore
}

// TxRunner runs a function with a Provider whose stores share one
// transaction, committing on nil and rolling back on error.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(Provider) error) error
}

type pgxProvider struct {
	db   DBTX
	pool *pgxpool.Pool
}

// NewProvider builds the pgx-backed Provider and TxRunner over the pool.
func NewProvider(pool *pgxpool.Pool) interface {
	Provider
	TxRunner
} {
	return &pgxProvider{db: pool, pool: pool}
}

func (p *pgxProvider) Users() UserStore           { return &userStore{db: p.db} }
func (p *pgxProvider) Sessions() SessionStore     { return &sessionStore{db: p.db} }
func (p *pgxProvider) Workspaces() WorkspaceStore { return &workspaceStore{db: p.db} }
func (p *pgxProvider) Members() MemberStore       { return &memberStore{db: p.db} }
func (p *pgxProvider) Roles() RoleStore           { return &roleStore{db: p.db} }
func (p *pgxProvider) Workflows() WorkflowStore   { return &workflowStore{db: p.db} }
func (p *pgxProvider) Projects() ProjectStore     { return &projectStore{db: p.db} }
func (p *pgxProvider) Sprints() SprintStore       { return &sprintStore{db: p.db} }
func (p *pgxProvider) WorkItems() WorkItemStore   { return &workItemStore{db: p.db} }
func (p *pgxProvider) Subtasks() SubtaskStore     { return &subtaskStore{db: p.db} }
func (p *pgxProvider) Approvals() ApprovalStore   { return &approvalStore{db: p.db} }

func (p *pgxProvider) WithTx(ctx context.Context, fn func(Provider) error) error {
	if p.pool == nil {
		// Already inside a transaction; reuse it.
		return fn(p)
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&pgxProvider{db: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// mapError normalizes pgx errors into the store sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicate
	}
	return err
}
