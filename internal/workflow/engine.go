package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/manideepyelugam/Fairlx-sub016/internal/model"
)

// ItemSource loads and persists work items. UpdateStatus must be a
// compare-and-swap on the version column: when the stored version no longer
// equals expectedVersion it returns ErrConflict and changes nothing.
type ItemSource interface {
	GetByID(ctx context.Context, id int64) (*model.WorkItem, error)
	UpdateStatus(ctx context.Context, id, statusID, expectedVersion int64) (*model.WorkItem, error)
}

// DefinitionSource resolves the workflow definition governing a project.
type DefinitionSource interface {
	WorkflowForProject(ctx context.Context, projectID int64) (*model.WorkflowDefinition, error)
}

// RoleSource resolves the role a user holds within a workspace.
type RoleSource interface {
	RoleForMember(ctx context.Context, userID, workspaceID int64) (*model.Role, error)
}

// EventSink receives the change event emitted after a transition commits.
type EventSink interface {
	TransitionApplied(ctx context.Context, ev model.TransitionEvent)
}

// Actor identifies who is requesting a transition.
type Actor struct {
	UserID int64
}

// Engine orchestrates a transition request: load the work item, resolve the
// actor's permissions, evaluate the move against the status graph and
// persist it with an optimistic version check.
type Engine struct {
	items  ItemSource
	defs   DefinitionSource
	roles  RoleSource
	guards GuardChecker
	events EventSink

	// permanent lists source errors that must never be retried, on top of
	// the engine's own domain errors (typically the store's not-found).
	permanent []error

	maxRetries uint64

	mu     sync.RWMutex
	graphs map[int64]cachedGraph
}

type cachedGraph struct {
	builtFrom time.Time
	graph     *Graph
}

type EngineOption func(*Engine)

// WithPermanentErrors marks additional errors as non-retryable.
func WithPermanentErrors(errs ...error) EngineOption {
	return func(e *Engine) { e.permanent = append(e.permanent, errs...) }
}

// WithMaxRetries overrides the transient-error retry budget.
func WithMaxRetries(n uint64) EngineOption {
	return func(e *Engine) { e.maxRetries = n }
}

func NewEngine(items ItemSource, defs DefinitionSource, roles RoleSource, guards GuardChecker, events EventSink, opts ...EngineOption) *Engine {
	e := &Engine{
		items:      items,
		defs:       defs,
		roles:      roles,
		guards:     guards,
		events:     events,
		maxRetries: 3,
		graphs:     make(map[int64]cachedGraph),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ApplyTransition moves a work item to the target status on behalf of the
// actor. Domain failures (ErrInvalidTransition, ErrPermissionDenied,
// *GuardError, ErrConflict) are returned as-is and never retried; transient
// persistence errors are retried with bounded exponential backoff. On
// success the updated item is returned and a TransitionEvent is emitted.
func (e *Engine) ApplyTransition(ctx context.Context, workItemID, targetStatusID int64, actor Actor) (*model.WorkItem, error) {
	var (
		updated *model.WorkItem
		eval    *Evaluation
	)

	op := func() error {
		item, err := e.items.GetByID(ctx, workItemID)
		if err != nil {
			return e.classify(fmt.Errorf("loading work item: %w", err))
		}

		def, err := e.defs.WorkflowForProject(ctx, item.ProjectID)
		if err != nil {
			return e.classify(fmt.Errorf("loading workflow definition: %w", err))
		}
		graph, err := e.graphFor(def)
		if err != nil {
			return backoff.Permanent(err)
		}

		role, err := e.roles.RoleForMember(ctx, actor.UserID, item.WorkspaceID)
		if err != nil {
			return e.classify(fmt.Errorf("resolving member role: %w", err))
		}
		perms := Resolve(*role)

		eval, err = Evaluate(ctx, graph, *item, targetStatusID, perms, e.guards)
		if err != nil {
			return e.classify(err)
		}

		updated, err = e.items.UpdateStatus(ctx, item.ID, eval.To.ID, item.Version)
		if err != nil {
			return e.classify(fmt.Errorf("persisting status change: %w", err))
		}
		return nil
	}

	bo := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), e.maxRetries), ctx)
	if err := backoff.Retry(op, bo); err != nil {
		return nil, err
	}

	ev := model.TransitionEvent{
		WorkItemID:   updated.ID,
		WorkspaceID:  updated.WorkspaceID,
		FromStatusID: eval.From.ID,
		ToStatusID:   eval.To.ID,
		ActorID:      actor.UserID,
		OccurredAt:   time.Now().UTC(),
	}
	e.events.TransitionApplied(ctx, ev)

	slog.InfoContext(ctx, "transition applied",
		"work_item_id", updated.ID,
		"from_status_id", ev.FromStatusID,
		"to_status_id", ev.ToStatusID,
		"actor_id", actor.UserID,
		"version", updated.Version,
	)

	return updated, nil
}

// classify wraps domain and caller-declared permanent errors so backoff does
// not retry them. Everything else is treated as transient persistence I/O.
func (e *Engine) classify(err error) error {
	var guardErr *GuardError
	switch {
	case errors.Is(err, ErrConflict),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrPermissionDenied),
		errors.As(err, &guardErr):
		return backoff.Permanent(err)
	}
	for _, p := range e.permanent {
		if errors.Is(err, p) {
			return backoff.Permanent(err)
		}
	}
	return err
}

// graphFor returns a cached graph for the definition, rebuilding when the
// definition has been edited since the cached build. Definitions are
// read-mostly, so this keeps the per-request path free of graph validation.
func (e *Engine) graphFor(def *model.WorkflowDefinition) (*Graph, error) {
	e.mu.RLock()
	cached, ok := e.graphs[def.ID]
	e.mu.RUnlock()
	if ok && cached.builtFrom.Equal(def.UpdatedAt) {
		return cached.graph, nil
	}

	graph, err := BuildGraph(def.Statuses, def.Transitions)
	if err != nil {
		return nil, fmt.Errorf("workflow %d has invalid definition: %w", def.ID, err)
	}

	e.mu.Lock()
	e.graphs[def.ID] = cachedGraph{builtFrom: def.UpdatedAt, graph: graph}
	e.mu.Unlock()
	return graph, nil
}

// InvalidateDefinition drops the cached graph for a workflow; wired to
// DefinitionChangedEvent so edits take effect immediately.
func (e *Engine) InvalidateDefinition(workflowID int64) {
	e.mu.Lock()
	delete(e.graphs, workflowID)
	e.mu.Unlock()
}
