package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/manideepyelugam/Fairlx-sub016/common/id"
	"github.com/manideepyelugam/Fairlx-sub016/internal/model"
	"github.com/manideepyelugam/Fairlx-sub016/internal/store"
	"github.com/manideepyelugam/Fairlx-sub016/internal/workflow"
)

// StatusPatch carries the editable fields of a status; nil means unchanged.
type StatusPatch struct {
	Name     *string
	Category *model.StatusCategory
	Position *int
}

// TransitionPatch carries the editable fields of a transition; nil means
// unchanged. Guard replaces the whole guard; ClearGuard removes it.
type TransitionPatch struct {
	FromStatusID       *int64
	ToStatusID         *int64
	RequiredPermission *model.Permission
	Guard              *model.Guard
	ClearGuard         bool
}

// WorkflowService owns workflow-definition edits. Mutations require the
// actor to hold MANAGE_WORKFLOW in the owning workspace, re-validate the
// whole definition through BuildGraph before committing and return the
// structural warnings for the saved shape.
type WorkflowService interface {
	Get(ctx context.Context, workflowID int64) (*model.WorkflowDefinition, []workflow.DefinitionWarning, error)
	CreateStatus(ctx context.Context, workflowID, actorUserID int64, name string, category model.StatusCategory, position int) (*model.Status, []workflow.DefinitionWarning, error)
	UpdateStatus(ctx context.Context, workflowID, statusID, actorUserID int64, patch StatusPatch) (*model.Status, []workflow.DefinitionWarning, error)
	CreateTransition(ctx context.Context, workflowID, actorUserID int64, transition model.Transition) (*model.Transition, []workflow.DefinitionWarning, error)
	UpdateTransition(ctx context.Context, workflowID, transitionID, actorUserID int64, patch TransitionPatch) (*model.Transition, []workflow.DefinitionWarning, error)
	Delete(ctx context.Context, workflowID, actorUserID int64) error
}

type workflowService struct {
	tx     store.TxRunner
	events *EventBus
}

func NewWorkflowService(tx store.TxRunner, events *EventBus) WorkflowService {
	return &workflowService{tx: tx, events: events}
}

func (s *workflowService) Get(ctx context.Context, workflowID int64) (*model.WorkflowDefinition, []workflow.DefinitionWarning, error) {
	var (
		def      *model.WorkflowDefinition
		warnings []workflow.DefinitionWarning
	)
	err := s.tx.WithTx(ctx, func(stores store.Provider) error {
		var err error
		def, err = stores.Workflows().GetByID(ctx, workflowID)
		if err != nil {
			return err
		}
		graph, err := workflow.BuildGraph(def.Statuses, def.Transitions)
		if err != nil {
			return err
		}
		warnings = graph.Warnings()
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return def, warnings, nil
}

func (s *workflowService) CreateStatus(ctx context.Context, workflowID, actorUserID int64, name string, category model.StatusCategory, position int) (*model.Status, []workflow.DefinitionWarning, error) {
	status := &model.Status{
		ID:         id.New(),
		WorkflowID: workflowID,
		Name:       name,
		Category:   category,
		Position:   position,
	}

	warnings, err := s.mutate(ctx, workflowID, actorUserID, func(def *model.WorkflowDefinition, stores store.Provider) error {
		def.Statuses = append(def.Statuses, *status)
		return stores.Workflows().CreateStatus(ctx, status)
	})
	if err != nil {
		return nil, nil, err
	}
	return status, warnings, nil
}

func (s *workflowService) UpdateStatus(ctx context.Context, workflowID, statusID, actorUserID int64, patch StatusPatch) (*model.Status, []workflow.DefinitionWarning, error) {
	var updated *model.Status

	warnings, err := s.mutate(ctx, workflowID, actorUserID, func(def *model.WorkflowDefinition, stores store.Provider) error {
		target := findStatus(def, statusID)
		if target == nil {
			return store.ErrNotFound
		}
		if patch.Name != nil {
			target.Name = *patch.Name
		}
		if patch.Category != nil {
			target.Category = *patch.Category
		}
		if patch.Position != nil {
			target.Position = *patch.Position
		}
		updated = target
		return stores.Workflows().UpdateStatus(ctx, target)
	})
	if err != nil {
		return nil, nil, err
	}
	return updated, warnings, nil
}

func (s *workflowService) CreateTransition(ctx context.Context, workflowID, actorUserID int64, transition model.Transition) (*model.Transition, []workflow.DefinitionWarning, error) {
	transition.ID = id.New()
	transition.WorkflowID = workflowID
	if transition.RequiredPermission == "" {
		transition.RequiredPermission = model.PermissionEditTask
	}

	warnings, err := s.mutate(ctx, workflowID, actorUserID, func(def *model.WorkflowDefinition, stores store.Provider) error {
		if err := validateDistinctGuards(def.Transitions, transition); err != nil {
			return err
		}
		def.Transitions = append(def.Transitions, transition)
		return stores.Workflows().CreateTransition(ctx, &transition)
	})
	if err != nil {
		return nil, nil, err
	}
	return &transition, warnings, nil
}

func (s *workflowService) UpdateTransition(ctx context.Context, workflowID, transitionID, actorUserID int64, patch TransitionPatch) (*model.Transition, []workflow.DefinitionWarning, error) {
	var updated *model.Transition

	warnings, err := s.mutate(ctx, workflowID, actorUserID, func(def *model.WorkflowDefinition, stores store.Provider) error {
		target := findTransition(def, transitionID)
		if target == nil {
			return store.ErrNotFound
		}
		if patch.FromStatusID != nil {
			target.FromStatusID = *patch.FromStatusID
		}
		if patch.ToStatusID != nil {
			target.ToStatusID = *patch.ToStatusID
		}
		if patch.RequiredPermission != nil {
			target.RequiredPermission = *patch.RequiredPermission
		}
		if patch.ClearGuard {
			target.Guard = nil
		} else if patch.Guard != nil {
			target.Guard = patch.Guard
		}
		if err := validateDistinctGuards(withoutTransition(def.Transitions, target.ID), *target); err != nil {
			return err
		}
		updated = target
		return stores.Workflows().UpdateTransition(ctx, target)
	})
	if err != nil {
		return nil, nil, err
	}
	return updated, warnings, nil
}

// Delete removes a workflow definition; refused while any project still
// references it.
func (s *workflowService) Delete(ctx context.Context, workflowID, actorUserID int64) error {
	return s.tx.WithTx(ctx, func(stores store.Provider) error {
		def, err := stores.Workflows().GetByID(ctx, workflowID)
		if err != nil {
			return err
		}
		if err := requirePermission(ctx, stores, actorUserID, def.WorkspaceID, model.PermissionManageWorkflow); err != nil {
			return err
		}
		count, err := stores.Workflows().CountProjectsReferencing(ctx, workflowID)
		if err != nil {
			return fmt.Errorf("counting referencing projects: %w", err)
		}
		if count > 0 {
			return &workflow.ValidationError{
				Field: "workflow_id",
				Msg:   fmt.Sprintf("workflow is referenced by %d project(s)", count),
			}
		}
		return stores.Workflows().Delete(ctx, workflowID)
	})
}

// mutate loads the definition, checks the actor may manage it, applies the
// edit, re-validates the resulting graph and emits DefinitionChanged after
// commit.
func (s *workflowService) mutate(ctx context.Context, workflowID, actorUserID int64, edit func(def *model.WorkflowDefinition, stores store.Provider) error) ([]workflow.DefinitionWarning, error) {
	var (
		warnings    []workflow.DefinitionWarning
		workspaceID int64
	)
	err := s.tx.WithTx(ctx, func(stores store.Provider) error {
		def, err := stores.Workflows().GetByID(ctx, workflowID)
		if err != nil {
			return err
		}
		workspaceID = def.WorkspaceID

		if err := requirePermission(ctx, stores, actorUserID, def.WorkspaceID, model.PermissionManageWorkflow); err != nil {
			return err
		}

		if err := edit(def, stores); err != nil {
			return err
		}

		graph, err := workflow.BuildGraph(def.Statuses, def.Transitions)
		if err != nil {
			return err
		}
		warnings = graph.Warnings()
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.DefinitionChanged(ctx, model.DefinitionChangedEvent{
		WorkspaceID: workspaceID,
		WorkflowID:  workflowID,
		OccurredAt:  time.Now().UTC(),
	})

	for _, w := range warnings {
		slog.WarnContext(ctx, "workflow definition warning",
			"workflow_id", workflowID,
			"status_id", w.StatusID,
			"code", w.Code,
			"msg", w.Msg,
		)
	}

	return warnings, nil
}

func findStatus(def *model.WorkflowDefinition, statusID int64) *model.Status {
	for i := range def.Statuses {
		if def.Statuses[i].ID == statusID {
			return &def.Statuses[i]
		}
	}
	return nil
}

func findTransition(def *model.WorkflowDefinition, transitionID int64) *model.Transition {
	for i := range def.Transitions {
		if def.Transitions[i].ID == transitionID {
			return &def.Transitions[i]
		}
	}
	return nil
}

func withoutTransition(transitions []model.Transition, id int64) []model.Transition {
	result := make([]model.Transition, 0, len(transitions))
	for _, t := range transitions {
		if t.ID != id {
			result = append(result, t)
		}
	}
	return result
}

// validateDistinctGuards rejects a transition that duplicates an existing
// edge without a differing guard.
func validateDistinctGuards(existing []model.Transition, candidate model.Transition) error {
	for _, t := range existing {
		if t.FromStatusID != candidate.FromStatusID || t.ToStatusID != candidate.ToStatusID {
			continue
		}
		if sameGuard(t.Guard, candidate.Guard) {
			return &workflow.ValidationError{
				Field: "transitions",
				Msg:   "a transition with the same endpoints and guard already exists",
			}
		}
	}
	return nil
}

func sameGuard(a, b *model.Guard) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
