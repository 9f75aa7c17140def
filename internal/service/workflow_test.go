package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manideepyelugam/Fairlx-sub016/internal/model"
	"github.com/manideepyelugam/Fairlx-sub016/internal/store"
	"github.com/manideepyelugam/Fairlx-sub016/internal/workflow"
)

type fakeWorkflowStore struct {
	store.WorkflowStore
	def                *model.WorkflowDefinition
	createdTransitions []*model.Transition
	projectRefs        int
	deleted            bool
}

func (s *fakeWorkflowStore) GetByID(_ context.Context, id int64) (*model.WorkflowDefinition, error) {
	if s.def == nil || s.def.ID != id {
		return nil, store.ErrNotFound
	}
	copied := *s.def
	copied.Statuses = append([]model.Status(nil), s.def.Statuses...)
	copied.Transitions = append([]model.Transition(nil), s.def.Transitions...)
	return &copied, nil
}

func (s *fakeWorkflowStore) CreateTransition(_ context.Context, transition *model.Transition) error {
	s.createdTransitions = append(s.createdTransitions, transition)
	s.def.Transitions = append(s.def.Transitions, *transition)
	return nil
}

func (s *fakeWorkflowStore) UpdateStatus(_ context.Context, status *model.Status) error {
	for i := range s.def.Statuses {
		if s.def.Statuses[i].ID == status.ID {
			s.def.Statuses[i] = *status
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *fakeWorkflowStore) CountProjectsReferencing(_ context.Context, _ int64) (int, error) {
	return s.projectRefs, nil
}

func (s *fakeWorkflowStore) Delete(_ context.Context, _ int64) error {
	s.deleted = true
	return nil
}

func testDefinition() *model.WorkflowDefinition {
	return &model.WorkflowDefinition{
		ID:          50,
		WorkspaceID: 1,
		Name:        "Default",
		UpdatedAt:   time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Statuses: []model.Status{
			{ID: 1, WorkflowID: 50, Name: "To Do", Category: model.StatusCategoryTodo, Position: 0},
			{ID: 2, WorkflowID: 50, Name: "Doing", Category: model.StatusCategoryInProgress, Position: 1},
			{ID: 3, WorkflowID: 50, Name: "Done", Category: model.StatusCategoryDone, Position: 2},
		},
		Transitions: []model.Transition{
			{ID: 10, WorkflowID: 50, FromStatusID: 1, ToStatusID: 2, RequiredPermission: model.PermissionEditTask},
			{ID: 11, WorkflowID: 50, FromStatusID: 2, ToStatusID: 3, RequiredPermission: model.PermissionEditTask},
			{ID: 12, WorkflowID: 50, FromStatusID: 2, ToStatusID: 1, RequiredPermission: model.PermissionEditTask},
		},
	}
}

func newWorkflowServiceUnderTest(workflows *fakeWorkflowStore) (WorkflowService, *[]model.DefinitionChangedEvent) {
	events := NewEventBus()
	var changed []model.DefinitionChangedEvent
	events.SubscribeDefinitions(DefinitionListenerFunc(func(_ context.Context, ev model.DefinitionChangedEvent) {
		changed = append(changed, ev)
	}))
	provider := &fakeProvider{workflows: workflows}
	grantActor(provider, 7, 1, model.PermissionManageWorkflow)
	grantActor(provider, 8, 1, model.PermissionEditTask)
	svc := NewWorkflowService(&fakeTx{provider: provider}, events)
	return svc, &changed
}

func TestCreateTransition(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a guarded parallel edge and emits a change event", func(t *testing.T) {
		workflows := &fakeWorkflowStore{def: testDefinition()}
		svc, changed := newWorkflowServiceUnderTest(workflows)

		transition, warnings, err := svc.CreateTransition(ctx, 50, 7, model.Transition{
			FromStatusID: 2,
			ToStatusID:   3,
			Guard:        &model.Guard{Kind: model.GuardAllSubtasksDone},
		})
		require.NoError(t, err)
		assert.NotZero(t, transition.ID)
		assert.Equal(t, model.PermissionEditTask, transition.RequiredPermission)
		assert.Empty(t, warnings)
		require.Len(t, *changed, 1)
		assert.Equal(t, int64(50), (*changed)[0].WorkflowID)
	})

	t.Run("rejects a duplicate edge with the same guard", func(t *testing.T) {
		workflows := &fakeWorkflowStore{def: testDefinition()}
		svc, changed := newWorkflowServiceUnderTest(workflows)

		_, _, err := svc.CreateTransition(ctx, 50, 7, model.Transition{
			FromStatusID: 1,
			ToStatusID:   2,
		})
		var vErr *workflow.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Empty(t, workflows.createdTransitions)
		assert.Empty(t, *changed)
	})

	t.Run("denies an actor without MANAGE_WORKFLOW", func(t *testing.T) {
		workflows := &fakeWorkflowStore{def: testDefinition()}
		svc, changed := newWorkflowServiceUnderTest(workflows)

		_, _, err := svc.CreateTransition(ctx, 50, 8, model.Transition{
			FromStatusID: 2,
			ToStatusID:   3,
			Guard:        &model.Guard{Kind: model.GuardAllSubtasksDone},
		})
		assert.ErrorIs(t, err, workflow.ErrPermissionDenied)
		assert.Empty(t, workflows.createdTransitions)
		assert.Empty(t, *changed)
	})

	t.Run("denies a non-member", func(t *testing.T) {
		workflows := &fakeWorkflowStore{def: testDefinition()}
		svc, _ := newWorkflowServiceUnderTest(workflows)

		_, _, err := svc.CreateTransition(ctx, 50, 99, model.Transition{
			FromStatusID: 2,
			ToStatusID:   3,
		})
		assert.ErrorIs(t, err, workflow.ErrPermissionDenied)
	})

	t.Run("rejects a dangling edge", func(t *testing.T) {
		workflows := &fakeWorkflowStore{def: testDefinition()}
		svc, _ := newWorkflowServiceUnderTest(workflows)

		_, _, err := svc.CreateTransition(ctx, 50, 7, model.Transition{
			FromStatusID: 1,
			ToStatusID:   999,
		})
		var vErr *workflow.ValidationError
		require.ErrorAs(t, err, &vErr)
	})
}

func TestUpdateStatusWarnings(t *testing.T) {
	ctx := context.Background()

	// Moving "Doing" out of the path leaves it structurally odd but legal;
	// the save succeeds and reports warnings instead of failing.
	def := testDefinition()
	def.Transitions = def.Transitions[:1] // keep only To Do → Doing
	workflows := &fakeWorkflowStore{def: def}
	svc, _ := newWorkflowServiceUnderTest(workflows)

	name := "Blocked"
	status, warnings, err := svc.UpdateStatus(ctx, 50, 2, 7, StatusPatch{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Blocked", status.Name)

	codes := make([]string, 0, len(warnings))
	for _, w := range warnings {
		codes = append(codes, w.Code)
	}
	assert.Contains(t, codes, workflow.WarnDeadEnd)     // Blocked has no way out
	assert.Contains(t, codes, workflow.WarnUnreachable) // Done has no way in
}

func TestDeleteWorkflow(t *testing.T) {
	ctx := context.Background()

	t.Run("refuses while projects reference it", func(t *testing.T) {
		workflows := &fakeWorkflowStore{def: testDefinition(), projectRefs: 2}
		svc, _ := newWorkflowServiceUnderTest(workflows)

		err := svc.Delete(ctx, 50, 7)
		var vErr *workflow.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.False(t, workflows.deleted)
	})

	t.Run("deletes an unreferenced workflow", func(t *testing.T) {
		workflows := &fakeWorkflowStore{def: testDefinition()}
		svc, _ := newWorkflowServiceUnderTest(workflows)

		require.NoError(t, svc.Delete(ctx, 50, 7))
		assert.True(t, workflows.deleted)
	})

	t.Run("denies an actor without MANAGE_WORKFLOW", func(t *testing.T) {
		workflows := &fakeWorkflowStore{def: testDefinition()}
		svc, _ := newWorkflowServiceUnderTest(workflows)

		err := svc.Delete(ctx, 50, 8)
		assert.ErrorIs(t, err, workflow.ErrPermissionDenied)
		assert.False(t, workflows.deleted)
	})
}
