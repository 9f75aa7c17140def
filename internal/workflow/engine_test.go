package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manideepyelugam/Fairlx-sub016/internal/model"
)

var errItemMissing = errors.New("item missing")

// fakeItems is an in-memory ItemSource with real compare-and-swap semantics.
// snapshot, when set, is what GetByID returns regardless of stored state, to
// simulate a reader holding a stale version.
type fakeItems struct {
	item        model.WorkItem
	snapshot    *model.WorkItem
	updateErrs  []error
	updateCalls int
}

func (f *fakeItems) GetByID(_ context.Context, id int64) (*model.WorkItem, error) {
	if f.item.ID != id {
		return nil, errItemMissing
	}
	if f.snapshot != nil {
		s := *f.snapshot
		return &s, nil
	}
	item := f.item
	return &item, nil
}

func (f *fakeItems) UpdateStatus(_ context.Context, id, statusID, expectedVersion int64) (*model.WorkItem, error) {
	f.updateCalls++
	if len(f.updateErrs) > 0 {
		err := f.updateErrs[0]
		f.updateErrs = f.updateErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	if f.item.ID != id {
		return nil, errItemMissing
	}
	if f.item.Version != expectedVersion {
		return nil, ErrConflict
	}
	f.item.CurrentStatusID = statusID
	f.item.Version++
	item := f.item
	return &item, nil
}

type fakeDefs struct {
	def model.WorkflowDefinition
}

func (f *fakeDefs) WorkflowForProject(_ context.Context, _ int64) (*model.WorkflowDefinition, error) {
	def := f.def
	return &def, nil
}

type fakeRoles struct {
	role model.Role
}

func (f *fakeRoles) RoleForMember(_ context.Context, _, _ int64) (*model.Role, error) {
	role := f.role
	return &role, nil
}

type recordingSink struct {
	events []model.TransitionEvent
}

func (s *recordingSink) TransitionApplied(_ context.Context, ev model.TransitionEvent) {
	s.events = append(s.events, ev)
}

func guardedDefinition() model.WorkflowDefinition {
	return model.WorkflowDefinition{
		ID:        50,
		UpdatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Statuses:  threeLaneStatuses(),
		Transitions: []model.Transition{
			{ID: 10, FromStatusID: 1, ToStatusID: 2, RequiredPermission: model.PermissionEditTask},
			{
				ID: 11, FromStatusID: 2, ToStatusID: 3,
				RequiredPermission: model.PermissionEditTask,
				Guard:              &model.Guard{Kind: model.GuardAllSubtasksDone},
			},
			{ID: 12, FromStatusID: 2, ToStatusID: 1, RequiredPermission: model.PermissionEditTask},
		},
	}
}

func editorRole() model.Role {
	return model.Role{ID: 70, Name: model.RoleNameMember, IsBuiltin: true}
}

func TestEngineApplyTransition(t *testing.T) {
	ctx := context.Background()

	t.Run("walks the item to done and increments the version each step", func(t *testing.T) {
		items := &fakeItems{item: model.WorkItem{ID: 100, WorkspaceID: 1, ProjectID: 9, CurrentStatusID: 1, Version: 1}}
		sink := &recordingSink{}
		incomplete := 1
		guards := GuardCheckerFunc(func(_ context.Context, _ model.WorkItem, guard model.Guard) error {
			return EvaluateGuard(guard, GuardContext{IncompleteSubtasks: incomplete})
		})
		engine := NewEngine(items, &fakeDefs{def: guardedDefinition()}, &fakeRoles{role: editorRole()}, guards, sink)

		updated, err := engine.ApplyTransition(ctx, 100, 2, Actor{UserID: 7})
		require.NoError(t, err)
		assert.Equal(t, int64(2), updated.CurrentStatusID)
		assert.Equal(t, int64(2), updated.Version)

		// The guard still blocks the move to done.
		_, err = engine.ApplyTransition(ctx, 100, 3, Actor{UserID: 7})
		var guardErr *GuardError
		require.ErrorAs(t, err, &guardErr)
		assert.Equal(t, ReasonSubtasksIncomplete, guardErr.Reason)

		incomplete = 0
		updated, err = engine.ApplyTransition(ctx, 100, 3, Actor{UserID: 7})
		require.NoError(t, err)
		assert.Equal(t, int64(3), updated.CurrentStatusID)
		assert.Equal(t, int64(3), updated.Version)

		require.Len(t, sink.events, 2)
		assert.Equal(t, int64(1), sink.events[0].FromStatusID)
		assert.Equal(t, int64(2), sink.events[0].ToStatusID)
		assert.Equal(t, int64(7), sink.events[0].ActorID)
		assert.Equal(t, int64(2), sink.events[1].FromStatusID)
		assert.Equal(t, int64(3), sink.events[1].ToStatusID)
	})

	t.Run("rejects a move with no edge without touching the store", func(t *testing.T) {
		items := &fakeItems{item: model.WorkItem{ID: 100, CurrentStatusID: 1, Version: 1}}
		engine := NewEngine(items, &fakeDefs{def: guardedDefinition()}, &fakeRoles{role: editorRole()},
			StaticGuardChecker(GuardContext{}), &recordingSink{})

		_, err := engine.ApplyTransition(ctx, 100, 3, Actor{UserID: 7})
		assert.ErrorIs(t, err, ErrInvalidTransition)
		assert.Zero(t, items.updateCalls)
	})

	t.Run("distinguishes permission denial from a missing edge", func(t *testing.T) {
		viewer := model.Role{ID: 71, Name: "Viewer", Permissions: []model.Permission{model.PermissionViewTask}}
		items := &fakeItems{item: model.WorkItem{ID: 100, CurrentStatusID: 1, Version: 1}}
		engine := NewEngine(items, &fakeDefs{def: guardedDefinition()}, &fakeRoles{role: viewer},
			StaticGuardChecker(GuardContext{}), &recordingSink{})

		_, err := engine.ApplyTransition(ctx, 100, 2, Actor{UserID: 7})
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})

	t.Run("a stale version is a conflict and is never retried", func(t *testing.T) {
		// The stored item is at version 2; the reader's snapshot says 1, as if
		// another request won the race between read and write.
		items := &fakeItems{
			item:     model.WorkItem{ID: 100, CurrentStatusID: 1, Version: 2},
			snapshot: &model.WorkItem{ID: 100, CurrentStatusID: 1, Version: 1},
		}
		sink := &recordingSink{}
		engine := NewEngine(items, &fakeDefs{def: guardedDefinition()}, &fakeRoles{role: editorRole()},
			StaticGuardChecker(GuardContext{}), sink)

		_, err := engine.ApplyTransition(ctx, 100, 2, Actor{UserID: 7})
		assert.ErrorIs(t, err, ErrConflict)
		assert.Equal(t, 1, items.updateCalls)
		assert.Empty(t, sink.events)
	})

	t.Run("exactly one of two racing writers wins", func(t *testing.T) {
		items := &fakeItems{item: model.WorkItem{ID: 100, CurrentStatusID: 1, Version: 1}}
		engine := NewEngine(items, &fakeDefs{def: guardedDefinition()}, &fakeRoles{role: editorRole()},
			StaticGuardChecker(GuardContext{}), &recordingSink{})

		// First writer succeeds against version 1.
		updated, err := engine.ApplyTransition(ctx, 100, 2, Actor{UserID: 7})
		require.NoError(t, err)
		require.Equal(t, int64(2), updated.Version)

		// Second writer still holds the version-1 snapshot.
		items.snapshot = &model.WorkItem{ID: 100, CurrentStatusID: 1, Version: 1}
		_, err = engine.ApplyTransition(ctx, 100, 2, Actor{UserID: 8})
		assert.ErrorIs(t, err, ErrConflict)
	})

	t.Run("retries transient persistence errors", func(t *testing.T) {
		items := &fakeItems{
			item:       model.WorkItem{ID: 100, CurrentStatusID: 1, Version: 1},
			updateErrs: []error{errors.New("connection reset")},
		}
		engine := NewEngine(items, &fakeDefs{def: guardedDefinition()}, &fakeRoles{role: editorRole()},
			StaticGuardChecker(GuardContext{}), &recordingSink{})

		updated, err := engine.ApplyTransition(ctx, 100, 2, Actor{UserID: 7})
		require.NoError(t, err)
		assert.Equal(t, int64(2), updated.CurrentStatusID)
		assert.Equal(t, 2, items.updateCalls)
	})

	t.Run("caller-declared permanent errors are not retried", func(t *testing.T) {
		errGone := errors.New("gone")
		items := &fakeItems{
			item:       model.WorkItem{ID: 100, CurrentStatusID: 1, Version: 1},
			updateErrs: []error{errGone, errGone, errGone, errGone},
		}
		engine := NewEngine(items, &fakeDefs{def: guardedDefinition()}, &fakeRoles{role: editorRole()},
			StaticGuardChecker(GuardContext{}), &recordingSink{},
			WithPermanentErrors(errGone))

		_, err := engine.ApplyTransition(ctx, 100, 2, Actor{UserID: 7})
		assert.ErrorIs(t, err, errGone)
		assert.Equal(t, 1, items.updateCalls)
	})
}

func TestEngineGraphCache(t *testing.T) {
	ctx := context.Background()

	defs := &fakeDefs{def: guardedDefinition()}
	items := &fakeItems{item: model.WorkItem{ID: 100, CurrentStatusID: 1, Version: 1}}
	engine := NewEngine(items, defs, &fakeRoles{role: editorRole()},
		StaticGuardChecker(GuardContext{}), &recordingSink{})

	_, err := engine.ApplyTransition(ctx, 100, 2, Actor{UserID: 7})
	require.NoError(t, err)

	// Remove the 2→1 edge and bump UpdatedAt: the cached graph must be
	// rebuilt and the back edge rejected.
	defs.def.Transitions = defs.def.Transitions[:2]
	defs.def.UpdatedAt = defs.def.UpdatedAt.Add(time.Minute)

	_, err = engine.ApplyTransition(ctx, 100, 1, Actor{UserID: 7})
	assert.ErrorIs(t, err, ErrInvalidTransition)
}
