package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/manideepyelugam/Fairlx-sub016/internal/model"
)

// GuardChecker evaluates a transition guard against live work-item state.
// A nil error means the guard is satisfied; an unmet precondition is a
// *GuardError; anything else is an I/O failure.
type GuardChecker interface {
	Check(ctx context.Context, item model.WorkItem, guard model.Guard) error
}

// GuardContext is a snapshot of the sub-entity state a guard may consult.
type GuardContext struct {
	FieldValues        map[string]string
	ApprovedRoleIDs    map[int64]bool
	IncompleteSubtasks int
}

// EvaluateGuard checks a guard against a pre-loaded snapshot. The guard kind
// set is closed; an unknown kind is a definition bug, not a guard failure.
func EvaluateGuard(guard model.Guard, gc GuardContext) error {
	switch guard.Kind {
	case model.GuardAllSubtasksDone:
		if gc.IncompleteSubtasks > 0 {
			return &GuardError{Kind: guard.Kind, Reason: ReasonSubtasksIncomplete}
		}
		return nil
	case model.GuardFieldRequired:
		if strings.TrimSpace(gc.FieldValues[guard.Field]) == "" {
			return &GuardError{Kind: guard.Kind, Reason: fmt.Sprintf("%s:%s", ReasonFieldMissing, guard.Field)}
		}
		return nil
	case model.GuardRoleApproval:
		if !gc.ApprovedRoleIDs[guard.RoleID] {
			return &GuardError{Kind: guard.Kind, Reason: ReasonApprovalMissing}
		}
		return nil
	default:
		return fmt.Errorf("unknown guard kind %q", guard.Kind)
	}
}

// GuardCheckerFunc adapts a function to the GuardChecker interface.
type GuardCheckerFunc func(ctx context.Context, item model.WorkItem, guard model.Guard) error

func (f GuardCheckerFunc) Check(ctx context.Context, item model.WorkItem, guard model.Guard) error {
	return f(ctx, item, guard)
}

// StaticGuardChecker evaluates guards against a fixed snapshot. Used in
// tests and anywhere the caller has already loaded the sub-entity state.
func StaticGuardChecker(gc GuardContext) GuardChecker {
	return GuardCheckerFunc(func(_ context.Context, _ model.WorkItem, guard model.Guard) error {
		return EvaluateGuard(guard, gc)
	})
}
