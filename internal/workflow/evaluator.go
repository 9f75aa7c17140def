package workflow

import (
	"context"
	"errors"

	"github.com/manideepyelugam/Fairlx-sub016/internal/model"
)

// Evaluation is an accepted transition together with the statuses it moves
// between, for audit logging.
type Evaluation struct {
	Transition model.Transition
	From       model.Status
	To         model.Status
}

// Evaluate decides whether moving the work item to the target status is
// legal. The checks run in order:
//
//  1. edge lookup — no edge between current and target is ErrInvalidTransition
//  2. permission gate — the first edge whose required permission the actor
//     holds is selected; none matching is ErrPermissionDenied
//  3. guard — an unmet guard on the selected edge is a *GuardError
//
// A self-transition is legal only through an explicit self-loop edge.
func Evaluate(
	ctx context.Context,
	graph *Graph,
	item model.WorkItem,
	targetStatusID int64,
	perms PermissionSet,
	guards GuardChecker,
) (*Evaluation, error) {
	from, ok := graph.Status(item.CurrentStatusID)
	if !ok {
		return nil, ErrInvalidTransition
	}
	to, ok := graph.Status(targetStatusID)
	if !ok {
		return nil, ErrInvalidTransition
	}

	edges := graph.EdgesBetween(item.CurrentStatusID, targetStatusID)
	if len(edges) == 0 {
		return nil, ErrInvalidTransition
	}

	var selected *model.Transition
	for i := range edges {
		if perms.Has(edges[i].RequiredPermission) {
			selected = &edges[i]
			break
		}
	}
	if selected == nil {
		return nil, ErrPermissionDenied
	}

	if selected.Guard != nil {
		if err := guards.Check(ctx, item, *selected.Guard); err != nil {
			var guardErr *GuardError
			if errors.As(err, &guardErr) {
				return nil, guardErr
			}
			return nil, err
		}
	}

	return &Evaluation{Transition: *selected, From: from, To: to}, nil
}
