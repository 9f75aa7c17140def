package workflow

import (
	"errors"
	"fmt"

	"github.com/manideepyelugam/Fairlx-sub016/internal/model"
)

var (
	// ErrInvalidTransition means no edge connects the work item's current
	// status to the requested one.
	ErrInvalidTransition = errors.New("no transition between statuses")

	// ErrPermissionDenied means an edge exists but the actor holds none of
	// the permissions it requires. Deliberately distinct from
	// ErrInvalidTransition so callers can report why the move failed rather
	// than pretending the edge does not exist.
	ErrPermissionDenied = errors.New("permission denied for transition")

	// ErrConflict means the work item's version changed between read and
	// write. The caller must re-fetch and decide again; the engine never
	// retries a conflict on its own.
	ErrConflict = errors.New("work item version conflict")
)

// Guard reason codes carried by GuardError.
const (
	ReasonSubtasksIncomplete = "subtasks_incomplete"
	ReasonFieldMissing       = "field_missing"
	ReasonApprovalMissing    = "approval_missing"
)

// GuardError reports a transition whose edge exists and whose permission
// check passed, but whose guard precondition is unmet.
type GuardError struct {
	Kind   model.GuardKind
	Reason string
}

func (e *GuardError) Error() string {
	return fmt.Sprintf("guard %s not satisfied: %s", e.Kind, e.Reason)
}

// ValidationError reports a malformed workflow-definition or role edit. It is
// only ever produced at definition-save time, never mid-transition.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}
