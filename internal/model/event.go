package model

import "time"

// TransitionEvent is emitted after a work item's status change commits. It
// feeds the My Space aggregation cache and the external activity log.
type TransitionEvent struct {
	OccurredAt   time.Time
	WorkItemID   int64
	WorkspaceID  int64
	FromStatusID int64
	ToStatusID   int64
	ActorID      int64
}

// DefinitionChangedEvent is emitted when a workflow definition's statuses or
// transitions are edited, so caching layers can drop derived state.
type DefinitionChangedEvent struct {
	OccurredAt  time.Time
	WorkspaceID int64
	WorkflowID  int64
}
