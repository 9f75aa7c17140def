package service

import (
	"context"
	"log/slog"
	"sync"

	"github.com/manideepyelugam/Fairlx-sub016/internal/model"
)

// TransitionListener is notified after a work-item transition commits. The
// external activity log and caching layers subscribe through this.
type TransitionListener interface {
	TransitionApplied(ctx context.Context, ev model.TransitionEvent)
}

// DefinitionListener is notified after a workflow definition edit commits.
type DefinitionListener interface {
	DefinitionChanged(ctx context.Context, ev model.DefinitionChangedEvent)
}

// EventBus fans change events out to in-process subscribers. Delivery is
// synchronous and best-effort; subscribers must not block.
type EventBus struct {
	mu          sync.RWMutex
	transitions []TransitionListener
	definitions []DefinitionListener
}

func NewEventBus() *EventBus {
	return &EventBus{}
}

func (b *EventBus) SubscribeTransitions(l TransitionListener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.transitions = append(b.transitions, l)
}

func (b *EventBus) SubscribeDefinitions(l DefinitionListener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.definitions = append(b.definitions, l)
}

// TransitionApplied implements workflow.EventSink.
func (b *EventBus) TransitionApplied(ctx context.Context, ev model.TransitionEvent) {
	b.mu.RLock()
	listeners := b.transitions
	b.mu.RUnlock()
	for _, l := range listeners {
		l.TransitionApplied(ctx, ev)
	}
}

func (b *EventBus) DefinitionChanged(ctx context.Context, ev model.DefinitionChangedEvent) {
	b.mu.RLock()
	listeners := b.definitions
	b.mu.RUnlock()
	for _, l := range listeners {
		l.DefinitionChanged(ctx, ev)
	}
}

// TransitionListenerFunc adapts a function to TransitionListener.
type TransitionListenerFunc func(ctx context.Context, ev model.TransitionEvent)

func (f TransitionListenerFunc) TransitionApplied(ctx context.Context, ev model.TransitionEvent) {
	f(ctx, ev)
}

// DefinitionListenerFunc adapts a function to DefinitionListener.
type DefinitionListenerFunc func(ctx context.Context, ev model.DefinitionChangedEvent)

func (f DefinitionListenerFunc) DefinitionChanged(ctx context.Context, ev model.DefinitionChangedEvent) {
	f(ctx, ev)
}

// LoggingActivitySink stands in for the external activity-log collaborator:
// every transition event is written to the structured log.
type LoggingActivitySink struct{}

func (LoggingActivitySink) TransitionApplied(ctx context.Context, ev model.TransitionEvent) {
	slog.InfoContext(ctx, "activity: work item transitioned",
		"work_item_id", ev.WorkItemID,
		"workspace_id", ev.WorkspaceID,
		"from_status_id", ev.FromStatusID,
		"to_status_id", ev.ToStatusID,
		"actor_id", ev.ActorID,
	)
}
