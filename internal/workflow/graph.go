// Package workflow implements the workflow state machine: the validated
// status graph, permission resolution, transition evaluation and the engine
// that applies transitions against the store.
package workflow

import (
	"fmt"
	"sort"

	"github.com/manideepyelugam/Fairlx-sub016/internal/model"
)

// Graph is the validated shape of one workflow: its statuses and the
// directed, possibly cyclic set of transitions between them. A Graph is
// immutable after BuildGraph and safe for concurrent readers.
type Graph struct {
	statuses map[int64]model.Status
	outgoing map[int64][]model.Transition
	ordered  []model.Status
}

// DefinitionWarning flags a structural oddity that is legal but probably a
// mistake: a status no transition can reach, or one with no way out.
// Surfaced at definition-save time, never enforced per request.
type DefinitionWarning struct {
	Code     string
	Msg      string
	StatusID int64
}

const (
	WarnUnreachable = "unreachable_status"
	WarnDeadEnd     = "dead_end_status"
)

// BuildGraph validates statuses and transitions and returns the graph.
// Duplicate status ids or positions and transitions with endpoints outside
// the status set are rejected with a ValidationError. Cycles are allowed;
// real workflows loop ("In Review" back to "In Progress").
func BuildGraph(statuses []model.Status, transitions []model.Transition) (*Graph, error) {
	if len(statuses) == 0 {
		return nil, &ValidationError{Field: "statuses", Msg: "workflow needs at least one status"}
	}

	byID := make(map[int64]model.Status, len(statuses))
	positions := make(map[int]int64, len(statuses))
	for _, s := range statuses {
		if _, ok := byID[s.ID]; ok {
			return nil, &ValidationError{Field: "statuses", Msg: fmt.Sprintf("duplicate status id %d", s.ID)}
		}
		if prev, ok := positions[s.Position]; ok {
			return nil, &ValidationError{
				Field: "statuses",
				Msg:   fmt.Sprintf("statuses %d and %d share position %d", prev, s.ID, s.Position),
			}
		}
		byID[s.ID] = s
		positions[s.Position] = s.ID
	}

	outgoing := make(map[int64][]model.Transition)
	for _, t := range transitions {
		if _, ok := byID[t.FromStatusID]; !ok {
			return nil, &ValidationError{
				Field: "transitions",
				Msg:   fmt.Sprintf("transition %d references unknown status %d", t.ID, t.FromStatusID),
			}
		}
		if _, ok := byID[t.ToStatusID]; !ok {
			return nil, &ValidationError{
				Field: "transitions",
				Msg:   fmt.Sprintf("transition %d references unknown status %d", t.ID, t.ToStatusID),
			}
		}
		outgoing[t.FromStatusID] = append(outgoing[t.FromStatusID], t)
	}

	ordered := make([]model.Status, len(statuses))
	copy(ordered, statuses)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Position < ordered[j].Position })

	return &Graph{statuses: byID, outgoing: outgoing, ordered: ordered}, nil
}

// Status returns the status with the given id.
func (g *Graph) Status(id int64) (model.Status, bool) {
	s, ok := g.statuses[id]
	return s, ok
}

// Statuses returns all statuses in position order.
func (g *Graph) Statuses() []model.Status {
	return g.ordered
}

// OutgoingTransitions returns every transition leaving the given status.
func (g *Graph) OutgoingTransitions(statusID int64) []model.Transition {
	return g.outgoing[statusID]
}

// EdgesBetween returns every transition from one status to another,
// preserving definition order. A self-loop (from == to) is returned only if
// explicitly defined; there is no implicit self-transition.
func (g *Graph) EdgesBetween(fromID, toID int64) []model.Transition {
	var edges []model.Transition
	for _, t := range g.outgoing[fromID] {
		if t.ToStatusID == toID {
			edges = append(edges, t)
		}
	}
	return edges
}

// IsReachable reports whether a directed path exists from one status to
// another. BFS; intended for admin-time validation, not the request path.
func (g *Graph) IsReachable(fromID, toID int64) bool {
	if _, ok := g.statuses[fromID]; !ok {
		return false
	}
	if fromID == toID {
		return true
	}
	visited := map[int64]bool{fromID: true}
	queue := []int64{fromID}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, t := range g.outgoing[cur] {
			if t.ToStatusID == toID {
				return true
			}
			if !visited[t.ToStatusID] {
				visited[t.ToStatusID] = true
				queue = append(queue, t.ToStatusID)
			}
		}
	}
	return false
}

// Warnings reports unreachable and dead-end statuses. The initial status is
// the one with the lowest position; statuses in the DONE category are
// terminal and may legitimately have no outbound transitions.
func (g *Graph) Warnings() []DefinitionWarning {
	inbound := make(map[int64]int)
	for _, ts := range g.outgoing {
		for _, t := range ts {
			if t.FromStatusID != t.ToStatusID {
				inbound[t.ToStatusID]++
			}
		}
	}

	initialID := g.ordered[0].ID

	var warnings []DefinitionWarning
	for _, s := range g.ordered {
		if s.ID != initialID && inbound[s.ID] == 0 {
			warnings = append(warnings, DefinitionWarning{
				StatusID: s.ID,
				Code:     WarnUnreachable,
				Msg:      fmt.Sprintf("status %q has no inbound transition", s.Name),
			})
		}
		if s.Category != model.StatusCategoryDone && len(g.outgoing[s.ID]) == 0 {
			warnings = append(warnings, DefinitionWarning{
				StatusID: s.ID,
				Code:     WarnDeadEnd,
				Msg:      fmt.Sprintf("status %q has no outbound transition", s.Name),
			})
		}
	}
	return warnings
}
