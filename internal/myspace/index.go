// Package myspace consolidates a user's work items, projects and sprints
// across every workspace they belong to.
package myspace

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/manideepyelugam/Fairlx-sub016/internal/model"
)

// Tier is the caller-selected freshness class of an aggregated read. It only
// parameterizes the caching layer's acceptable staleness window; the index
// itself always reads through.
type Tier string

const (
	TierStatic      Tier = "STATIC"       // slow-changing, e.g. project lists
	TierSemiDynamic Tier = "SEMI_DYNAMIC" // membership-shaped data
	TierDynamic     Tier = "DYNAMIC"      // work items
)

// MaxAge is the staleness window advertised to caching layers.
func (t Tier) MaxAge() time.Duration {
	switch t {
	case TierStatic:
		return 5 * time.Minute
	case TierSemiDynamic:
		return time.Minute
	default:
		return 10 * time.Second
	}
}

// SortKey orders merged results. UpdatedDesc is the default.
type SortKey string

const (
	SortUpdatedDesc SortKey = "updated_at"
	SortCreatedDesc SortKey = "created_at"
)

// Result is an aggregated, possibly partial result set. A failed or
// timed-out workspace shard never fails the whole read: it is omitted,
// Partial is set and the workspace id is listed in ExcludedWorkspaces.
type Result[T any] struct {
	Records            []T
	ExcludedWorkspaces []int64
	Tier               Tier
	Partial            bool
}

// Query carries the caller-supplied knobs of one aggregated read.
type Query struct {
	Sort SortKey
	Tier Tier
}

type MembershipSource interface {
	WorkspacesForUser(ctx context.Context, userID int64) ([]model.Workspace, error)
}

type ItemSource interface {
	ListByAssignee(ctx context.Context, workspaceID, userID int64) ([]model.WorkItem, error)
}

type ProjectSource interface {
	ListByWorkspace(ctx context.Context, workspaceID int64) ([]model.Project, error)
}

type SprintSource interface {
	ListByWorkspace(ctx context.Context, workspaceID int64) ([]model.Sprint, error)
}

// Index fans one query per membership workspace out concurrently and merges
// the shards. For a PERSONAL account the fan-out degenerates to a single
// workspace.
type Index struct {
	memberships  MembershipSource
	items        ItemSource
	projects     ProjectSource
	sprints      SprintSource
	shardTimeout time.Duration
	concurrency  int
}

func NewIndex(memberships MembershipSource, items ItemSource, projects ProjectSource, sprints SprintSource, shardTimeout time.Duration) *Index {
	if shardTimeout <= 0 {
		shardTimeout = 2 * time.Second
	}
	return &Index{
		memberships:  memberships,
		items:        items,
		projects:     projects,
		sprints:      sprints,
		shardTimeout: shardTimeout,
		concurrency:  8,
	}
}

// ItemsForUser returns the work items assigned to the user across all their
// workspaces.
func (ix *Index) ItemsForUser(ctx context.Context, userID int64, q Query) (Result[model.WorkItem], error) {
	q = q.withDefaults(TierDynamic)
	res, err := fanOut(ctx, ix, userID, q, func(ctx context.Context, wsID int64) ([]model.WorkItem, error) {
		return ix.items.ListByAssignee(ctx, wsID, userID)
	})
	if err != nil {
		return Result[model.WorkItem]{}, err
	}
	sortRecords(res.Records, q.Sort,
		func(it model.WorkItem) time.Time { return it.UpdatedAt },
		func(it model.WorkItem) time.Time { return it.CreatedAt },
	)
	return res, nil
}

// ProjectsForUser returns every project in the user's workspaces.
func (ix *Index) ProjectsForUser(ctx context.Context, userID int64, q Query) (Result[model.Project], error) {
	q = q.withDefaults(TierStatic)
	res, err := fanOut(ctx, ix, userID, q, func(ctx context.Context, wsID int64) ([]model.Project, error) {
		return ix.projects.ListByWorkspace(ctx, wsID)
	})
	if err != nil {
		return Result[model.Project]{}, err
	}
	sortRecords(res.Records, q.Sort,
		func(p model.Project) time.Time { return p.UpdatedAt },
		func(p model.Project) time.Time { return p.CreatedAt },
	)
	return res, nil
}

// SprintsForUser returns every sprint in the user's workspaces.
func (ix *Index) SprintsForUser(ctx context.Context, userID int64, q Query) (Result[model.Sprint], error) {
	q = q.withDefaults(TierSemiDynamic)
	res, err := fanOut(ctx, ix, userID, q, func(ctx context.Context, wsID int64) ([]model.Sprint, error) {
		return ix.sprints.ListByWorkspace(ctx, wsID)
	})
	if err != nil {
		return Result[model.Sprint]{}, err
	}
	sortRecords(res.Records, q.Sort,
		func(s model.Sprint) time.Time { return s.UpdatedAt },
		func(s model.Sprint) time.Time { return s.CreatedAt },
	)
	return res, nil
}

func (q Query) withDefaults(tier Tier) Query {
	if q.Sort == "" {
		q.Sort = SortUpdatedDesc
	}
	if q.Tier == "" {
		q.Tier = tier
	}
	return q
}

// fanOut resolves the user's workspaces and queries each shard concurrently
// under its own timeout. The membership lookup itself failing is the only
// hard error; shard failures degrade to a partial result.
func fanOut[T any](
	ctx context.Context,
	ix *Index,
	userID int64,
	q Query,
	query func(ctx context.Context, workspaceID int64) ([]T, error),
) (Result[T], error) {
	workspaces, err := ix.memberships.WorkspacesForUser(ctx, userID)
	if err != nil {
		return Result[T]{}, err
	}

	shards := make([][]T, len(workspaces))
	shardErrs := make([]error, len(workspaces))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(ix.concurrency)
	for i, ws := range workspaces {
		g.Go(func() error {
			shardCtx, cancel := context.WithTimeout(gctx, ix.shardTimeout)
			defer cancel()
			shards[i], shardErrs[i] = query(shardCtx, ws.ID)
			return nil
		})
	}
	// Shard closures never return an error, so Wait only propagates ctx
	// cancellation of the parent.
	if err := g.Wait(); err != nil {
		return Result[T]{}, err
	}

	res := Result[T]{Tier: q.Tier}
	for i, ws := range workspaces {
		if shardErrs[i] != nil {
			slog.WarnContext(ctx, "aggregation shard failed",
				"workspace_id", ws.ID,
				"user_id", userID,
				"error", shardErrs[i],
			)
			res.Partial = true
			res.ExcludedWorkspaces = append(res.ExcludedWorkspaces, ws.ID)
			continue
		}
		res.Records = append(res.Records, shards[i]...)
	}
	return res, nil
}

func sortRecords[T any](records []T, key SortKey, updated, created func(T) time.Time) {
	ts := updated
	if key == SortCreatedDesc {
		ts = created
	}
	sort.SliceStable(records, func(i, j int) bool {
		return ts(records[i]).After(ts(records[j]))
	})
}
