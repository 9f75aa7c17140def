package service

import (
	"context"
	"time"

	"github.com/manideepyelugam/Fairlx-sub016/internal/model"
	"github.com/manideepyelugam/Fairlx-sub016/internal/myspace"
	"github.com/manideepyelugam/Fairlx-sub016/internal/store"
)

// MySpaceService serves the cross-workspace "my" views. Reads are always
// served, possibly partial; a broken workspace never blanks the page.
type MySpaceService interface {
	Items(ctx context.Context, userID int64, q myspace.Query) (myspace.Result[model.WorkItem], error)
	Projects(ctx context.Context, userID int64, q myspace.Query) (myspace.Result[model.Project], error)
	Sprints(ctx context.Context, userID int64, q myspace.Query) (myspace.Result[model.Sprint], error)
}

type mySpaceService struct {
	index *myspace.Index
}

func NewMySpaceService(stores store.Provider, shardTimeout time.Duration) MySpaceService {
	index := myspace.NewIndex(
		&membershipSource{workspaces: stores.Workspaces()},
		stores.WorkItems(),
		stores.Projects(),
		stores.Sprints(),
		shardTimeout,
	)
	return &mySpaceService{index: index}
}

func (s *mySpaceService) Items(ctx context.Context, userID int64, q myspace.Query) (myspace.Result[model.WorkItem], error) {
	return s.index.ItemsForUser(ctx, userID, q)
}

func (s *mySpaceService) Projects(ctx context.Context, userID int64, q myspace.Query) (myspace.Result[model.Project], error) {
	return s.index.ProjectsForUser(ctx, userID, q)
}

func (s *mySpaceService) Sprints(ctx context.Context, userID int64, q myspace.Query) (myspace.Result[model.Sprint], error) {
	return s.index.SprintsForUser(ctx, userID, q)
}

type membershipSource struct {
	workspaces store.WorkspaceStore
}

func (a *membershipSource) WorkspacesForUser(ctx context.Context, userID int64) ([]model.Workspace, error) {
	return a.workspaces.ListByUser(ctx, userID)
}
