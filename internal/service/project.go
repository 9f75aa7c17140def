package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/manideepyelugam/Fairlx-sub016/common"
	"github.com/manideepyelugam/Fairlx-sub016/common/id"
	"github.com/manideepyelugam/Fairlx-sub016/internal/model"
	"github.com/manideepyelugam/Fairlx-sub016/internal/store"
	"github.com/manideepyelugam/Fairlx-sub016/internal/workflow"
)

// SprintInput carries the fields of a new sprint.
type SprintInput struct {
	ProjectID int64
	Name      string
	StartsAt  time.Time
	EndsAt    time.Time
}

// ProjectService owns projects and sprints. Creating a project requires
// MANAGE_PROJECTS in the workspace; creating a sprint requires
// MANAGE_SPRINTS.
type ProjectService interface {
	Create(ctx context.Context, workspaceID, workflowID, actorUserID int64, name string) (*model.Project, error)
	Get(ctx context.Context, projectID int64) (*model.Project, error)
	List(ctx context.Context, workspaceID int64) ([]model.Project, error)
	CreateSprint(ctx context.Context, workspaceID, actorUserID int64, input SprintInput) (*model.Sprint, error)
}

type projectService struct {
	tx store.TxRunner
}

func NewProjectService(tx store.TxRunner) ProjectService {
	return &projectService{tx: tx}
}

func (s *projectService) Create(ctx context.Context, workspaceID, workflowID, actorUserID int64, name string) (*model.Project, error) {
	if name == "" {
		return nil, &workflow.ValidationError{Field: "name", Msg: "project name is required"}
	}

	var project *model.Project
	err := s.tx.WithTx(ctx, func(stores store.Provider) error {
		if err := requirePermission(ctx, stores, actorUserID, workspaceID, model.PermissionManageProjects); err != nil {
			return err
		}
		def, err := stores.Workflows().GetByID(ctx, workflowID)
		if err != nil {
			return fmt.Errorf("loading workflow definition: %w", err)
		}
		if def.WorkspaceID != workspaceID {
			return &workflow.ValidationError{Field: "workflow_id", Msg: "workflow belongs to another workspace"}
		}

		slug, err := ensureProjectSlug(ctx, stores.Projects(), workspaceID, name)
		if err != nil {
			return err
		}

		project = &model.Project{
			ID:          id.New(),
			WorkspaceID: workspaceID,
			WorkflowID:  workflowID,
			Name:        name,
			Slug:        slug,
		}
		return stores.Projects().Create(ctx, project)
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

func (s *projectService) Get(ctx context.Context, projectID int64) (*model.Project, error) {
	var project *model.Project
	err := s.tx.WithTx(ctx, func(stores store.Provider) error {
		var err error
		project, err = stores.Projects().GetByID(ctx, projectID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return project, nil
}

func (s *projectService) List(ctx context.Context, workspaceID int64) ([]model.Project, error) {
	var projects []model.Project
	err := s.tx.WithTx(ctx, func(stores store.Provider) error {
		var err error
		projects, err = stores.Projects().ListByWorkspace(ctx, workspaceID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return projects, nil
}

func (s *projectService) CreateSprint(ctx context.Context, workspaceID, actorUserID int64, input SprintInput) (*model.Sprint, error) {
	if input.Name == "" {
		return nil, &workflow.ValidationError{Field: "name", Msg: "sprint name is required"}
	}
	if !input.EndsAt.After(input.StartsAt) {
		return nil, &workflow.ValidationError{Field: "ends_at", Msg: "sprint must end after it starts"}
	}

	var sprint *model.Sprint
	err := s.tx.WithTx(ctx, func(stores store.Provider) error {
		if err := requirePermission(ctx, stores, actorUserID, workspaceID, model.PermissionManageSprints); err != nil {
			return err
		}
		project, err := stores.Projects().GetByID(ctx, input.ProjectID)
		if err != nil {
			return fmt.Errorf("loading project: %w", err)
		}
		if project.WorkspaceID != workspaceID {
			return store.ErrNotFound
		}
		sprint = &model.Sprint{
			ID:          id.New(),
			WorkspaceID: workspaceID,
			ProjectID:   input.ProjectID,
			Name:        input.Name,
			StartsAt:    input.StartsAt,
			EndsAt:      input.EndsAt,
		}
		return stores.Sprints().Create(ctx, sprint)
	})
	if err != nil {
		return nil, err
	}
	return sprint, nil
}

func ensureProjectSlug(ctx context.Context, projects store.ProjectStore, workspaceID int64, name string) (string, error) {
	base, err := common.Slugify(name, "project")
	if err != nil {
		return "", err
	}

	// Fast path.
	if _, err := projects.GetBySlug(ctx, workspaceID, base); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return base, nil
		}
		return "", err
	}

	// Add numeric suffix until available.
	for i := 1; i <= 20; i++ {
		candidate := fmt.Sprintf("%s-%d", base, i)
		if _, err := projects.GetBySlug(ctx, workspaceID, candidate); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return candidate, nil
			}
			return "", err
		}
	}
	return "", &workflow.ValidationError{Field: "name", Msg: "could not find an available slug"}
}
