package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/manideepyelugam/Fairlx-sub016/internal/http/handler"
	"github.com/manideepyelugam/Fairlx-sub016/internal/model"
	"github.com/manideepyelugam/Fairlx-sub016/internal/service"
	"github.com/manideepyelugam/Fairlx-sub016/internal/store"
	"github.com/manideepyelugam/Fairlx-sub016/internal/workflow"
)

type mockWorkflowService struct {
	getFn              func(ctx context.Context, workflowID int64) (*model.WorkflowDefinition, []workflow.DefinitionWarning, error)
	createStatusFn     func(ctx context.Context, workflowID, actorUserID int64, name string, category model.StatusCategory, position int) (*model.Status, []workflow.DefinitionWarning, error)
	updateStatusFn     func(ctx context.Context, workflowID, statusID, actorUserID int64, patch service.StatusPatch) (*model.Status, []workflow.DefinitionWarning, error)
	createTransitionFn func(ctx context.Context, workflowID, actorUserID int64, transition model.Transition) (*model.Transition, []workflow.DefinitionWarning, error)
	updateTransitionFn func(ctx context.Context, workflowID, transitionID, actorUserID int64, patch service.TransitionPatch) (*model.Transition, []workflow.DefinitionWarning, error)
	deleteFn           func(ctx context.Context, workflowID, actorUserID int64) error
}

func (m *mockWorkflowService) Get(ctx context.Context, workflowID int64) (*model.WorkflowDefinition, []workflow.DefinitionWarning, error) {
	if m.getFn != nil {
		return m.getFn(ctx, workflowID)
	}
	return nil, nil, nil
}

func (m *mockWorkflowService) CreateStatus(ctx context.Context, workflowID, actorUserID int64, name string, category model.StatusCategory, position int) (*model.Status, []workflow.DefinitionWarning, error) {
	if m.createStatusFn != nil {
		return m.createStatusFn(ctx, workflowID, actorUserID, name, category, position)
	}
	return nil, nil, nil
}

func (m *mockWorkflowService) UpdateStatus(ctx context.Context, workflowID, statusID, actorUserID int64, patch service.StatusPatch) (*model.Status, []workflow.DefinitionWarning, error) {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, workflowID, statusID, actorUserID, patch)
	}
	return nil, nil, nil
}

func (m *mockWorkflowService) CreateTransition(ctx context.Context, workflowID, actorUserID int64, transition model.Transition) (*model.Transition, []workflow.DefinitionWarning, error) {
	if m.createTransitionFn != nil {
		return m.createTransitionFn(ctx, workflowID, actorUserID, transition)
	}
	return nil, nil, nil
}

func (m *mockWorkflowService) UpdateTransition(ctx context.Context, workflowID, transitionID, actorUserID int64, patch service.TransitionPatch) (*model.Transition, []workflow.DefinitionWarning, error) {
	if m.updateTransitionFn != nil {
		return m.updateTransitionFn(ctx, workflowID, transitionID, actorUserID, patch)
	}
	return nil, nil, nil
}

func (m *mockWorkflowService) Delete(ctx context.Context, workflowID, actorUserID int64) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, workflowID, actorUserID)
	}
	return nil
}

var _ = Describe("WorkflowHandler", func() {
	var (
		router *gin.Engine
		svc    *mockWorkflowService
	)

	BeforeEach(func() {
		router, _ = authedRouter()
		svc = &mockWorkflowService{}
		h := handler.NewWorkflowHandler(svc)
		router.PATCH("/workflows/:workflowID/statuses/:statusID", h.UpdateStatus)
		router.PATCH("/workflows/:workflowID/transitions/:transitionID", h.UpdateTransition)
		router.DELETE("/workflows/:workflowID", h.Delete)
	})

	doJSON := func(method, path string, body any) *httptest.ResponseRecorder {
		payload, _ := json.Marshal(body)
		req := httptest.NewRequest(method, path, bytes.NewBuffer(payload))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Session-ID", "1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("patches a status and returns the definition warnings", func() {
		svc.updateStatusFn = func(_ context.Context, workflowID, statusID, actorUserID int64, patch service.StatusPatch) (*model.Status, []workflow.DefinitionWarning, error) {
			Expect(workflowID).To(Equal(int64(50)))
			Expect(statusID).To(Equal(int64(2)))
			Expect(actorUserID).To(Equal(int64(7)))
			Expect(patch.Name).To(HaveValue(Equal("In Review")))
			Expect(patch.Category).To(BeNil())
			return &model.Status{ID: 2, WorkflowID: 50, Name: "In Review", Category: model.StatusCategoryInProgress, Position: 1},
				[]workflow.DefinitionWarning{{Code: workflow.WarnDeadEnd, Msg: "status has no outbound transition", StatusID: 2}},
				nil
		}

		w := doJSON(http.MethodPatch, "/workflows/50/statuses/2", map[string]any{"name": "In Review"})

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp struct {
			Status   map[string]any   `json:"status"`
			Warnings []map[string]any `json:"warnings"`
		}
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Status["name"]).To(Equal("In Review"))
		Expect(resp.Warnings).To(HaveLen(1))
		Expect(resp.Warnings[0]["code"]).To(Equal(workflow.WarnDeadEnd))
	})

	It("maps an unknown status to 404", func() {
		svc.updateStatusFn = func(_ context.Context, _, _, _ int64, _ service.StatusPatch) (*model.Status, []workflow.DefinitionWarning, error) {
			return nil, nil, store.ErrNotFound
		}

		w := doJSON(http.MethodPatch, "/workflows/50/statuses/999", map[string]any{"name": "x"})
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("maps a duplicate transition to 400 validation_error", func() {
		svc.updateTransitionFn = func(_ context.Context, _, _, _ int64, _ service.TransitionPatch) (*model.Transition, []workflow.DefinitionWarning, error) {
			return nil, nil, &workflow.ValidationError{Field: "transitions", Msg: "a transition with the same endpoints and guard already exists"}
		}

		w := doJSON(http.MethodPatch, "/workflows/50/transitions/11", map[string]any{"to_status_id": "3"})

		Expect(w.Code).To(Equal(http.StatusBadRequest))
		var resp map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["code"]).To(Equal("validation_error"))
		Expect(resp["field"]).To(Equal("transitions"))
	})

	It("patches a transition guard", func() {
		svc.updateTransitionFn = func(_ context.Context, _, transitionID, _ int64, patch service.TransitionPatch) (*model.Transition, []workflow.DefinitionWarning, error) {
			Expect(transitionID).To(Equal(int64(11)))
			Expect(patch.Guard).ToNot(BeNil())
			Expect(patch.Guard.Kind).To(Equal(model.GuardFieldRequired))
			Expect(patch.Guard.Field).To(Equal("assignee"))
			return &model.Transition{ID: 11, WorkflowID: 50, FromStatusID: 2, ToStatusID: 3,
				RequiredPermission: model.PermissionEditTask, Guard: patch.Guard}, nil, nil
		}

		w := doJSON(http.MethodPatch, "/workflows/50/transitions/11", map[string]any{
			"guard": map[string]any{"kind": "FIELD_REQUIRED", "field": "assignee"},
		})

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp struct {
			Transition map[string]any `json:"transition"`
		}
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		guard := resp.Transition["guard"].(map[string]any)
		Expect(guard["kind"]).To(Equal("FIELD_REQUIRED"))
	})

	It("refuses deleting a referenced workflow", func() {
		svc.deleteFn = func(_ context.Context, _, _ int64) error {
			return &workflow.ValidationError{Field: "workflow_id", Msg: "workflow is referenced by 2 project(s)"}
		}

		w := doJSON(http.MethodDelete, "/workflows/50", nil)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("maps an edit by an actor without MANAGE_WORKFLOW to 403", func() {
		svc.updateStatusFn = func(_ context.Context, _, _, _ int64, _ service.StatusPatch) (*model.Status, []workflow.DefinitionWarning, error) {
			return nil, nil, workflow.ErrPermissionDenied
		}

		w := doJSON(http.MethodPatch, "/workflows/50/statuses/2", map[string]any{"name": "x"})

		Expect(w.Code).To(Equal(http.StatusForbidden))
		var resp map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["code"]).To(Equal("permission_denied"))
	})
})
