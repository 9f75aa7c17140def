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
	"github.com/manideepyelugam/Fairlx-sub016/internal/workflow"
)

type mockTaskService struct {
	createFn         func(ctx context.Context, actorUserID int64, input service.TaskInput) (*model.WorkItem, error)
	getFn            func(ctx context.Context, taskID int64) (*model.WorkItem, error)
	transitionFn     func(ctx context.Context, taskID, targetStatusID, actorUserID int64) (*model.WorkItem, error)
	addSubtaskFn     func(ctx context.Context, taskID, actorUserID int64, title string) (*model.Subtask, error)
	setSubtaskDoneFn func(ctx context.Context, subtaskID, actorUserID int64, done bool) error
	approveFn        func(ctx context.Context, taskID, actorUserID int64) (*model.Approval, error)
}

func (m *mockTaskService) Create(ctx context.Context, actorUserID int64, input service.TaskInput) (*model.WorkItem, error) {
	if m.createFn != nil {
		return m.createFn(ctx, actorUserID, input)
	}
	return nil, nil
}

func (m *mockTaskService) Get(ctx context.Context, taskID int64) (*model.WorkItem, error) {
	if m.getFn != nil {
		return m.getFn(ctx, taskID)
	}
	return nil, nil
}

func (m *mockTaskService) Transition(ctx context.Context, taskID, targetStatusID, actorUserID int64) (*model.WorkItem, error) {
	if m.transitionFn != nil {
		return m.transitionFn(ctx, taskID, targetStatusID, actorUserID)
	}
	return nil, nil
}

func (m *mockTaskService) AddSubtask(ctx context.Context, taskID, actorUserID int64, title string) (*model.Subtask, error) {
	if m.addSubtaskFn != nil {
		return m.addSubtaskFn(ctx, taskID, actorUserID, title)
	}
	return nil, nil
}

func (m *mockTaskService) SetSubtaskDone(ctx context.Context, subtaskID, actorUserID int64, done bool) error {
	if m.setSubtaskDoneFn != nil {
		return m.setSubtaskDoneFn(ctx, subtaskID, actorUserID, done)
	}
	return nil
}

func (m *mockTaskService) Approve(ctx context.Context, taskID, actorUserID int64) (*model.Approval, error) {
	if m.approveFn != nil {
		return m.approveFn(ctx, taskID, actorUserID)
	}
	return nil, nil
}

var _ = Describe("TaskHandler", func() {
	var (
		router *gin.Engine
		svc    *mockTaskService
	)

	BeforeEach(func() {
		router, _ = authedRouter()
		svc = &mockTaskService{}
		h := handler.NewTaskHandler(svc)
		router.POST("/tasks/:taskID/transition", h.Transition)
		router.PATCH("/subtasks/:subtaskID", h.SetSubtaskDone)
	})

	transition := func(body map[string]any) *httptest.ResponseRecorder {
		payload, _ := json.Marshal(body)
		req := httptest.NewRequest(http.MethodPost, "/tasks/100/transition", bytes.NewBuffer(payload))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Session-ID", "1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("applies a transition on behalf of the session user", func() {
		svc.transitionFn = func(_ context.Context, taskID, targetStatusID, actorUserID int64) (*model.WorkItem, error) {
			Expect(taskID).To(Equal(int64(100)))
			Expect(targetStatusID).To(Equal(int64(3)))
			Expect(actorUserID).To(Equal(int64(7)))
			return &model.WorkItem{ID: 100, CurrentStatusID: 3, Version: 2}, nil
		}

		w := transition(map[string]any{"target_status_id": "3"})

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["current_status_id"]).To(Equal("3"))
		Expect(resp["version"]).To(Equal(float64(2)))
	})

	It("rejects a missing edge as 409 invalid_transition", func() {
		svc.transitionFn = func(_ context.Context, _, _, _ int64) (*model.WorkItem, error) {
			return nil, workflow.ErrInvalidTransition
		}

		w := transition(map[string]any{"target_status_id": "3"})

		Expect(w.Code).To(Equal(http.StatusConflict))
		var resp map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["code"]).To(Equal("invalid_transition"))
	})

	It("rejects a forbidden edge as 403", func() {
		svc.transitionFn = func(_ context.Context, _, _, _ int64) (*model.WorkItem, error) {
			return nil, workflow.ErrPermissionDenied
		}

		w := transition(map[string]any{"target_status_id": "3"})

		Expect(w.Code).To(Equal(http.StatusForbidden))
		var resp map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["code"]).To(Equal("permission_denied"))
	})

	It("reports an unmet guard with its reason code", func() {
		svc.transitionFn = func(_ context.Context, _, _, _ int64) (*model.WorkItem, error) {
			return nil, &workflow.GuardError{Kind: model.GuardAllSubtasksDone, Reason: workflow.ReasonSubtasksIncomplete}
		}

		w := transition(map[string]any{"target_status_id": "3"})

		Expect(w.Code).To(Equal(http.StatusConflict))
		var resp map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["code"]).To(Equal("guard_failed"))
		Expect(resp["guard"]).To(Equal("ALL_SUBTASKS_DONE"))
		Expect(resp["reason"]).To(Equal("subtasks_incomplete"))
	})

	It("reports a version conflict as 409 version_conflict", func() {
		svc.transitionFn = func(_ context.Context, _, _, _ int64) (*model.WorkItem, error) {
			return nil, workflow.ErrConflict
		}

		w := transition(map[string]any{"target_status_id": "3"})

		Expect(w.Code).To(Equal(http.StatusConflict))
		var resp map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["code"]).To(Equal("version_conflict"))
	})

	It("rejects a body without target_status_id", func() {
		w := transition(map[string]any{})
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("completes a subtask on behalf of the session user", func() {
		svc.setSubtaskDoneFn = func(_ context.Context, subtaskID, actorUserID int64, done bool) error {
			Expect(subtaskID).To(Equal(int64(5)))
			Expect(actorUserID).To(Equal(int64(7)))
			Expect(done).To(BeTrue())
			return nil
		}

		payload, _ := json.Marshal(map[string]any{"done": true})
		req := httptest.NewRequest(http.MethodPatch, "/subtasks/5", bytes.NewBuffer(payload))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Session-ID", "1")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
	})

	It("maps a subtask edit by an outsider to 403", func() {
		svc.setSubtaskDoneFn = func(_ context.Context, _, _ int64, _ bool) error {
			return workflow.ErrPermissionDenied
		}

		payload, _ := json.Marshal(map[string]any{"done": true})
		req := httptest.NewRequest(http.MethodPatch, "/subtasks/5", bytes.NewBuffer(payload))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Session-ID", "1")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusForbidden))
		var resp map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["code"]).To(Equal("permission_denied"))
	})

	It("rejects requests without a session", func() {
		payload, _ := json.Marshal(map[string]any{"target_status_id": "3"})
		req := httptest.NewRequest(http.MethodPost, "/tasks/100/transition", bytes.NewBuffer(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()

		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})
})
