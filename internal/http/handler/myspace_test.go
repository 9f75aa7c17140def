package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/manideepyelugam/Fairlx-sub016/internal/http/handler"
	"github.com/manideepyelugam/Fairlx-sub016/internal/model"
	"github.com/manideepyelugam/Fairlx-sub016/internal/myspace"
)

type mockMySpaceService struct {
	itemsFn    func(ctx context.Context, userID int64, q myspace.Query) (myspace.Result[model.WorkItem], error)
	projectsFn func(ctx context.Context, userID int64, q myspace.Query) (myspace.Result[model.Project], error)
	sprintsFn  func(ctx context.Context, userID int64, q myspace.Query) (myspace.Result[model.Sprint], error)
}

func (m *mockMySpaceService) Items(ctx context.Context, userID int64, q myspace.Query) (myspace.Result[model.WorkItem], error) {
	if m.itemsFn != nil {
		return m.itemsFn(ctx, userID, q)
	}
	return myspace.Result[model.WorkItem]{}, nil
}

func (m *mockMySpaceService) Projects(ctx context.Context, userID int64, q myspace.Query) (myspace.Result[model.Project], error) {
	if m.projectsFn != nil {
		return m.projectsFn(ctx, userID, q)
	}
	return myspace.Result[model.Project]{}, nil
}

func (m *mockMySpaceService) Sprints(ctx context.Context, userID int64, q myspace.Query) (myspace.Result[model.Sprint], error) {
	if m.sprintsFn != nil {
		return m.sprintsFn(ctx, userID, q)
	}
	return myspace.Result[model.Sprint]{}, nil
}

var _ = Describe("MySpaceHandler", func() {
	var (
		router *gin.Engine
		svc    *mockMySpaceService
	)

	BeforeEach(func() {
		router, _ = authedRouter()
		svc = &mockMySpaceService{}
		h := handler.NewMySpaceHandler(svc)
		router.GET("/my/items", h.Items)
		router.GET("/my/projects", h.Projects)
	})

	get := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("X-Session-ID", "1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("returns the session user's items", func() {
		svc.itemsFn = func(_ context.Context, userID int64, _ myspace.Query) (myspace.Result[model.WorkItem], error) {
			Expect(userID).To(Equal(int64(7)))
			return myspace.Result[model.WorkItem]{
				Records: []model.WorkItem{{ID: 100, WorkspaceID: 1}},
				Tier:    myspace.TierDynamic,
			}, nil
		}

		w := get("/my/items")

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["partial"]).To(BeFalse())
		Expect(resp["tier"]).To(Equal("DYNAMIC"))
		Expect(resp["max_age_seconds"]).To(Equal(float64(10)))
		Expect(resp["records"]).To(HaveLen(1))
	})

	It("forwards the sort and tier query knobs", func() {
		svc.itemsFn = func(_ context.Context, _ int64, q myspace.Query) (myspace.Result[model.WorkItem], error) {
			Expect(q.Sort).To(Equal(myspace.SortCreatedDesc))
			Expect(q.Tier).To(Equal(myspace.TierSemiDynamic))
			return myspace.Result[model.WorkItem]{Tier: myspace.TierSemiDynamic}, nil
		}

		w := get("/my/items?sort=created_at&tier=SEMI_DYNAMIC")
		Expect(w.Code).To(Equal(http.StatusOK))
	})

	It("serves a partial result as 200 with the excluded workspaces", func() {
		svc.itemsFn = func(_ context.Context, _ int64, _ myspace.Query) (myspace.Result[model.WorkItem], error) {
			return myspace.Result[model.WorkItem]{
				Records:            []model.WorkItem{{ID: 100, WorkspaceID: 1}, {ID: 101, WorkspaceID: 1}},
				ExcludedWorkspaces: []int64{2},
				Tier:               myspace.TierDynamic,
				Partial:            true,
			}, nil
		}

		w := get("/my/items")

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp map[string]any
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp["partial"]).To(BeTrue())
		Expect(resp["excluded_workspaces"]).To(ConsistOf("2"))
		Expect(resp["records"]).To(HaveLen(2))
	})

	It("returns an empty record list, not null", func() {
		svc.projectsFn = func(_ context.Context, _ int64, _ myspace.Query) (myspace.Result[model.Project], error) {
			return myspace.Result[model.Project]{Tier: myspace.TierStatic}, nil
		}

		w := get("/my/projects")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"records":[]`))
	})

	It("rejects requests without a session", func() {
		req := httptest.NewRequest(http.MethodGet, "/my/items", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})
})
