package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/manideepyelugam/Fairlx-sub016/internal/http/dto"
	"github.com/manideepyelugam/Fairlx-sub016/internal/http/middleware"
	"github.com/manideepyelugam/Fairlx-sub016/internal/myspace"
	"github.com/manideepyelugam/Fairlx-sub016/internal/service"
)

// MySpaceHandler serves the cross-workspace "my" views. These reads never
// fail on a single broken workspace: the response carries partial=true and
// the excluded workspace ids instead.
type MySpaceHandler struct {
	mySpace service.MySpaceService
}

func NewMySpaceHandler(mySpace service.MySpaceService) *MySpaceHandler {
	return &MySpaceHandler{mySpace: mySpace}
}

func (h *MySpaceHandler) Items(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	res, err := h.mySpace.Items(c.Request.Context(), user.ID, queryFromRequest(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAggregatedResponse(res, dto.ToTaskResponses))
}

func (h *MySpaceHandler) Projects(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	res, err := h.mySpace.Projects(c.Request.Context(), user.ID, queryFromRequest(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAggregatedResponse(res, dto.ToProjectResponses))
}

func (h *MySpaceHandler) Sprints(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	res, err := h.mySpace.Sprints(c.Request.Context(), user.ID, queryFromRequest(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAggregatedResponse(res, dto.ToSprintResponses))
}

func queryFromRequest(c *gin.Context) myspace.Query {
	return myspace.Query{
		Sort: myspace.SortKey(c.Query("sort")),
		Tier: myspace.Tier(c.Query("tier")),
	}
}
