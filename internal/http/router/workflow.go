package router

import (
	"github.com/gin-gonic/gin"

	"github.com/manideepyelugam/Fairlx-sub016/internal/http/handler"
)

func WorkflowRouter(rg *gin.RouterGroup, h *handler.WorkflowHandler) {
	rg.GET("/:workflowID", h.Get)
	rg.DELETE("/:workflowID", h.Delete)

	rg.POST("/:workflowID/statuses", h.CreateStatus)
	rg.PATCH("/:workflowID/statuses/:statusID", h.UpdateStatus)

	rg.POST("/:workflowID/transitions", h.CreateTransition)
	rg.PATCH("/:workflowID/transitions/:transitionID", h.UpdateTransition)
}
