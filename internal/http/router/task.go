package router

import (
	"github.com/gin-gonic/gin"

	"github.com/manideepyelugam/Fairlx-sub016/internal/http/handler"
)

func TaskRouter(rg *gin.RouterGroup, h *handler.TaskHandler) {
	rg.POST("", h.Create)
	rg.GET("/:taskID", h.Get)
	rg.POST("/:taskID/transition", h.Transition)
	rg.POST("/:taskID/subtasks", h.AddSubtask)
	rg.POST("/:taskID/approve", h.Approve)
}

func SubtaskRouter(rg *gin.RouterGroup, h *handler.TaskHandler) {
	rg.PATCH("/:subtaskID", h.SetSubtaskDone)
}
