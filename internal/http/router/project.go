package router

import (
	"github.com/gin-gonic/gin"

	"github.com/manideepyelugam/Fairlx-sub016/internal/http/handler"
)

func ProjectRouter(rg *gin.RouterGroup, h *handler.ProjectHandler) {
	rg.POST("", h.Create)
	rg.GET("", h.List)
	rg.GET("/:projectID", h.Get)
}

func SprintRouter(rg *gin.RouterGroup, h *handler.ProjectHandler) {
	rg.POST("", h.CreateSprint)
}
