package router

import (
	"github.com/gin-gonic/gin"

	"github.com/manideepyelugam/Fairlx-sub016/internal/http/handler"
)

func MySpaceRouter(rg *gin.RouterGroup, h *handler.MySpaceHandler) {
	rg.GET("/items", h.Items)
	rg.GET("/projects", h.Projects)
	rg.GET("/sprints", h.Sprints)
}
