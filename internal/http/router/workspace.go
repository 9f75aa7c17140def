package router

import (
	"github.com/gin-gonic/gin"

	"github.com/manideepyelugam/Fairlx-sub016/internal/http/handler"
)

func WorkspaceRouter(rg *gin.RouterGroup, h *handler.WorkspaceHandler, roles *handler.RoleHandler) {
	rg.POST("", h.Create)
	rg.GET("/:workspaceID", h.Get)

	rg.GET("/:workspaceID/roles", roles.List)
	rg.POST("/:workspaceID/roles", roles.Create)
	rg.PUT("/:workspaceID/roles/:roleID", roles.Update)
	rg.POST("/:workspaceID/roles/:roleID/default", roles.SetDefault)
	rg.DELETE("/:workspaceID/roles/:roleID", roles.Delete)
}
