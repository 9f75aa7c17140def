package router

import (
	"github.com/gin-gonic/gin"

	"github.com/manideepyelugam/Fairlx-sub016/internal/http/handler"
	"github.com/manideepyelugam/Fairlx-sub016/internal/http/middleware"
	"github.com/manideepyelugam/Fairlx-sub016/internal/service"
)

func AuthRouter(rg *gin.RouterGroup, h *handler.AuthHandler, sessions service.SessionService) {
	rg.GET("/me", middleware.RequireSession(sessions), h.Me)
	rg.POST("/logout", middleware.RequireSession(sessions), h.Logout)
}
