package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/manideepyelugam/Fairlx-sub016/internal/http/middleware"
	"github.com/manideepyelugam/Fairlx-sub016/internal/service"
)

// AuthHandler consumes session identity. Session issuance lives in the
// external identity service; this server only validates and revokes.
type AuthHandler struct {
	sessions     service.SessionService
	isProduction bool
}

func NewAuthHandler(sessions service.SessionService, isProduction bool) *AuthHandler {
	return &AuthHandler{sessions: sessions, isProduction: isProduction}
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":         strconv.FormatInt(user.ID, 10),
		"name":       user.Name,
		"email":      user.Email,
		"avatar_url": user.AvatarURL,
	})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := c.Request.Context()

	if sessionID, ok := middleware.SessionID(c); ok {
		if err := h.sessions.Logout(ctx, sessionID); err != nil {
			slog.WarnContext(ctx, "failed to delete session", "error", err, "session_id", sessionID)
		}
	}

	h.clearSessionCookie(c)

	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	c.SetCookie(
		middleware.SessionCookieName,
		"",
		-1,
		"/",
		"",
		h.isProduction,
		true,
	)
}
