package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/manideepyelugam/Fairlx-sub016/internal/model"
	"github.com/manideepyelugam/Fairlx-sub016/internal/service"
)

const (
	SessionCookieName = "fairlx_session"
	SessionIDHeader   = "X-Session-ID"

	currentUserKey = "current_user"
	sessionIDKey   = "session_id"
)

// RequireSession resolves the actor from the X-Session-ID header (preferred)
// or the session cookie, and aborts unauthenticated requests.
func RequireSession(sessions service.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := extractSessionID(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}

		user, err := sessions.Validate(c.Request.Context(), sessionID)
		if err != nil {
			if errors.Is(err, service.ErrSessionExpired) || errors.Is(err, service.ErrUserNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "session expired"})
				return
			}
			slog.ErrorContext(c.Request.Context(), "failed to validate session", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to validate session"})
			return
		}

		c.Set(currentUserKey, user)
		c.Set(sessionIDKey, sessionID)
		c.Next()
	}
}

// CurrentUser returns the authenticated user set by RequireSession.
func CurrentUser(c *gin.Context) (*model.User, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*model.User)
	return user, ok
}

// SessionID returns the validated session id set by RequireSession.
func SessionID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(sessionIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

func extractSessionID(c *gin.Context) (int64, error) {
	if header := c.GetHeader(SessionIDHeader); header != "" {
		return strconv.ParseInt(header, 10, 64)
	}
	cookie, err := c.Cookie(SessionCookieName)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(cookie, 10, 64)
}
