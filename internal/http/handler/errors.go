package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/manideepyelugam/Fairlx-sub016/internal/store"
	"github.com/manideepyelugam/Fairlx-sub016/internal/workflow"
)

// respondError maps domain errors onto the API's uniform error body:
// {"error": <message>, "code": <machine-readable>, ...detail}. Unknown errors
// are logged and rendered as 500 without leaking internals.
func respondError(c *gin.Context, err error) {
	var (
		validationErr *workflow.ValidationError
		guardErr      *workflow.GuardError
	)

	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found", "code": "not_found"})

	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"error": validationErr.Msg,
			"code":  "validation_error",
			"field": validationErr.Field,
		})

	case errors.Is(err, workflow.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied", "code": "permission_denied"})

	case errors.Is(err, workflow.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "no such transition from the current status", "code": "invalid_transition"})

	case errors.As(err, &guardErr):
		c.JSON(http.StatusConflict, gin.H{
			"error":  guardErr.Error(),
			"code":   "guard_failed",
			"guard":  string(guardErr.Kind),
			"reason": guardErr.Reason,
		})

	case errors.Is(err, workflow.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "work item was modified concurrently", "code": "version_conflict"})

	default:
		slog.ErrorContext(c.Request.Context(), "request failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error", "code": "internal"})
	}
}

func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "bad_request"})
}
