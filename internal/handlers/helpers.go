package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"echo-service/internal/middleware"
	"echo-service/internal/observability"
	"echo-service/internal/telemetry"
)

const requestIDContextKey = "request_id"

func requestIDFromContext(c *gin.Context) string {
	if val, ok := c.Get(requestIDContextKey); ok {
		if id, ok := val.(string); ok && id != "" {
			return id
		}
	}

	requestID := observability.RequestIDFromRequest(c.Request)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Set(requestIDContextKey, requestID)
	return requestID
}

// currentUserID returns the authenticated user id, empty when anonymous.
func currentUserID(c *gin.Context) string {
	return c.GetString(middleware.UserIDKey)
}

func auditUserID(c *gin.Context) *string {
	if id := currentUserID(c); id != "" {
		return &id
	}
	return nil
}

func emitAudit(audit *telemetry.AuditEmitter, c *gin.Context, level, text string) {
	if audit == nil {
		return
	}
	audit.Emit(c.Request.Context(), level, text, requestIDFromContext(c), auditUserID(c))
}
