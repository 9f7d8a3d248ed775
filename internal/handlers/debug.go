package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"echo-service/internal/api"
	"echo-service/internal/repositories"
	"echo-service/internal/telemetry"
)

// RegisterDebugRoutes mounts the local-development surface. Nothing is
// registered unless explicitly enabled.
func RegisterDebugRoutes(router gin.IRouter, audit *telemetry.AuditEmitter, sessions repositories.SessionRepository, users repositories.UserRepository, enabled bool) {
	if !enabled {
		return
	}

	router.POST("/debug/audit-test", func(c *gin.Context) {
		emitAudit(audit, c, "INFO", "audit test event")
		api.Write(c, http.StatusOK, "Audit event emitted", nil)
	})

	// Mints a user and a 24h session so local clients can authenticate
	// without the auth collaborator running.
	router.POST("/debug/mint-session", func(c *gin.Context) {
		var req struct {
			Name  string `json:"name" binding:"required"`
			Email string `json:"email" binding:"required,email"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			api.Write(c, http.StatusBadRequest, err.Error(), nil)
			return
		}

		user, err := users.UpsertByEmail(c.Request.Context(), req.Name, req.Email)
		if err != nil {
			api.Write(c, http.StatusInternalServerError, "Internal server error", nil)
			return
		}

		session, err := sessions.CreateSession(c.Request.Context(), user.ID, 24*time.Hour)
		if err != nil {
			api.Write(c, http.StatusInternalServerError, "Internal server error", nil)
			return
		}

		api.Write(c, http.StatusOK, "Session minted", gin.H{
			"userId": user.ID,
			"token":  session.Token,
		})
	})
}
