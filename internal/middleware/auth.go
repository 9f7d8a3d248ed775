package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"echo-service/internal/api"
	"echo-service/internal/repositories"
)

// Context keys set by the auth middleware.
const (
	UserIDKey = "userID"
	UserKey   = "user"
)

// Auth resolves the Authorization header against the session store and
// injects the caller identity into the request context.
func Auth(sessions repositories.SessionRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			api.Abort(c, http.StatusUnauthorized, "Unauthorized access")
			return
		}

		user, _, err := sessions.ResolveToken(c.Request.Context(), token)
		if err != nil {
			api.Abort(c, http.StatusUnauthorized, "Unauthorized access")
			return
		}

		c.Set(UserIDKey, user.ID)
		c.Set(UserKey, user)
		c.Next()
	}
}

// OptionalAuth resolves the caller identity when a valid token is
// present but never rejects the request.
func OptionalAuth(sessions repositories.SessionRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if user, _, err := sessions.ResolveToken(c.Request.Context(), token); err == nil {
				c.Set(UserIDKey, user.ID)
				c.Set(UserKey, user)
			}
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
