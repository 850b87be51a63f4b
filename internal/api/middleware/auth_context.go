package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const userIDKey = "user_id"

// RequestContextMiddleware stores the caller's user ID in the Gin context.
// Authentication itself is an external collaborator (spec §6): this
// middleware only trusts the already-authenticated identity the upstream
// gateway or auth layer attaches as X-User-Id, and rejects a request that
// arrives without one.
func RequestContextMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("X-User-Id")
		userID, err := uuid.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid X-User-Id header"})
			return
		}
		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserID retrieves the authenticated caller's user ID set by
// RequestContextMiddleware.
func UserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(userIDKey)
	if !exists {
		return uuid.UUID{}, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
