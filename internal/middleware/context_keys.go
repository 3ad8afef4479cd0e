package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/qistas/opsflow_backend/internal/core/domain"
)

const (
	userIDKey = contextKey("userID")
	roleKey   = contextKey("role")
)

// GetUserIDFromContext retrieves the authenticated user ID from the request
// context. It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, ok := c.Request.Context().Value(userIDKey).(string)
	return userID, ok
}

// GetRoleFromContext retrieves the authenticated user's workflow role.
func GetRoleFromContext(c *gin.Context) (domain.Role, bool) {
	role, ok := c.Request.Context().Value(roleKey).(domain.Role)
	return role, ok
}
