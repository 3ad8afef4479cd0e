package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qistas/opsflow_backend/internal/core/domain"
)

// RequireRole aborts with 403 unless the authenticated user holds one of the
// allowed workflow roles. It must run after AuthMiddleware.
func RequireRole(allowed ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetRoleFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		for _, a := range allowed {
			if role == a {
				c.Next()
				return
			}
		}
		GetLoggerFromCtx(c.Request.Context()).Warn("Role not permitted for route", "role", string(role))
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Role not permitted for this action"})
	}
}
