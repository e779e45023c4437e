package middleware

import (
	"net/http"
	"strings"

	"kiosco_pos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware for downstream handlers.
const (
	ContextOperatorID   = "operatorID"
	ContextUsername     = "username"
	ContextOperatorRole = "operatorRole"
)

// AuthMiddleware creates a Gin middleware for JWT authentication.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format. Use Bearer <token>"})
			c.Abort()
			return
		}

		tokenString := parts[1]
		claims, err := utils.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token: " + err.Error()})
			c.Abort()
			return
		}

		// Set operator information in the context for downstream handlers
		c.Set(ContextOperatorID, claims.OperatorID)
		c.Set(ContextUsername, claims.Username)
		c.Set(ContextOperatorRole, claims.Role)

		c.Next()
	}
}

// RoleAuthMiddleware creates a Gin middleware for role-based authorization.
// It checks if the operator role (from JWT claims) is one of the allowed roles.
func RoleAuthMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		operatorRole, exists := c.Get(ContextOperatorRole)
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{"error": "Operator role not found in token claims. Ensure AuthMiddleware runs first."})
			c.Abort()
			return
		}

		roleStr, ok := operatorRole.(string)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Operator role in token is not a string"})
			c.Abort()
			return
		}

		allowed := false
		for _, r := range allowedRoles {
			if strings.EqualFold(roleStr, r) {
				allowed = true
				break
			}
		}

		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource. Required roles: " + strings.Join(allowedRoles, ", ")})
			c.Abort()
			return
		}

		c.Next()
	}
}
