package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"ziyonstar/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by AuthMiddleware.
const (
	CtxSubject = "subject"
	CtxRole    = "role"
	CtxIsAdmin = "isAdmin"
)

// AuthMiddleware accepts either the static admin token or a signed user/technician JWT.
func AuthMiddleware(tokens *utils.TokenManager, adminToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		if adminToken != "" && subtle.ConstantTimeCompare([]byte(tokenString), []byte(adminToken)) == 1 {
			c.Set(CtxIsAdmin, true)
			c.Set(CtxRole, "admin")
			c.Next()
			return
		}

		claims, err := tokens.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token"})
			return
		}
		c.Set(CtxSubject, claims.Subject)
		c.Set(CtxRole, claims.Role)
		c.Next()
	}
}

// RequireRole admits admins and callers holding one of roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if IsAdmin(c) {
			c.Next()
			return
		}
		role := c.GetString(CtxRole)
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Insufficient permissions"})
	}
}

// RequireAdmin admits only the static admin token.
func RequireAdmin() gin.HandlerFunc {
	return RequireRole()
}

func IsAdmin(c *gin.Context) bool {
	return c.GetBool(CtxIsAdmin)
}

// Subject returns the authenticated user or technician id; empty for admins.
func Subject(c *gin.Context) string {
	return c.GetString(CtxSubject)
}
