package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vendormart/vendormart-api/internal/auth"
)

// Context keys set by Authenticate and read by handlers.
const (
	CtxUserID   = "userID"
	CtxVendorID = "vendorID"
	CtxUserRole = "userRole"
	CtxEmail    = "userEmail"
)

// Authenticate validates the Bearer token and loads the caller's
// identity into the gin context. The role travels in the token, so no
// DB round trip is needed here.
func Authenticate(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format (must be Bearer)"})
			c.Abort()
			return
		}

		claims, err := auth.ValidateToken(secret, parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxVendorID, claims.VendorID)
		c.Set(CtxUserRole, claims.Role)
		c.Set(CtxEmail, claims.Email)
		c.Next()
	}
}

// AuthorizeRoles allows the request through only when the caller's role
// is in the allow-list. Must run after Authenticate.
func AuthorizeRoles(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *gin.Context) {
		role := c.GetString(CtxUserRole)
		if role == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Role not found in context (Authenticate must run first)"})
			c.Abort()
			return
		}
		if !allowed[role] {
			c.JSON(http.StatusForbidden, gin.H{"error": "Access denied: insufficient role"})
			c.Abort()
			return
		}
		c.Next()
	}
}
