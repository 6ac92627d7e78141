package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/tractstack-featured/internal/application/services"
)

// AdminCookieName holds the admin session token
const AdminCookieName = "admin_auth"

// AdminToken extracts the session token from the cookie or a Bearer header
func AdminToken(c *gin.Context) string {
	if cookie, err := c.Cookie(AdminCookieName); err == nil && cookie != "" {
		return cookie
	}
	authHeader := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(authHeader, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// RequireAdmin rejects requests without a valid admin session. JSON routes
// get 401; HTML routes are redirected to loginPath when it is set.
func RequireAdmin(authService *services.AuthService, loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authService.ValidateAdminToken(AdminToken(c)) {
			c.Next()
			return
		}
		if loginPath != "" {
			c.Redirect(http.StatusSeeOther, loginPath)
			c.Abort()
			return
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "admin authentication required"})
	}
}
