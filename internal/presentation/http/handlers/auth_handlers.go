package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/tractstack-featured/internal/application/services"
	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/observability/performance"
	"github.com/AtRiskMedia/tractstack-featured/internal/presentation/http/middleware"
)

// LoginRequest is the admin login body
type LoginRequest struct {
	Password string `json:"password" form:"password" binding:"required"`
}

// AuthHandlers contains all authentication-related HTTP handlers
type AuthHandlers struct {
	authService   *services.AuthService
	secureCookies bool
	logger        *logging.ChanneledLogger
	perfTracker   *performance.Tracker
}

func NewAuthHandlers(authService *services.AuthService, secureCookies bool, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *AuthHandlers {
	return &AuthHandlers{
		authService:   authService,
		secureCookies: secureCookies,
		logger:        logger,
		perfTracker:   perfTracker,
	}
}

// PostLogin handles POST /api/v1/auth/login
func (h *AuthHandlers) PostLogin(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("post_login_request")
	defer marker.Complete()

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result := h.authService.AuthenticateAdmin(req.Password)
	if !result.Success {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": result.Error})
		return
	}

	h.setAuthCookie(c, result.Token)
	marker.SetSuccess(true)
	h.logger.Perf().Info("Performance for PostLogin request", "duration", time.Since(start), "success", true)

	c.JSON(http.StatusOK, gin.H{"success": true, "role": result.Role, "token": result.Token})
}

// PostLogout handles POST /api/v1/auth/logout
func (h *AuthHandlers) PostLogout(c *gin.Context) {
	h.clearAuthCookie(c)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// GetAuthStatus handles GET /api/v1/auth/status
func (h *AuthHandlers) GetAuthStatus(c *gin.Context) {
	isAdmin := h.authService.ValidateAdminToken(middleware.AdminToken(c))
	c.JSON(http.StatusOK, gin.H{"isAuthenticated": isAdmin, "isAdmin": isAdmin})
}

// GetLoginPage handles GET /admin/login
func (h *AuthHandlers) GetLoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{})
}

// PostLoginForm handles POST /admin/login
func (h *AuthHandlers) PostLoginForm(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		c.HTML(http.StatusBadRequest, "login.html", gin.H{"Error": "Password is required"})
		return
	}

	result := h.authService.AuthenticateAdmin(req.Password)
	if !result.Success {
		c.HTML(http.StatusUnauthorized, "login.html", gin.H{"Error": result.Error})
		return
	}

	h.setAuthCookie(c, result.Token)
	c.Redirect(http.StatusSeeOther, "/admin/settings")
}

// PostLogoutForm handles POST /admin/logout
func (h *AuthHandlers) PostLogoutForm(c *gin.Context) {
	h.clearAuthCookie(c)
	c.Redirect(http.StatusSeeOther, "/admin/login")
}

func (h *AuthHandlers) setAuthCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AdminCookieName, token, int(h.authService.TokenTTL().Seconds()), "/", "", h.secureCookies, true)
}

func (h *AuthHandlers) clearAuthCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AdminCookieName, "", -1, "/", "", h.secureCookies, true)
}
