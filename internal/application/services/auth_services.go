package services

import (
	"fmt"
	"time"

	"github.com/AtRiskMedia/tractstack-featured/internal/domain/entities/featured"
	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/security"
)

// SettingsNonceAction is the form action the settings nonce is bound to
const SettingsNonceAction = "rdfi_settings"

// AuthResult holds authentication result data
type AuthResult struct {
	Token   string `json:"-"`
	Role    string `json:"role"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// AuthService handles admin login and per-form nonces
type AuthService struct {
	jwtSecret     string
	adminPassword string
	tokenTTL      time.Duration
	nonceTTL      time.Duration
	logger        *logging.ChanneledLogger
}

func NewAuthService(jwtSecret, adminPassword string, tokenTTL, nonceTTL time.Duration, logger *logging.ChanneledLogger) *AuthService {
	return &AuthService{
		jwtSecret:     jwtSecret,
		adminPassword: adminPassword,
		tokenTTL:      tokenTTL,
		nonceTTL:      nonceTTL,
		logger:        logger,
	}
}

// AuthenticateAdmin validates the admin password and issues a session token
func (a *AuthService) AuthenticateAdmin(password string) *AuthResult {
	if !security.CheckPassword(a.adminPassword, password) {
		a.logger.Auth().Warn("Admin login rejected")
		return &AuthResult{Success: false, Error: "Invalid credentials"}
	}

	token, err := security.GenerateAdminToken(a.jwtSecret, a.tokenTTL)
	if err != nil {
		a.logger.Auth().Error("Failed to sign admin token", "error", err)
		return &AuthResult{Success: false, Error: "Token generation failed"}
	}

	a.logger.Auth().Info("Admin logged in")
	return &AuthResult{Token: token, Role: "admin", Success: true}
}

func (a *AuthService) ValidateAdminToken(token string) bool {
	return security.IsAdminToken(token, a.jwtSecret)
}

// TokenTTL is how long an admin session cookie should live
func (a *AuthService) TokenTTL() time.Duration {
	return a.tokenTTL
}

// IssueNonce creates a token for one form action
func (a *AuthService) IssueNonce(action string) (string, error) {
	nonce, err := security.GenerateFormNonce(a.jwtSecret, action, a.nonceTTL)
	if err != nil {
		return "", fmt.Errorf("failed to issue nonce: %w", err)
	}
	return nonce, nil
}

// CheckNonce verifies a submitted nonce against its action
func (a *AuthService) CheckNonce(nonce, action string) error {
	if err := security.ValidateFormNonce(nonce, a.jwtSecret, action); err != nil {
		a.logger.Auth().Warn("Form nonce rejected", "action", action, "reason", err.Error())
		return fmt.Errorf("%w: %v", featured.ErrInvalidNonce, err)
	}
	return nil
}
