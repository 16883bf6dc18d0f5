package services

import (
	"github.com/Win2WinFormation/win2win-go/internal/infrastructure/observability/logging"
	"github.com/Win2WinFormation/win2win-go/internal/infrastructure/security"
	"github.com/Win2WinFormation/win2win-go/pkg/config"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles back-office authentication and JWT operations
type AuthService struct {
	logger *logging.ChanneledLogger
}

// NewAuthService creates a new authentication service
func NewAuthService(logger *logging.ChanneledLogger) *AuthService {
	return &AuthService{logger: logger}
}

// AuthResult holds authentication result data
type AuthResult struct {
	Token   string `json:"token"`
	Role    string `json:"role"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// AuthenticateAdmin validates the back-office password and generates a JWT
func (a *AuthService) AuthenticateAdmin(password string) *AuthResult {
	var role string

	if config.AdminPassword != "" {
		if err := bcrypt.CompareHashAndPassword([]byte(config.AdminPassword), []byte(password)); err == nil {
			role = "admin"
		}
	}

	// Fallback for plaintext passwords during transition/testing
	if role == "" && config.AdminPassword != "" && password == config.AdminPassword {
		role = "admin"
	}

	if role == "" {
		a.logger.Auth().Warn("Admin authentication failed")
		return &AuthResult{
			Success: false,
			Error:   "Invalid credentials",
		}
	}

	token, err := security.GenerateAdminToken(role, config.JWTSecret, config.AdminTokenTTL)
	if err != nil {
		a.logger.Auth().Error("Admin token generation failed", "error", err.Error())
		return &AuthResult{
			Success: false,
			Error:   "Token generation failed",
		}
	}

	a.logger.Auth().Info("Admin authenticated", "role", role)
	return &AuthResult{
		Token:   token,
		Role:    role,
		Success: true,
	}
}

// ValidateAdminToken checks a back-office token and returns its claims
func (a *AuthService) ValidateAdminToken(token string) (jwt.MapClaims, bool) {
	claims, err := security.ValidateJWT(token, config.JWTSecret)
	if err != nil {
		return nil, false
	}
	if tokenType, ok := claims["type"].(string); !ok || tokenType != "admin_auth" {
		return nil, false
	}
	return claims, true
}
