package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AuthConfig holds authentication configuration for the studio API
type AuthConfig struct {
	APIKeys []string
}

// AuthResult holds the result of authentication
type AuthResult struct {
	Success bool
	Error   error
}

// Authenticate validates the Authorization header against the configured
// API keys.
func Authenticate(authHeader string, cfg AuthConfig) AuthResult {
	if len(cfg.APIKeys) == 0 {
		// No keys configured: the studio runs open, typically bound to
		// localhost for a single user.
		return AuthResult{Success: true}
	}

	if authHeader == "" {
		return AuthResult{Error: errors.New("missing Authorization header")}
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return AuthResult{Error: errors.New("invalid Authorization header format")}
	}

	for _, key := range cfg.APIKeys {
		if key != "" && key == parts[1] {
			return AuthResult{Success: true}
		}
	}
	return AuthResult{Error: errors.New("invalid API key")}
}

// Auth returns a gin middleware enforcing API key authentication
func Auth(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := Authenticate(c.GetHeader("Authorization"), cfg)
		if !result.Success {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "unauthorized",
					"message": result.Error.Error(),
				},
			})
			return
		}
		c.Next()
	}
}
