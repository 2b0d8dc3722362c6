package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"contact-dedup/internal/api"
	"contact-dedup/internal/config"

	"github.com/gin-gonic/gin"
)

const (
	ErrCodeMissingAPIKey = "MISSING_API_KEY"
	ErrCodeInvalidAPIKey = "INVALID_API_KEY"
)

// extractAPIKey reads X-API-Key, falling back to "Authorization: ApiKey <key>"
func extractAPIKey(c *gin.Context) string {
	if key := c.GetHeader("X-API-Key"); key != "" {
		return key
	}
	if authHeader := c.GetHeader("Authorization"); strings.HasPrefix(authHeader, "ApiKey ") {
		return strings.TrimSpace(strings.TrimPrefix(authHeader, "ApiKey "))
	}
	return ""
}

// APIKeyMiddleware rejects requests that do not carry the configured API key.
// With no key configured every request is rejected.
func APIKeyMiddleware(cfg *config.Config) gin.HandlerFunc {
	expected := []byte(cfg.External.APIKey)
	return func(c *gin.Context) {
		apiKey := extractAPIKey(c)
		if apiKey == "" {
			api.SendError(c, http.StatusUnauthorized, ErrCodeMissingAPIKey,
				"API key is required. Provide X-API-Key header or Authorization: ApiKey <key>", "")
			c.Abort()
			return
		}

		if len(expected) == 0 || subtle.ConstantTimeCompare([]byte(apiKey), expected) != 1 {
			api.SendError(c, http.StatusUnauthorized, ErrCodeInvalidAPIKey, "Invalid API key provided", "")
			c.Abort()
			return
		}

		c.Next()
	}
}
