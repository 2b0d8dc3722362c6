package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"contact-dedup/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestAPIKeyMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	testConfig := &config.Config{
		External: config.ExternalConfig{APIKey: "test-api-key-12345"},
	}

	tests := []struct {
		name        string
		cfg         *config.Config
		headers     map[string]string
		wantStatus  int
		wantAborted bool
		wantCode    string
	}{
		{
			name:       "valid key in X-API-Key header",
			cfg:        testConfig,
			headers:    map[string]string{"X-API-Key": "test-api-key-12345"},
			wantStatus: http.StatusOK,
		},
		{
			name:       "valid key in Authorization header",
			cfg:        testConfig,
			headers:    map[string]string{"Authorization": "ApiKey test-api-key-12345"},
			wantStatus: http.StatusOK,
		},
		{
			name:        "bearer scheme is not accepted",
			cfg:         testConfig,
			headers:     map[string]string{"Authorization": "Bearer test-api-key-12345"},
			wantStatus:  http.StatusUnauthorized,
			wantAborted: true,
			wantCode:    ErrCodeMissingAPIKey,
		},
		{
			name:        "missing key",
			cfg:         testConfig,
			wantStatus:  http.StatusUnauthorized,
			wantAborted: true,
			wantCode:    ErrCodeMissingAPIKey,
		},
		{
			name:        "wrong key",
			cfg:         testConfig,
			headers:     map[string]string{"X-API-Key": "wrong-key"},
			wantStatus:  http.StatusUnauthorized,
			wantAborted: true,
			wantCode:    ErrCodeInvalidAPIKey,
		},
		{
			name:        "empty configured key allows nothing",
			cfg:         &config.Config{},
			headers:     map[string]string{"X-API-Key": "any-key"},
			wantStatus:  http.StatusUnauthorized,
			wantAborted: true,
			wantCode:    ErrCodeInvalidAPIKey,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)
			for k, v := range tt.headers {
				c.Request.Header.Set(k, v)
			}

			APIKeyMiddleware(tt.cfg)(c)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantAborted, c.IsAborted())
			if tt.wantCode != "" {
				assert.Contains(t, w.Body.String(), tt.wantCode)
			}
		})
	}
}
