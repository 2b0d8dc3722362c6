package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct {
	err error
}

func (f fakePinger) HealthCheck(ctx context.Context) error {
	return f.err
}

func TestHealth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   HealthResponse
	}{
		{name: "healthy", wantStatus: http.StatusOK, wantBody: HealthResponse{Status: "ok", Database: "ok"}},
		{name: "database down", err: errors.New("dial tcp: refused"), wantStatus: http.StatusServiceUnavailable,
			wantBody: HealthResponse{Status: "degraded", Database: "unreachable"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/health", NewHandler(fakePinger{err: tt.err}, time.Second).Health)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			var body HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.wantBody, body)
		})
	}
}
