package health

import (
	"context"
	"net/http"
	"time"

	"contact-dedup/internal/logger"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// Handler serves the liveness endpoint.
type Handler struct {
	database Pinger
	timeout  time.Duration
}

func NewHandler(database Pinger, timeout time.Duration) *Handler {
	return &Handler{database: database, timeout: timeout}
}

func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	if err := h.database.HealthCheck(ctx); err != nil {
		logger.Warn().Err(err).Msg("database health check failed")
		c.JSON(http.StatusServiceUnavailable, HealthResponse{Status: "degraded", Database: "unreachable"})
		return
	}
	c.JSON(http.StatusOK, HealthResponse{Status: "ok", Database: "ok"})
}
