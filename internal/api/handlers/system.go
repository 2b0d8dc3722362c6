package handlers

import (
	"context"
	"net/http"

	"contact-dedup/internal/api"
	"contact-dedup/internal/config"
	"contact-dedup/internal/dedup"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type pairCounter interface {
	Count(ctx context.Context, scopeID *uuid.UUID, status *dedup.Status) (int64, error)
}

type SystemHandler struct {
	pairs pairCounter
	cfg   *config.Config
}

func NewSystemHandler(pairs pairCounter, cfg *config.Config) *SystemHandler {
	return &SystemHandler{pairs: pairs, cfg: cfg}
}

// SettingsResponse exposes the detection settings in effect
type SettingsResponse struct {
	Environment       string   `json:"environment"`
	Threshold         int      `json:"threshold"`
	Workers           int      `json:"workers"`
	ComparisonFields  []string `json:"comparison_fields"`
	AllowReevaluation bool     `json:"allow_reevaluation"`
	SchedulerEnabled  bool     `json:"scheduler_enabled"`
	CronSpec          string   `json:"cron_spec,omitempty"`
}

// GetSettings handles GET /system/settings
func (h *SystemHandler) GetSettings(c *gin.Context) {
	resp := SettingsResponse{
		Environment:       h.cfg.Logger.Environment,
		Threshold:         h.cfg.Dedup.Threshold,
		Workers:           h.cfg.Dedup.Workers,
		ComparisonFields:  h.cfg.Dedup.ComparisonFields,
		AllowReevaluation: h.cfg.Dedup.AllowReevaluation,
		SchedulerEnabled:  h.cfg.Features.EnableScheduler,
	}
	if resp.SchedulerEnabled {
		resp.CronSpec = h.cfg.Dedup.CronSpec
	}
	api.SendSuccess(c, http.StatusOK, resp, nil)
}

// GetStats handles GET /system/stats?scope_id=, counting pairs per status
func (h *SystemHandler) GetStats(c *gin.Context) {
	var scopeID *uuid.UUID
	if raw := c.Query("scope_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			api.SendValidationError(c, "Invalid scope_id", err.Error())
			return
		}
		scopeID = &id
	}

	counts := make(map[dedup.Status]int64, 3)
	for _, status := range []dedup.Status{dedup.StatusPending, dedup.StatusMerged, dedup.StatusDismissed} {
		n, err := h.pairs.Count(c.Request.Context(), scopeID, &status)
		if err != nil {
			api.SendServiceError(c, "Duplicate pairs", err)
			return
		}
		counts[status] = n
	}
	api.SendSuccess(c, http.StatusOK, counts, nil)
}
