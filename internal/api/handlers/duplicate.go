package handlers

import (
	"context"
	"net/http"
	"strconv"

	"contact-dedup/internal/api"
	"contact-dedup/internal/dedup"
	"contact-dedup/internal/matching"
	"contact-dedup/internal/repository"
	"contact-dedup/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 200
)

type detectionService interface {
	DetectScope(ctx context.Context, scopeID uuid.UUID) (*service.DetectionReport, error)
	Check(a, b matching.Candidate, threshold *int) (*service.CheckResult, error)
}

type reviewService interface {
	GetPair(ctx context.Context, id uuid.UUID) (*dedup.DuplicatePair, error)
	ListPairs(ctx context.Context, params repository.ListPairsParams) (*service.PairListing, error)
	Compare(ctx context.Context, id uuid.UUID) (*dedup.ContactComparison, error)
	PlanMerge(ctx context.Context, id, keepContactID uuid.UUID, decisions []dedup.MergeDecision) (*dedup.MergePlan, error)
	Merge(ctx context.Context, id, keepContactID uuid.UUID, decisions []dedup.MergeDecision) (*service.MergeResult, error)
	Dismiss(ctx context.Context, id uuid.UUID, dismissedBy string) (*dedup.DuplicatePair, error)
}

type DuplicateHandler struct {
	detection detectionService
	review    reviewService
	validator *validator.Validate
}

func NewDuplicateHandler(detection detectionService, review reviewService) *DuplicateHandler {
	return &DuplicateHandler{
		detection: detection,
		review:    review,
		validator: dedup.NewValidator(),
	}
}

// RegisterRoutes mounts the duplicate review endpoints on rg
func (h *DuplicateHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/duplicates/check", h.Check)
	rg.POST("/scopes/:scopeId/detect", h.DetectScope)

	pairs := rg.Group("/duplicates")
	pairs.GET("", h.ListPairs)
	pairs.GET("/:id", h.GetPair)
	pairs.GET("/:id/comparison", h.Compare)
	pairs.POST("/:id/plan", h.PlanMerge)
	pairs.POST("/:id/merge", h.Merge)
	pairs.POST("/:id/dismiss", h.Dismiss)
}

// CandidateRequest is one side of an ad-hoc check
type CandidateRequest struct {
	Email     string `json:"email" validate:"required,notblank,max=320"`
	FirstName string `json:"first_name" validate:"required,notblank,max=255"`
	LastName  string `json:"last_name" validate:"required,notblank,max=255"`
}

func (r CandidateRequest) candidate() matching.Candidate {
	return matching.Candidate{Email: r.Email, FirstName: r.FirstName, LastName: r.LastName}
}

// CheckRequest classifies two contacts without storing anything
type CheckRequest struct {
	Contact1  CandidateRequest `json:"contact1"`
	Contact2  CandidateRequest `json:"contact2"`
	Threshold *int             `json:"threshold" validate:"omitempty,min=0,max=100"`
}

// MergeRequest carries the reviewer's decisions for plan and merge
type MergeRequest struct {
	KeepContactID uuid.UUID             `json:"keep_contact_id" validate:"required"`
	Decisions     []dedup.MergeDecision `json:"decisions"`
}

// DismissRequest records who rejected the pair
type DismissRequest struct {
	DismissedBy string `json:"dismissed_by" validate:"required,max=255"`
}

// ComparisonResponse is a comparison plus the pair it belongs to
type ComparisonResponse struct {
	Pair            *dedup.DuplicatePair     `json:"pair"`
	ConfidenceLevel matching.ConfidenceLevel `json:"confidence_level"`
	ConfidenceLabel string                   `json:"confidence_label"`
	Color           string                   `json:"color"`
	*dedup.ContactComparison
}

func (h *DuplicateHandler) bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		api.SendError(c, http.StatusBadRequest, api.ErrCodeValidation, "Invalid request body", err.Error())
		return false
	}
	if err := h.validator.Struct(req); err != nil {
		api.SendError(c, http.StatusBadRequest, api.ErrCodeValidation, "Validation failed", err.Error())
		return false
	}
	return true
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		api.SendError(c, http.StatusBadRequest, api.ErrCodeValidation, "Invalid "+name, err.Error())
		return uuid.Nil, false
	}
	return id, true
}

// Check handles POST /duplicates/check
func (h *DuplicateHandler) Check(c *gin.Context) {
	var req CheckRequest
	if !h.bind(c, &req) {
		return
	}

	result, err := h.detection.Check(req.Contact1.candidate(), req.Contact2.candidate(), req.Threshold)
	if err != nil {
		api.SendServiceError(c, "Duplicate check", err)
		return
	}
	api.SendSuccess(c, http.StatusOK, result, nil)
}

// DetectScope handles POST /scopes/:scopeId/detect
func (h *DuplicateHandler) DetectScope(c *gin.Context) {
	scopeID, ok := parseUUIDParam(c, "scopeId")
	if !ok {
		return
	}

	report, err := h.detection.DetectScope(c.Request.Context(), scopeID)
	if err != nil {
		api.SendServiceError(c, "Scope", err)
		return
	}
	api.SendSuccess(c, http.StatusOK, report, nil)
}

// ListPairs handles GET /duplicates?scope_id=&status=&page=&limit=
func (h *DuplicateHandler) ListPairs(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		api.SendValidationError(c, "Invalid page", "page must be a positive integer")
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageLimit)))
	if err != nil || limit < 1 || limit > maxPageLimit {
		api.SendValidationError(c, "Invalid limit", "limit must be between 1 and "+strconv.Itoa(maxPageLimit))
		return
	}

	params := repository.ListPairsParams{
		Limit:  int32(limit),
		Offset: int32((page - 1) * limit),
	}
	if raw := c.Query("scope_id"); raw != "" {
		scopeID, err := uuid.Parse(raw)
		if err != nil {
			api.SendValidationError(c, "Invalid scope_id", err.Error())
			return
		}
		params.ScopeID = &scopeID
	}
	if raw := c.Query("status"); raw != "" {
		status := dedup.Status(raw)
		params.Status = &status
	}

	listing, err := h.review.ListPairs(c.Request.Context(), params)
	if err != nil {
		api.SendServiceError(c, "Duplicate pairs", err)
		return
	}
	api.SendSuccess(c, http.StatusOK, listing.Pairs, api.NewPaginationMeta(page, limit, listing.Total))
}

// GetPair handles GET /duplicates/:id
func (h *DuplicateHandler) GetPair(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	pair, err := h.review.GetPair(c.Request.Context(), id)
	if err != nil {
		api.SendServiceError(c, "Duplicate pair", err)
		return
	}
	api.SendSuccess(c, http.StatusOK, pair, nil)
}

// Compare handles GET /duplicates/:id/comparison
func (h *DuplicateHandler) Compare(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	ctx := c.Request.Context()
	pair, err := h.review.GetPair(ctx, id)
	if err != nil {
		api.SendServiceError(c, "Duplicate pair", err)
		return
	}
	comparison, err := h.review.Compare(ctx, id)
	if err != nil {
		api.SendServiceError(c, "Duplicate pair", err)
		return
	}

	level := pair.ConfidenceLevel()
	api.SendSuccess(c, http.StatusOK, ComparisonResponse{
		Pair:              pair,
		ConfidenceLevel:   level,
		ConfidenceLabel:   level.Label(),
		Color:             level.Color(),
		ContactComparison: comparison,
	}, nil)
}

// PlanMerge handles POST /duplicates/:id/plan
func (h *DuplicateHandler) PlanMerge(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req MergeRequest
	if !h.bind(c, &req) {
		return
	}

	plan, err := h.review.PlanMerge(c.Request.Context(), id, req.KeepContactID, req.Decisions)
	if err != nil {
		api.SendServiceError(c, "Duplicate pair", err)
		return
	}
	api.SendSuccess(c, http.StatusOK, plan, nil)
}

// Merge handles POST /duplicates/:id/merge
func (h *DuplicateHandler) Merge(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req MergeRequest
	if !h.bind(c, &req) {
		return
	}

	result, err := h.review.Merge(c.Request.Context(), id, req.KeepContactID, req.Decisions)
	if err != nil {
		api.SendServiceError(c, "Duplicate pair", err)
		return
	}
	api.SendSuccess(c, http.StatusOK, result, nil)
}

// Dismiss handles POST /duplicates/:id/dismiss
func (h *DuplicateHandler) Dismiss(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req DismissRequest
	if !h.bind(c, &req) {
		return
	}

	pair, err := h.review.Dismiss(c.Request.Context(), id, req.DismissedBy)
	if err != nil {
		api.SendServiceError(c, "Duplicate pair", err)
		return
	}
	api.SendSuccess(c, http.StatusOK, pair, nil)
}
