package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"contact-dedup/internal/dedup"
	"contact-dedup/internal/logger"
	"contact-dedup/internal/repository"

	"github.com/google/uuid"
)

const (
	defaultPageSize = 50
	maxPageSize     = 200
)

type pairStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*dedup.DuplicatePair, error)
	List(ctx context.Context, params repository.ListPairsParams) ([]*dedup.DuplicatePair, error)
	Count(ctx context.Context, scopeID *uuid.UUID, status *dedup.Status) (int64, error)
	Dismiss(ctx context.Context, id uuid.UUID, dismissedBy string, dismissedAt time.Time) (*dedup.DuplicatePair, error)
}

type contactGetter interface {
	GetContact(ctx context.Context, id uuid.UUID) (*dedup.Contact, error)
}

type mergeExecutor interface {
	ExecuteMerge(ctx context.Context, pairID uuid.UUID, plan *dedup.MergePlan) (*dedup.DuplicatePair, *dedup.Contact, error)
}

// PairListing is one page of pairs plus the unpaged total.
type PairListing struct {
	Pairs []*dedup.DuplicatePair
	Total int64
}

// MergeResult is the outcome of an executed merge.
type MergeResult struct {
	Pair    *dedup.DuplicatePair `json:"pair"`
	Contact *dedup.Contact       `json:"contact"`
}

// ReviewService drives the reviewer workflow over stored pairs.
type ReviewService struct {
	pairs    pairStore
	contacts contactGetter
	executor mergeExecutor
	fields   []dedup.Field
	now      func() time.Time
}

// NewReviewService creates a review service comparing the given fields.
// An empty field list uses dedup.DefaultComparisonFields.
func NewReviewService(pairs pairStore, contacts contactGetter, executor mergeExecutor, fields []dedup.Field) *ReviewService {
	if len(fields) == 0 {
		fields = dedup.DefaultComparisonFields
	}
	return &ReviewService{
		pairs:    pairs,
		contacts: contacts,
		executor: executor,
		fields:   fields,
		now:      time.Now,
	}
}

// GetPair returns a pair by id
func (s *ReviewService) GetPair(ctx context.Context, id uuid.UUID) (*dedup.DuplicatePair, error) {
	return s.pairs.GetByID(ctx, id)
}

// ListPairs returns a page of pairs, highest confidence first.
func (s *ReviewService) ListPairs(ctx context.Context, params repository.ListPairsParams) (*PairListing, error) {
	if params.Status != nil && !params.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", dedup.ErrInvalidInput, *params.Status)
	}
	if params.Offset < 0 {
		return nil, fmt.Errorf("%w: offset must not be negative", dedup.ErrInvalidInput)
	}
	switch {
	case params.Limit <= 0:
		params.Limit = defaultPageSize
	case params.Limit > maxPageSize:
		params.Limit = maxPageSize
	}

	pairs, err := s.pairs.List(ctx, params)
	if err != nil {
		return nil, err
	}
	total, err := s.pairs.Count(ctx, params.ScopeID, params.Status)
	if err != nil {
		return nil, err
	}
	return &PairListing{Pairs: pairs, Total: total}, nil
}

func (s *ReviewService) loadPair(ctx context.Context, id uuid.UUID) (*dedup.DuplicatePair, *dedup.Contact, *dedup.Contact, error) {
	pair, err := s.pairs.GetByID(ctx, id)
	if err != nil {
		return nil, nil, nil, err
	}
	contact1, err := s.contacts.GetContact(ctx, pair.ContactID1)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("contact %s: %w", pair.ContactID1, err)
	}
	contact2, err := s.contacts.GetContact(ctx, pair.ContactID2)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("contact %s: %w", pair.ContactID2, err)
	}
	return pair, contact1, contact2, nil
}

// Compare builds the side-by-side field comparison for a pair.
func (s *ReviewService) Compare(ctx context.Context, id uuid.UUID) (*dedup.ContactComparison, error) {
	_, contact1, contact2, err := s.loadPair(ctx, id)
	if err != nil {
		return nil, err
	}
	return dedup.BuildComparison(contact1, contact2, s.fields)
}

// PlanMerge previews the merged record without writing anything.
// keepContactID must be one of the pair's contacts.
func (s *ReviewService) PlanMerge(ctx context.Context, id, keepContactID uuid.UUID, decisions []dedup.MergeDecision) (*dedup.MergePlan, error) {
	_, plan, err := s.planMerge(ctx, id, keepContactID, decisions)
	return plan, err
}

func (s *ReviewService) planMerge(ctx context.Context, id, keepContactID uuid.UUID, decisions []dedup.MergeDecision) (*dedup.DuplicatePair, *dedup.MergePlan, error) {
	pair, contact1, contact2, err := s.loadPair(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if pair.Status != dedup.StatusPending {
		return nil, nil, fmt.Errorf("%w: pair %s is %s", dedup.ErrStateConflict, pair.ID, pair.Status)
	}

	keep, ok := pair.Side(keepContactID)
	if !ok {
		return nil, nil, fmt.Errorf("%w: contact %s is not part of pair %s", dedup.ErrInvalidInput, keepContactID, pair.ID)
	}
	plan, err := dedup.PlanMerge(decisions, contact1, contact2, keep)
	if err != nil {
		return nil, nil, err
	}
	return pair, plan, nil
}

// Merge plans and executes a merge. The pair moves to merged and the
// discarded contact is retired atomically; a pair that changed state
// meanwhile yields dedup.ErrStateConflict.
func (s *ReviewService) Merge(ctx context.Context, id, keepContactID uuid.UUID, decisions []dedup.MergeDecision) (*MergeResult, error) {
	pair, plan, err := s.planMerge(ctx, id, keepContactID, decisions)
	if err != nil {
		return nil, err
	}

	// The executor repeats this transition as a compare-and-swap.
	if err := pair.MarkMerged(plan.KeepContactID, plan.Decisions, s.now().UTC()); err != nil {
		return nil, err
	}

	pair, merged, err := s.executor.ExecuteMerge(ctx, id, plan)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("pair_id", id.String()).
		Str("kept_contact_id", plan.KeepContactID.String()).
		Str("discarded_contact_id", plan.DiscardContactID.String()).
		Int("decisions", len(plan.Decisions)).
		Msg("duplicate pair merged")

	return &MergeResult{Pair: pair, Contact: merged}, nil
}

// Dismiss marks a pending pair as not a duplicate.
func (s *ReviewService) Dismiss(ctx context.Context, id uuid.UUID, dismissedBy string) (*dedup.DuplicatePair, error) {
	pair, err := s.pairs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	at := s.now().UTC()
	dismissedBy = strings.TrimSpace(dismissedBy)
	if err := pair.Dismiss(dismissedBy, at); err != nil {
		return nil, err
	}

	dismissed, err := s.pairs.Dismiss(ctx, id, dismissedBy, at)
	if err != nil {
		return nil, err
	}

	logger.Info().Str("pair_id", id.String()).Str("dismissed_by", dismissedBy).Msg("duplicate pair dismissed")
	return dismissed, nil
}
