package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"contact-dedup/internal/db"
	"contact-dedup/internal/dedup"
	"contact-dedup/internal/matching"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

// DuplicatePairRepository persists duplicate pairs and their transitions
type DuplicatePairRepository struct {
	queries db.Querier
}

func NewDuplicatePairRepository(queries db.Querier) *DuplicatePairRepository {
	return &DuplicatePairRepository{queries: queries}
}

// ListPairsParams filters a pair listing. Nil filters match everything.
type ListPairsParams struct {
	ScopeID *uuid.UUID
	Status  *dedup.Status
	Limit   int32
	Offset  int32
}

// convertDbDuplicatePair converts a database row to the domain pair
func convertDbDuplicatePair(row *db.DuplicatePair) (*dedup.DuplicatePair, error) {
	pair := &dedup.DuplicatePair{
		MatchType:       matching.MatchType(row.MatchType),
		ConfidenceScore: int(row.ConfidenceScore),
		Status:          dedup.Status(row.Status),
		MergedContactID: pgUUIDToPtr(row.MergedContactID),
		DismissedBy:     pgTextToPtr(row.DismissedBy),
		DismissedAt:     pgTimestamptzToPtr(row.DismissedAt),
	}

	if row.ID.Valid {
		pair.ID = uuid.UUID(row.ID.Bytes)
	}
	if row.ScopeID.Valid {
		pair.ScopeID = uuid.UUID(row.ScopeID.Bytes)
	}
	if row.ContactID1.Valid {
		pair.ContactID1 = uuid.UUID(row.ContactID1.Bytes)
	}
	if row.ContactID2.Valid {
		pair.ContactID2 = uuid.UUID(row.ContactID2.Bytes)
	}
	if row.CreatedAt.Valid {
		pair.CreatedAt = row.CreatedAt.Time
	}
	if row.UpdatedAt.Valid {
		pair.UpdatedAt = row.UpdatedAt.Time
	}

	if len(row.MergeDecisions) > 0 {
		if err := json.Unmarshal(row.MergeDecisions, &pair.MergeDecisions); err != nil {
			return nil, fmt.Errorf("decode merge decisions for pair %s: %w", pair.ID, err)
		}
	}

	return pair, nil
}

// CreateIfAbsent inserts a pending pair unless one already blocks it.
// A pending or merged pair for the same unordered tuple always blocks;
// a dismissed pair blocks unless allowReevaluation is set. created is
// false when nothing was inserted.
func (r *DuplicatePairRepository) CreateIfAbsent(ctx context.Context, pair *dedup.DuplicatePair, allowReevaluation bool) (stored *dedup.DuplicatePair, created bool, err error) {
	row, err := r.queries.CreateDuplicatePairIfAbsent(ctx, db.CreateDuplicatePairIfAbsentParams{
		ScopeID:           uuidToPgUUID(pair.ScopeID),
		ContactID1:        uuidToPgUUID(pair.ContactID1),
		ContactID2:        uuidToPgUUID(pair.ContactID2),
		MatchType:         string(pair.MatchType),
		ConfidenceScore:   int32(pair.ConfidenceScore),
		AllowReevaluation: allowReevaluation,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	stored, err = convertDbDuplicatePair(row)
	if err != nil {
		return nil, false, err
	}
	return stored, true, nil
}

// GetByID retrieves a pair by id
func (r *DuplicatePairRepository) GetByID(ctx context.Context, id uuid.UUID) (*dedup.DuplicatePair, error) {
	row, err := r.queries.GetDuplicatePair(ctx, uuidToPgUUID(id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, db.ErrNotFound
		}
		return nil, err
	}
	return convertDbDuplicatePair(row)
}

func listFilters(scopeID *uuid.UUID, status *dedup.Status) (pgtype.UUID, pgtype.Text) {
	var statusText pgtype.Text
	if status != nil {
		statusText = pgtype.Text{String: string(*status), Valid: true}
	}
	return optionalUUIDToPg(scopeID), statusText
}

// List returns pairs ordered by descending confidence
func (r *DuplicatePairRepository) List(ctx context.Context, params ListPairsParams) ([]*dedup.DuplicatePair, error) {
	scope, status := listFilters(params.ScopeID, params.Status)
	rows, err := r.queries.ListDuplicatePairs(ctx, db.ListDuplicatePairsParams{
		ScopeID: scope,
		Status:  status,
		Limit:   params.Limit,
		Offset:  params.Offset,
	})
	if err != nil {
		return nil, err
	}

	pairs := make([]*dedup.DuplicatePair, len(rows))
	for i, row := range rows {
		pair, err := convertDbDuplicatePair(row)
		if err != nil {
			return nil, err
		}
		pairs[i] = pair
	}
	return pairs, nil
}

// Count returns the number of pairs matching the filters
func (r *DuplicatePairRepository) Count(ctx context.Context, scopeID *uuid.UUID, status *dedup.Status) (int64, error) {
	scope, statusText := listFilters(scopeID, status)
	return r.queries.CountDuplicatePairs(ctx, db.CountDuplicatePairsParams{
		ScopeID: scope,
		Status:  statusText,
	})
}

// MarkMerged moves a pending pair to merged
func (r *DuplicatePairRepository) MarkMerged(ctx context.Context, id, mergedContactID uuid.UUID, decisions []dedup.MergeDecision) (*dedup.DuplicatePair, error) {
	encoded, err := json.Marshal(decisions)
	if err != nil {
		return nil, fmt.Errorf("encode merge decisions: %w", err)
	}

	row, err := r.queries.MarkDuplicatePairMerged(ctx, db.MarkDuplicatePairMergedParams{
		ID:              uuidToPgUUID(id),
		MergedContactID: uuidToPgUUID(mergedContactID),
		MergeDecisions:  encoded,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.transitionFailure(ctx, id, "merge")
		}
		return nil, err
	}
	return convertDbDuplicatePair(row)
}

// Dismiss moves a pending pair to dismissed
func (r *DuplicatePairRepository) Dismiss(ctx context.Context, id uuid.UUID, dismissedBy string, dismissedAt time.Time) (*dedup.DuplicatePair, error) {
	row, err := r.queries.DismissDuplicatePair(ctx, db.DismissDuplicatePairParams{
		ID:          uuidToPgUUID(id),
		DismissedBy: pgtype.Text{String: dismissedBy, Valid: true},
		DismissedAt: timeToPgTimestamptz(&dismissedAt),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.transitionFailure(ctx, id, "dismiss")
		}
		return nil, err
	}
	return convertDbDuplicatePair(row)
}

// DismissPendingForContact closes every pending pair that still references
// contactID and returns how many were closed.
func (r *DuplicatePairRepository) DismissPendingForContact(ctx context.Context, contactID uuid.UUID, dismissedBy string, dismissedAt time.Time) (int64, error) {
	closed, err := r.queries.DismissPendingPairsForContact(ctx, db.DismissPendingPairsForContactParams{
		ContactID:   uuidToPgUUID(contactID),
		DismissedBy: pgtype.Text{String: dismissedBy, Valid: true},
		DismissedAt: timeToPgTimestamptz(&dismissedAt),
	})
	if err != nil {
		return 0, fmt.Errorf("dismiss pending pairs for contact %s: %w", contactID, err)
	}
	return closed, nil
}

// transitionFailure explains why a compare-and-swap update matched no row
func (r *DuplicatePairRepository) transitionFailure(ctx context.Context, id uuid.UUID, action string) error {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: cannot %s pair %s in status %s", dedup.ErrStateConflict, action, id, current.Status)
}
