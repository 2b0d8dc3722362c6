package repository

import (
	"context"
	"errors"
	"time"

	"contact-dedup/internal/db"
	"contact-dedup/internal/dedup"
	"contact-dedup/internal/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// MergeExecutor applies a merge plan and closes the pair in one transaction.
type MergeExecutor struct {
	database *db.Database
}

func NewMergeExecutor(database *db.Database) *MergeExecutor {
	return &MergeExecutor{database: database}
}

// MergeDismissedBy is recorded on pending pairs closed because one of
// their contacts was merged away.
func MergeDismissedBy(pairID uuid.UUID) string {
	return "merge:" + pairID.String()
}

// ExecuteMerge transitions the pair to merged first, so a concurrent
// reviewer loses the race with ErrStateConflict before any contact is
// touched, then writes the merged record. Pending pairs that still point
// at the discarded contact are dismissed in the same transaction.
func (e *MergeExecutor) ExecuteMerge(ctx context.Context, pairID uuid.UUID, plan *dedup.MergePlan) (pair *dedup.DuplicatePair, merged *dedup.Contact, err error) {
	tx, err := e.database.Pool.Begin(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		if rollbackErr := tx.Rollback(ctx); rollbackErr != nil && !errors.Is(rollbackErr, pgx.ErrTxClosed) {
			if err == nil {
				err = rollbackErr
			}
		}
	}()

	txQueries := db.New(tx)
	pairRepo := NewDuplicatePairRepository(txQueries)
	contactRepo := NewContactRepository(txQueries)

	pair, err = pairRepo.MarkMerged(ctx, pairID, plan.KeepContactID, plan.Decisions)
	if err != nil {
		return nil, nil, err
	}

	merged, err = contactRepo.ApplyMerge(ctx, plan)
	if err != nil {
		return nil, nil, err
	}

	closed, err := pairRepo.DismissPendingForContact(ctx, plan.DiscardContactID, MergeDismissedBy(pairID), time.Now())
	if err != nil {
		return nil, nil, err
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, nil, err
	}

	if closed > 0 {
		log := logger.Component("merge")
		log.Info().
			Str("pair_id", pairID.String()).
			Str("discarded_contact_id", plan.DiscardContactID.String()).
			Int64("dismissed_pairs", closed).
			Msg("dismissed pending pairs of merged contact")
	}

	return pair, merged, nil
}
