package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const duplicatePairColumns = `id, scope_id, contact_id_1, contact_id_2, match_type, confidence_score, status, merged_contact_id, merge_decisions, dismissed_by, dismissed_at, created_at, updated_at`

func scanDuplicatePair(row interface{ Scan(dest ...any) error }) (*DuplicatePair, error) {
	var i DuplicatePair
	err := row.Scan(
		&i.ID,
		&i.ScopeID,
		&i.ContactID1,
		&i.ContactID2,
		&i.MatchType,
		&i.ConfidenceScore,
		&i.Status,
		&i.MergedContactID,
		&i.MergeDecisions,
		&i.DismissedBy,
		&i.DismissedAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return &i, err
}

const createDuplicatePairIfAbsent = `-- name: CreateDuplicatePairIfAbsent :one
INSERT INTO duplicate_pairs (scope_id, contact_id_1, contact_id_2, match_type, confidence_score, status)
SELECT $1::uuid, $2::uuid, $3::uuid, $4::text, $5::integer, 'pending'
WHERE NOT EXISTS (
    SELECT 1
    FROM duplicate_pairs existing
    WHERE existing.scope_id = $1
      AND LEAST(existing.contact_id_1, existing.contact_id_2) = LEAST($2::uuid, $3::uuid)
      AND GREATEST(existing.contact_id_1, existing.contact_id_2) = GREATEST($2::uuid, $3::uuid)
      AND (existing.status <> 'dismissed' OR NOT $6::boolean)
)
ON CONFLICT DO NOTHING
RETURNING ` + duplicatePairColumns

type CreateDuplicatePairIfAbsentParams struct {
	ScopeID           pgtype.UUID `json:"scope_id"`
	ContactID1        pgtype.UUID `json:"contact_id_1"`
	ContactID2        pgtype.UUID `json:"contact_id_2"`
	MatchType         string      `json:"match_type"`
	ConfidenceScore   int32       `json:"confidence_score"`
	AllowReevaluation bool        `json:"allow_reevaluation"`
}

// CreateDuplicatePairIfAbsent returns pgx.ErrNoRows when a blocking pair already exists.
func (q *Queries) CreateDuplicatePairIfAbsent(ctx context.Context, arg CreateDuplicatePairIfAbsentParams) (*DuplicatePair, error) {
	row := q.db.QueryRow(ctx, createDuplicatePairIfAbsent,
		arg.ScopeID,
		arg.ContactID1,
		arg.ContactID2,
		arg.MatchType,
		arg.ConfidenceScore,
		arg.AllowReevaluation,
	)
	return scanDuplicatePair(row)
}

const getDuplicatePair = `-- name: GetDuplicatePair :one
SELECT ` + duplicatePairColumns + `
FROM duplicate_pairs
WHERE id = $1
`

func (q *Queries) GetDuplicatePair(ctx context.Context, id pgtype.UUID) (*DuplicatePair, error) {
	row := q.db.QueryRow(ctx, getDuplicatePair, id)
	return scanDuplicatePair(row)
}

const listDuplicatePairs = `-- name: ListDuplicatePairs :many
SELECT ` + duplicatePairColumns + `
FROM duplicate_pairs
WHERE ($1::uuid IS NULL OR scope_id = $1)
  AND ($2::text IS NULL OR status = $2)
ORDER BY confidence_score DESC, created_at ASC, id ASC
LIMIT $3 OFFSET $4
`

type ListDuplicatePairsParams struct {
	ScopeID pgtype.UUID `json:"scope_id"`
	Status  pgtype.Text `json:"status"`
	Limit   int32       `json:"limit"`
	Offset  int32       `json:"offset"`
}

func (q *Queries) ListDuplicatePairs(ctx context.Context, arg ListDuplicatePairsParams) ([]*DuplicatePair, error) {
	rows, err := q.db.Query(ctx, listDuplicatePairs, arg.ScopeID, arg.Status, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []*DuplicatePair{}
	for rows.Next() {
		i, err := scanDuplicatePair(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countDuplicatePairs = `-- name: CountDuplicatePairs :one
SELECT COUNT(*)
FROM duplicate_pairs
WHERE ($1::uuid IS NULL OR scope_id = $1)
  AND ($2::text IS NULL OR status = $2)
`

type CountDuplicatePairsParams struct {
	ScopeID pgtype.UUID `json:"scope_id"`
	Status  pgtype.Text `json:"status"`
}

func (q *Queries) CountDuplicatePairs(ctx context.Context, arg CountDuplicatePairsParams) (int64, error) {
	row := q.db.QueryRow(ctx, countDuplicatePairs, arg.ScopeID, arg.Status)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const markDuplicatePairMerged = `-- name: MarkDuplicatePairMerged :one
UPDATE duplicate_pairs
SET status = 'merged',
    merged_contact_id = $2,
    merge_decisions = $3,
    updated_at = NOW()
WHERE id = $1 AND status = 'pending'
RETURNING ` + duplicatePairColumns

type MarkDuplicatePairMergedParams struct {
	ID              pgtype.UUID `json:"id"`
	MergedContactID pgtype.UUID `json:"merged_contact_id"`
	MergeDecisions  []byte      `json:"merge_decisions"`
}

// MarkDuplicatePairMerged returns pgx.ErrNoRows when the pair is missing or no longer pending.
func (q *Queries) MarkDuplicatePairMerged(ctx context.Context, arg MarkDuplicatePairMergedParams) (*DuplicatePair, error) {
	row := q.db.QueryRow(ctx, markDuplicatePairMerged, arg.ID, arg.MergedContactID, arg.MergeDecisions)
	return scanDuplicatePair(row)
}

const dismissPendingPairsForContact = `-- name: DismissPendingPairsForContact :execrows
UPDATE duplicate_pairs
SET status = 'dismissed',
    dismissed_by = $2,
    dismissed_at = $3,
    updated_at = NOW()
WHERE status = 'pending'
  AND (contact_id_1 = $1 OR contact_id_2 = $1)
`

type DismissPendingPairsForContactParams struct {
	ContactID   pgtype.UUID        `json:"contact_id"`
	DismissedBy pgtype.Text        `json:"dismissed_by"`
	DismissedAt pgtype.Timestamptz `json:"dismissed_at"`
}

func (q *Queries) DismissPendingPairsForContact(ctx context.Context, arg DismissPendingPairsForContactParams) (int64, error) {
	result, err := q.db.Exec(ctx, dismissPendingPairsForContact, arg.ContactID, arg.DismissedBy, arg.DismissedAt)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const dismissDuplicatePair = `-- name: DismissDuplicatePair :one
UPDATE duplicate_pairs
SET status = 'dismissed',
    dismissed_by = $2,
    dismissed_at = $3,
    updated_at = NOW()
WHERE id = $1 AND status = 'pending'
RETURNING ` + duplicatePairColumns

type DismissDuplicatePairParams struct {
	ID          pgtype.UUID        `json:"id"`
	DismissedBy pgtype.Text        `json:"dismissed_by"`
	DismissedAt pgtype.Timestamptz `json:"dismissed_at"`
}

// DismissDuplicatePair returns pgx.ErrNoRows when the pair is missing or no longer pending.
func (q *Queries) DismissDuplicatePair(ctx context.Context, arg DismissDuplicatePairParams) (*DuplicatePair, error) {
	row := q.db.QueryRow(ctx, dismissDuplicatePair, arg.ID, arg.DismissedBy, arg.DismissedAt)
	return scanDuplicatePair(row)
}
