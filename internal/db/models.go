package db

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Contact struct {
	ID           pgtype.UUID        `json:"id"`
	ScopeID      pgtype.UUID        `json:"scope_id"`
	Email        pgtype.Text        `json:"email"`
	FirstName    pgtype.Text        `json:"first_name"`
	LastName     pgtype.Text        `json:"last_name"`
	Company      pgtype.Text        `json:"company"`
	Phone        pgtype.Text        `json:"phone"`
	City         pgtype.Text        `json:"city"`
	Country      pgtype.Text        `json:"country"`
	Notes        pgtype.Text        `json:"notes"`
	Tags         []string           `json:"tags"`
	Birthday     pgtype.Date        `json:"birthday"`
	MergedIntoID pgtype.UUID        `json:"merged_into_id"`
	DeletedAt    pgtype.Timestamptz `json:"deleted_at"`
	CreatedAt    pgtype.Timestamptz `json:"created_at"`
	UpdatedAt    pgtype.Timestamptz `json:"updated_at"`
}

type DuplicatePair struct {
	ID              pgtype.UUID        `json:"id"`
	ScopeID         pgtype.UUID        `json:"scope_id"`
	ContactID1      pgtype.UUID        `json:"contact_id_1"`
	ContactID2      pgtype.UUID        `json:"contact_id_2"`
	MatchType       string             `json:"match_type"`
	ConfidenceScore int32              `json:"confidence_score"`
	Status          string             `json:"status"`
	MergedContactID pgtype.UUID        `json:"merged_contact_id"`
	MergeDecisions  []byte             `json:"merge_decisions"`
	DismissedBy     pgtype.Text        `json:"dismissed_by"`
	DismissedAt     pgtype.Timestamptz `json:"dismissed_at"`
	CreatedAt       pgtype.Timestamptz `json:"created_at"`
	UpdatedAt       pgtype.Timestamptz `json:"updated_at"`
}
