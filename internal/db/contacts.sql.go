package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const contactColumns = `id, scope_id, email, first_name, last_name, company, phone, city, country, notes, tags, birthday, merged_into_id, deleted_at, created_at, updated_at`

func scanContact(row interface{ Scan(dest ...any) error }) (*Contact, error) {
	var i Contact
	err := row.Scan(
		&i.ID,
		&i.ScopeID,
		&i.Email,
		&i.FirstName,
		&i.LastName,
		&i.Company,
		&i.Phone,
		&i.City,
		&i.Country,
		&i.Notes,
		&i.Tags,
		&i.Birthday,
		&i.MergedIntoID,
		&i.DeletedAt,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return &i, err
}

const getContact = `-- name: GetContact :one
SELECT ` + contactColumns + `
FROM contacts
WHERE id = $1 AND deleted_at IS NULL
`

func (q *Queries) GetContact(ctx context.Context, id pgtype.UUID) (*Contact, error) {
	row := q.db.QueryRow(ctx, getContact, id)
	return scanContact(row)
}

const listContactsByScope = `-- name: ListContactsByScope :many
SELECT ` + contactColumns + `
FROM contacts
WHERE scope_id = $1 AND deleted_at IS NULL AND merged_into_id IS NULL
ORDER BY created_at ASC, id ASC
`

func (q *Queries) ListContactsByScope(ctx context.Context, scopeID pgtype.UUID) ([]*Contact, error) {
	rows, err := q.db.Query(ctx, listContactsByScope, scopeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []*Contact{}
	for rows.Next() {
		i, err := scanContact(rows)
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

const listScopes = `-- name: ListScopes :many
SELECT DISTINCT scope_id
FROM contacts
WHERE deleted_at IS NULL
ORDER BY scope_id
`

func (q *Queries) ListScopes(ctx context.Context) ([]pgtype.UUID, error) {
	rows, err := q.db.Query(ctx, listScopes)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []pgtype.UUID{}
	for rows.Next() {
		var scopeID pgtype.UUID
		if err := rows.Scan(&scopeID); err != nil {
			return nil, err
		}
		items = append(items, scopeID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const updateContactFields = `-- name: UpdateContactFields :one
UPDATE contacts
SET email = $2,
    first_name = $3,
    last_name = $4,
    company = $5,
    phone = $6,
    city = $7,
    country = $8,
    notes = $9,
    tags = $10,
    birthday = $11,
    updated_at = NOW()
WHERE id = $1 AND deleted_at IS NULL
RETURNING ` + contactColumns

type UpdateContactFieldsParams struct {
	ID        pgtype.UUID `json:"id"`
	Email     pgtype.Text `json:"email"`
	FirstName pgtype.Text `json:"first_name"`
	LastName  pgtype.Text `json:"last_name"`
	Company   pgtype.Text `json:"company"`
	Phone     pgtype.Text `json:"phone"`
	City      pgtype.Text `json:"city"`
	Country   pgtype.Text `json:"country"`
	Notes     pgtype.Text `json:"notes"`
	Tags      []string    `json:"tags"`
	Birthday  pgtype.Date `json:"birthday"`
}

func (q *Queries) UpdateContactFields(ctx context.Context, arg UpdateContactFieldsParams) (*Contact, error) {
	row := q.db.QueryRow(ctx, updateContactFields,
		arg.ID,
		arg.Email,
		arg.FirstName,
		arg.LastName,
		arg.Company,
		arg.Phone,
		arg.City,
		arg.Country,
		arg.Notes,
		arg.Tags,
		arg.Birthday,
	)
	return scanContact(row)
}

const markContactMergedInto = `-- name: MarkContactMergedInto :execrows
UPDATE contacts
SET merged_into_id = $2,
    deleted_at = NOW(),
    updated_at = NOW()
WHERE id = $1 AND deleted_at IS NULL
`

type MarkContactMergedIntoParams struct {
	ID           pgtype.UUID `json:"id"`
	MergedIntoID pgtype.UUID `json:"merged_into_id"`
}

func (q *Queries) MarkContactMergedInto(ctx context.Context, arg MarkContactMergedIntoParams) (int64, error) {
	result, err := q.db.Exec(ctx, markContactMergedInto, arg.ID, arg.MergedIntoID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
