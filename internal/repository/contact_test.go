package repository

import (
	"context"
	"testing"
	"time"

	"contact-dedup/internal/db"
	"contact-dedup/internal/dedup"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeContactQuerier struct {
	db.Querier

	contacts map[uuid.UUID]*db.Contact
	updated  *db.UpdateContactFieldsParams
	retired  *db.MarkContactMergedIntoParams
}

func (f *fakeContactQuerier) GetContact(ctx context.Context, id pgtype.UUID) (*db.Contact, error) {
	c, ok := f.contacts[uuid.UUID(id.Bytes)]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return c, nil
}

func (f *fakeContactQuerier) UpdateContactFields(ctx context.Context, arg db.UpdateContactFieldsParams) (*db.Contact, error) {
	c, ok := f.contacts[uuid.UUID(arg.ID.Bytes)]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	f.updated = &arg
	c.Email, c.FirstName, c.LastName = arg.Email, arg.FirstName, arg.LastName
	c.Company, c.Tags, c.Birthday = arg.Company, arg.Tags, arg.Birthday
	return c, nil
}

func (f *fakeContactQuerier) MarkContactMergedInto(ctx context.Context, arg db.MarkContactMergedIntoParams) (int64, error) {
	if _, ok := f.contacts[uuid.UUID(arg.ID.Bytes)]; !ok {
		return 0, nil
	}
	f.retired = &arg
	return 1, nil
}

func stringPtr(s string) *string {
	return &s
}

func TestConvertDbContact(t *testing.T) {
	id, scope := uuid.New(), uuid.New()
	birthday := time.Date(1985, 7, 4, 0, 0, 0, 0, time.UTC)

	contact := convertDbContact(&db.Contact{
		ID:        uuidToPgUUID(id),
		ScopeID:   uuidToPgUUID(scope),
		Email:     pgtype.Text{String: "a@b.com", Valid: true},
		FirstName: pgtype.Text{String: "Ann", Valid: true},
		Company:   pgtype.Text{String: "Acme", Valid: true},
		Tags:      []string{"vip"},
		Birthday:  pgtype.Date{Time: birthday, Valid: true},
	})

	assert.Equal(t, id, contact.ID)
	assert.Equal(t, scope, contact.ScopeID)
	assert.Equal(t, "a@b.com", contact.Email)
	assert.Equal(t, "", contact.LastName)
	assert.Equal(t, "Acme", *contact.Company)
	assert.Nil(t, contact.Phone)
	assert.Equal(t, birthday, *contact.Birthday)
	assert.ErrorIs(t, dedup.ValidateContact(contact), dedup.ErrInvalidInput)
}

func TestContactRepository_GetContact_NotFound(t *testing.T) {
	repo := NewContactRepository(&fakeContactQuerier{contacts: map[uuid.UUID]*db.Contact{}})
	_, err := repo.GetContact(context.Background(), uuid.New())
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestContactRepository_ApplyMerge(t *testing.T) {
	keepID, discardID := uuid.New(), uuid.New()
	queries := &fakeContactQuerier{contacts: map[uuid.UUID]*db.Contact{
		keepID:    {ID: uuidToPgUUID(keepID)},
		discardID: {ID: uuidToPgUUID(discardID)},
	}}
	repo := NewContactRepository(queries)

	plan := &dedup.MergePlan{
		KeepContactID:    keepID,
		DiscardContactID: discardID,
		Merged: &dedup.Contact{
			ID:        keepID,
			Email:     "john@example.com",
			FirstName: "John",
			LastName:  "Doe",
			Company:   stringPtr("Acme Corporation"),
			Tags:      []string{"a", "b"},
		},
	}

	merged, err := repo.ApplyMerge(context.Background(), plan)
	require.NoError(t, err)
	assert.Equal(t, "john@example.com", merged.Email)
	assert.Equal(t, "Acme Corporation", *merged.Company)
	assert.False(t, queries.updated.Phone.Valid)
	require.NotNil(t, queries.retired)
	assert.Equal(t, uuidToPgUUID(keepID), queries.retired.MergedIntoID)

	plan.DiscardContactID = uuid.New()
	_, err = repo.ApplyMerge(context.Background(), plan)
	assert.ErrorIs(t, err, db.ErrNotFound)
}
