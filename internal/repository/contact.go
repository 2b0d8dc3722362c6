package repository

import (
	"context"
	"errors"
	"fmt"

	"contact-dedup/internal/db"
	"contact-dedup/internal/dedup"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ContactRepository reads contacts for detection and writes merge results.
type ContactRepository struct {
	queries db.Querier
}

func NewContactRepository(queries db.Querier) *ContactRepository {
	return &ContactRepository{queries: queries}
}

// convertDbContact converts a database contact to the dedup projection
func convertDbContact(dbContact *db.Contact) *dedup.Contact {
	contact := &dedup.Contact{
		Email:     dbContact.Email.String,
		FirstName: dbContact.FirstName.String,
		LastName:  dbContact.LastName.String,
		Company:   pgTextToPtr(dbContact.Company),
		Phone:     pgTextToPtr(dbContact.Phone),
		City:      pgTextToPtr(dbContact.City),
		Country:   pgTextToPtr(dbContact.Country),
		Notes:     pgTextToPtr(dbContact.Notes),
		Tags:      dbContact.Tags,
		Birthday:  pgDateToPtr(dbContact.Birthday),
	}

	if dbContact.ID.Valid {
		contact.ID = uuid.UUID(dbContact.ID.Bytes)
	}
	if dbContact.ScopeID.Valid {
		contact.ScopeID = uuid.UUID(dbContact.ScopeID.Bytes)
	}
	if dbContact.CreatedAt.Valid {
		contact.CreatedAt = dbContact.CreatedAt.Time
	}
	if dbContact.UpdatedAt.Valid {
		contact.UpdatedAt = dbContact.UpdatedAt.Time
	}

	return contact
}

// GetContact returns an active contact by id
func (r *ContactRepository) GetContact(ctx context.Context, id uuid.UUID) (*dedup.Contact, error) {
	dbContact, err := r.queries.GetContact(ctx, uuidToPgUUID(id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, db.ErrNotFound
		}
		return nil, err
	}
	return convertDbContact(dbContact), nil
}

// ListContactsByScope returns the active, unmerged contacts of a scope
func (r *ContactRepository) ListContactsByScope(ctx context.Context, scopeID uuid.UUID) ([]*dedup.Contact, error) {
	dbContacts, err := r.queries.ListContactsByScope(ctx, uuidToPgUUID(scopeID))
	if err != nil {
		return nil, err
	}

	contacts := make([]*dedup.Contact, len(dbContacts))
	for i, dbContact := range dbContacts {
		contacts[i] = convertDbContact(dbContact)
	}
	return contacts, nil
}

// ListScopes returns every scope that owns at least one active contact
func (r *ContactRepository) ListScopes(ctx context.Context) ([]uuid.UUID, error) {
	dbScopes, err := r.queries.ListScopes(ctx)
	if err != nil {
		return nil, err
	}

	scopes := make([]uuid.UUID, 0, len(dbScopes))
	for _, scope := range dbScopes {
		if scope.Valid {
			scopes = append(scopes, uuid.UUID(scope.Bytes))
		}
	}
	return scopes, nil
}

// ApplyMerge writes the merged draft onto the kept contact and retires the
// discarded one
func (r *ContactRepository) ApplyMerge(ctx context.Context, plan *dedup.MergePlan) (*dedup.Contact, error) {
	merged := plan.Merged
	dbContact, err := r.queries.UpdateContactFields(ctx, db.UpdateContactFieldsParams{
		ID:        uuidToPgUUID(plan.KeepContactID),
		Email:     requiredToPgText(merged.Email),
		FirstName: requiredToPgText(merged.FirstName),
		LastName:  requiredToPgText(merged.LastName),
		Company:   stringToPgText(merged.Company),
		Phone:     stringToPgText(merged.Phone),
		City:      stringToPgText(merged.City),
		Country:   stringToPgText(merged.Country),
		Notes:     stringToPgText(merged.Notes),
		Tags:      merged.Tags,
		Birthday:  timeToPgDate(merged.Birthday),
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("kept contact %s: %w", plan.KeepContactID, db.ErrNotFound)
		}
		return nil, fmt.Errorf("update kept contact: %w", err)
	}

	affected, err := r.queries.MarkContactMergedInto(ctx, db.MarkContactMergedIntoParams{
		ID:           uuidToPgUUID(plan.DiscardContactID),
		MergedIntoID: uuidToPgUUID(plan.KeepContactID),
	})
	if err != nil {
		return nil, fmt.Errorf("retire discarded contact: %w", err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("discarded contact %s: %w", plan.DiscardContactID, db.ErrNotFound)
	}

	return convertDbContact(dbContact), nil
}
