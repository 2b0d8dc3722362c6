package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

type Querier interface {
	CountDuplicatePairs(ctx context.Context, arg CountDuplicatePairsParams) (int64, error)
	CreateDuplicatePairIfAbsent(ctx context.Context, arg CreateDuplicatePairIfAbsentParams) (*DuplicatePair, error)
	DismissDuplicatePair(ctx context.Context, arg DismissDuplicatePairParams) (*DuplicatePair, error)
	DismissPendingPairsForContact(ctx context.Context, arg DismissPendingPairsForContactParams) (int64, error)
	GetContact(ctx context.Context, id pgtype.UUID) (*Contact, error)
	GetDuplicatePair(ctx context.Context, id pgtype.UUID) (*DuplicatePair, error)
	ListContactsByScope(ctx context.Context, scopeID pgtype.UUID) ([]*Contact, error)
	ListDuplicatePairs(ctx context.Context, arg ListDuplicatePairsParams) ([]*DuplicatePair, error)
	ListScopes(ctx context.Context) ([]pgtype.UUID, error)
	MarkContactMergedInto(ctx context.Context, arg MarkContactMergedIntoParams) (int64, error)
	MarkDuplicatePairMerged(ctx context.Context, arg MarkDuplicatePairMergedParams) (*DuplicatePair, error)
	UpdateContactFields(ctx context.Context, arg UpdateContactFieldsParams) (*Contact, error)
}

var _ Querier = (*Queries)(nil)
