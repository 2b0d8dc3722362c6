package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"contact-dedup/internal/db"
	"contact-dedup/internal/dedup"
	"contact-dedup/internal/repository"

	"github.com/google/uuid"
)

func stringPtr(s string) *string {
	return &s
}

func newContact(scopeID uuid.UUID, email, first, last string) *dedup.Contact {
	return &dedup.Contact{
		ID:        uuid.New(),
		ScopeID:   scopeID,
		Email:     email,
		FirstName: first,
		LastName:  last,
	}
}

type fakeContactStore struct {
	byScope map[uuid.UUID][]*dedup.Contact
	listErr error
}

func newFakeContactStore(contacts ...*dedup.Contact) *fakeContactStore {
	store := &fakeContactStore{byScope: map[uuid.UUID][]*dedup.Contact{}}
	for _, c := range contacts {
		store.byScope[c.ScopeID] = append(store.byScope[c.ScopeID], c)
	}
	return store
}

func (f *fakeContactStore) ListContactsByScope(ctx context.Context, scopeID uuid.UUID) ([]*dedup.Contact, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.byScope[scopeID], nil
}

func (f *fakeContactStore) ListScopes(ctx context.Context) ([]uuid.UUID, error) {
	scopes := make([]uuid.UUID, 0, len(f.byScope))
	for id := range f.byScope {
		scopes = append(scopes, id)
	}
	return scopes, nil
}

func (f *fakeContactStore) GetContact(ctx context.Context, id uuid.UUID) (*dedup.Contact, error) {
	for _, contacts := range f.byScope {
		for _, c := range contacts {
			if c.ID == id {
				return c, nil
			}
		}
	}
	return nil, db.ErrNotFound
}

// fakePairStore mimics the blocking rules of the duplicate_pairs table.
type fakePairStore struct {
	mu        sync.Mutex
	pairs     map[uuid.UUID]*dedup.DuplicatePair
	failFor   map[dedup.PairKey]error
	dismissed int
}

func newFakePairStore() *fakePairStore {
	return &fakePairStore{
		pairs:   map[uuid.UUID]*dedup.DuplicatePair{},
		failFor: map[dedup.PairKey]error{},
	}
}

func (f *fakePairStore) CreateIfAbsent(ctx context.Context, pair *dedup.DuplicatePair, allowReevaluation bool) (*dedup.DuplicatePair, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err, ok := f.failFor[pair.Key()]; ok {
		return nil, false, err
	}
	for _, existing := range f.pairs {
		if existing.Key() != pair.Key() {
			continue
		}
		if existing.Status != dedup.StatusDismissed || !allowReevaluation {
			return nil, false, nil
		}
	}

	stored := *pair
	stored.ID = uuid.New()
	f.pairs[stored.ID] = &stored
	return &stored, true, nil
}

func (f *fakePairStore) add(pair *dedup.DuplicatePair) *dedup.DuplicatePair {
	stored, _, _ := f.CreateIfAbsent(context.Background(), pair, false)
	return stored
}

func (f *fakePairStore) GetByID(ctx context.Context, id uuid.UUID) (*dedup.DuplicatePair, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	pair, ok := f.pairs[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	clone := *pair
	return &clone, nil
}

func (f *fakePairStore) List(ctx context.Context, params repository.ListPairsParams) ([]*dedup.DuplicatePair, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []*dedup.DuplicatePair
	for _, pair := range f.pairs {
		if params.Status != nil && pair.Status != *params.Status {
			continue
		}
		out = append(out, pair)
		if int32(len(out)) == params.Limit {
			break
		}
	}
	return out, nil
}

func (f *fakePairStore) Count(ctx context.Context, scopeID *uuid.UUID, status *dedup.Status) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var n int64
	for _, pair := range f.pairs {
		if status == nil || pair.Status == *status {
			n++
		}
	}
	return n, nil
}

func (f *fakePairStore) Dismiss(ctx context.Context, id uuid.UUID, dismissedBy string, dismissedAt time.Time) (*dedup.DuplicatePair, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	pair, ok := f.pairs[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	if err := pair.Dismiss(dismissedBy, dismissedAt); err != nil {
		return nil, err
	}
	f.dismissed++
	return pair, nil
}

// fakeMergeExecutor applies the plan to the in-memory stores.
type fakeMergeExecutor struct {
	pairs *fakePairStore
	plan  *dedup.MergePlan
	err   error
}

func (f *fakeMergeExecutor) ExecuteMerge(ctx context.Context, pairID uuid.UUID, plan *dedup.MergePlan) (*dedup.DuplicatePair, *dedup.Contact, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	f.plan = plan

	f.pairs.mu.Lock()
	defer f.pairs.mu.Unlock()
	pair, ok := f.pairs.pairs[pairID]
	if !ok {
		return nil, nil, errors.New("pair vanished")
	}
	if err := pair.MarkMerged(plan.KeepContactID, plan.Decisions, time.Now()); err != nil {
		return nil, nil, err
	}
	return pair, plan.Merged, nil
}
