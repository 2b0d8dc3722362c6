package dedup

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"contact-dedup/internal/matching"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a duplicate pair.
type Status string

const (
	StatusPending   Status = "pending"
	StatusMerged    Status = "merged"
	StatusDismissed Status = "dismissed"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusMerged, StatusDismissed:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed from s.
func (s Status) Terminal() bool {
	return s == StatusMerged || s == StatusDismissed
}

// DuplicatePair is a candidate match awaiting review.
type DuplicatePair struct {
	ID              uuid.UUID          `json:"id"`
	ScopeID         uuid.UUID          `json:"scope_id"`
	ContactID1      uuid.UUID          `json:"contact_id_1"`
	ContactID2      uuid.UUID          `json:"contact_id_2"`
	MatchType       matching.MatchType `json:"match_type"`
	ConfidenceScore int                `json:"confidence_score"`
	Status          Status             `json:"status"`
	MergedContactID *uuid.UUID         `json:"merged_contact_id,omitempty"`
	MergeDecisions  []MergeDecision    `json:"merge_decisions,omitempty"`
	DismissedBy     *string            `json:"dismissed_by,omitempty"`
	DismissedAt     *time.Time         `json:"dismissed_at,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
}

// PairKey identifies an unordered pair of contacts.
type PairKey struct {
	Low  uuid.UUID
	High uuid.UUID
}

// NewPairKey orders the two ids so {a,b} and {b,a} share a key.
func NewPairKey(a, b uuid.UUID) PairKey {
	if bytes.Compare(a[:], b[:]) > 0 {
		a, b = b, a
	}
	return PairKey{Low: a, High: b}
}

// NewDuplicatePair builds a pending pair from a classification result.
func NewDuplicatePair(scopeID, contactID1, contactID2 uuid.UUID, result matching.Result, now time.Time) (*DuplicatePair, error) {
	if contactID1 == uuid.Nil || contactID2 == uuid.Nil {
		return nil, invalidInput("contact ids are required")
	}
	if contactID1 == contactID2 {
		return nil, invalidInput("pair must reference two different contacts, got %s twice", contactID1)
	}
	if result.Score < 0 || result.Score > 100 {
		return nil, invalidInput("confidence score %d out of range", result.Score)
	}
	if !result.MatchType.Valid() {
		return nil, invalidInput("unknown match type %q", result.MatchType)
	}

	return &DuplicatePair{
		ScopeID:         scopeID,
		ContactID1:      contactID1,
		ContactID2:      contactID2,
		MatchType:       result.MatchType,
		ConfidenceScore: result.Score,
		Status:          StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// Key returns the unordered key of the pair.
func (p *DuplicatePair) Key() PairKey {
	return NewPairKey(p.ContactID1, p.ContactID2)
}

// Side reports which side of the pair id is on.
func (p *DuplicatePair) Side(id uuid.UUID) (MergeSource, bool) {
	switch id {
	case p.ContactID1:
		return SourceContact1, true
	case p.ContactID2:
		return SourceContact2, true
	}
	return "", false
}

// ConfidenceLevel maps the pair's score onto the default levels.
func (p *DuplicatePair) ConfidenceLevel() matching.ConfidenceLevel {
	return matching.ConfidenceLevelFor(p.ConfidenceScore)
}

func (p *DuplicatePair) requirePending(action string) error {
	if p.Status != StatusPending {
		return fmt.Errorf("%w: cannot %s pair %s in status %s", ErrStateConflict, action, p.ID, p.Status)
	}
	return nil
}

// MarkMerged records that the merge executor produced mergedContactID.
func (p *DuplicatePair) MarkMerged(mergedContactID uuid.UUID, decisions []MergeDecision, at time.Time) error {
	if err := p.requirePending("merge"); err != nil {
		return err
	}
	if mergedContactID == uuid.Nil {
		return invalidInput("merged contact id is required")
	}

	p.Status = StatusMerged
	p.MergedContactID = &mergedContactID
	p.MergeDecisions = decisions
	p.UpdatedAt = at
	return nil
}

// Dismiss records a reviewer's decision that the pair is not a duplicate.
func (p *DuplicatePair) Dismiss(by string, at time.Time) error {
	if err := p.requirePending("dismiss"); err != nil {
		return err
	}
	by = strings.TrimSpace(by)
	if by == "" {
		return invalidInput("dismissed_by is required")
	}
	if at.IsZero() {
		return invalidInput("dismissed_at is required")
	}

	p.Status = StatusDismissed
	p.DismissedBy = &by
	p.DismissedAt = &at
	p.UpdatedAt = at
	return nil
}
