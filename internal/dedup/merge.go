package dedup

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// MergeDecision is a reviewer's choice for one field. CustomValue, when
// set, overrides both sources.
type MergeDecision struct {
	Field       Field       `json:"field_name"`
	Source      MergeSource `json:"source"`
	CustomValue *string     `json:"custom_value,omitempty"`
}

// MergePlan is the resolved outcome of a set of decisions.
type MergePlan struct {
	KeepContactID    uuid.UUID       `json:"keep_contact_id"`
	DiscardContactID uuid.UUID       `json:"discard_contact_id"`
	Merged           *Contact        `json:"merged"`
	Decisions        []MergeDecision `json:"decisions"`
}

// MergeArrays returns the union of a and b in first-seen order.
func MergeArrays[T comparable](a, b []T) []T {
	seen := make(map[T]struct{}, len(a)+len(b))
	out := make([]T, 0, len(a)+len(b))
	for _, list := range [][]T{a, b} {
		for _, v := range list {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

// PlanMerge resolves every mergeable field into a draft of the surviving
// record. keep names the contact that survives (contact1 or contact2).
// Fields without a decision take the suggested source.
func PlanMerge(decisions []MergeDecision, contact1, contact2 *Contact, keep MergeSource) (*MergePlan, error) {
	if contact1 == nil || contact2 == nil {
		return nil, invalidInput("both contacts are required")
	}
	if contact1.ID == contact2.ID {
		return nil, invalidInput("cannot merge contact %s with itself", contact1.ID)
	}

	var kept, discarded *Contact
	switch keep {
	case SourceContact1:
		kept, discarded = contact1, contact2
	case SourceContact2:
		kept, discarded = contact2, contact1
	default:
		return nil, invalidInput("keep must be %s or %s, got %q", SourceContact1, SourceContact2, keep)
	}

	byField := make(map[Field]MergeDecision, len(decisions))
	for _, d := range decisions {
		if !d.Field.Valid() {
			return nil, invalidInput("unknown field %q", d.Field)
		}
		if d.CustomValue == nil && !d.Source.Valid() {
			return nil, invalidInput("field %s has unknown source %q", d.Field, d.Source)
		}
		if _, dup := byField[d.Field]; dup {
			return nil, invalidInput("field %s has more than one decision", d.Field)
		}
		byField[d.Field] = d
	}

	merged := kept.Clone()
	resolved := make([]MergeDecision, 0, len(AllFields))

	for _, f := range AllFields {
		d, ok := byField[f]
		if !ok {
			v1, _ := contact1.Value(f)
			v2, _ := contact2.Value(f)
			d = MergeDecision{Field: f, Source: SuggestSource(v1, v2)}
		}

		if err := applyDecision(merged, contact1, contact2, d); err != nil {
			return nil, err
		}
		resolved = append(resolved, d)
	}

	if err := ValidateContact(merged); err != nil {
		return nil, err
	}

	return &MergePlan{
		KeepContactID:    kept.ID,
		DiscardContactID: discarded.ID,
		Merged:           merged,
		Decisions:        resolved,
	}, nil
}

func applyDecision(dst, contact1, contact2 *Contact, d MergeDecision) error {
	if d.CustomValue != nil {
		return setFromText(dst, d.Field, *d.CustomValue)
	}

	switch d.Source {
	case SourceContact1:
		return copyField(dst, contact1, d.Field)
	case SourceContact2:
		return copyField(dst, contact2, d.Field)
	case SourceCombined:
		return combineField(dst, contact1, contact2, d.Field)
	}
	return invalidInput("field %s has unknown source %q", d.Field, d.Source)
}

func combineField(dst, contact1, contact2 *Contact, f Field) error {
	switch f {
	case FieldTags:
		if contact1.Tags == nil && contact2.Tags == nil {
			dst.Tags = nil
			return nil
		}
		dst.Tags = MergeArrays(contact1.Tags, contact2.Tags)
		return nil
	case FieldNotes:
		dst.Notes = combineNotes(contact1.Notes, contact2.Notes)
		return nil
	}
	return fmt.Errorf("%w: field %s cannot be combined without a custom value", ErrIncompleteMergeDecision, f)
}

func combineNotes(notes1, notes2 *string) *string {
	var parts []string
	for _, n := range []*string{notes1, notes2} {
		if n == nil {
			continue
		}
		if trimmed := strings.TrimSpace(*n); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	parts = MergeArrays(parts, nil)
	if len(parts) == 0 {
		return nil
	}
	joined := strings.Join(parts, "\n\n")
	return &joined
}
