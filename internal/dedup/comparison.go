package dedup

import (
	"unicode/utf8"

	"contact-dedup/internal/matching"

	"github.com/google/uuid"
)

// MergeSource says where the merged value of a field comes from.
type MergeSource string

const (
	SourceContact1 MergeSource = "contact1"
	SourceContact2 MergeSource = "contact2"
	SourceCombined MergeSource = "combined"
)

// Valid reports whether s is a known source.
func (s MergeSource) Valid() bool {
	switch s {
	case SourceContact1, SourceContact2, SourceCombined:
		return true
	}
	return false
}

// FieldComparison is one row of a side-by-side comparison.
type FieldComparison struct {
	Field           Field       `json:"field_name"`
	Value1          *string     `json:"value1"`
	Value2          *string     `json:"value2"`
	Similarity      int         `json:"similarity"`
	SuggestedSource MergeSource `json:"suggested_source"`
}

// ContactComparison is the field-by-field comparison of two contacts.
type ContactComparison struct {
	Contact1ID uuid.UUID         `json:"contact1_id"`
	Contact2ID uuid.UUID         `json:"contact2_id"`
	Fields     []FieldComparison `json:"fields"`
}

// Field returns the comparison row for f, if present.
func (cc *ContactComparison) Field(f Field) (FieldComparison, bool) {
	for _, row := range cc.Fields {
		if row.Field == f {
			return row, true
		}
	}
	return FieldComparison{}, false
}

func present(v *string) bool {
	return v != nil && *v != ""
}

// SuggestSource picks the side whose value should win by default. A value
// present on one side only wins; with neither present contact1 is used;
// with both present the strictly longer value wins and ties go to contact1.
func SuggestSource(value1, value2 *string) MergeSource {
	p1, p2 := present(value1), present(value2)
	switch {
	case p1 && !p2:
		return SourceContact1
	case p2 && !p1:
		return SourceContact2
	case !p1 && !p2:
		return SourceContact1
	}
	if utf8.RuneCountInString(*value2) > utf8.RuneCountInString(*value1) {
		return SourceContact2
	}
	return SourceContact1
}

// FieldSimilarity scores two field values for a comparison. Two absent
// values score 100 and a single absent value scores 0, even when the
// present side is empty. matching.Similarity, which only sees strings,
// scores those cases differently.
func FieldSimilarity(value1, value2 *string) int {
	switch {
	case value1 == nil && value2 == nil:
		return 100
	case value1 == nil || value2 == nil:
		return 0
	default:
		return matching.Similarity(*value1, *value2)
	}
}

// BuildComparison compares the listed fields of two contacts, keeping
// the order of fields.
func BuildComparison(contact1, contact2 *Contact, fields []Field) (*ContactComparison, error) {
	if contact1 == nil || contact2 == nil {
		return nil, invalidInput("both contacts are required")
	}

	comparison := &ContactComparison{
		Contact1ID: contact1.ID,
		Contact2ID: contact2.ID,
		Fields:     make([]FieldComparison, 0, len(fields)),
	}

	for _, f := range fields {
		v1, err := contact1.Value(f)
		if err != nil {
			return nil, err
		}
		v2, err := contact2.Value(f)
		if err != nil {
			return nil, err
		}

		comparison.Fields = append(comparison.Fields, FieldComparison{
			Field:           f,
			Value1:          cloneString(v1),
			Value2:          cloneString(v2),
			Similarity:      FieldSimilarity(v1, v2),
			SuggestedSource: SuggestSource(v1, v2),
		})
	}

	return comparison, nil
}
