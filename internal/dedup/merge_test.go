package dedup

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeArrays(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c", "d"}, MergeArrays([]string{"a", "b", "c"}, []string{"b", "c", "d"}))
	assert.Equal(t, []string{"a"}, MergeArrays([]string{"a", "a"}, nil))
	assert.Equal(t, []int{3, 1, 2}, MergeArrays([]int{3, 1}, []int{1, 2, 3}))
	assert.Empty(t, MergeArrays[string](nil, nil))
}

func mergeFixtures() (*Contact, *Contact) {
	c1 := newContact("john.doe@co1.com", "John", "Doe")
	c1.Company = stringPtr("Acme")
	c1.Notes = stringPtr("Met at the conference")
	c1.Tags = []string{"vip", "speaker"}
	c1.Birthday = datePtr("1980-05-01")

	c2 := newContact("johndoe@co2.com", "Johnny", "Doe")
	c2.Company = stringPtr("Acme Corporation")
	c2.Phone = stringPtr("+1 555 0100")
	c2.Notes = stringPtr("Prefers email")
	c2.Tags = []string{"speaker", "press"}
	return c1, c2
}

func TestPlanMerge_DefaultsToSuggestions(t *testing.T) {
	c1, c2 := mergeFixtures()

	plan, err := PlanMerge(nil, c1, c2, SourceContact1)
	require.NoError(t, err)

	assert.Equal(t, c1.ID, plan.KeepContactID)
	assert.Equal(t, c2.ID, plan.DiscardContactID)
	assert.Equal(t, c1.ID, plan.Merged.ID)

	assert.Equal(t, "john.doe@co1.com", plan.Merged.Email)
	assert.Equal(t, "Johnny", plan.Merged.FirstName)
	assert.Equal(t, "Acme Corporation", *plan.Merged.Company)
	assert.Equal(t, "+1 555 0100", *plan.Merged.Phone)
	assert.Equal(t, "Met at the conference", *plan.Merged.Notes)
	assert.Equal(t, []string{"speaker", "press"}, plan.Merged.Tags)
	assert.Equal(t, c1.Birthday, plan.Merged.Birthday)
	assert.Len(t, plan.Decisions, len(AllFields))

	// Inputs are left untouched.
	assert.Equal(t, "John", c1.FirstName)
}

func TestPlanMerge_ExplicitDecisions(t *testing.T) {
	c1, c2 := mergeFixtures()

	decisions := []MergeDecision{
		{Field: FieldEmail, Source: SourceContact2},
		{Field: FieldFirstName, Source: SourceContact1},
		{Field: FieldTags, Source: SourceCombined},
		{Field: FieldNotes, Source: SourceCombined},
		{Field: FieldCity, Source: SourceContact1, CustomValue: stringPtr("Lisbon")},
		{Field: FieldBirthday, Source: SourceCombined, CustomValue: stringPtr("1980-05-02")},
	}

	plan, err := PlanMerge(decisions, c1, c2, SourceContact2)
	require.NoError(t, err)

	merged := plan.Merged
	assert.Equal(t, c2.ID, merged.ID)
	assert.Equal(t, c1.ID, plan.DiscardContactID)
	assert.Equal(t, "johndoe@co2.com", merged.Email)
	assert.Equal(t, "John", merged.FirstName)
	assert.Equal(t, "Lisbon", *merged.City)
	assert.Equal(t, "1980-05-02", merged.Birthday.Format(DateLayout))
	assert.Equal(t, "Met at the conference\n\nPrefers email", *merged.Notes)

	if diff := cmp.Diff([]string{"vip", "speaker", "press"}, merged.Tags); diff != "" {
		t.Errorf("merged tags mismatch (-want +got):\n%s", diff)
	}

	emailDecision := plan.Decisions[0]
	assert.Equal(t, MergeDecision{Field: FieldEmail, Source: SourceContact2}, emailDecision)
}

func TestPlanMerge_CustomValueClearsOptionalField(t *testing.T) {
	c1, c2 := mergeFixtures()

	plan, err := PlanMerge([]MergeDecision{
		{Field: FieldCompany, Source: SourceContact1, CustomValue: stringPtr("")},
		{Field: FieldTags, Source: SourceContact1, CustomValue: stringPtr("a, b ,a,")},
	}, c1, c2, SourceContact1)
	require.NoError(t, err)
	assert.Nil(t, plan.Merged.Company)
	assert.Equal(t, []string{"a", "b"}, plan.Merged.Tags)
}

func TestPlanMerge_Errors(t *testing.T) {
	c1, c2 := mergeFixtures()

	tests := []struct {
		name      string
		decisions []MergeDecision
		keep      MergeSource
		expected  error
	}{
		{
			name:      "combined scalar without custom value",
			decisions: []MergeDecision{{Field: FieldBirthday, Source: SourceCombined}},
			keep:      SourceContact1,
			expected:  ErrIncompleteMergeDecision,
		},
		{
			name:      "combined email without custom value",
			decisions: []MergeDecision{{Field: FieldEmail, Source: SourceCombined}},
			keep:      SourceContact1,
			expected:  ErrIncompleteMergeDecision,
		},
		{
			name:      "unknown field",
			decisions: []MergeDecision{{Field: "shoe_size", Source: SourceContact1}},
			keep:      SourceContact1,
			expected:  ErrInvalidInput,
		},
		{
			name:      "unknown source",
			decisions: []MergeDecision{{Field: FieldCity, Source: "contact3"}},
			keep:      SourceContact1,
			expected:  ErrInvalidInput,
		},
		{
			name: "duplicate decision",
			decisions: []MergeDecision{
				{Field: FieldCity, Source: SourceContact1},
				{Field: FieldCity, Source: SourceContact2},
			},
			keep:     SourceContact1,
			expected: ErrInvalidInput,
		},
		{
			name:     "invalid keep",
			keep:     SourceCombined,
			expected: ErrInvalidInput,
		},
		{
			name:      "custom value clears required field",
			decisions: []MergeDecision{{Field: FieldLastName, Source: SourceContact1, CustomValue: stringPtr("")}},
			keep:      SourceContact1,
			expected:  ErrInvalidInput,
		},
		{
			name:      "bad birthday",
			decisions: []MergeDecision{{Field: FieldBirthday, CustomValue: stringPtr("May 1st")}},
			keep:      SourceContact1,
			expected:  ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PlanMerge(tt.decisions, c1, c2, tt.keep)
			assert.ErrorIs(t, err, tt.expected)
		})
	}
}

func TestPlanMerge_SameContact(t *testing.T) {
	c1, _ := mergeFixtures()
	_, err := PlanMerge(nil, c1, c1, SourceContact1)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
