package dedup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestSource(t *testing.T) {
	tests := []struct {
		name     string
		value1   *string
		value2   *string
		expected MergeSource
	}{
		{name: "only first present", value1: stringPtr("value"), value2: nil, expected: SourceContact1},
		{name: "only second present", value1: nil, value2: stringPtr("value"), expected: SourceContact2},
		{name: "equal values", value1: stringPtr("same"), value2: stringPtr("same"), expected: SourceContact1},
		{name: "second longer", value1: stringPtr("short"), value2: stringPtr("longer value"), expected: SourceContact2},
		{name: "first longer", value1: stringPtr("longer value"), value2: stringPtr("short"), expected: SourceContact1},
		{name: "neither present", value1: nil, value2: nil, expected: SourceContact1},
		{name: "empty string counts as absent", value1: stringPtr(""), value2: stringPtr("x"), expected: SourceContact2},
		{name: "both empty strings", value1: stringPtr(""), value2: stringPtr(""), expected: SourceContact1},
		{name: "length in characters", value1: stringPtr("ééé"), value2: stringPtr("abcd"), expected: SourceContact2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SuggestSource(tt.value1, tt.value2))
		})
	}
}

func TestFieldSimilarity(t *testing.T) {
	assert.Equal(t, 100, FieldSimilarity(nil, nil))
	assert.Equal(t, 0, FieldSimilarity(stringPtr("x"), nil))
	assert.Equal(t, 0, FieldSimilarity(nil, stringPtr("")))
	assert.Equal(t, 100, FieldSimilarity(stringPtr(""), stringPtr("")))
	assert.Equal(t, 100, FieldSimilarity(stringPtr("Café"), stringPtr("cafe")))
	assert.Equal(t, 75, FieldSimilarity(stringPtr("jon"), stringPtr("john")))
}

func TestBuildComparison(t *testing.T) {
	c1 := newContact("john.doe@co1.com", "John", "Doe")
	c1.Company = stringPtr("Acme")
	c1.City = stringPtr("Berlin")

	c2 := newContact("johndoe@co2.com", "John", "Doe")
	c2.Company = stringPtr("Acme Corporation")
	c2.Phone = stringPtr("+49 30 1234")

	fields := []Field{FieldPhone, FieldEmail, FieldCompany, FieldCity, FieldCountry}
	comparison, err := BuildComparison(c1, c2, fields)
	require.NoError(t, err)

	assert.Equal(t, c1.ID, comparison.Contact1ID)
	assert.Equal(t, c2.ID, comparison.Contact2ID)
	require.Len(t, comparison.Fields, len(fields))
	for i, f := range fields {
		assert.Equal(t, f, comparison.Fields[i].Field)
	}

	phone, _ := comparison.Field(FieldPhone)
	assert.Nil(t, phone.Value1)
	assert.Equal(t, "+49 30 1234", *phone.Value2)
	assert.Equal(t, 0, phone.Similarity)
	assert.Equal(t, SourceContact2, phone.SuggestedSource)

	company, _ := comparison.Field(FieldCompany)
	assert.Equal(t, SourceContact2, company.SuggestedSource)
	assert.Less(t, company.Similarity, 100)

	country, _ := comparison.Field(FieldCountry)
	assert.Equal(t, 100, country.Similarity)
	assert.Equal(t, SourceContact1, country.SuggestedSource)

	city, _ := comparison.Field(FieldCity)
	assert.Equal(t, SourceContact1, city.SuggestedSource)

	_, ok := comparison.Field(FieldNotes)
	assert.False(t, ok)
}

func TestBuildComparison_Errors(t *testing.T) {
	c := newContact("a@b.com", "A", "B")

	_, err := BuildComparison(nil, c, DefaultComparisonFields)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = BuildComparison(c, c, []Field{"unknown"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
